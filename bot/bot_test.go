package bot

import (
	"testing"
	"time"

	"smokeybot/bot/delivery"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

type nullSender struct{}

func (nullSender) SendMessage(channelID, content string) error { return nil }
func (nullSender) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	return nil
}
func (nullSender) SendReplyEmbed(channelID string, embed *discordgo.MessageEmbed, replyTo *discordgo.MessageReference) error {
	return nil
}

func rateLimitEvent(retryAfter time.Duration) *discordgo.RateLimit {
	return &discordgo.RateLimit{
		TooManyRequests: &discordgo.TooManyRequests{RetryAfter: retryAfter},
		URL:             "/api/test",
	}
}

func TestHandleRateLimit_OverlappingWindowsKeepFlag(t *testing.T) {
	t.Parallel()

	b := &Bot{
		config: Config{SendInterval: time.Millisecond, RateLimitedMultiplier: 10},
		queue:  delivery.NewQueue(nullSender{}, time.Millisecond, 10),
	}

	// A short window followed by a longer overlapping one: the short
	// window's timer must not clear the flag early
	b.handleRateLimit(nil, rateLimitEvent(20*time.Millisecond))
	b.handleRateLimit(nil, rateLimitEvent(300*time.Millisecond))
	assert.True(t, b.queue.RateLimited())

	time.Sleep(120 * time.Millisecond)
	assert.True(t, b.queue.RateLimited(), "still inside the longer retry window")

	assert.Eventually(t, func() bool {
		return !b.queue.RateLimited()
	}, 2*time.Second, 10*time.Millisecond, "flag clears once the longest window passes")
}
