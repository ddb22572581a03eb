package bot

import (
	"context"
	"fmt"

	"smokeybot/bot/common"
	"smokeybot/bot/delivery"
	"smokeybot/bot/features/game"
	"smokeybot/domain/entities"
	"smokeybot/domain/interfaces"
	"smokeybot/domain/services"
	"smokeybot/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// sessionSender implements delivery.Sender on the Discord session
type sessionSender struct {
	session *discordgo.Session
}

func (s *sessionSender) SendMessage(channelID, content string) error {
	_, err := s.session.ChannelMessageSend(channelID, content)
	return err
}

func (s *sessionSender) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := s.session.ChannelMessageSendEmbed(channelID, embed)
	return err
}

func (s *sessionSender) SendReplyEmbed(channelID string, embed *discordgo.MessageEmbed, replyTo *discordgo.MessageReference) error {
	_, err := s.session.ChannelMessageSendEmbedReply(channelID, embed, replyTo)
	return err
}

// channelResolver implements services.ChannelResolver. State misses fall
// back to the REST API before a channel is declared gone.
type channelResolver struct {
	session *discordgo.Session
}

func (c *channelResolver) ChannelExists(channelID int64) bool {
	id := common.FormatUserID(channelID)
	if _, err := c.session.State.Channel(id); err == nil {
		return true
	}
	if _, err := c.session.Channel(id); err == nil {
		return true
	}
	return false
}

// spawnAnnouncer implements services.SpawnAnnouncer by enqueueing the
// spawn embed at the head of the delivery queue
type spawnAnnouncer struct {
	queue *delivery.Queue
}

func (a *spawnAnnouncer) AnnounceSpawn(guildID, channelID int64, monster *entities.Monster, boosted bool) {
	job := delivery.NewSpawnAnnouncement(common.FormatUserID(channelID), game.BuildSpawnEmbed(monster, boosted))
	if !a.queue.Enqueue(job) {
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"channel_id": channelID,
		}).Warn("Spawn announcement rejected by delivery queue")
		return
	}
	if m := observability.GetMetrics(); m != nil {
		m.RecordMonsterSpawned(monster.Category)
	}
}

// sessionEmojiCreator implements emotes.EmojiCreator
type sessionEmojiCreator struct {
	session *discordgo.Session
}

func (c *sessionEmojiCreator) CreateEmoji(guildID, name, imageDataURI string) error {
	_, err := c.session.GuildEmojiCreate(guildID, &discordgo.EmojiParams{
		Name:  name,
		Image: imageDataURI,
	})
	return err
}

// sessionEmojiLister implements emotes.GuildEmojiLister
type sessionEmojiLister struct {
	session *discordgo.Session
}

func (l *sessionEmojiLister) GuildEmojis(guildID string) ([]*discordgo.Emoji, error) {
	return l.session.GuildEmojis(guildID)
}

// queueNotifier implements emotes.Notifier through the delivery queue so
// sync progress notices obey the same pacing as everything else
type queueNotifier struct {
	queue *delivery.Queue
}

func (n *queueNotifier) Notify(channelID, message string) {
	n.queue.Enqueue(delivery.NewPlain(channelID, message))
}

// queueResponder implements common.Responder for prefix commands: replies
// go through the outbound delivery queue
type queueResponder struct {
	queue     *delivery.Queue
	channelID string
	replyTo   *discordgo.MessageReference
}

func (r *queueResponder) Reply(content string) {
	r.queue.Enqueue(delivery.NewPlain(r.channelID, content))
}

func (r *queueResponder) ReplyEmbed(embed *discordgo.MessageEmbed) {
	r.queue.Enqueue(delivery.NewReplyEmbed(r.channelID, embed, r.replyTo))
}

func (r *queueResponder) ReplyError(message string) {
	r.queue.Enqueue(delivery.NewPlain(r.channelID, fmt.Sprintf("❌ %s", message)))
}

// settingsPrefixSource implements PrefixSource against guild settings
// through a short read-only unit of work
type settingsPrefixSource struct {
	uowFactory interfaces.UnitOfWorkFactory
}

func (p *settingsPrefixSource) PrefixFor(ctx context.Context, guildID int64) (string, error) {
	uow := p.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	guildSettingsService := services.NewGuildSettingsService(
		uow.GuildSettingsRepository(),
	)
	settings, err := guildSettingsService.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		return "", err
	}

	// Settings rows are created on first contact; commit so the default
	// row sticks instead of being re-created every lookup
	if err := uow.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return settings.Prefix, nil
}
