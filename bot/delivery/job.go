package delivery

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Kind discriminates the payload shape of an outbound job
type Kind int

const (
	// KindPlain is a plain text message to a channel
	KindPlain Kind = iota
	// KindEmbed is an embed to a channel
	KindEmbed
	// KindEmbedToChannel is an embed explicitly routed to a channel other
	// than the one the triggering message arrived on
	KindEmbedToChannel
	// KindReplyEmbed is an embed sent as an inline reply
	KindReplyEmbed
	// KindSpawnAnnouncement is a spawn embed; always enqueued at the head
	KindSpawnAnnouncement
)

// Priority levels for queue insertion
const (
	PriorityNormal = 0
	PriorityHigh   = 1
)

// maxContentRunes is Discord's message content limit
const maxContentRunes = 2000

// Job is one outbound message. Exactly the fields its Kind needs are set.
type Job struct {
	Kind      Kind
	ChannelID string
	Content   string
	Embed     *discordgo.MessageEmbed
	ReplyTo   *discordgo.MessageReference
	Priority  int
}

// NewPlain builds a plain text job
func NewPlain(channelID, content string) Job {
	return Job{Kind: KindPlain, ChannelID: channelID, Content: content}
}

// NewEmbed builds an embed job
func NewEmbed(channelID string, embed *discordgo.MessageEmbed) Job {
	return Job{Kind: KindEmbed, ChannelID: channelID, Embed: embed}
}

// NewEmbedToChannel builds an embed job routed to an explicit channel
func NewEmbedToChannel(channelID string, embed *discordgo.MessageEmbed) Job {
	return Job{Kind: KindEmbedToChannel, ChannelID: channelID, Embed: embed}
}

// NewReplyEmbed builds an embed job sent as a reply to a message
func NewReplyEmbed(channelID string, embed *discordgo.MessageEmbed, replyTo *discordgo.MessageReference) Job {
	return Job{Kind: KindReplyEmbed, ChannelID: channelID, Embed: embed, ReplyTo: replyTo}
}

// NewSpawnAnnouncement builds a head-of-queue spawn embed job
func NewSpawnAnnouncement(channelID string, embed *discordgo.MessageEmbed) Job {
	return Job{Kind: KindSpawnAnnouncement, ChannelID: channelID, Embed: embed, Priority: PriorityHigh}
}

// hasEmbed reports whether the job kind carries an embed payload
func (j Job) hasEmbed() bool {
	return j.Kind != KindPlain
}

// valid reports whether the job carries a sendable payload
func (j Job) valid() bool {
	if j.ChannelID == "" {
		return false
	}
	if j.hasEmbed() {
		return j.Embed != nil
	}
	if strings.TrimSpace(j.Content) == "" {
		return false
	}
	return len([]rune(j.Content)) <= maxContentRunes
}

// fingerprint is the identity used for duplicate suppression against the
// previously sent job
func (j Job) fingerprint() string {
	if j.hasEmbed() && j.Embed != nil {
		return j.ChannelID + "\x00" + j.Embed.Title + "\x00" + j.Embed.Description
	}
	return j.ChannelID + "\x00" + j.Content
}
