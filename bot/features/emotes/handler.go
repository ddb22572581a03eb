package emotes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smokeybot/bot/common"
	botemotes "smokeybot/bot/emotes"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Sync registers an emote sync job: args are the provider name and the
// source channel. Progress is reported back to the channel the command
// was issued from.
func (f *Feature) Sync(ctx context.Context, s *discordgo.Session, guildID, userID, notifyChannelID string, args []string, r common.Responder) {
	if !common.CanManageEmojis(s, guildID, userID) {
		r.ReplyError("You need the Manage Emojis permission to sync emotes")
		return
	}

	if len(args) < 2 || strings.TrimSpace(args[0]) == "" || strings.TrimSpace(args[1]) == "" {
		r.ReplyError(fmt.Sprintf("Usage: sync-emotes <provider> <channel> (providers: %s)", f.providerList()))
		return
	}
	provider := strings.ToLower(strings.TrimSpace(args[0]))
	channel := strings.TrimSpace(args[1])

	job, err := f.syncer.StartSync(ctx, guildID, provider, channel, notifyChannelID, userID)
	if err != nil {
		switch {
		case errors.Is(err, botemotes.ErrUnknownProvider):
			r.ReplyError(fmt.Sprintf("Unknown provider %q (providers: %s)", provider, f.providerList()))
		case errors.Is(err, botemotes.ErrSyncInFlight):
			r.ReplyError("A sync is already running for this server. Cancel it first with `cancel-sync`.")
		case errors.Is(err, botemotes.ErrNothingToSync):
			r.Reply("Nothing to sync: no new emotes found for that channel.")
		default:
			log.WithError(err).WithFields(log.Fields{
				"guild":    guildID,
				"provider": provider,
				"channel":  channel,
			}).Error("Failed to start emote sync")
			r.ReplyError("Failed to start emote sync")
		}
		return
	}

	r.Reply(fmt.Sprintf("🔁 Queued %d emotes from %s/%s. They will upload one at a time.",
		job.Total, provider, channel))
}

// Cancel deletes the guild's running sync job. Emotes already uploaded
// stay.
func (f *Feature) Cancel(ctx context.Context, s *discordgo.Session, guildID, userID string, r common.Responder) {
	if !common.CanManageEmojis(s, guildID, userID) {
		r.ReplyError("You need the Manage Emojis permission to cancel a sync")
		return
	}

	if f.syncer.CancelSync(guildID) {
		r.Reply("Emote sync cancelled. Already uploaded emotes were kept.")
	} else {
		r.Reply("No sync is running for this server.")
	}
}
