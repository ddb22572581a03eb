package emotes

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"smokeybot/domain/events"
	"smokeybot/domain/interfaces"
	"smokeybot/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// maxEmoteBytes is Discord's emoji upload size limit
const maxEmoteBytes = 256 * 1024

// EmojiCreator abstracts the Discord emoji upload call
type EmojiCreator interface {
	CreateEmoji(guildID, name, imageDataURI string) error
}

// Notifier delivers progress notices to the channel a sync was
// requested from
type Notifier interface {
	Notify(channelID, message string)
}

// Uploader drains the emote queue at a fixed cadence: one emote upload
// per tick across all guilds.
type Uploader struct {
	queue     *EmoteQueue
	creator   EmojiCreator
	notifier  Notifier
	publisher interfaces.EventPublisher
	client    *http.Client
	interval  time.Duration

	stopChan chan struct{}
	stopOnce sync.Once
	started  bool
	mu       sync.Mutex
}

// NewUploader creates an uploader over the shared emote queue
func NewUploader(queue *EmoteQueue, creator EmojiCreator, notifier Notifier, publisher interfaces.EventPublisher, interval time.Duration) *Uploader {
	return &Uploader{
		queue:     queue,
		creator:   creator,
		notifier:  notifier,
		publisher: publisher,
		client:    &http.Client{Timeout: 15 * time.Second},
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start launches the uploader goroutine
func (u *Uploader) Start(ctx context.Context) {
	u.mu.Lock()
	if u.started {
		u.mu.Unlock()
		return
	}
	u.started = true
	u.mu.Unlock()

	log.WithField("interval", u.interval).Info("Starting emote uploader")

	go func() {
		ticker := time.NewTicker(u.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Emote uploader stopping due to context cancellation")
				return
			case <-u.stopChan:
				log.Info("Emote uploader stopped")
				return
			case <-ticker.C:
				u.tick(ctx)
			}
		}
	}()
}

// Stop halts the uploader goroutine
func (u *Uploader) Stop() {
	u.stopOnce.Do(func() {
		close(u.stopChan)
	})
}

// tick processes at most one emote from the oldest registered job
func (u *Uploader) tick(ctx context.Context) {
	job := u.queue.First()
	if job == nil {
		return
	}

	emote, ok := u.queue.PopEmote(job.GuildID)
	if !ok {
		u.complete(job)
		return
	}

	logger := log.WithFields(log.Fields{
		"guild":    job.GuildID,
		"provider": job.Provider,
		"emote":    emote.Name,
	})

	if err := u.upload(ctx, job.GuildID, emote); err != nil {
		if isTerminalEmojiError(err) {
			logger.WithError(err).Warn("Emote sync aborted for guild")
			u.queue.Remove(job.GuildID)
			u.notifier.Notify(job.NotifyChannelID, fmt.Sprintf(
				"Emote sync stopped: %s. Uploaded %d emotes before stopping.",
				terminalReason(err), job.Uploaded))
			return
		}

		job.Skipped++
		logger.WithError(err).Error("Failed to upload emote, skipping")
		if m := observability.GetMetrics(); m != nil {
			m.RecordEmoteSkipped(job.Provider, "upload_error")
		}
		u.completeIfDrained(job)
		return
	}

	job.Uploaded++
	logger.Debug("Uploaded emote")
	if m := observability.GetMetrics(); m != nil {
		m.RecordEmoteUploaded(job.Provider)
	}
	u.completeIfDrained(job)
}

// completeIfDrained finishes the job in the tick that consumed its last
// emote, so an N-emote job is gone after exactly N ticks
func (u *Uploader) completeIfDrained(job *SyncJob) {
	if u.queue.PendingCount(job.GuildID) == 0 {
		u.complete(job)
	}
}

// complete removes a drained job, notifies the requester and publishes
// the completion event
func (u *Uploader) complete(job *SyncJob) {
	if !u.queue.Remove(job.GuildID) {
		return
	}

	log.WithFields(log.Fields{
		"guild":    job.GuildID,
		"provider": job.Provider,
		"uploaded": job.Uploaded,
		"skipped":  job.Skipped,
	}).Info("Emote sync completed")

	u.notifier.Notify(job.NotifyChannelID, fmt.Sprintf(
		"Emote sync complete: %d uploaded, %d skipped.", job.Uploaded, job.Skipped))

	guildID, err := strconv.ParseInt(job.GuildID, 10, 64)
	if err != nil {
		log.WithField("guild", job.GuildID).Error("Invalid guild ID on completed sync job")
		return
	}
	if err := u.publisher.Publish(events.EmoteSyncCompletedEvent{
		GuildID:  guildID,
		Provider: job.Provider,
		Uploaded: job.Uploaded,
		Skipped:  job.Skipped,
	}); err != nil {
		log.WithError(err).Error("Failed to publish emote sync completion event")
	}
}

// upload downloads the emote image and creates the guild emoji
func (u *Uploader) upload(ctx context.Context, guildID string, emote Emote) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, emote.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download emote image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxEmoteBytes+1))
	if err != nil {
		return fmt.Errorf("failed to read emote image: %w", err)
	}
	if len(data) > maxEmoteBytes {
		return fmt.Errorf("emote image exceeds %d bytes", maxEmoteBytes)
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", emote.MediaType, base64.StdEncoding.EncodeToString(data))
	if err := u.creator.CreateEmoji(guildID, emote.Name, dataURI); err != nil {
		return fmt.Errorf("failed to create emoji %q: %w", emote.Name, err)
	}
	return nil
}

// isTerminalEmojiError reports whether the failure dooms the whole job:
// the guild is out of emoji slots or the bot lacks permission
func isTerminalEmojiError(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeMaximumNumberOfEmojisReached,
			discordgo.ErrCodeMissingPermissions:
			return true
		}
	}
	return strings.Contains(err.Error(), "Maximum number of emojis reached")
}

func terminalReason(err error) string {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil &&
		restErr.Message.Code == discordgo.ErrCodeMissingPermissions {
		return "missing emoji permissions"
	}
	return "the guild's emoji limit was reached"
}
