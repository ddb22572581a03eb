package delivery

import (
	"context"
	"sync"
	"time"

	"smokeybot/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Sender abstracts the Discord session for outbound messages
type Sender interface {
	SendMessage(channelID, content string) error
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
	SendReplyEmbed(channelID string, embed *discordgo.MessageEmbed, replyTo *discordgo.MessageReference) error
}

// Queue is the single consumer for all outbound Discord messages. Jobs
// are sent one per tick; while the platform reports rate limiting the
// tick interval stretches by the configured multiplier.
type Queue struct {
	sender                Sender
	interval              time.Duration
	rateLimitedMultiplier int

	mu          sync.Mutex
	jobs        []Job
	lastSent    string
	rateLimited bool

	stopChan chan struct{}
	stopOnce sync.Once
	started  bool
}

// NewQueue creates a delivery queue over the given sender
func NewQueue(sender Sender, interval time.Duration, rateLimitedMultiplier int) *Queue {
	if rateLimitedMultiplier < 1 {
		rateLimitedMultiplier = 1
	}
	return &Queue{
		sender:                sender,
		interval:              interval,
		rateLimitedMultiplier: rateLimitedMultiplier,
		stopChan:              make(chan struct{}),
	}
}

// Start launches the consumer goroutine
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	if q.started {
		q.mu.Unlock()
		return
	}
	q.started = true
	q.mu.Unlock()

	log.WithField("interval", q.interval).Info("Starting delivery queue")

	go func() {
		for {
			timer := time.NewTimer(q.currentInterval())
			select {
			case <-ctx.Done():
				timer.Stop()
				log.Info("Delivery queue stopping due to context cancellation")
				return
			case <-q.stopChan:
				timer.Stop()
				log.Info("Delivery queue stopped")
				return
			case <-timer.C:
				q.tick()
			}
		}
	}()
}

// Stop halts the consumer goroutine
func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		close(q.stopChan)
	})
}

// SetRateLimited flags or clears platform rate limiting. While set,
// ticks slow down by the configured multiplier.
func (q *Queue) SetRateLimited(limited bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.rateLimited != limited {
		log.WithField("rateLimited", limited).Warn("Delivery queue rate limit state changed")
	}
	q.rateLimited = limited
}

// RateLimited reports whether the queue is in its slowed state
func (q *Queue) RateLimited() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.rateLimited
}

// Enqueue adds a job to the queue. It reports false when the job is
// rejected: empty or oversized payload, or content identical to the
// previously delivered message.
func (q *Queue) Enqueue(job Job) bool {
	if !job.valid() {
		log.WithFields(log.Fields{
			"kind":    job.Kind,
			"channel": job.ChannelID,
		}).Debug("Rejected invalid outbound job")
		if m := observability.GetMetrics(); m != nil {
			m.RecordMessageDropped(observability.DropReasonEmpty)
		}
		return false
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if job.fingerprint() == q.lastSent {
		log.WithField("channel", job.ChannelID).Debug("Suppressed duplicate outbound job")
		if m := observability.GetMetrics(); m != nil {
			m.RecordDuplicateSuppressed()
		}
		return false
	}

	if job.Priority >= PriorityHigh {
		q.jobs = append([]Job{job}, q.jobs...)
	} else {
		q.jobs = append(q.jobs, job)
	}
	return true
}

// Len returns the number of queued jobs
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

func (q *Queue) currentInterval() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.rateLimited {
		return q.interval * time.Duration(q.rateLimitedMultiplier)
	}
	return q.interval
}

// tick pops and sends at most one job. Failed sends are dropped, not
// retried; the duplicate suppression marker only advances on success.
func (q *Queue) tick() {
	q.mu.Lock()
	if len(q.jobs) == 0 {
		q.mu.Unlock()
		return
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	q.mu.Unlock()

	if err := q.dispatch(job); err != nil {
		log.WithFields(log.Fields{
			"kind":    job.Kind,
			"channel": job.ChannelID,
			"error":   err,
		}).Error("Failed to send outbound message, dropping job")
		if m := observability.GetMetrics(); m != nil {
			m.RecordMessageDropped(observability.DropReasonSendError)
		}
		return
	}

	q.mu.Lock()
	q.lastSent = job.fingerprint()
	q.mu.Unlock()

	if m := observability.GetMetrics(); m != nil {
		m.RecordMessageDelivered(kindLabel(job.Kind))
	}
}

func (q *Queue) dispatch(job Job) error {
	switch job.Kind {
	case KindPlain:
		return q.sender.SendMessage(job.ChannelID, job.Content)
	case KindReplyEmbed:
		return q.sender.SendReplyEmbed(job.ChannelID, job.Embed, job.ReplyTo)
	default:
		// KindEmbed, KindEmbedToChannel and KindSpawnAnnouncement all
		// resolve to a plain embed send once the channel is known
		return q.sender.SendEmbed(job.ChannelID, job.Embed)
	}
}

func kindLabel(k Kind) string {
	switch k {
	case KindPlain:
		return "plain"
	case KindEmbed:
		return "embed"
	case KindEmbedToChannel:
		return "embed_to_channel"
	case KindReplyEmbed:
		return "reply_embed"
	case KindSpawnAnnouncement:
		return "spawn_announcement"
	default:
		return "unknown"
	}
}
