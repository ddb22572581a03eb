package observability

// Metric name prefixes
const (
	MetricPrefix = "smokeybot"
)

// Metric names
const (
	// Discord metrics
	MessagesReadTotal      = MetricPrefix + ".messages.read_total"
	MessagesDeliveredTotal = MetricPrefix + ".delivery.sent_total"
	MessagesDroppedTotal   = MetricPrefix + ".delivery.dropped_total"
	DuplicatesSuppressed   = MetricPrefix + ".delivery.duplicates_suppressed_total"

	// Game metrics
	MonstersSpawnedTotal = MetricPrefix + ".game.spawns_total"
	MonstersCaughtTotal  = MetricPrefix + ".game.catches_total"

	// Emote sync metrics
	EmotesUploadedTotal = MetricPrefix + ".emotes.uploaded_total"
	EmotesSkippedTotal  = MetricPrefix + ".emotes.skipped_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Database metrics
	DatabaseQueriesTotal  = MetricPrefix + ".database.queries_total"
	DatabaseQueryDuration = MetricPrefix + ".database.query_duration"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelProvider  = "provider"
	LabelReason    = "reason"

	// Database labels
	LabelRepository = "repository"
	LabelMethod     = "method"
)

// Message types for Discord
const (
	MessageTypeCommand = "command"
	MessageTypeMessage = "message"
)

// Drop reasons for delivery metrics
const (
	DropReasonEmpty     = "empty"
	DropReasonTooLong   = "too_long"
	DropReasonDuplicate = "duplicate"
	DropReasonSendError = "send_error"
)
