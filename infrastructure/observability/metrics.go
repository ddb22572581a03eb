package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"smokeybot/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics for the bot
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	messagesReadCounter       metric.Int64Counter
	messagesDeliveredCounter  metric.Int64Counter
	messagesDroppedCounter    metric.Int64Counter
	duplicatesCounter         metric.Int64Counter
	spawnsCounter             metric.Int64Counter
	catchesCounter            metric.Int64Counter
	emotesUploadedCounter     metric.Int64Counter
	emotesSkippedCounter      metric.Int64Counter
	natsPublishedCounter      metric.Int64Counter
	databaseQueriesCounter    metric.Int64Counter
	databaseQueryDurationHist metric.Float64Histogram
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(30*time.Second)),
		),
	)

	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("smokeybot")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.messagesReadCounter, err = mp.meter.Int64Counter(
		MessagesReadTotal,
		metric.WithDescription("Total number of Discord messages read"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create messages read counter: %w", err)
	}

	mp.messagesDeliveredCounter, err = mp.meter.Int64Counter(
		MessagesDeliveredTotal,
		metric.WithDescription("Total number of outbound messages delivered"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create messages delivered counter: %w", err)
	}

	mp.messagesDroppedCounter, err = mp.meter.Int64Counter(
		MessagesDroppedTotal,
		metric.WithDescription("Total number of outbound messages dropped"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create messages dropped counter: %w", err)
	}

	mp.duplicatesCounter, err = mp.meter.Int64Counter(
		DuplicatesSuppressed,
		metric.WithDescription("Total number of duplicate messages suppressed before send"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create duplicates suppressed counter: %w", err)
	}

	mp.spawnsCounter, err = mp.meter.Int64Counter(
		MonstersSpawnedTotal,
		metric.WithDescription("Total number of monsters spawned"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create spawns counter: %w", err)
	}

	mp.catchesCounter, err = mp.meter.Int64Counter(
		MonstersCaughtTotal,
		metric.WithDescription("Total number of monsters caught"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create catches counter: %w", err)
	}

	mp.emotesUploadedCounter, err = mp.meter.Int64Counter(
		EmotesUploadedTotal,
		metric.WithDescription("Total number of emotes uploaded to guilds"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create emotes uploaded counter: %w", err)
	}

	mp.emotesSkippedCounter, err = mp.meter.Int64Counter(
		EmotesSkippedTotal,
		metric.WithDescription("Total number of emote uploads skipped"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create emotes skipped counter: %w", err)
	}

	mp.natsPublishedCounter, err = mp.meter.Int64Counter(
		NATSMessagesPublishedTotal,
		metric.WithDescription("Total number of NATS messages published"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create NATS messages published counter: %w", err)
	}

	mp.databaseQueriesCounter, err = mp.meter.Int64Counter(
		DatabaseQueriesTotal,
		metric.WithDescription("Total number of database queries"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create database queries counter: %w", err)
	}

	mp.databaseQueryDurationHist, err = mp.meter.Float64Histogram(
		DatabaseQueryDuration,
		metric.WithDescription("Duration of database queries in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create database query duration histogram: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordMessageRead records a Discord message being read
func (mp *MetricsProvider) RecordMessageRead(messageType string) {
	if !mp.isEnabled() {
		return
	}

	mp.messagesReadCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelType, messageType)),
	)
}

// RecordMessageDelivered records an outbound message being sent
func (mp *MetricsProvider) RecordMessageDelivered(kind string) {
	if !mp.isEnabled() {
		return
	}

	mp.messagesDeliveredCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelType, kind)),
	)
}

// RecordMessageDropped records an outbound message being dropped
func (mp *MetricsProvider) RecordMessageDropped(reason string) {
	if !mp.isEnabled() {
		return
	}

	mp.messagesDroppedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelReason, reason)),
	)
}

// RecordDuplicateSuppressed records a duplicate message rejected at enqueue
func (mp *MetricsProvider) RecordDuplicateSuppressed() {
	if !mp.isEnabled() {
		return
	}

	mp.duplicatesCounter.Add(context.Background(), 1)
}

// RecordMonsterSpawned records a monster spawn
func (mp *MetricsProvider) RecordMonsterSpawned(category string) {
	if !mp.isEnabled() {
		return
	}

	mp.spawnsCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelType, category)),
	)
}

// RecordMonsterCaught records a successful catch
func (mp *MetricsProvider) RecordMonsterCaught(shiny bool) {
	if !mp.isEnabled() {
		return
	}

	kind := "normal"
	if shiny {
		kind = "shiny"
	}
	mp.catchesCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelType, kind)),
	)
}

// RecordEmoteUploaded records an emote upload to a guild
func (mp *MetricsProvider) RecordEmoteUploaded(provider string) {
	if !mp.isEnabled() {
		return
	}

	mp.emotesUploadedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelProvider, provider)),
	)
}

// RecordEmoteSkipped records an emote that was skipped during sync
func (mp *MetricsProvider) RecordEmoteSkipped(provider, reason string) {
	if !mp.isEnabled() {
		return
	}

	mp.emotesSkippedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelProvider, provider),
			attribute.String(LabelReason, reason),
		),
	)
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, eventType)),
	)
}

// RecordDatabaseQuery records a database query with duration
func (mp *MetricsProvider) RecordDatabaseQuery(repository, method string, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(LabelRepository, repository),
		attribute.String(LabelMethod, method),
	)

	mp.databaseQueriesCounter.Add(context.Background(), 1, attrs)
	mp.databaseQueryDurationHist.Record(context.Background(), duration.Seconds(), attrs)
}

// MeasureDatabaseQuery returns a function to measure database query duration
// Usage:
//
//	defer mp.MeasureDatabaseQuery("player", "GetOrCreatePlayer")()
func (mp *MetricsProvider) MeasureDatabaseQuery(repository, method string) func() {
	start := time.Now()
	return func() {
		mp.RecordDatabaseQuery(repository, method, time.Since(start))
	}
}

func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.config.OTelEnabled && mp.meter != nil
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider, nil before initialization
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
