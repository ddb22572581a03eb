package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"smokeybot/bot"
	"smokeybot/config"
	"smokeybot/database"
	"smokeybot/domain/interfaces"
	"smokeybot/infrastructure"
	"smokeybot/infrastructure/observability"
)

// Version is stamped at build time via -ldflags
var Version = "dev"

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting smokeybot...")

	// Load configuration
	cfg := config.Get()

	// Initialize metrics first so everything started after can record
	if cfg.OTelEnabled {
		log.Println("Initializing metrics...")
		if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}
		log.Println("Metrics initialized successfully")
	}

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event publisher. Without NATS configured events stay local.
	var eventPublisher interfaces.EventPublisher
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		log.Printf("Connecting to NATS at %s...", cfg.NATSServers)
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		natsPublisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
		if err := natsPublisher.EnsureDomainEventStream(); err != nil {
			return fmt.Errorf("failed to ensure domain event stream: %w", err)
		}
		eventPublisher = natsPublisher
		log.Println("NATS connection established successfully")
	} else {
		log.Println("NATS not configured, domain events disabled")
		eventPublisher = infrastructure.NewNoopEventPublisher()
	}

	// Initialize unit of work factory
	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:                 cfg.DiscordToken,
		GuildID:               cfg.GuildID,
		DefaultPrefix:         cfg.DefaultPrefix,
		GlobalCooldown:        cfg.GlobalCooldown,
		SendInterval:          cfg.SendInterval,
		RateLimitedMultiplier: cfg.RateLimitedMultiplier,
		EmoteUploadInterval:   cfg.EmoteUploadInterval,
		SpawnCheckInterval:    cfg.SpawnCheckInterval,
		WeatherInterval:       cfg.WeatherInterval,
		Version:               Version,
	}
	discordBot, err := bot.New(botConfig, uowFactory, eventPublisher)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.OTelEnabled {
		if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
			log.Printf("Error shutting down metrics: %v", err)
		}
	}

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
