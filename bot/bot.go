package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"smokeybot/bot/delivery"
	"smokeybot/bot/emotes"
	emotesfeature "smokeybot/bot/features/emotes"
	"smokeybot/bot/features/game"
	"smokeybot/bot/features/items"
	"smokeybot/bot/features/settings"
	"smokeybot/bot/features/status"
	"smokeybot/bot/features/trading"
	"smokeybot/domain/cache"
	"smokeybot/domain/interfaces"
	"smokeybot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token                 string
	GuildID               string // non-empty scopes slash commands to one guild
	DefaultPrefix         string
	GlobalCooldown        time.Duration
	SendInterval          time.Duration
	RateLimitedMultiplier int
	EmoteUploadInterval   time.Duration
	SpawnCheckInterval    time.Duration
	WeatherInterval       time.Duration
	Version               string
}

// Bot manages the Discord session, the outbound delivery queue, the emote
// sync pipeline, the spawn scheduler and all feature modules
type Bot struct {
	config         Config
	session        *discordgo.Session
	uowFactory     interfaces.UnitOfWorkFactory
	eventPublisher interfaces.EventPublisher

	// Shared components
	queue      *delivery.Queue
	emoteQueue *emotes.EmoteQueue
	syncer     *emotes.Syncer
	uploader   *emotes.Uploader
	registry   *services.SpawnRegistry
	weather    *services.Weather
	cooldowns  *cache.CooldownTracker
	router     *Router

	// Feature modules
	game     *game.Feature
	trading  *trading.Feature
	items    *items.Feature
	emotes   *emotesfeature.Feature
	settings *settings.Feature
	status   *status.Feature

	// Worker lifecycle
	workerCancel      context.CancelFunc
	stopSpawnWorker   func()
	stopWeatherWorker func()

	// Rate limit state: the flag only clears once the furthest-out
	// retry window has passed
	rateLimitMu    sync.Mutex
	rateLimitUntil time.Time
}

// New creates a new bot instance with all features and opens the gateway
// connection
func New(config Config, uowFactory interfaces.UnitOfWorkFactory, eventPublisher interfaces.EventPublisher) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAll

	bot := &Bot{
		config:         config,
		session:        dg,
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		registry:       services.NewSpawnRegistry(),
		weather:        services.NewWeather(),
		cooldowns:      cache.NewCooldownTracker(),
		emoteQueue:     emotes.NewEmoteQueue(),
	}

	// Shared components
	bot.queue = delivery.NewQueue(&sessionSender{session: dg}, config.SendInterval, config.RateLimitedMultiplier)
	bot.syncer = emotes.NewSyncer(bot.emoteQueue, &sessionEmojiLister{session: dg},
		emotes.NewSevenTVProvider(), emotes.NewFFZProvider())
	bot.uploader = emotes.NewUploader(bot.emoteQueue, &sessionEmojiCreator{session: dg},
		&queueNotifier{queue: bot.queue}, eventPublisher, config.EmoteUploadInterval)
	bot.router = NewRouter(config.DefaultPrefix, &settingsPrefixSource{uowFactory: uowFactory})

	// Feature modules
	bot.game = game.New(uowFactory, bot.registry, bot.cooldowns, config.GlobalCooldown)
	bot.trading = trading.New(uowFactory)
	bot.items = items.New(uowFactory)
	bot.emotes = emotesfeature.New(bot.syncer)
	bot.settings = settings.New(uowFactory, bot.router.InvalidatePrefix)
	bot.status = status.New(time.Now(), config.Version)

	bot.registerPrefixCommands()

	// Register handlers
	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleGuildCreate)
	dg.AddHandler(bot.handleRateLimit)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Start the queue consumers and background workers
	workerCtx, cancel := context.WithCancel(context.Background())
	bot.workerCancel = cancel
	bot.queue.Start(workerCtx)
	bot.uploader.Start(workerCtx)
	bot.stopSpawnWorker = bot.StartSpawnWorker(workerCtx)
	bot.stopWeatherWorker = bot.StartWeatherWorker(workerCtx)
	log.Info("Background workers started")

	return bot, nil
}

// SpawnAnnouncer returns the announcer the spawn service publishes through
func (b *Bot) SpawnAnnouncer() services.SpawnAnnouncer {
	return &spawnAnnouncer{queue: b.queue}
}

// ChannelResolver returns the resolver the spawn service validates spawn
// channels with
func (b *Bot) ChannelResolver() services.ChannelResolver {
	return &channelResolver{session: b.session}
}

// GetSession returns the Discord session
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	if b.stopSpawnWorker != nil {
		b.stopSpawnWorker()
	}
	if b.stopWeatherWorker != nil {
		b.stopWeatherWorker()
	}
	b.uploader.Stop()
	b.queue.Stop()
	if b.workerCancel != nil {
		b.workerCancel()
	}
	log.Info("Background workers stopped")

	return b.session.Close()
}

// registerPrefixCommands builds the static command registry once at startup
func (b *Bot) registerPrefixCommands() {
	b.router.Register(Command{
		Name:        "catch",
		Aliases:     []string{"c"},
		Description: "Catch the active monster by name",
		Handler: func(c *CommandContext) {
			b.game.Catch(c.Ctx, c.GuildID, c.UserID, strings.Join(c.Args, " "), c.Responder)
		},
	})
	b.router.Register(Command{
		Name:        "info",
		Description: "Show your latest catch, or one by ID",
		Handler: func(c *CommandContext) {
			b.game.Info(c.Ctx, c.GuildID, c.UserID, firstOrEmpty(c.Args), c.Responder)
		},
	})
	b.router.Register(Command{
		Name:        "leaderboard",
		Aliases:     []string{"lb"},
		Description: "Show the top catchers, or `leaderboard currency`",
		Handler: func(c *CommandContext) {
			b.game.Leaderboard(c.Ctx, c.Session, c.GuildID, firstOrEmpty(c.Args), c.Responder)
		},
	})
	b.router.Register(Command{
		Name:        "pokedex",
		Aliases:     []string{"dex"},
		Description: "List your recent catches",
		Handler: func(c *CommandContext) {
			b.game.Pokedex(c.Ctx, c.GuildID, c.UserID, c.Responder)
		},
	})
	b.router.Register(Command{
		Name:        "trade",
		Description: "Trade monsters: offer, accept, cancel, list",
		Handler: func(c *CommandContext) {
			sub, rest := splitSubcommand(c.Args)
			switch sub {
			case "offer":
				b.trading.Offer(c.Ctx, c.GuildID, c.UserID, rest, c.Responder)
			case "accept":
				b.trading.Accept(c.Ctx, c.GuildID, c.UserID, firstOrEmpty(rest), c.Responder)
			case "cancel":
				b.trading.Cancel(c.Ctx, c.GuildID, c.UserID, firstOrEmpty(rest), c.Responder)
			case "list", "":
				b.trading.List(c.Ctx, c.Session, c.GuildID, c.Responder)
			default:
				c.Responder.ReplyError("Usage: trade offer|accept|cancel|list")
			}
		},
	})
	b.router.Register(Command{
		Name:        "item",
		Aliases:     []string{"items"},
		Description: "Evolution items: shop, buy, give, use",
		Handler: func(c *CommandContext) {
			sub, rest := splitSubcommand(c.Args)
			switch sub {
			case "shop", "":
				b.items.Shop(c.Ctx, c.GuildID, c.Responder)
			case "buy":
				b.items.Buy(c.Ctx, c.GuildID, c.UserID, strings.Join(rest, " "), c.Responder)
			case "give":
				b.items.Give(c.Ctx, c.GuildID, c.UserID, rest, c.Responder)
			case "use":
				b.items.Use(c.Ctx, c.GuildID, c.UserID, rest, c.Responder)
			default:
				c.Responder.ReplyError("Usage: item shop|buy|give|use")
			}
		},
	})
	b.router.Register(Command{
		Name:        "sync-emotes",
		Description: "Sync emotes from 7tv or ffz",
		Handler: func(c *CommandContext) {
			b.emotes.Sync(c.Ctx, c.Session, c.Message.GuildID, c.Message.Author.ID,
				c.Message.ChannelID, c.Args, c.Responder)
		},
	})
	b.router.Register(Command{
		Name:        "cancel-sync",
		Description: "Cancel the running emote sync",
		Handler: func(c *CommandContext) {
			b.emotes.Cancel(c.Ctx, c.Session, c.Message.GuildID, c.Message.Author.ID, c.Responder)
		},
	})
	b.router.Register(Command{
		Name:        "smokemon",
		Description: "Enable or disable the catching game",
		Handler: func(c *CommandContext) {
			b.settings.Smokemon(c.Ctx, c.Session, c.Message.GuildID, c.Message.Author.ID, c.Args, c.Responder)
		},
	})
	b.router.Register(Command{
		Name:        "spawn-channel",
		Description: "Set the channel monsters spawn into",
		Handler: func(c *CommandContext) {
			b.settings.SpawnChannel(c.Ctx, c.Session, c.Message.GuildID, c.Message.Author.ID, c.Args, c.Responder)
		},
	})
	b.router.Register(Command{
		Name:        "prefix",
		Description: "Change the command prefix",
		Handler: func(c *CommandContext) {
			b.settings.Prefix(c.Ctx, c.Session, c.Message.GuildID, c.Message.Author.ID, c.Args, c.Responder)
		},
	})
	b.router.Register(Command{
		Name:        "status",
		Description: "Show bot system information",
		Handler: func(c *CommandContext) {
			b.status.Status(c.Responder)
		},
	})
}

// handleMessageCreate feeds guild messages into the prefix router
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Skip messages from our own bot to avoid loops
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	responder := &queueResponder{
		queue:     b.queue,
		channelID: m.ChannelID,
		replyTo:   m.Reference(),
	}
	b.router.Dispatch(context.Background(), s, m, responder)
}

// handleCommands routes slash commands to the appropriate features
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "catch", "info", "leaderboard", "pokedex":
		b.game.HandleCommand(s, i)
	case "trade":
		b.trading.HandleCommand(s, i)
	case "item":
		b.items.HandleCommand(s, i)
	case "sync-emotes", "cancel-sync":
		b.emotes.HandleCommand(s, i)
	case "settings":
		b.settings.HandleCommand(s, i)
	case "status":
		b.status.HandleCommand(s, i)
	}
}

// handleGuildCreate ensures a settings row exists when the bot joins a guild
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	ctx := context.Background()

	guildID, err := strconv.ParseInt(g.ID, 10, 64)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", g.ID, err)
		return
	}

	uow := b.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		return
	}
	defer uow.Rollback()

	guildSettingsService := services.NewGuildSettingsService(
		uow.GuildSettingsRepository(),
	)

	guildSettings, err := guildSettingsService.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		log.Errorf("Failed to track new guild %s (%s): %v", g.Name, g.ID, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Failed to commit transaction: %v", err)
		return
	}

	log.Infof("Bot joined guild: %s (ID: %d, prefix: %s, smokemon: %v)",
		g.Name, guildSettings.GuildID, guildSettings.Prefix, guildSettings.SmokemonEnabled)
}

// handleRateLimit stretches the delivery cadence while Discord reports
// rate limiting and restores it once the window passes
func (b *Bot) handleRateLimit(s *discordgo.Session, r *discordgo.RateLimit) {
	log.WithFields(log.Fields{
		"url":         r.URL,
		"retry_after": r.RetryAfter,
	}).Warn("Discord rate limit hit")

	retryAfter := r.RetryAfter
	if retryAfter <= 0 {
		retryAfter = b.config.SendInterval * time.Duration(b.config.RateLimitedMultiplier)
	}

	// Overlapping events each schedule a timer; only the one whose
	// deadline is still the furthest out may clear the flag
	deadline := time.Now().Add(retryAfter)
	b.rateLimitMu.Lock()
	if deadline.After(b.rateLimitUntil) {
		b.rateLimitUntil = deadline
	}
	b.rateLimitMu.Unlock()

	b.queue.SetRateLimited(true)

	time.AfterFunc(retryAfter, func() {
		b.rateLimitMu.Lock()
		expired := !time.Now().Before(b.rateLimitUntil)
		b.rateLimitMu.Unlock()
		if expired {
			b.queue.SetRateLimited(false)
		}
	})
}

func firstOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func splitSubcommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}
	return strings.ToLower(args[0]), args[1:]
}
