package bot

import (
	"context"
	"strings"
	"time"

	"smokeybot/bot/common"
	"smokeybot/domain/cache"
	"smokeybot/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// prefixCacheTTL bounds how stale a cached guild prefix may get after a
// settings change made outside this process
const prefixCacheTTL = time.Minute

// CommandContext carries everything a prefix command handler needs for one
// invocation
type CommandContext struct {
	Ctx       context.Context
	Session   *discordgo.Session
	Message   *discordgo.MessageCreate
	GuildID   int64
	UserID    int64
	Args      []string
	Responder common.Responder
}

// HandlerFunc handles one prefix command invocation
type HandlerFunc func(*CommandContext)

// Command is one entry in the static command registry
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Handler     HandlerFunc
}

// PrefixSource resolves the configured text-command prefix for a guild
type PrefixSource interface {
	PrefixFor(ctx context.Context, guildID int64) (string, error)
}

// Router dispatches prefix commands from a static registry built once at
// startup. It resolves the guild prefix (cached), tokenizes the message and
// looks the command up; unknown commands are ignored.
type Router struct {
	commands      map[string]*Command
	defaultPrefix string
	prefixes      PrefixSource
	prefixCache   *cache.TTLMap
}

// NewRouter creates an empty router
func NewRouter(defaultPrefix string, prefixes PrefixSource) *Router {
	return &Router{
		commands:      make(map[string]*Command),
		defaultPrefix: defaultPrefix,
		prefixes:      prefixes,
		prefixCache:   cache.NewTTLMap(),
	}
}

// Register adds a command and its aliases to the registry. Registration
// happens once at startup; duplicate names panic early instead of shadowing
// silently at dispatch time.
func (r *Router) Register(cmd Command) {
	names := append([]string{cmd.Name}, cmd.Aliases...)
	for _, name := range names {
		key := strings.ToLower(name)
		if _, exists := r.commands[key]; exists {
			panic("duplicate command registration: " + key)
		}
		c := cmd
		r.commands[key] = &c
	}
}

// Commands returns the registered command names (aliases excluded)
func (r *Router) Commands() []*Command {
	seen := make(map[string]bool)
	var out []*Command
	for _, cmd := range r.commands {
		if !seen[cmd.Name] {
			seen[cmd.Name] = true
			out = append(out, cmd)
		}
	}
	return out
}

// Dispatch routes one incoming message. Messages without a guild are a
// contract violation, logged and dropped.
func (r *Router) Dispatch(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, responder common.Responder) {
	if m.GuildID == "" {
		log.WithField("message_id", m.ID).Error("Dropping message without guild ID")
		return
	}

	guildID, err := common.ParseUserID(m.GuildID)
	if err != nil {
		log.WithField("guild_id", m.GuildID).Error("Dropping message with unparseable guild ID")
		return
	}
	userID, err := common.ParseUserID(m.Author.ID)
	if err != nil {
		log.WithField("user_id", m.Author.ID).Error("Dropping message with unparseable author ID")
		return
	}

	if metrics := observability.GetMetrics(); metrics != nil {
		metrics.RecordMessageRead("guild")
	}

	prefix := r.prefixFor(ctx, guildID)
	if !strings.HasPrefix(m.Content, prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, prefix))
	if len(fields) == 0 {
		return
	}

	cmd, ok := r.commands[strings.ToLower(fields[0])]
	if !ok {
		return
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"user_id":  userID,
		"command":  cmd.Name,
	}).Debug("Dispatching prefix command")

	cmd.Handler(&CommandContext{
		Ctx:       ctx,
		Session:   s,
		Message:   m,
		GuildID:   guildID,
		UserID:    userID,
		Args:      fields[1:],
		Responder: responder,
	})
}

// InvalidatePrefix drops the cached prefix for a guild after a settings
// change so the new prefix takes effect immediately
func (r *Router) InvalidatePrefix(guildID int64) {
	r.prefixCache.Delete(cache.Key("prefix", guildID))
}

// prefixFor returns the guild's prefix, consulting settings through the
// cache. Lookup failures fall back to the default prefix and are not cached.
func (r *Router) prefixFor(ctx context.Context, guildID int64) string {
	key := cache.Key("prefix", guildID)
	if cached, ok := r.prefixCache.Get(key); ok {
		if prefix, ok := cached.(string); ok {
			return prefix
		}
	}

	prefix, err := r.prefixes.PrefixFor(ctx, guildID)
	if err != nil {
		log.WithError(err).WithField("guild_id", guildID).Warn("Failed to resolve guild prefix, using default")
		return r.defaultPrefix
	}
	if prefix == "" {
		prefix = r.defaultPrefix
	}

	r.prefixCache.SetWithTTL(key, prefix, prefixCacheTTL)
	return prefix
}
