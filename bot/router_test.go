package bot

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrefixSource struct {
	mu       sync.Mutex
	prefixes map[int64]string
	err      error
	lookups  int
}

func (s *stubPrefixSource) PrefixFor(_ context.Context, guildID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if s.err != nil {
		return "", s.err
	}
	return s.prefixes[guildID], nil
}

type recordingResponder struct {
	replies []string
	errors  []string
}

func (r *recordingResponder) Reply(content string)                      { r.replies = append(r.replies, content) }
func (r *recordingResponder) ReplyEmbed(_ *discordgo.MessageEmbed)      {}
func (r *recordingResponder) ReplyError(message string)                 { r.errors = append(r.errors, message) }

func newTestMessage(guildID, userID, content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ID:      "555",
			GuildID: guildID,
			Content: content,
			Author:  &discordgo.User{ID: userID},
		},
	}
}

func TestRouter_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		guildPrefix string
		content     string
		wantCalled  bool
		wantArgs    []string
	}{
		{
			name:       "default prefix command",
			content:    "~ping",
			wantCalled: true,
			wantArgs:   []string{},
		},
		{
			name:       "command with args",
			content:    "~ping one  two",
			wantCalled: true,
			wantArgs:   []string{"one", "two"},
		},
		{
			name:       "alias resolves",
			content:    "~p",
			wantCalled: true,
			wantArgs:   []string{},
		},
		{
			name:       "case insensitive lookup",
			content:    "~PING",
			wantCalled: true,
			wantArgs:   []string{},
		},
		{
			name:       "unknown command ignored",
			content:    "~doesnotexist",
			wantCalled: false,
		},
		{
			name:       "non-prefixed message ignored",
			content:    "just chatting",
			wantCalled: false,
		},
		{
			name:       "bare prefix ignored",
			content:    "~  ",
			wantCalled: false,
		},
		{
			name:        "guild prefix overrides default",
			guildPrefix: "p!",
			content:     "p!ping",
			wantCalled:  true,
			wantArgs:    []string{},
		},
		{
			name:        "default prefix ignored when guild prefix set",
			guildPrefix: "p!",
			content:     "~ping",
			wantCalled:  false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			source := &stubPrefixSource{prefixes: map[int64]string{}}
			if tt.guildPrefix != "" {
				source.prefixes[100] = tt.guildPrefix
			}

			var called bool
			var gotArgs []string
			var gotGuildID, gotUserID int64

			router := NewRouter("~", source)
			router.Register(Command{
				Name:    "ping",
				Aliases: []string{"p"},
				Handler: func(ctx *CommandContext) {
					called = true
					gotArgs = ctx.Args
					gotGuildID = ctx.GuildID
					gotUserID = ctx.UserID
				},
			})

			router.Dispatch(context.Background(), nil, newTestMessage("100", "200", tt.content), &recordingResponder{})

			assert.Equal(t, tt.wantCalled, called)
			if tt.wantCalled {
				assert.Equal(t, tt.wantArgs, gotArgs)
				assert.Equal(t, int64(100), gotGuildID)
				assert.Equal(t, int64(200), gotUserID)
			}
		})
	}
}

func TestRouter_Dispatch_NoGuildDropped(t *testing.T) {
	t.Parallel()

	source := &stubPrefixSource{prefixes: map[int64]string{}}
	router := NewRouter("~", source)

	var called bool
	router.Register(Command{Name: "ping", Handler: func(*CommandContext) { called = true }})

	router.Dispatch(context.Background(), nil, newTestMessage("", "200", "~ping"), &recordingResponder{})

	assert.False(t, called)
	assert.Zero(t, source.lookups, "prefix lookup should not run for guild-less messages")
}

func TestRouter_PrefixCaching(t *testing.T) {
	t.Parallel()

	source := &stubPrefixSource{prefixes: map[int64]string{100: "!"}}
	router := NewRouter("~", source)

	var calls int
	router.Register(Command{Name: "ping", Handler: func(*CommandContext) { calls++ }})

	for i := 0; i < 3; i++ {
		router.Dispatch(context.Background(), nil, newTestMessage("100", "200", "!ping"), &recordingResponder{})
	}

	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, source.lookups, "prefix should be resolved once and cached")

	// Settings change: invalidation forces a fresh lookup
	source.mu.Lock()
	source.prefixes[100] = "m!"
	source.mu.Unlock()
	router.InvalidatePrefix(100)

	router.Dispatch(context.Background(), nil, newTestMessage("100", "200", "m!ping"), &recordingResponder{})
	assert.Equal(t, 4, calls)
	assert.Equal(t, 2, source.lookups)
}

func TestRouter_PrefixLookupFailureFallsBack(t *testing.T) {
	t.Parallel()

	source := &stubPrefixSource{err: errors.New("database down")}
	router := NewRouter("~", source)

	var called bool
	router.Register(Command{Name: "ping", Handler: func(*CommandContext) { called = true }})

	router.Dispatch(context.Background(), nil, newTestMessage("100", "200", "~ping"), &recordingResponder{})
	require.True(t, called, "default prefix should apply when the lookup fails")

	// Failures are not cached: the source is consulted again next message
	router.Dispatch(context.Background(), nil, newTestMessage("100", "200", "~ping"), &recordingResponder{})
	assert.Equal(t, 2, source.lookups)
}

func TestRouter_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	router := NewRouter("~", &stubPrefixSource{})
	router.Register(Command{Name: "ping", Handler: func(*CommandContext) {}})

	assert.Panics(t, func() {
		router.Register(Command{Name: "PING", Handler: func(*CommandContext) {}})
	})
}
