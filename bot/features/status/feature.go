package status

import (
	"time"

	"smokeybot/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature answers the status command with a system-info embed
type Feature struct {
	startedAt time.Time
	version   string
}

// New creates the status feature; startedAt anchors the uptime display
func New(startedAt time.Time, version string) *Feature {
	return &Feature{startedAt: startedAt, version: version}
}

// HandleCommand handles the /status slash command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.Status(common.NewInteractionResponder(s, i))
}
