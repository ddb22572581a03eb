package status

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"smokeybot/bot/common"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
	log "github.com/sirupsen/logrus"
)

const colorStatus = 0x607D8B // blue grey

// Status replies with the bot's system information. gopsutil failures
// degrade individual fields instead of failing the command.
func (f *Feature) Status(r common.Responder) {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Uptime", Value: common.FormatDuration(time.Since(f.startedAt)), Inline: true},
		{Name: "Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
		{Name: "Go", Value: runtime.Version(), Inline: true},
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "CPU", Value: fmt.Sprintf("%.1f%%", percents[0]), Inline: true,
		})
	} else if err != nil {
		log.WithError(err).Debug("Failed to read CPU usage")
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name: "Memory (RSS)", Value: formatBytes(mem.RSS), Inline: true,
			})
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:  "SmokeyBot status",
		Color:  colorStatus,
		Fields: fields,
	}
	if f.version != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Version " + f.version}
	}

	r.ReplyEmbed(embed)
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
