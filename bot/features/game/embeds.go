package game

import (
	"fmt"
	"strings"

	"smokeybot/bot/common"
	"smokeybot/domain/entities"
	"smokeybot/domain/services"

	"github.com/bwmarrin/discordgo"
)

// Embed colors
const (
	colorSpawn   = 0x4CAF50 // green
	colorCatch   = 0x2196F3 // blue
	colorShiny   = 0xFFD700 // gold
	colorNeutral = 0x9E9E9E // grey
)

// BuildSpawnEmbed builds the announcement posted when a monster appears.
// The spawn announcer enqueues it at the head of the delivery queue.
func BuildSpawnEmbed(monster *entities.Monster, boosted bool) *discordgo.MessageEmbed {
	description := "A wild monster appeared! Catch it with `catch <name>`."
	if boosted {
		description += "\n🌤️ The weather favors its kind right now."
	}

	embed := &discordgo.MessageEmbed{
		Title:       "A wild monster appeared!",
		Description: description,
		Color:       colorSpawn,
	}
	if monster.ArtworkURL != nil && *monster.ArtworkURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: *monster.ArtworkURL}
	}
	return embed
}

func buildCatchEmbed(userID int64, outcome *services.CatchOutcome) *discordgo.MessageEmbed {
	name := outcome.Monster.NameEnglish
	title := fmt.Sprintf("Gotcha! %s was caught!", name)
	color := colorCatch
	if outcome.Caught.Shiny {
		title = fmt.Sprintf("✨ Gotcha! A shiny %s was caught! ✨", name)
		color = colorShiny
	}

	description := fmt.Sprintf("%s caught a level %d %s and earned **%s** coins.",
		common.GetUserMention(userID), outcome.Caught.Level, name,
		common.FormatCurrency(outcome.Reward))
	if outcome.Duplicate {
		description += "\nYou already own this species, so the reward was halved."
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Monster #%d", outcome.Caught.ID),
		},
	}
	if outcome.Monster.ArtworkURL != nil && *outcome.Monster.ArtworkURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: *outcome.Monster.ArtworkURL}
	}
	return embed
}

func buildInfoEmbed(caught *entities.CaughtMonster, species *entities.Monster) *discordgo.MessageEmbed {
	name := species.NameEnglish
	if caught.Shiny {
		name = "✨ " + name
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Level", Value: fmt.Sprintf("%d", caught.Level), Inline: true},
		{Name: "Type", Value: species.Category, Inline: true},
		{Name: "Caught", Value: common.FormatDiscordTimestamp(caught.CaughtAt, "R"), Inline: true},
	}
	if species.NameJapanese != nil && *species.NameJapanese != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Japanese name", Value: *species.NameJapanese, Inline: true,
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:  name,
		Color:  colorCatch,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Monster #%d", caught.ID),
		},
	}
	if species.ArtworkURL != nil && *species.ArtworkURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: *species.ArtworkURL}
	}
	return embed
}

func buildLeaderboardEmbed(s *discordgo.Session, guildID int64, title string, players []*entities.Player) *discordgo.MessageEmbed {
	guildStr := common.FormatUserID(guildID)
	var sb strings.Builder
	for i, p := range players {
		name := common.GetDisplayNameInt64(s, guildStr, p.UserID)
		sb.WriteString(fmt.Sprintf("**%d.** %s • %d catches, %s coins\n",
			i+1, name, p.Catches, common.FormatCurrency(p.Currency)))
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: sb.String(),
		Color:       colorNeutral,
	}
}

func buildPokedexEmbed(owned []*entities.CaughtMonster, speciesByID map[int64]*entities.Monster) *discordgo.MessageEmbed {
	var sb strings.Builder
	for _, cm := range owned {
		name := "???"
		if species, ok := speciesByID[cm.MonsterID]; ok && species != nil {
			name = species.NameEnglish
		}
		if cm.Shiny {
			name = "✨ " + name
		}
		sb.WriteString(fmt.Sprintf("`#%d` %s (lvl %d)\n", cm.ID, name, cm.Level))
	}

	return &discordgo.MessageEmbed{
		Title:       "Your Pokedex",
		Description: sb.String(),
		Color:       colorNeutral,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Showing your %d most recent catches", len(owned)),
		},
	}
}
