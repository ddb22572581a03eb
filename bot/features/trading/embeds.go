package trading

import (
	"fmt"
	"strings"

	"smokeybot/bot/common"
	"smokeybot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

const colorTrade = 0xFF9800 // orange

func buildOfferEmbed(trade *entities.Trade, offererID, recipientID int64) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Trade offer created",
		Description: fmt.Sprintf("%s offers monster `#%d` to %s.\n\nAccept with `trade accept %s`\nCancel with `trade cancel %s`",
			common.GetUserMention(offererID), trade.CaughtMonsterID,
			common.GetUserMention(recipientID), trade.ID, trade.ID),
		Color: colorTrade,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Trade " + trade.ID.String(),
		},
	}
}

func buildListEmbed(s *discordgo.Session, guildID int64, trades []*entities.Trade) *discordgo.MessageEmbed {
	guildStr := common.FormatUserID(guildID)
	var sb strings.Builder
	for _, t := range trades {
		offerer := common.GetDisplayNameInt64(s, guildStr, t.OffererID)
		recipient := common.GetDisplayNameInt64(s, guildStr, t.RecipientID)
		sb.WriteString(fmt.Sprintf("`%s`\n%s → %s, monster `#%d`, opened %s\n\n",
			t.ID, offerer, recipient, t.CaughtMonsterID,
			common.FormatDiscordTimestamp(t.CreatedAt, "R")))
	}

	return &discordgo.MessageEmbed{
		Title:       "Open trades",
		Description: sb.String(),
		Color:       colorTrade,
	}
}
