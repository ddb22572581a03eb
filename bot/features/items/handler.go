package items

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"smokeybot/bot/common"
	"smokeybot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const colorItem = 0x9C27B0 // purple

// Shop lists the item catalog and prices
func (f *Feature) Shop(ctx context.Context, guildID int64, r common.Responder) {
	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		r.ReplyError("Failed to load the shop")
		return
	}
	defer uow.Rollback()

	catalog, err := uow.ItemRepository().ListAll(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list items")
		r.ReplyError("Failed to load the shop")
		return
	}

	var sb strings.Builder
	for _, item := range catalog {
		sb.WriteString(fmt.Sprintf("**%s** • %s coins\n", item.Name, common.FormatCurrency(item.Cost)))
	}

	r.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       "Item shop",
		Description: sb.String() + "\nBuy with `item buy <name>`, apply with `item use <name> [monster id]`.",
		Color:       colorItem,
	})
}

// Buy purchases one item for the caller
func (f *Feature) Buy(ctx context.Context, guildID, userID int64, itemName string, r common.Responder) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		r.ReplyError("Usage: item buy <name>")
		return
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		r.ReplyError("Failed to buy item")
		return
	}
	defer uow.Rollback()

	itemService := services.NewItemService(
		uow.ItemRepository(),
		uow.PlayerRepository(),
		uow.CaughtMonsterRepository(),
		uow.MonsterRepository(),
	)

	item, err := itemService.Buy(ctx, guildID, userID, itemName)
	if err != nil {
		replyItemError(r, err, "Failed to buy item")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		r.ReplyError("Failed to buy item")
		return
	}

	r.Reply(fmt.Sprintf("✅ Bought a **%s** for %s coins.", item.Name, common.FormatCurrency(item.Cost)))
}

// Give transfers one held item to another player: args are the recipient
// mention and the item name
func (f *Feature) Give(ctx context.Context, guildID, fromID int64, args []string, r common.Responder) {
	if len(args) < 2 {
		r.ReplyError("Usage: item give <@user> <name>")
		return
	}

	toID, ok := common.ParseUserMention(args[0])
	if !ok {
		r.ReplyError("Mention the player you want to give the item to")
		return
	}
	itemName := strings.TrimSpace(strings.Join(args[1:], " "))

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		r.ReplyError("Failed to give item")
		return
	}
	defer uow.Rollback()

	itemService := services.NewItemService(
		uow.ItemRepository(),
		uow.PlayerRepository(),
		uow.CaughtMonsterRepository(),
		uow.MonsterRepository(),
	)

	item, err := itemService.Give(ctx, guildID, fromID, toID, itemName)
	if err != nil {
		replyItemError(r, err, "Failed to give item")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		r.ReplyError("Failed to give item")
		return
	}

	r.Reply(fmt.Sprintf("✅ Gave a **%s** to %s.", item.Name, common.GetUserMention(toID)))
}

// Use applies a held item to one of the caller's monsters. Without an
// explicit monster ID the latest catch is used.
func (f *Feature) Use(ctx context.Context, guildID, userID int64, args []string, r common.Responder) {
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		r.ReplyError("Usage: item use <name> [monster id]")
		return
	}
	itemName := strings.TrimSpace(args[0])

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		r.ReplyError("Failed to use item")
		return
	}
	defer uow.Rollback()

	var caughtMonsterID int64
	if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(args[1]), 10, 64)
		if err != nil {
			r.ReplyError("Monster ID must be a number")
			return
		}
		caughtMonsterID = id
	} else {
		latest, err := uow.CaughtMonsterRepository().GetLatest(ctx, guildID, userID)
		if err != nil {
			log.WithError(err).Error("Failed to load latest catch")
			r.ReplyError("Failed to use item")
			return
		}
		if latest == nil {
			r.ReplyError("You have no monsters to use that on")
			return
		}
		caughtMonsterID = latest.ID
	}

	itemService := services.NewItemService(
		uow.ItemRepository(),
		uow.PlayerRepository(),
		uow.CaughtMonsterRepository(),
		uow.MonsterRepository(),
	)

	outcome, err := itemService.Use(ctx, guildID, userID, itemName, caughtMonsterID)
	if err != nil {
		replyItemError(r, err, "Failed to use item")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		r.ReplyError("Failed to use item")
		return
	}

	if !outcome.Evolved {
		name := "your monster"
		if outcome.From != nil {
			name = outcome.From.NameEnglish
		}
		r.Reply(fmt.Sprintf("Nothing happened. %s cannot evolve with that item; you keep it.", name))
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "Evolution!",
		Description: fmt.Sprintf("What? **%s** is evolving... it became **%s**!",
			outcome.From.NameEnglish, outcome.Into.NameEnglish),
		Color: colorItem,
	}
	if outcome.Into.ArtworkURL != nil && *outcome.Into.ArtworkURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: *outcome.Into.ArtworkURL}
	}
	r.ReplyEmbed(embed)
}

func replyItemError(r common.Responder, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrItemNotFound):
		r.ReplyError("No item with that name (see `item shop`)")
	case errors.Is(err, services.ErrInsufficientFunds):
		r.ReplyError("You cannot afford that item")
	case errors.Is(err, services.ErrItemNotHeld):
		r.ReplyError("You do not hold that item")
	case errors.Is(err, services.ErrNotYourMonster):
		r.ReplyError("You do not own that monster")
	default:
		log.WithError(err).Error(fallback)
		r.ReplyError(fallback)
	}
}
