package trading

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"smokeybot/bot/common"
	"smokeybot/domain/services"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Offer opens a trade: args are the recipient mention and the caught
// monster ID being offered
func (f *Feature) Offer(ctx context.Context, guildID, offererID int64, args []string, r common.Responder) {
	if len(args) < 2 {
		r.ReplyError("Usage: trade offer <@user> <monster id>")
		return
	}

	recipientID, ok := common.ParseUserMention(args[0])
	if !ok {
		r.ReplyError("Mention the player you want to trade with")
		return
	}
	caughtMonsterID, err := strconv.ParseInt(strings.TrimSpace(args[1]), 10, 64)
	if err != nil {
		r.ReplyError("Monster ID must be a number (see your pokedex)")
		return
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		r.ReplyError("Failed to create trade")
		return
	}
	defer uow.Rollback()

	tradeService := services.NewTradeService(
		uow.TradeRepository(),
		uow.CaughtMonsterRepository(),
		uow.Publisher(),
	)

	trade, err := tradeService.CreateOffer(ctx, guildID, offererID, recipientID, caughtMonsterID)
	if err != nil {
		if errors.Is(err, services.ErrNotYourMonster) {
			r.ReplyError("You do not own that monster")
			return
		}
		log.WithError(err).Error("Failed to create trade offer")
		r.ReplyError("Failed to create trade")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		r.ReplyError("Failed to create trade")
		return
	}

	r.ReplyEmbed(buildOfferEmbed(trade, offererID, recipientID))
}

// Accept completes an open trade addressed to the caller
func (f *Feature) Accept(ctx context.Context, guildID, userID int64, idArg string, r common.Responder) {
	tradeID, ok := parseTradeID(idArg)
	if !ok {
		r.ReplyError("Usage: trade accept <trade id>")
		return
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		r.ReplyError("Failed to accept trade")
		return
	}
	defer uow.Rollback()

	tradeService := services.NewTradeService(
		uow.TradeRepository(),
		uow.CaughtMonsterRepository(),
		uow.Publisher(),
	)

	trade, err := tradeService.Accept(ctx, tradeID, userID)
	if err != nil {
		replyTradeError(r, err, "Failed to accept trade")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		r.ReplyError("Failed to accept trade")
		return
	}

	r.Reply("✅ Trade accepted! " + common.GetUserMention(trade.OffererID) +
		"'s monster now belongs to " + common.GetUserMention(trade.RecipientID) + ".")
}

// Cancel closes an open trade the caller is a party to
func (f *Feature) Cancel(ctx context.Context, guildID, userID int64, idArg string, r common.Responder) {
	tradeID, ok := parseTradeID(idArg)
	if !ok {
		r.ReplyError("Usage: trade cancel <trade id>")
		return
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		r.ReplyError("Failed to cancel trade")
		return
	}
	defer uow.Rollback()

	tradeService := services.NewTradeService(
		uow.TradeRepository(),
		uow.CaughtMonsterRepository(),
		uow.Publisher(),
	)

	if err := tradeService.Cancel(ctx, tradeID, userID); err != nil {
		replyTradeError(r, err, "Failed to cancel trade")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		r.ReplyError("Failed to cancel trade")
		return
	}

	r.Reply("Trade cancelled.")
}

// List shows the guild's open trades
func (f *Feature) List(ctx context.Context, s *discordgo.Session, guildID int64, r common.Responder) {
	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		r.ReplyError("Failed to list trades")
		return
	}
	defer uow.Rollback()

	tradeService := services.NewTradeService(
		uow.TradeRepository(),
		uow.CaughtMonsterRepository(),
		uow.Publisher(),
	)

	trades, err := tradeService.ListOpen(ctx, guildID)
	if err != nil {
		log.WithError(err).Error("Failed to list open trades")
		r.ReplyError("Failed to list trades")
		return
	}
	if len(trades) == 0 {
		r.Reply("No open trades in this server.")
		return
	}

	r.ReplyEmbed(buildListEmbed(s, guildID, trades))
}

func parseTradeID(arg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(arg))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func replyTradeError(r common.Responder, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrTradeNotFound):
		r.ReplyError("No trade with that ID")
	case errors.Is(err, services.ErrTradeNotOpen):
		r.ReplyError("That trade is no longer open")
	case errors.Is(err, services.ErrNotYourTrade):
		r.ReplyError("You are not a party to that trade")
	default:
		log.WithError(err).Error(fallback)
		r.ReplyError(fallback)
	}
}
