package common

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Responder delivers the single user-facing reply of one command
// invocation. Prefix commands answer through the outbound delivery queue,
// slash commands through the interaction response; features only see this
// interface.
type Responder interface {
	Reply(content string)
	ReplyEmbed(embed *discordgo.MessageEmbed)
	ReplyError(message string)
}

// NewInteractionResponder wraps a slash-command interaction as a Responder
func NewInteractionResponder(s *discordgo.Session, i *discordgo.InteractionCreate) Responder {
	return &interactionResponder{session: s, interaction: i}
}

type interactionResponder struct {
	session     *discordgo.Session
	interaction *discordgo.InteractionCreate
}

func (r *interactionResponder) Reply(content string) {
	r.respond(&discordgo.InteractionResponseData{Content: content})
}

func (r *interactionResponder) ReplyEmbed(embed *discordgo.MessageEmbed) {
	r.respond(&discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
}

func (r *interactionResponder) ReplyError(message string) {
	r.respond(&discordgo.InteractionResponseData{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

func (r *interactionResponder) respond(data *discordgo.InteractionResponseData) {
	err := r.session.InteractionRespond(r.interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Errorf("Error sending interaction response: %v", err)
	}
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}
