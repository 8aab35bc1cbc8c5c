package common

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"guildledger/domain/apperr"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const genericFailure = "Something went wrong. Please try again later."

// UserMessage turns an error from the ledger core into text safe to show a member.
// Persistence failures never echo internals and always read as a failure.
func UserMessage(err error) string {
	var appErr *apperr.AppError
	if !errors.As(err, &appErr) {
		return genericFailure
	}

	switch appErr.Kind {
	case apperr.KindPersistence:
		return "Your request could not be saved. Please try again."
	case apperr.KindValidation:
		switch appErr.Reason {
		case apperr.ReasonRoundNotFound:
			return "That round no longer exists."
		case apperr.ReasonRoundFinished:
			return "That round is already over."
		}
	case apperr.KindUnauthorized:
		switch appErr.Reason {
		case apperr.ReasonNotAdmin:
			return "You need the Manage Server permission to do that."
		case apperr.ReasonNotBanker:
			return "Only bankers can do that."
		case apperr.ReasonNotRoundOwner:
			return "That isn't your round."
		}
	}
	return sentence(appErr.Message)
}

func sentence(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return genericFailure
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "❌ " + message,
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
		Content: "❌ " + message,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError logs err at a level matching its kind and tells the member what went wrong
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	fields := log.Fields{
		"guild_id": i.GuildID,
		"kind":     apperr.KindOf(err),
		"reason":   apperr.ReasonOf(err),
	}
	if user := InteractionUser(i); user != nil {
		fields["user_id"] = user.ID
	}

	switch apperr.KindOf(err) {
	case apperr.KindPersistence, "":
		log.WithFields(fields).WithError(err).Error("Command failed")
	default:
		log.WithFields(fields).Debug(err.Error())
	}

	message := UserMessage(err)
	if deferred {
		FollowUpWithError(s, i, message)
	} else {
		RespondWithError(s, i, message)
	}
}
