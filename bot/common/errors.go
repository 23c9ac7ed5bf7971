package common

import (
	"context"
	"errors"
	"fmt"

	"lottocheck/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Ephemeral   bool   // Whether the error message should be ephemeral
	Err         error  // Underlying error
	Context     any    // Additional context for logging
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewSystemError creates an error for system issues
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: "Something went wrong. Please try again later.",
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// FromDrawError converts a draw lookup failure into a BotError whose user
// message names the failure class.
func FromDrawError(err error, ref entities.DrawRef) *BotError {
	botErr := &BotError{
		LogMessage: fmt.Sprintf("draw %s lookup failed", ref),
		Ephemeral:  true,
		Err:        err,
		Context:    map[string]string{"draw": ref.String()},
	}
	botErr.UserMessage = DrawErrorMessage(err, ref)
	return botErr
}

// DrawErrorMessage describes a draw lookup failure to a user
func DrawErrorMessage(err error, ref entities.DrawRef) string {
	switch {
	case errors.Is(err, entities.ErrInvalidDrawID):
		return "Draw numbers must be positive."
	case errors.Is(err, entities.ErrExhaustedSearch):
		return "Could not find any published draw right now. Please try again later."
	case errors.Is(err, context.DeadlineExceeded):
		return "The lottery service took too long to answer. Please try again later."
	case errors.Is(err, entities.ErrNotFound):
		return fmt.Sprintf("Draw %s has not been published yet.", ref)
	case errors.Is(err, entities.ErrMalformedResponse):
		return "The lottery service returned an unexpected response."
	case errors.Is(err, entities.ErrTransport):
		return "The lottery service is unreachable. Please try again later."
	default:
		return "Something went wrong. Please try again later."
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

// HandleError processes a BotError and responds appropriately
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	userID := ""
	if i.Member != nil && i.Member.User != nil {
		userID = i.Member.User.ID
	} else if i.User != nil {
		userID = i.User.ID
	}

	message := "Something went wrong. Please try again later."
	var botErr *BotError
	if errors.As(err, &botErr) {
		log.WithFields(log.Fields{
			"user_id":      userID,
			"command":      i.ApplicationCommandData().Name,
			"error":        botErr.Error(),
			"user_message": botErr.UserMessage,
			"context":      botErr.Context,
		}).Error(botErr.LogMessage)
		message = botErr.UserMessage
	} else {
		log.WithFields(log.Fields{
			"user_id": userID,
			"command": i.ApplicationCommandData().Name,
			"error":   err.Error(),
		}).Error("Unexpected error in bot command")
	}

	if deferred {
		FollowUpWithError(s, i, message)
	} else {
		RespondWithError(s, i, message)
	}
}
