package commands

import (
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/reaper/internal/database/types/enum"
	reaperDiscord "github.com/robalyx/reaper/internal/discord"
	"github.com/robalyx/reaper/internal/moderation"
)

var (
	// ErrUnknownCommand means no handler is registered for the invoked command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrMissingOption means a required command option was empty.
	ErrMissingOption = errors.New("missing option")
	// ErrFeatureDisabled means a kill switch blocks the command, guild or user.
	ErrFeatureDisabled = errors.New("feature disabled")
)

// MissingPermissionError is returned when the invoking member lacks a permission.
type MissingPermissionError struct {
	Permission enum.Permission
}

func (e *MissingPermissionError) Error() string {
	return "missing permission " + e.Permission.String()
}

// ErrorEmbed renders err with guidance for the invoking moderator.
func ErrorEmbed(err error) discord.Embed {
	var permErr *MissingPermissionError
	switch {
	case errors.As(err, &permErr):
		return reaperDiscord.ErrorEmbed("You do not have permission to do this!", fmt.Sprintf(
			"You are missing the `%s` permission. If you believe this is a mistake, please contact your server administrators.",
			permErr.Permission))
	case errors.Is(err, ErrFeatureDisabled):
		return reaperDiscord.ErrorEmbed("This feature is disabled", err.Error())
	case errors.Is(err, ErrMissingOption):
		return reaperDiscord.ErrorEmbed("Missing option", err.Error())
	case errors.Is(err, ErrUnknownCommand):
		return reaperDiscord.ErrorEmbed("Unknown command", "This command is not available.")
	}

	title, hint := moderation.Guidance(err)
	return reaperDiscord.ErrorEmbed(title, hint)
}
