package moderation

import "errors"

var (
	// ErrNoDurationConfigured means a strike had no duration and the guild has no default.
	ErrNoDurationConfigured = errors.New("no strike duration configured")
	// ErrNoMuteRoleConfigured means the guild has moderation settings but no mute role.
	ErrNoMuteRoleConfigured = errors.New("no mute role configured")
	// ErrNoModerationConfig means the guild never saved moderation settings.
	ErrNoModerationConfig = errors.New("no moderation configuration")
	// ErrInvalidEscalationRule means a stored escalation rule cannot be applied.
	ErrInvalidEscalationRule = errors.New("invalid escalation rule")
	// ErrInvalidDuration means a non-permanent duration does not end in the future.
	ErrInvalidDuration = errors.New("duration must end in the future")
	// ErrPlatformEffectFailed means Discord rejected the ban, kick or role change.
	ErrPlatformEffectFailed = errors.New("platform effect failed")
	// ErrPersistenceFailed means the action store could not be read or written.
	ErrPersistenceFailed = errors.New("persistence failed")
	// ErrActionNotFound means no action has the requested ID.
	ErrActionNotFound = errors.New("action not found")
	// ErrActionInactive means the action is no longer in force.
	ErrActionInactive = errors.New("action is no longer active")
)

// Guidance returns a title and a hint that tell a moderator how to resolve err.
// Unknown errors map to a generic internal error message.
func Guidance(err error) (string, string) {
	switch {
	case errors.Is(err, ErrNoDurationConfigured):
		return "No duration provided",
			"Provide a duration, or ask an administrator to configure a default strike duration."
	case errors.Is(err, ErrNoModerationConfig):
		return "Moderation is not configured",
			"An administrator needs to set up moderation for this server before this action can be used."
	case errors.Is(err, ErrNoMuteRoleConfigured):
		return "No mute role configured",
			"An administrator needs to choose a mute role in the moderation configuration."
	case errors.Is(err, ErrInvalidEscalationRule):
		return "Invalid escalation rule",
			"One of this server's strike escalation rules is invalid. Ask an administrator to review them."
	case errors.Is(err, ErrInvalidDuration):
		return "Invalid duration",
			"Durations look like `30m`, `12h`, `7d` or `1mo 2w` and must be longer than zero."
	case errors.Is(err, ErrPlatformEffectFailed):
		return "Discord rejected the action",
			"Check that the bot's role is above the target's highest role and that it has the required permissions."
	case errors.Is(err, ErrActionNotFound):
		return "Action not found",
			"No action with that ID exists in this server. Check the ID and try again."
	case errors.Is(err, ErrActionInactive):
		return "Action already inactive",
			"This action has already expired or was lifted."
	}

	return "Something went wrong",
		"The action could not be completed because of an internal error. Please try again later."
}
