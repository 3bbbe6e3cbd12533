package types

import "errors"

var (
	// ErrActionNotFound indicates no action exists with the requested ID.
	ErrActionNotFound = errors.New("action not found")
	// ErrInvalidEscalation indicates an escalation rule that cannot be stored.
	ErrInvalidEscalation = errors.New("invalid escalation rule")
	// ErrDuplicateEscalation indicates two rules share the same strike count.
	ErrDuplicateEscalation = errors.New("duplicate escalation strike count")
	// ErrInvalidModerationConfig indicates moderation settings that cannot be stored.
	ErrInvalidModerationConfig = errors.New("invalid moderation config")
)
