package enum

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// ErrInvalidActionKind indicates a stored or user supplied action kind is not recognized.
var ErrInvalidActionKind = errors.New("invalid action kind")

// ActionKind represents the kind of moderation action that was issued.
//
//go:generate go tool enumer -type=ActionKind -trimprefix=ActionKind -transform=lower
type ActionKind int

const (
	// ActionKindStrike is a warning that counts towards escalation rules.
	ActionKindStrike ActionKind = iota
	// ActionKindMute grants the guild's mute role until the action expires.
	ActionKindMute
	// ActionKindKick removes the member from the guild. Kicks never stay active.
	ActionKindKick
	// ActionKindBan bans the user from the guild until the action expires.
	ActionKindBan
)

// IsValid reports whether the kind is one of the declared kinds.
func (k ActionKind) IsValid() bool {
	return k.IsAActionKind()
}

// HasOngoingEffect reports whether actions of this kind stay in force until they expire.
func (k ActionKind) HasOngoingEffect() bool {
	switch k {
	case ActionKindMute, ActionKindBan:
		return true
	case ActionKindStrike, ActionKindKick:
		return false
	}
	return false
}

// Value stores the kind as its text name.
func (k ActionKind) Value() (driver.Value, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidActionKind, int(k))
	}
	return k.String(), nil
}

// Scan reads a kind from its text name.
func (k *ActionKind) Scan(src any) error {
	var name string
	switch v := src.(type) {
	case string:
		name = v
	case []byte:
		name = string(v)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidActionKind, src)
	}

	parsed, err := ActionKindString(name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidActionKind, err)
	}

	*k = parsed
	return nil
}
