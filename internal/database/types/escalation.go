package types

import (
	"fmt"

	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// EscalationRule maps a strike count to the action issued automatically when a user reaches it.
type EscalationRule struct {
	bun.BaseModel `bun:"table:strike_escalations,alias:se"`

	GuildID     uint64          `bun:",pk"`                // Guild the rule belongs to
	StrikeCount int             `bun:",pk"`                // Number of active strikes that triggers the rule
	Kind        enum.ActionKind `bun:",notnull,type:text"` // Action issued on escalation (never a strike)
	Duration    *string         `bun:",nullzero"`          // Raw duration text for the escalated action
}

// Validate checks the rule can be stored.
func (r *EscalationRule) Validate() error {
	if r.StrikeCount <= 0 {
		return fmt.Errorf("%w: strike count must be positive, got %d", ErrInvalidEscalation, r.StrikeCount)
	}
	if !r.Kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidEscalation, int(r.Kind))
	}
	if r.Kind == enum.ActionKindStrike {
		return fmt.Errorf("%w: a strike cannot escalate into another strike", ErrInvalidEscalation)
	}
	return nil
}

// DurationText returns the configured duration or an empty string.
func (r *EscalationRule) DurationText() string {
	if r.Duration == nil {
		return ""
	}
	return *r.Duration
}
