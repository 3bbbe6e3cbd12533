package types

import (
	"time"

	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// Action represents a moderation action issued against a guild member.
type Action struct {
	bun.BaseModel `bun:"table:actions,alias:a"`

	ID          string          `bun:",pk,type:text"`      // UUIDv7 assigned at creation
	Kind        enum.ActionKind `bun:",notnull,type:text"` // Strike, mute, kick or ban
	UserID      uint64          `bun:",notnull"`           // Discord ID of the user the action targets
	ModeratorID uint64          `bun:",notnull"`           // Discord ID of the issuer (the bot itself when automatic)
	GuildID     uint64          `bun:",notnull"`           // Guild the action belongs to
	Reason      string          `bun:",notnull,type:text"` // Free-form reason shown to the user and in logs
	Active      bool            `bun:",notnull"`           // Whether the action still counts or is still in force
	Expiry      *time.Time      `bun:",nullzero"`          // When the action lapses (null for permanent)
	CreatedAt   time.Time       `bun:",notnull"`           // When the action was issued
}

// IsPermanent checks if the action never expires.
func (a *Action) IsPermanent() bool {
	return a.Expiry == nil
}

// IsDue checks if the action is active and its expiry is before the given time.
func (a *Action) IsDue(now time.Time) bool {
	return a.Active && a.Expiry != nil && a.Expiry.Before(now)
}

// ActionUpdate identifies which mutable action fields changed, for audit log rendering.
type ActionUpdate int

const (
	ActionUpdateReason ActionUpdate = iota
	ActionUpdateExpiry
	ActionUpdateExpired
	ActionUpdateRemoved
)
