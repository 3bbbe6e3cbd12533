package moderation

import (
	"context"
	"time"

	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
)

// Platform applies and reverses moderation effects on Discord.
type Platform interface {
	Ban(ctx context.Context, guildID, userID uint64, reason string) error
	Unban(ctx context.Context, guildID, userID uint64, reason string) error
	Kick(ctx context.Context, guildID, userID uint64, reason string) error
	GrantRole(ctx context.Context, guildID, userID, roleID uint64, reason string) error
	RevokeRole(ctx context.Context, guildID, userID, roleID uint64, reason string) error
}

// Notifier tells the target of an action about it through a direct message.
type Notifier interface {
	NotifyAction(ctx context.Context, action *types.Action) error
}

// LogPublisher posts audit entries to the guild's action log channel.
// Implementations return nil when action logging is disabled for the guild.
type LogPublisher interface {
	PublishAction(ctx context.Context, action *types.Action) error
	PublishUpdate(ctx context.Context, action *types.Action, update types.ActionUpdate) error
}

// ActionStore persists actions.
type ActionStore interface {
	Create(ctx context.Context, action *types.Action) error
	Get(ctx context.Context, id string) (*types.Action, error)
	CountActiveStrikes(ctx context.Context, guildID, userID uint64) (int, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]*types.Action, error)
	Deactivate(ctx context.Context, id string) (bool, error)
	DeactivateActive(ctx context.Context, guildID, userID uint64, kind enum.ActionKind) ([]string, error)
	UpdateReason(ctx context.Context, id, reason string) error
	UpdateExpiry(ctx context.Context, id string, expiry *time.Time) error
	Delete(ctx context.Context, id string) error
	LatestByModerator(ctx context.Context, guildID, moderatorID uint64) (*types.Action, error)
	ListByUser(ctx context.Context, guildID, userID uint64, includeInactive bool, limit int) ([]*types.Action, error)
}

// EscalationStore reads a guild's escalation rules.
type EscalationStore interface {
	List(ctx context.Context, guildID uint64) ([]*types.EscalationRule, error)
}

// ConfigStore reads a guild's moderation settings. A nil config means none were saved.
type ConfigStore interface {
	GetModeration(ctx context.Context, guildID uint64) (*types.ModerationConfig, error)
}
