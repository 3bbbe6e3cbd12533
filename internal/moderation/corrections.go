package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"go.uber.org/zap"
)

// HistoryLimit caps how many actions History returns.
const HistoryLimit = 25

// Get returns an action by ID.
func (e *Engine) Get(ctx context.Context, id string) (*types.Action, error) {
	action, err := e.actions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrActionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrActionNotFound, id)
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	return action, nil
}

// LatestByModerator returns the most recent action a moderator issued in a guild.
func (e *Engine) LatestByModerator(ctx context.Context, guildID, moderatorID uint64) (*types.Action, error) {
	action, err := e.actions.LatestByModerator(ctx, guildID, moderatorID)
	if err != nil {
		if errors.Is(err, types.ErrActionNotFound) {
			return nil, ErrActionNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	return action, nil
}

// History lists a user's actions in a guild, newest first.
func (e *Engine) History(
	ctx context.Context, guildID, userID uint64, includeInactive bool,
) ([]*types.Action, error) {
	actions, err := e.actions.ListByUser(ctx, guildID, userID, includeInactive, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	return actions, nil
}

// ExpireManually lifts an active action before its expiry. Bans are lifted and mute
// roles revoked on a best-effort basis, then the action is marked inactive.
func (e *Engine) ExpireManually(ctx context.Context, id string) (*types.Action, error) {
	action, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !action.Active {
		return nil, ErrActionInactive
	}

	if err := e.reverse(ctx, action, nil, "Manually expired"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	deactivated, err := e.actions.Deactivate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	if !deactivated {
		return nil, ErrActionInactive
	}
	action.Active = false

	e.publishUpdate(ctx, action, types.ActionUpdateExpired)
	return action, nil
}

// UpdateReason replaces the reason of an action.
func (e *Engine) UpdateReason(ctx context.Context, id, reason string) (*types.Action, error) {
	action, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := e.actions.UpdateReason(ctx, id, reason); err != nil {
		return nil, e.storeError(id, err)
	}
	action.Reason = reason

	e.publishUpdate(ctx, action, types.ActionUpdateReason)
	return action, nil
}

// UpdateExpiry replaces the expiry of an action. A nil expiry makes it permanent.
// A new expiry must lie in the future.
func (e *Engine) UpdateExpiry(ctx context.Context, id string, expiry *time.Time) (*types.Action, error) {
	if expiry != nil && !expiry.After(e.now()) {
		return nil, ErrInvalidDuration
	}

	action, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := e.actions.UpdateExpiry(ctx, id, expiry); err != nil {
		return nil, e.storeError(id, err)
	}
	action.Expiry = expiry

	e.publishUpdate(ctx, action, types.ActionUpdateExpiry)
	return action, nil
}

// Remove deletes an action record. The platform effect is left untouched.
func (e *Engine) Remove(ctx context.Context, id string) (*types.Action, error) {
	action, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := e.actions.Delete(ctx, id); err != nil {
		return nil, e.storeError(id, err)
	}

	e.publishUpdate(ctx, action, types.ActionUpdateRemoved)
	return action, nil
}

// Unban lifts a user's ban and marks their active bans in the guild inactive.
// It returns the IDs of the deactivated bans.
func (e *Engine) Unban(ctx context.Context, guildID, userID, moderatorID uint64) ([]string, error) {
	reason := fmt.Sprintf("Unbanned by %d", moderatorID)
	if err := e.platform.Unban(ctx, guildID, userID, reason); err != nil {
		return nil, fmt.Errorf("%w: failed to unban user: %w", ErrPlatformEffectFailed, err)
	}

	ids, err := e.actions.DeactivateActive(ctx, guildID, userID, enum.ActionKindBan)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	e.logger.Info("Unbanned user",
		zap.Uint64("guildID", guildID),
		zap.Uint64("userID", userID),
		zap.Uint64("moderatorID", moderatorID),
		zap.Strings("deactivated", ids))

	return ids, nil
}

// Unmute revokes the guild's mute role and marks the user's active mutes inactive.
// It returns the IDs of the deactivated mutes.
func (e *Engine) Unmute(ctx context.Context, guildID, userID, moderatorID uint64) ([]string, error) {
	config, err := e.config.GetModeration(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	if config == nil {
		return nil, ErrNoModerationConfig
	}

	roleID, ok := config.MuteRole()
	if !ok {
		return nil, ErrNoMuteRoleConfigured
	}

	reason := fmt.Sprintf("Unmuted by %d", moderatorID)
	if err := e.platform.RevokeRole(ctx, guildID, userID, roleID, reason); err != nil {
		return nil, fmt.Errorf("%w: failed to revoke mute role: %w", ErrPlatformEffectFailed, err)
	}

	ids, err := e.actions.DeactivateActive(ctx, guildID, userID, enum.ActionKindMute)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	e.logger.Info("Unmuted user",
		zap.Uint64("guildID", guildID),
		zap.Uint64("userID", userID),
		zap.Uint64("moderatorID", moderatorID),
		zap.Strings("deactivated", ids))

	return ids, nil
}

// reverse lifts the ongoing effect of an action. Platform failures are logged and
// never returned. An error means the mute role could not be looked up, and the
// action must stay active so a later attempt can revoke the role.
// muteRoles caches mute role lookups per guild; it may be nil.
func (e *Engine) reverse(
	ctx context.Context, action *types.Action, muteRoles map[uint64]*uint64, reason string,
) error {
	auditText := fmt.Sprintf("%s | %s", reason, action.ID)

	switch action.Kind {
	case enum.ActionKindMute:
		roleID, ok, err := e.muteRole(ctx, action.GuildID, muteRoles)
		if err != nil {
			return err
		}
		if !ok {
			e.logger.Warn("Skipping mute role removal, no mute role configured",
				zap.String("actionID", action.ID),
				zap.Uint64("guildID", action.GuildID))
			return nil
		}
		if err := e.platform.RevokeRole(ctx, action.GuildID, action.UserID, roleID, auditText); err != nil {
			e.logger.Warn("Failed to remove mute role",
				zap.String("actionID", action.ID),
				zap.Uint64("guildID", action.GuildID),
				zap.Uint64("userID", action.UserID),
				zap.Error(err))
		}
	case enum.ActionKindBan:
		if err := e.platform.Unban(ctx, action.GuildID, action.UserID, auditText); err != nil {
			e.logger.Warn("Failed to lift ban",
				zap.String("actionID", action.ID),
				zap.Uint64("guildID", action.GuildID),
				zap.Uint64("userID", action.UserID),
				zap.Error(err))
		}
	case enum.ActionKindStrike, enum.ActionKindKick:
	}
	return nil
}

// muteRole resolves a guild's mute role, consulting and filling cache when it is not nil.
// Lookup failures are returned and never cached.
func (e *Engine) muteRole(ctx context.Context, guildID uint64, cache map[uint64]*uint64) (uint64, bool, error) {
	if cache != nil {
		if roleID, ok := cache[guildID]; ok {
			if roleID == nil {
				return 0, false, nil
			}
			return *roleID, true, nil
		}
	}

	config, err := e.config.GetModeration(ctx, guildID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to load moderation config of guild %d: %w", guildID, err)
	}

	var resolved *uint64
	if roleID, ok := config.MuteRole(); ok {
		resolved = &roleID
	}
	if cache != nil {
		cache[guildID] = resolved
	}
	if resolved == nil {
		return 0, false, nil
	}
	return *resolved, true, nil
}

func (e *Engine) storeError(id string, err error) error {
	if errors.Is(err, types.ErrActionNotFound) {
		return fmt.Errorf("%w: %s", ErrActionNotFound, id)
	}
	return fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
}
