package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robalyx/reaper/internal/database/dbretry"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ActionModel handles database operations for moderation actions.
type ActionModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewAction creates a new ActionModel instance.
func NewAction(db *bun.DB, logger *zap.Logger) *ActionModel {
	return &ActionModel{
		db:     db,
		logger: logger.Named("db_action"),
	}
}

// Create inserts a new action record.
func (m *ActionModel) Create(ctx context.Context, action *types.Action) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(action).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create action: %w", err)
		}

		return nil
	})
}

// Get retrieves an action by its ID.
// Returns types.ErrActionNotFound if no action has that ID.
func (m *ActionModel) Get(ctx context.Context, id string) (*types.Action, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Action, error) {
		var action types.Action
		err := m.db.NewSelect().
			Model(&action).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrActionNotFound
			}
			return nil, fmt.Errorf("failed to get action: %w", err)
		}

		return &action, nil
	})
}

// CountActiveStrikes counts the active strikes a user has in a guild.
func (m *ActionModel) CountActiveStrikes(ctx context.Context, guildID, userID uint64) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := m.db.NewSelect().
			Model((*types.Action)(nil)).
			Where("guild_id = ?", guildID).
			Where("user_id = ?", userID).
			Where("kind = ?", enum.ActionKindStrike).
			Where("active").
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count active strikes: %w", err)
		}

		return count, nil
	})
}

// ListDue returns active actions whose expiry is before now, oldest first.
func (m *ActionModel) ListDue(ctx context.Context, now time.Time, limit int) ([]*types.Action, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Action, error) {
		var actions []*types.Action
		err := m.db.NewSelect().
			Model(&actions).
			Where("active").
			Where("expiry IS NOT NULL").
			Where("expiry < ?", now).
			Order("expiry ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list due actions: %w", err)
		}

		return actions, nil
	})
}

// Deactivate marks an action inactive.
// Returns false if the action was already inactive or does not exist.
func (m *ActionModel) Deactivate(ctx context.Context, id string) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewUpdate().
			Model((*types.Action)(nil)).
			Set("active = ?", false).
			Where("id = ?", id).
			Where("active").
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to deactivate action: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// DeactivateActive marks every active action of a kind for a user in a guild inactive.
// Returns the IDs of the deactivated actions.
func (m *ActionModel) DeactivateActive(
	ctx context.Context, guildID, userID uint64, kind enum.ActionKind,
) ([]string, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]string, error) {
		var ids []string
		_, err := m.db.NewUpdate().
			Model((*types.Action)(nil)).
			Set("active = ?", false).
			Where("guild_id = ?", guildID).
			Where("user_id = ?", userID).
			Where("kind = ?", kind).
			Where("active").
			Returning("id").
			Exec(ctx, &ids)
		if err != nil {
			return nil, fmt.Errorf("failed to deactivate %s actions: %w", kind, err)
		}

		return ids, nil
	})
}

// UpdateReason replaces the reason of an action.
func (m *ActionModel) UpdateReason(ctx context.Context, id, reason string) error {
	return m.update(ctx, id, "reason", reason)
}

// UpdateExpiry replaces the expiry of an action. A nil expiry makes the action permanent.
func (m *ActionModel) UpdateExpiry(ctx context.Context, id string, expiry *time.Time) error {
	return m.update(ctx, id, "expiry", expiry)
}

func (m *ActionModel) update(ctx context.Context, id, column string, value any) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		result, err := m.db.NewUpdate().
			Model((*types.Action)(nil)).
			Set("? = ?", bun.Ident(column), value).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update action %s: %w", column, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return types.ErrActionNotFound
		}

		return nil
	})
}

// Delete removes an action record.
func (m *ActionModel) Delete(ctx context.Context, id string) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		result, err := m.db.NewDelete().
			Model((*types.Action)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete action: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return types.ErrActionNotFound
		}

		return nil
	})
}

// LatestByModerator returns the most recent action a moderator issued in a guild.
func (m *ActionModel) LatestByModerator(ctx context.Context, guildID, moderatorID uint64) (*types.Action, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Action, error) {
		var action types.Action
		err := m.db.NewSelect().
			Model(&action).
			Where("guild_id = ?", guildID).
			Where("moderator_id = ?", moderatorID).
			Order("created_at DESC").
			Limit(1).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrActionNotFound
			}
			return nil, fmt.Errorf("failed to get latest action: %w", err)
		}

		return &action, nil
	})
}

// ListByUser returns a user's actions in a guild, newest first.
func (m *ActionModel) ListByUser(
	ctx context.Context, guildID, userID uint64, includeInactive bool, limit int,
) ([]*types.Action, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Action, error) {
		var actions []*types.Action
		query := m.db.NewSelect().
			Model(&actions).
			Where("guild_id = ?", guildID).
			Where("user_id = ?", userID)
		if !includeInactive {
			query = query.Where("active")
		}

		err := query.
			Order("created_at DESC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list user actions: %w", err)
		}

		return actions, nil
	})
}
