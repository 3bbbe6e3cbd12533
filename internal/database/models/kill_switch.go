package models

import (
	"context"
	"fmt"

	"github.com/robalyx/reaper/internal/database/dbretry"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// KillSwitchModel handles database operations for global kill switches.
type KillSwitchModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewKillSwitch creates a new KillSwitchModel instance.
func NewKillSwitch(db *bun.DB, logger *zap.Logger) *KillSwitchModel {
	return &KillSwitchModel{
		db:     db,
		logger: logger.Named("db_kill_switch"),
	}
}

// List returns every kill switch.
func (m *KillSwitchModel) List(ctx context.Context) ([]*types.KillSwitch, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.KillSwitch, error) {
		var switches []*types.KillSwitch
		err := m.db.NewSelect().
			Model(&switches).
			Order("scope ASC", "target ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list kill switches: %w", err)
		}

		return switches, nil
	})
}

// Set creates or updates a kill switch.
func (m *KillSwitchModel) Set(ctx context.Context, ks *types.KillSwitch) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(ks).
			On("CONFLICT (scope, target) DO UPDATE").
			Set("reason = EXCLUDED.reason").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to set kill switch: %w", err)
		}

		return nil
	})
}

// Clear removes a kill switch. Returns false if it was not set.
func (m *KillSwitchModel) Clear(ctx context.Context, scope enum.KillSwitchScope, target string) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewDelete().
			Model((*types.KillSwitch)(nil)).
			Where("scope = ?", scope).
			Where("target = ?", target).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to clear kill switch: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}
