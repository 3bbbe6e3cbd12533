package models

import (
	"context"
	"fmt"

	"github.com/robalyx/reaper/internal/database/dbretry"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// EscalationModel handles database operations for strike escalation rules.
type EscalationModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewEscalation creates a new EscalationModel instance.
func NewEscalation(db *bun.DB, logger *zap.Logger) *EscalationModel {
	return &EscalationModel{
		db:     db,
		logger: logger.Named("db_escalation"),
	}
}

// List returns the escalation rules of a guild ordered by strike count.
func (m *EscalationModel) List(ctx context.Context, guildID uint64) ([]*types.EscalationRule, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.EscalationRule, error) {
		var rules []*types.EscalationRule
		err := m.db.NewSelect().
			Model(&rules).
			Where("guild_id = ?", guildID).
			Order("strike_count ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list escalation rules: %w", err)
		}

		return rules, nil
	})
}

// DeleteAllWithTx removes every rule of a guild inside an existing transaction.
func (m *EscalationModel) DeleteAllWithTx(ctx context.Context, tx bun.IDB, guildID uint64) error {
	_, err := tx.NewDelete().
		Model((*types.EscalationRule)(nil)).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete escalation rules: %w", err)
	}
	return nil
}

// InsertWithTx stores rules inside an existing transaction.
func (m *EscalationModel) InsertWithTx(ctx context.Context, tx bun.IDB, rules []*types.EscalationRule) error {
	if len(rules) == 0 {
		return nil
	}

	_, err := tx.NewInsert().
		Model(&rules).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert escalation rules: %w", err)
	}
	return nil
}

// Upsert stores or replaces a single rule.
func (m *EscalationModel) Upsert(ctx context.Context, rule *types.EscalationRule) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(rule).
			On("CONFLICT (guild_id, strike_count) DO UPDATE").
			Set("kind = EXCLUDED.kind").
			Set("duration = EXCLUDED.duration").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert escalation rule: %w", err)
		}

		return nil
	})
}

// Delete removes the rule for one strike count. Returns false if no rule existed.
func (m *EscalationModel) Delete(ctx context.Context, guildID uint64, strikeCount int) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewDelete().
			Model((*types.EscalationRule)(nil)).
			Where("guild_id = ?", guildID).
			Where("strike_count = ?", strikeCount).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to delete escalation rule: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}
