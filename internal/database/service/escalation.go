package service

import (
	"context"
	"fmt"

	"github.com/robalyx/reaper/internal/database/dbretry"
	"github.com/robalyx/reaper/internal/database/models"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// EscalationService handles escalation rule business logic.
type EscalationService struct {
	db     *bun.DB
	model  *models.EscalationModel
	logger *zap.Logger
}

// NewEscalation creates a new escalation service.
func NewEscalation(db *bun.DB, model *models.EscalationModel, logger *zap.Logger) *EscalationService {
	return &EscalationService{
		db:     db,
		model:  model,
		logger: logger.Named("escalation_service"),
	}
}

// List returns the escalation rules of a guild ordered by strike count.
func (s *EscalationService) List(ctx context.Context, guildID uint64) ([]*types.EscalationRule, error) {
	return s.model.List(ctx, guildID)
}

// Replace swaps the full rule set of a guild in one transaction.
// Readers see either the old set or the new one, never a mix.
func (s *EscalationService) Replace(ctx context.Context, guildID uint64, rules []*types.EscalationRule) error {
	if err := ValidateEscalations(guildID, rules); err != nil {
		return err
	}

	err := dbretry.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		if err := s.model.DeleteAllWithTx(ctx, tx, guildID); err != nil {
			return err
		}
		return s.model.InsertWithTx(ctx, tx, rules)
	})
	if err != nil {
		return fmt.Errorf("failed to replace escalation rules: %w", err)
	}

	s.logger.Info("Replaced escalation rules",
		zap.Uint64("guildID", guildID),
		zap.Int("count", len(rules)))

	return nil
}

// Set stores a single rule, replacing any rule with the same strike count.
func (s *EscalationService) Set(ctx context.Context, rule *types.EscalationRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	return s.model.Upsert(ctx, rule)
}

// Clear removes the rule for one strike count.
func (s *EscalationService) Clear(ctx context.Context, guildID uint64, strikeCount int) (bool, error) {
	return s.model.Delete(ctx, guildID, strikeCount)
}

// ValidateEscalations checks a full rule set before it replaces the stored one.
// Rules are stamped with guildID.
func ValidateEscalations(guildID uint64, rules []*types.EscalationRule) error {
	seen := make(map[int]struct{}, len(rules))
	for _, rule := range rules {
		rule.GuildID = guildID
		if err := rule.Validate(); err != nil {
			return err
		}
		if _, ok := seen[rule.StrikeCount]; ok {
			return fmt.Errorf("%w: %d", types.ErrDuplicateEscalation, rule.StrikeCount)
		}
		seen[rule.StrikeCount] = struct{}{}
	}
	return nil
}
