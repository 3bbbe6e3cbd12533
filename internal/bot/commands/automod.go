package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/internal/moderation"
	"go.uber.org/zap"
)

// FeatureAutomod is the kill switch name of the automod strike trigger.
const FeatureAutomod = "automod"

// automodKeyword marks automod rules whose violations are struck.
const automodKeyword = "strike"

// IsStrikeRule reports whether violating the named automod rule issues a strike.
func IsStrikeRule(ruleName string) bool {
	return strings.Contains(strings.ToLower(ruleName), automodKeyword)
}

// HandleAutomod strikes a user who violated an automod rule whose name contains "strike".
// It returns a nil result when the rule does not strike or a kill switch blocks it.
func (h *Handler) HandleAutomod(
	ctx context.Context, guildID, userID uint64, ruleName string,
) (*moderation.Result, error) {
	if !IsStrikeRule(ruleName) {
		return nil, nil
	}

	if err := h.checkKillSwitches(ctx, FeatureAutomod, guildID, userID); err != nil {
		h.logger.Debug("Automod strike blocked",
			zap.Uint64("guildID", guildID),
			zap.Uint64("userID", userID),
			zap.Error(err))
		return nil, nil
	}

	result, err := h.moderator.Issue(ctx, enum.ActionKindStrike, moderation.Request{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderation.SystemModerator,
		Reason:      fmt.Sprintf("Violated \"%s\" automod rule", ruleName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to strike automod violation: %w", err)
	}

	return result, nil
}
