package moderation

import (
	"context"
	"fmt"

	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/internal/duration"
	"go.uber.org/zap"
)

// EscalationReason is the reason recorded on actions issued by an escalation rule.
func EscalationReason(strikes int) string {
	return fmt.Sprintf("Strike escalation (reached %d strikes)", strikes)
}

// escalate issues the action configured for the strike count the user is about to reach.
// It returns nil when no rule matches. A failed escalated action is recorded on the
// outcome. Only an escalation rule of kind strike or a failed lookup aborts the strike.
func (e *Engine) escalate(ctx context.Context, req Request) (*EscalationOutcome, error) {
	rules, err := e.escalations.List(ctx, req.GuildID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	if len(rules) == 0 {
		return nil, nil
	}

	count, err := e.actions.CountActiveStrikes(ctx, req.GuildID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	reached := count + 1

	var rule *types.EscalationRule
	for _, candidate := range rules {
		if candidate.StrikeCount == reached {
			rule = candidate
			break
		}
	}
	if rule == nil {
		return nil, nil
	}

	outcome := &EscalationOutcome{Rule: rule}

	escalated := Request{
		GuildID:     req.GuildID,
		UserID:      req.UserID,
		ModeratorID: SystemModerator,
		Reason:      EscalationReason(reached),
	}

	switch rule.Kind {
	case enum.ActionKindStrike:
		return nil, fmt.Errorf("%w: rule for %d strikes issues another strike", ErrInvalidEscalationRule, reached)
	case enum.ActionKindMute:
		if rule.Duration == nil {
			outcome.Err = fmt.Errorf("%w: mute rule for %d strikes has no duration", ErrInvalidEscalationRule, reached)
			break
		}
		d := duration.Parse(*rule.Duration)
		escalated.Duration = &d
		outcome.Result, outcome.Err = e.Mute(ctx, escalated)
	case enum.ActionKindKick:
		outcome.Result, outcome.Err = e.Kick(ctx, escalated)
	case enum.ActionKindBan:
		d := duration.Permanent()
		if rule.Duration != nil {
			d = duration.Parse(*rule.Duration)
		}
		escalated.Duration = &d
		outcome.Result, outcome.Err = e.Ban(ctx, escalated)
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidEscalationRule, int(rule.Kind))
	}

	if outcome.Err != nil {
		e.logger.Warn("Strike escalation failed",
			zap.Uint64("guildID", req.GuildID),
			zap.Uint64("userID", req.UserID),
			zap.Int("strikes", reached),
			zap.Stringer("kind", rule.Kind),
			zap.Error(outcome.Err))
	}

	return outcome, nil
}
