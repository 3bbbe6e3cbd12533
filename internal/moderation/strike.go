package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/internal/duration"
	"go.uber.org/zap"
)

// Strike issues a strike. A strike without a duration uses the guild's default strike
// duration. Reaching a configured strike count issues the matching escalation first.
func (e *Engine) Strike(ctx context.Context, req Request) (result *Result, err error) {
	ctx, span := e.startSpan(ctx, enum.ActionKindStrike, req)
	defer func() { err = finishSpan(span, err) }()

	now := e.now()

	expiry, err := e.strikeExpiry(ctx, req, now)
	if err != nil {
		return nil, err
	}

	escalation, err := e.escalate(ctx, req)
	if err != nil {
		return nil, err
	}

	action, err := e.newAction(enum.ActionKindStrike, req, expiry, true, now)
	if err != nil {
		return nil, err
	}

	if err := e.persist(ctx, action); err != nil {
		return nil, err
	}

	notified := e.notifyAndPublish(ctx, action)

	e.logger.Info("Issued strike",
		zap.String("actionID", action.ID),
		zap.Uint64("guildID", action.GuildID),
		zap.Uint64("userID", action.UserID),
		zap.Bool("escalated", escalation != nil),
		zap.Bool("notified", notified))

	return &Result{
		Action:     action,
		Escalation: escalation,
		Notified:   notified,
	}, nil
}

func (e *Engine) strikeExpiry(ctx context.Context, req Request, now time.Time) (*time.Time, error) {
	if req.Duration != nil {
		return e.resolveExpiry(*req.Duration, now)
	}

	config, err := e.config.GetModeration(ctx, req.GuildID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	text, ok := config.StrikeDuration()
	if !ok {
		return nil, ErrNoDurationConfigured
	}

	return e.resolveExpiry(duration.Parse(text), now)
}
