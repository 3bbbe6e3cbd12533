package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/robalyx/reaper/internal/database/types/enum"
	"go.uber.org/zap"
)

// Ban bans the user from the guild. Without a duration the ban is permanent.
// The user is notified before the ban takes effect.
func (e *Engine) Ban(ctx context.Context, req Request) (result *Result, err error) {
	ctx, span := e.startSpan(ctx, enum.ActionKindBan, req)
	defer func() { err = finishSpan(span, err) }()

	now := e.now()

	var expiry *time.Time
	if req.Duration != nil {
		if expiry, err = e.resolveExpiry(*req.Duration, now); err != nil {
			return nil, err
		}
	}

	// Active tracks whether the ban is in force, so permanent bans are active too
	action, err := e.newAction(enum.ActionKindBan, req, expiry, true, now)
	if err != nil {
		return nil, err
	}

	notified := e.notify(ctx, action)

	if err := e.platform.Ban(ctx, req.GuildID, req.UserID, auditReason(action)); err != nil {
		return nil, fmt.Errorf("%w: failed to ban user: %w", ErrPlatformEffectFailed, err)
	}

	if err := e.persist(ctx, action); err != nil {
		return nil, err
	}

	e.publish(ctx, action)

	e.logger.Info("Issued ban",
		zap.String("actionID", action.ID),
		zap.Uint64("guildID", action.GuildID),
		zap.Uint64("userID", action.UserID),
		zap.Bool("permanent", action.IsPermanent()),
		zap.Bool("notified", notified))

	return &Result{Action: action, Notified: notified}, nil
}
