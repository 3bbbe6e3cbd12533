package moderation

import (
	"context"
	"fmt"

	"github.com/robalyx/reaper/internal/database/types/enum"
	"go.uber.org/zap"
)

// Kick removes the user from the guild. The user is notified first because a
// direct message usually cannot reach someone who no longer shares a guild with the bot.
// Kicks have no ongoing effect and are recorded inactive.
func (e *Engine) Kick(ctx context.Context, req Request) (result *Result, err error) {
	ctx, span := e.startSpan(ctx, enum.ActionKindKick, req)
	defer func() { err = finishSpan(span, err) }()

	action, err := e.newAction(enum.ActionKindKick, req, nil, false, e.now())
	if err != nil {
		return nil, err
	}

	notified := e.notify(ctx, action)

	if err := e.platform.Kick(ctx, req.GuildID, req.UserID, auditReason(action)); err != nil {
		return nil, fmt.Errorf("%w: failed to kick member: %w", ErrPlatformEffectFailed, err)
	}

	if err := e.persist(ctx, action); err != nil {
		return nil, err
	}

	e.publish(ctx, action)

	e.logger.Info("Issued kick",
		zap.String("actionID", action.ID),
		zap.Uint64("guildID", action.GuildID),
		zap.Uint64("userID", action.UserID),
		zap.Bool("notified", notified))

	return &Result{Action: action, Notified: notified}, nil
}
