package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/robalyx/reaper/internal/database/types/enum"
	"go.uber.org/zap"
)

// Mute grants the guild's mute role until the duration passes.
// A mute without a duration is permanent.
func (e *Engine) Mute(ctx context.Context, req Request) (result *Result, err error) {
	ctx, span := e.startSpan(ctx, enum.ActionKindMute, req)
	defer func() { err = finishSpan(span, err) }()

	config, err := e.config.GetModeration(ctx, req.GuildID)
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

	now := e.now()

	var expiry *time.Time
	if req.Duration != nil {
		if expiry, err = e.resolveExpiry(*req.Duration, now); err != nil {
			return nil, err
		}
	}

	action, err := e.newAction(enum.ActionKindMute, req, expiry, true, now)
	if err != nil {
		return nil, err
	}

	if err := e.platform.GrantRole(ctx, req.GuildID, req.UserID, roleID, auditReason(action)); err != nil {
		return nil, fmt.Errorf("%w: failed to grant mute role: %w", ErrPlatformEffectFailed, err)
	}

	if err := e.persist(ctx, action); err != nil {
		return nil, err
	}

	notified := e.notifyAndPublish(ctx, action)

	e.logger.Info("Issued mute",
		zap.String("actionID", action.ID),
		zap.Uint64("guildID", action.GuildID),
		zap.Uint64("userID", action.UserID),
		zap.Bool("notified", notified))

	return &Result{Action: action, Notified: notified}, nil
}
