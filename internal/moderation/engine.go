// Package moderation issues moderation actions, escalates repeated strikes
// and lifts actions once they expire.
package moderation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/internal/duration"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// SystemModerator marks a request issued by the bot itself, such as an escalation or an automod trigger.
const SystemModerator uint64 = 0

// Dependencies are the collaborators an Engine needs.
type Dependencies struct {
	Actions     ActionStore
	Escalations EscalationStore
	Config      ConfigStore
	Platform    Platform
	Notifier    Notifier
	Logs        LogPublisher
	// BotUserID is recorded as the moderator of system issued actions.
	BotUserID uint64
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// Request describes an action to issue.
type Request struct {
	GuildID     uint64
	UserID      uint64
	ModeratorID uint64 // SystemModerator when issued automatically
	Reason      string
	Duration    *duration.Duration // nil when the caller gave no duration
}

// Result is the outcome of a successfully issued action.
type Result struct {
	Action     *types.Action
	Escalation *EscalationOutcome // nil when no rule matched
	Notified   bool               // whether the target received a direct message
}

// EscalationOutcome records the automatic action a strike triggered.
// Err is set when the escalated action failed. The strike itself still stands.
type EscalationOutcome struct {
	Rule   *types.EscalationRule
	Result *Result
	Err    error
}

// Engine issues moderation actions.
type Engine struct {
	actions     ActionStore
	escalations EscalationStore
	config      ConfigStore
	platform    Platform
	notifier    Notifier
	logs        LogPublisher
	botUserID   uint64
	now         func() time.Time
	tracer      trace.Tracer
	logger      *zap.Logger
}

// NewEngine creates an Engine.
func NewEngine(deps Dependencies, logger *zap.Logger) *Engine {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &Engine{
		actions:     deps.Actions,
		escalations: deps.Escalations,
		config:      deps.Config,
		platform:    deps.Platform,
		notifier:    deps.Notifier,
		logs:        deps.Logs,
		botUserID:   deps.BotUserID,
		now:         now,
		tracer:      otel.Tracer("github.com/robalyx/reaper/internal/moderation"),
		logger:      logger.Named("moderation"),
	}
}

// Issue dispatches req to the operation for kind.
func (e *Engine) Issue(ctx context.Context, kind enum.ActionKind, req Request) (*Result, error) {
	switch kind {
	case enum.ActionKindStrike:
		return e.Strike(ctx, req)
	case enum.ActionKindMute:
		return e.Mute(ctx, req)
	case enum.ActionKindKick:
		return e.Kick(ctx, req)
	case enum.ActionKindBan:
		return e.Ban(ctx, req)
	}
	return nil, fmt.Errorf("%w: %d", enum.ErrInvalidActionKind, int(kind))
}

func (e *Engine) startSpan(ctx context.Context, kind enum.ActionKind, req Request) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "moderation."+kind.String(), trace.WithAttributes(
		attribute.String("guild.id", strconv.FormatUint(req.GuildID, 10)),
		attribute.String("user.id", strconv.FormatUint(req.UserID, 10)),
		attribute.Bool("system", req.ModeratorID == SystemModerator),
	))
}

// finishSpan records err on span and returns it unchanged.
func finishSpan(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	return err
}

// resolveExpiry turns an explicit duration into an expiry. Permanent durations have no expiry.
func (e *Engine) resolveExpiry(d duration.Duration, now time.Time) (*time.Time, error) {
	if d.IsPermanent() {
		return nil, nil
	}

	expiry := d.ExpiryFrom(now)
	if !expiry.After(now) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDuration, d.Raw())
	}

	return expiry, nil
}

func (e *Engine) newAction(
	kind enum.ActionKind, req Request, expiry *time.Time, active bool, now time.Time,
) (*types.Action, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate action ID: %w", ErrPersistenceFailed, err)
	}

	moderator := req.ModeratorID
	if moderator == SystemModerator {
		moderator = e.botUserID
	}

	return &types.Action{
		ID:          id.String(),
		Kind:        kind,
		UserID:      req.UserID,
		ModeratorID: moderator,
		GuildID:     req.GuildID,
		Reason:      req.Reason,
		Active:      active,
		Expiry:      expiry,
		CreatedAt:   now,
	}, nil
}

// persist stores action. A failure after the platform effect was applied leaves an
// unrecorded moderation effect, so every field is logged for manual reconciliation.
func (e *Engine) persist(ctx context.Context, action *types.Action) error {
	err := e.actions.Create(ctx, action)
	if err == nil {
		return nil
	}

	e.logger.Error("Failed to record moderation action",
		zap.String("actionID", action.ID),
		zap.Stringer("kind", action.Kind),
		zap.Uint64("guildID", action.GuildID),
		zap.Uint64("userID", action.UserID),
		zap.Uint64("moderatorID", action.ModeratorID),
		zap.String("reason", action.Reason),
		zap.Bool("active", action.Active),
		zap.Timep("expiry", action.Expiry),
		zap.Time("createdAt", action.CreatedAt),
		zap.Bool("effectApplied", action.Kind != enum.ActionKindStrike),
		zap.Error(err))

	return fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
}

// notify sends the target a direct message. Failures are logged and reported as false.
func (e *Engine) notify(ctx context.Context, action *types.Action) bool {
	if err := e.notifier.NotifyAction(ctx, action); err != nil {
		e.logger.Warn("Failed to notify user of action",
			zap.String("actionID", action.ID),
			zap.Uint64("userID", action.UserID),
			zap.Error(err))
		return false
	}
	return true
}

// publish posts the action to the guild's log channel. Failures are only logged.
func (e *Engine) publish(ctx context.Context, action *types.Action) {
	if err := e.logs.PublishAction(ctx, action); err != nil {
		e.logger.Warn("Failed to publish action log",
			zap.String("actionID", action.ID),
			zap.Uint64("guildID", action.GuildID),
			zap.Error(err))
	}
}

// publishUpdate posts a correction to the guild's log channel. Failures are only logged.
func (e *Engine) publishUpdate(ctx context.Context, action *types.Action, update types.ActionUpdate) {
	if err := e.logs.PublishUpdate(ctx, action, update); err != nil {
		e.logger.Warn("Failed to publish action update log",
			zap.String("actionID", action.ID),
			zap.Uint64("guildID", action.GuildID),
			zap.Error(err))
	}
}

// notifyAndPublish runs the direct message and the log post concurrently and
// waits for both. Only the direct message outcome is returned.
func (e *Engine) notifyAndPublish(ctx context.Context, action *types.Action) bool {
	var notified bool

	p := pool.New()
	p.Go(func() {
		notified = e.notify(ctx, action)
	})
	p.Go(func() {
		e.publish(ctx, action)
	})
	p.Wait()

	return notified
}

// auditReason is the reason attached to Discord's audit log for a platform call.
func auditReason(action *types.Action) string {
	return fmt.Sprintf("%s | %s", action.Reason, action.ID)
}
