package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	reaperDiscord "github.com/robalyx/reaper/internal/discord"
	"github.com/robalyx/reaper/internal/moderation"
	"github.com/robalyx/reaper/internal/permission"
	"go.uber.org/zap"
)

// issue returns the command that issues an action of the given kind.
func (h *Handler) issue(kind enum.ActionKind, required enum.Permission) commandFunc {
	return func(ctx context.Context, inv Invocation, perms permission.Set) (discord.Embed, error) {
		if err := requirePermission(perms, required); err != nil {
			return discord.Embed{}, err
		}

		userID, err := requiredUser(inv.Options)
		if err != nil {
			return discord.Embed{}, err
		}

		reason, err := requiredString(inv.Options, OptionReason)
		if err != nil {
			return discord.Embed{}, err
		}

		req := moderation.Request{
			GuildID:     inv.Actor.GuildID,
			UserID:      userID,
			ModeratorID: inv.Actor.UserID,
			Reason:      reason,
		}
		if text, ok := inv.Options.OptString(OptionDuration); ok && kind != enum.ActionKindKick {
			d := parseDuration(text)
			req.Duration = &d
		}

		result, err := h.moderator.Issue(ctx, kind, req)
		if err != nil {
			return discord.Embed{}, err
		}

		return reaperDiscord.ResultEmbed(result.Action, result.Notified, escalationSummary(result.Escalation)), nil
	}
}

// escalationSummary describes the automatic action a strike triggered.
func escalationSummary(outcome *moderation.EscalationOutcome) string {
	if outcome == nil {
		return ""
	}

	kind := reaperDiscord.KindTitle(outcome.Rule.Kind)
	if outcome.Err != nil {
		title, _ := moderation.Guidance(outcome.Err)
		return fmt.Sprintf("Reaching %d strikes should have triggered a %s, but it failed: %s",
			outcome.Rule.StrikeCount, kind, title)
	}

	return fmt.Sprintf("Reaching %d strikes triggered an automatic %s (`%s`)",
		outcome.Rule.StrikeCount, kind, outcome.Result.Action.ID)
}

func (h *Handler) unban(ctx context.Context, inv Invocation, perms permission.Set) (discord.Embed, error) {
	if err := requirePermission(perms, enum.PermissionModerationUnban); err != nil {
		return discord.Embed{}, err
	}

	userID, err := requiredUser(inv.Options)
	if err != nil {
		return discord.Embed{}, err
	}

	ids, err := h.moderator.Unban(ctx, inv.Actor.GuildID, userID, inv.Actor.UserID)
	if err != nil {
		return discord.Embed{}, err
	}

	return reaperDiscord.LiftedEmbed(enum.ActionKindBan, userID, ids), nil
}

func (h *Handler) unmute(ctx context.Context, inv Invocation, perms permission.Set) (discord.Embed, error) {
	if err := requirePermission(perms, enum.PermissionModerationUnmute); err != nil {
		return discord.Embed{}, err
	}

	userID, err := requiredUser(inv.Options)
	if err != nil {
		return discord.Embed{}, err
	}

	ids, err := h.moderator.Unmute(ctx, inv.Actor.GuildID, userID, inv.Actor.UserID)
	if err != nil {
		return discord.Embed{}, err
	}

	return reaperDiscord.LiftedEmbed(enum.ActionKindMute, userID, ids), nil
}

func (h *Handler) expire(ctx context.Context, inv Invocation, perms permission.Set) (discord.Embed, error) {
	if err := requirePermission(perms, enum.PermissionModerationExpire); err != nil {
		return discord.Embed{}, err
	}

	target, err := h.targetAction(ctx, inv, false)
	if err != nil {
		return discord.Embed{}, err
	}

	action, err := h.moderator.ExpireManually(ctx, target.ID)
	if err != nil {
		return discord.Embed{}, err
	}

	return reaperDiscord.UpdateEmbed(action, types.ActionUpdateExpired), nil
}

func (h *Handler) remove(ctx context.Context, inv Invocation, perms permission.Set) (discord.Embed, error) {
	if err := requirePermission(perms, enum.PermissionModerationRemove); err != nil {
		return discord.Embed{}, err
	}

	target, err := h.targetAction(ctx, inv, false)
	if err != nil {
		return discord.Embed{}, err
	}

	action, err := h.moderator.Remove(ctx, target.ID)
	if err != nil {
		return discord.Embed{}, err
	}

	return reaperDiscord.UpdateEmbed(action, types.ActionUpdateRemoved), nil
}

func (h *Handler) reason(ctx context.Context, inv Invocation, perms permission.Set) (discord.Embed, error) {
	if err := requirePermission(perms, enum.PermissionModerationReason); err != nil {
		return discord.Embed{}, err
	}

	reason, err := requiredString(inv.Options, OptionReason)
	if err != nil {
		return discord.Embed{}, err
	}

	target, err := h.targetAction(ctx, inv, true)
	if err != nil {
		return discord.Embed{}, err
	}

	action, err := h.moderator.UpdateReason(ctx, target.ID, reason)
	if err != nil {
		return discord.Embed{}, err
	}

	return reaperDiscord.UpdateEmbed(action, types.ActionUpdateReason), nil
}

func (h *Handler) duration(ctx context.Context, inv Invocation, perms permission.Set) (discord.Embed, error) {
	if err := requirePermission(perms, enum.PermissionModerationDuration); err != nil {
		return discord.Embed{}, err
	}

	text, err := requiredString(inv.Options, OptionDuration)
	if err != nil {
		return discord.Embed{}, err
	}

	d := parseDuration(text)
	if d.IsZero() {
		return discord.Embed{}, fmt.Errorf("%w: %q", moderation.ErrInvalidDuration, text)
	}

	target, err := h.targetAction(ctx, inv, true)
	if err != nil {
		return discord.Embed{}, err
	}

	action, err := h.moderator.UpdateExpiry(ctx, target.ID, d.ExpiryFrom(h.now()))
	if err != nil {
		return discord.Embed{}, err
	}

	return reaperDiscord.UpdateEmbed(action, types.ActionUpdateExpiry), nil
}

func (h *Handler) search(ctx context.Context, inv Invocation, perms permission.Set) (discord.Embed, error) {
	if id, ok := inv.Options.OptString(OptionUUID); ok && id != "" {
		if err := requirePermission(perms, enum.PermissionModerationSearchUUID); err != nil {
			return discord.Embed{}, err
		}

		action, err := h.actionInGuild(ctx, inv.Actor.GuildID, id)
		if err != nil {
			return discord.Embed{}, err
		}

		return reaperDiscord.HistoryEmbed(action.UserID, []*types.Action{action}, true), nil
	}

	userID := inv.Actor.UserID
	if id, ok := inv.Options.OptSnowflake(OptionUser); ok && id != 0 {
		userID = uint64(id)
	}
	expired, _ := inv.Options.OptBool(OptionExpired)

	var required enum.Permission
	switch {
	case userID == inv.Actor.UserID && expired:
		required = enum.PermissionModerationSearchSelfExpired
	case userID == inv.Actor.UserID:
		required = enum.PermissionModerationSearchSelf
	case expired:
		required = enum.PermissionModerationSearchOthersExpired
	default:
		required = enum.PermissionModerationSearchOthers
	}
	if err := requirePermission(perms, required); err != nil {
		return discord.Embed{}, err
	}

	actions, err := h.moderator.History(ctx, inv.Actor.GuildID, userID, expired)
	if err != nil {
		return discord.Embed{}, err
	}

	return reaperDiscord.HistoryEmbed(userID, actions, expired), nil
}

// targetAction resolves the action a correction applies to. Without a UUID option
// it falls back to the invoker's latest action when allowLatest is set.
func (h *Handler) targetAction(ctx context.Context, inv Invocation, allowLatest bool) (*types.Action, error) {
	id, ok := inv.Options.OptString(OptionUUID)
	if ok && id != "" {
		return h.actionInGuild(ctx, inv.Actor.GuildID, id)
	}

	if !allowLatest {
		return nil, fmt.Errorf("%w: the `%s` option is required", ErrMissingOption, OptionUUID)
	}

	action, err := h.moderator.LatestByModerator(ctx, inv.Actor.GuildID, inv.Actor.UserID)
	if err != nil {
		if errors.Is(err, moderation.ErrActionNotFound) {
			return nil, fmt.Errorf("%w: you have not issued any action yet, provide a UUID", ErrMissingOption)
		}
		return nil, err
	}

	h.logger.Debug("Defaulted to latest action",
		zap.Uint64("moderatorID", inv.Actor.UserID),
		zap.String("actionID", action.ID))
	return action, nil
}

// actionInGuild loads an action and hides actions that belong to other guilds.
func (h *Handler) actionInGuild(ctx context.Context, guildID uint64, id string) (*types.Action, error) {
	action, err := h.moderator.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if action.GuildID != guildID {
		return nil, fmt.Errorf("%w: %s", moderation.ErrActionNotFound, id)
	}
	return action, nil
}
