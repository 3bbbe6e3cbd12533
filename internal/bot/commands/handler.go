package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/internal/duration"
	"github.com/robalyx/reaper/internal/moderation"
	"github.com/robalyx/reaper/internal/permission"
	"go.uber.org/zap"
)

// Moderator issues and corrects moderation actions.
type Moderator interface {
	Issue(ctx context.Context, kind enum.ActionKind, req moderation.Request) (*moderation.Result, error)
	Get(ctx context.Context, id string) (*types.Action, error)
	LatestByModerator(ctx context.Context, guildID, moderatorID uint64) (*types.Action, error)
	History(ctx context.Context, guildID, userID uint64, includeInactive bool) ([]*types.Action, error)
	ExpireManually(ctx context.Context, id string) (*types.Action, error)
	UpdateReason(ctx context.Context, id, reason string) (*types.Action, error)
	UpdateExpiry(ctx context.Context, id string, expiry *time.Time) (*types.Action, error)
	Remove(ctx context.Context, id string) (*types.Action, error)
	Unban(ctx context.Context, guildID, userID, moderatorID uint64) ([]string, error)
	Unmute(ctx context.Context, guildID, userID, moderatorID uint64) ([]string, error)
}

// PermissionResolver computes the permissions of a guild member.
type PermissionResolver interface {
	Resolve(ctx context.Context, actor permission.Actor) (permission.Set, error)
}

// KillSwitchSource loads the active kill switches.
type KillSwitchSource interface {
	KillSwitches(ctx context.Context) (*types.KillSwitchSet, error)
}

// Options reads slash command options.
// discord.SlashCommandInteractionData satisfies it.
type Options interface {
	OptString(name string) (string, bool)
	OptSnowflake(name string) (snowflake.ID, bool)
	OptBool(name string) (bool, bool)
}

// Invocation is a slash command invoked by a guild member.
type Invocation struct {
	Command string
	Actor   permission.Actor
	Options Options
}

// Dependencies are the collaborators a Handler needs.
type Dependencies struct {
	Moderator   Moderator
	Permissions PermissionResolver
	Switches    KillSwitchSource
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

type commandFunc func(ctx context.Context, inv Invocation, perms permission.Set) (discord.Embed, error)

// Handler runs moderation commands on behalf of guild members.
type Handler struct {
	moderator   Moderator
	permissions PermissionResolver
	switches    KillSwitchSource
	now         func() time.Time
	commands    map[string]commandFunc
	logger      *zap.Logger
}

// NewHandler creates a new command handler.
func NewHandler(deps Dependencies, logger *zap.Logger) *Handler {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	h := &Handler{
		moderator:   deps.Moderator,
		permissions: deps.Permissions,
		switches:    deps.Switches,
		now:         now,
		logger:      logger.Named("commands"),
	}

	h.commands = map[string]commandFunc{
		CommandStrike:   h.issue(enum.ActionKindStrike, enum.PermissionModerationStrike),
		CommandMute:     h.issue(enum.ActionKindMute, enum.PermissionModerationMute),
		CommandKick:     h.issue(enum.ActionKindKick, enum.PermissionModerationKick),
		CommandBan:      h.issue(enum.ActionKindBan, enum.PermissionModerationBan),
		CommandUnban:    h.unban,
		CommandUnmute:   h.unmute,
		CommandExpire:   h.expire,
		CommandRemove:   h.remove,
		CommandReason:   h.reason,
		CommandDuration: h.duration,
		CommandSearch:   h.search,
	}

	return h
}

// Handle checks kill switches and permissions, then runs the invoked command.
// The returned embed is the reply shown to the invoking member.
func (h *Handler) Handle(ctx context.Context, inv Invocation) (discord.Embed, error) {
	command, ok := h.commands[inv.Command]
	if !ok {
		return discord.Embed{}, fmt.Errorf("%w: %s", ErrUnknownCommand, inv.Command)
	}

	if err := h.checkKillSwitches(ctx, inv.Command, inv.Actor.GuildID, inv.Actor.UserID); err != nil {
		return discord.Embed{}, err
	}

	perms, err := h.permissions.Resolve(ctx, inv.Actor)
	if err != nil {
		return discord.Embed{}, fmt.Errorf("%w: %w", moderation.ErrPersistenceFailed, err)
	}

	return command(ctx, inv, perms)
}

// checkKillSwitches fails open when the switches cannot be loaded.
func (h *Handler) checkKillSwitches(ctx context.Context, feature string, guildID, userID uint64) error {
	switches, err := h.switches.KillSwitches(ctx)
	if err != nil {
		h.logger.Warn("Failed to load kill switches", zap.Error(err))
		return nil
	}

	reason, blocked := switches.Blocked(feature,
		strconv.FormatUint(guildID, 10), strconv.FormatUint(userID, 10))
	if !blocked {
		return nil
	}

	if reason == "" {
		reason = "This feature has been disabled by the bot operators."
	}
	return fmt.Errorf("%w: %s", ErrFeatureDisabled, reason)
}

func requirePermission(perms permission.Set, p enum.Permission) error {
	if !perms.Has(p) {
		return &MissingPermissionError{Permission: p}
	}
	return nil
}

func requiredString(opts Options, name string) (string, error) {
	value, ok := opts.OptString(name)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: the `%s` option is required", ErrMissingOption, name)
	}
	return strings.TrimSpace(value), nil
}

func requiredUser(opts Options) (uint64, error) {
	id, ok := opts.OptSnowflake(OptionUser)
	if !ok || id == 0 {
		return 0, fmt.Errorf("%w: the `%s` option is required", ErrMissingOption, OptionUser)
	}
	return uint64(id), nil
}

// parseDuration reads a duration option. "permanent", "perm" and "never" mean no expiry.
func parseDuration(text string) duration.Duration {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "permanent", "perm", "never":
		return duration.Permanent()
	}
	return duration.Parse(text)
}
