package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/reaper/internal/bot/commands"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/internal/moderation"
	"github.com/robalyx/reaper/internal/permission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	guildID     uint64 = 10
	moderatorID uint64 = 30
	targetID    uint64 = 20
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type options struct {
	strings    map[string]string
	snowflakes map[string]snowflake.ID
	bools      map[string]bool
}

func (o options) OptString(name string) (string, bool) {
	v, ok := o.strings[name]
	return v, ok
}

func (o options) OptSnowflake(name string) (snowflake.ID, bool) {
	v, ok := o.snowflakes[name]
	return v, ok
}

func (o options) OptBool(name string) (bool, bool) {
	v, ok := o.bools[name]
	return v, ok
}

type issued struct {
	kind enum.ActionKind
	req  moderation.Request
}

type fakeModerator struct {
	actions  map[string]*types.Action
	latest   *types.Action
	issued   []issued
	calls    []string
	expiry   *time.Time
	issueErr error
	lifted   []string
}

func newFakeModerator() *fakeModerator {
	return &fakeModerator{actions: make(map[string]*types.Action)}
}

func (f *fakeModerator) Issue(_ context.Context, kind enum.ActionKind, req moderation.Request) (*moderation.Result, error) {
	f.issued = append(f.issued, issued{kind: kind, req: req})
	if f.issueErr != nil {
		return nil, f.issueErr
	}
	return &moderation.Result{
		Action: &types.Action{
			ID: "new", Kind: kind, GuildID: req.GuildID, UserID: req.UserID,
			ModeratorID: req.ModeratorID, Reason: req.Reason, Active: kind != enum.ActionKindKick,
		},
		Notified: true,
	}, nil
}

func (f *fakeModerator) Get(_ context.Context, id string) (*types.Action, error) {
	action, ok := f.actions[id]
	if !ok {
		return nil, moderation.ErrActionNotFound
	}
	return action, nil
}

func (f *fakeModerator) LatestByModerator(context.Context, uint64, uint64) (*types.Action, error) {
	if f.latest == nil {
		return nil, moderation.ErrActionNotFound
	}
	return f.latest, nil
}

func (f *fakeModerator) History(_ context.Context, _, userID uint64, includeInactive bool) ([]*types.Action, error) {
	f.calls = append(f.calls, "history")
	var result []*types.Action
	for _, action := range f.actions {
		if action.UserID == userID && (includeInactive || action.Active) {
			result = append(result, action)
		}
	}
	return result, nil
}

func (f *fakeModerator) ExpireManually(_ context.Context, id string) (*types.Action, error) {
	f.calls = append(f.calls, "expire:"+id)
	action := f.actions[id]
	action.Active = false
	return action, nil
}

func (f *fakeModerator) UpdateReason(_ context.Context, id, reason string) (*types.Action, error) {
	f.calls = append(f.calls, "reason:"+id)
	action := f.actions[id]
	action.Reason = reason
	return action, nil
}

func (f *fakeModerator) UpdateExpiry(_ context.Context, id string, expiry *time.Time) (*types.Action, error) {
	f.calls = append(f.calls, "duration:"+id)
	f.expiry = expiry
	action := f.actions[id]
	action.Expiry = expiry
	return action, nil
}

func (f *fakeModerator) Remove(_ context.Context, id string) (*types.Action, error) {
	f.calls = append(f.calls, "remove:"+id)
	return f.actions[id], nil
}

func (f *fakeModerator) Unban(context.Context, uint64, uint64, uint64) ([]string, error) {
	f.calls = append(f.calls, "unban")
	return f.lifted, nil
}

func (f *fakeModerator) Unmute(context.Context, uint64, uint64, uint64) ([]string, error) {
	f.calls = append(f.calls, "unmute")
	return f.lifted, nil
}

type fixedPermissions struct {
	set permission.Set
	err error
}

func (f fixedPermissions) Resolve(context.Context, permission.Actor) (permission.Set, error) {
	return f.set, f.err
}

type fakeSwitches struct {
	switches []*types.KillSwitch
	err      error
}

func (f fakeSwitches) KillSwitches(context.Context) (*types.KillSwitchSet, error) {
	if f.err != nil {
		return nil, f.err
	}
	return types.NewKillSwitchSet(f.switches), nil
}

func grant(perms ...enum.Permission) permission.Set {
	set := make(permission.Set)
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

func newHandler(moderator *fakeModerator, perms permission.Set, switches fakeSwitches) *commands.Handler {
	return commands.NewHandler(commands.Dependencies{
		Moderator:   moderator,
		Permissions: fixedPermissions{set: perms},
		Switches:    switches,
		Now:         func() time.Time { return fixedNow },
	}, zap.NewNop())
}

func invoke(command string, opts options) commands.Invocation {
	return commands.Invocation{
		Command: command,
		Actor:   permission.Actor{GuildID: guildID, UserID: moderatorID},
		Options: opts,
	}
}

func TestIssueCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command      string
		kind         enum.ActionKind
		permission   enum.Permission
		wantDuration bool
	}{
		{commands.CommandStrike, enum.ActionKindStrike, enum.PermissionModerationStrike, true},
		{commands.CommandMute, enum.ActionKindMute, enum.PermissionModerationMute, true},
		{commands.CommandKick, enum.ActionKindKick, enum.PermissionModerationKick, false},
		{commands.CommandBan, enum.ActionKindBan, enum.PermissionModerationBan, true},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			opts := options{
				strings:    map[string]string{commands.OptionReason: " spam ", commands.OptionDuration: "7d"},
				snowflakes: map[string]snowflake.ID{commands.OptionUser: snowflake.ID(targetID)},
			}

			moderator := newFakeModerator()
			_, err := newHandler(moderator, grant(), fakeSwitches{}).Handle(t.Context(), invoke(tt.command, opts))
			var permErr *commands.MissingPermissionError
			require.ErrorAs(t, err, &permErr)
			assert.Equal(t, tt.permission, permErr.Permission)
			assert.Empty(t, moderator.issued)

			embed, err := newHandler(moderator, grant(tt.permission), fakeSwitches{}).
				Handle(t.Context(), invoke(tt.command, opts))
			require.NoError(t, err)
			assert.NotEmpty(t, embed.Title)

			require.Len(t, moderator.issued, 1)
			got := moderator.issued[0]
			assert.Equal(t, tt.kind, got.kind)
			assert.Equal(t, guildID, got.req.GuildID)
			assert.Equal(t, targetID, got.req.UserID)
			assert.Equal(t, moderatorID, got.req.ModeratorID)
			assert.Equal(t, "spam", got.req.Reason)
			if tt.wantDuration {
				require.NotNil(t, got.req.Duration)
				assert.Equal(t, int64(7), got.req.Duration.Days)
			} else {
				assert.Nil(t, got.req.Duration)
			}
		})
	}
}

func TestIssuePermanentAndMissingOptions(t *testing.T) {
	t.Parallel()

	moderator := newFakeModerator()
	handler := newHandler(moderator, grant(enum.PermissionModerationBan), fakeSwitches{})

	_, err := handler.Handle(t.Context(), invoke(commands.CommandBan, options{
		strings:    map[string]string{commands.OptionReason: "raid", commands.OptionDuration: "Permanent"},
		snowflakes: map[string]snowflake.ID{commands.OptionUser: snowflake.ID(targetID)},
	}))
	require.NoError(t, err)
	require.Len(t, moderator.issued, 1)
	assert.True(t, moderator.issued[0].req.Duration.IsPermanent())

	_, err = handler.Handle(t.Context(), invoke(commands.CommandBan, options{
		strings: map[string]string{commands.OptionReason: "raid"},
	}))
	require.ErrorIs(t, err, commands.ErrMissingOption)

	_, err = handler.Handle(t.Context(), invoke(commands.CommandBan, options{
		snowflakes: map[string]snowflake.ID{commands.OptionUser: snowflake.ID(targetID)},
	}))
	require.ErrorIs(t, err, commands.ErrMissingOption)
	assert.Len(t, moderator.issued, 1)
}

func TestIssueReportsEscalation(t *testing.T) {
	t.Parallel()

	moderator := &escalatingModerator{fakeModerator: newFakeModerator()}
	handler := commands.NewHandler(commands.Dependencies{
		Moderator:   moderator,
		Permissions: fixedPermissions{set: grant(enum.PermissionModerationStrike)},
		Switches:    fakeSwitches{},
	}, zap.NewNop())

	embed, err := handler.Handle(t.Context(), invoke(commands.CommandStrike, options{
		strings:    map[string]string{commands.OptionReason: "spam"},
		snowflakes: map[string]snowflake.ID{commands.OptionUser: snowflake.ID(targetID)},
	}))
	require.NoError(t, err)
	assert.Contains(t, embed.Description, "Reaching 3 strikes triggered an automatic Kick")
}

type escalatingModerator struct {
	*fakeModerator
}

func (m *escalatingModerator) Issue(
	ctx context.Context, kind enum.ActionKind, req moderation.Request,
) (*moderation.Result, error) {
	result, err := m.fakeModerator.Issue(ctx, kind, req)
	if err != nil {
		return nil, err
	}
	result.Escalation = &moderation.EscalationOutcome{
		Rule:   &types.EscalationRule{GuildID: guildID, StrikeCount: 3, Kind: enum.ActionKindKick},
		Result: &moderation.Result{Action: &types.Action{ID: "kick-1", Kind: enum.ActionKindKick}},
	}
	return result, nil
}

func TestKillSwitches(t *testing.T) {
	t.Parallel()

	opts := options{
		strings:    map[string]string{commands.OptionReason: "spam"},
		snowflakes: map[string]snowflake.ID{commands.OptionUser: snowflake.ID(targetID)},
	}
	perms := grant(enum.PermissionModerationStrike)

	tests := []struct {
		name    string
		ks *types.KillSwitch
	}{
		{"feature", &types.KillSwitch{Scope: enum.KillSwitchScopeFeature, Target: commands.CommandStrike, Reason: "maintenance"}},
		{"guild", &types.KillSwitch{Scope: enum.KillSwitchScopeGuild, Target: "10"}},
		{"user", &types.KillSwitch{Scope: enum.KillSwitchScopeUser, Target: "30"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			moderator := newFakeModerator()
			handler := newHandler(moderator, perms, fakeSwitches{switches: []*types.KillSwitch{tt.ks}})

			_, err := handler.Handle(t.Context(), invoke(commands.CommandStrike, opts))
			require.ErrorIs(t, err, commands.ErrFeatureDisabled)
			assert.Empty(t, moderator.issued)
		})
	}

	t.Run("unrelated switch", func(t *testing.T) {
		t.Parallel()
		moderator := newFakeModerator()
		handler := newHandler(moderator, perms, fakeSwitches{switches: []*types.KillSwitch{
			{Scope: enum.KillSwitchScopeFeature, Target: commands.CommandBan},
		}})

		_, err := handler.Handle(t.Context(), invoke(commands.CommandStrike, opts))
		require.NoError(t, err)
	})

	t.Run("load failure fails open", func(t *testing.T) {
		t.Parallel()
		moderator := newFakeModerator()
		handler := newHandler(moderator, perms, fakeSwitches{err: errors.New("redis down")})

		_, err := handler.Handle(t.Context(), invoke(commands.CommandStrike, opts))
		require.NoError(t, err)
		assert.Len(t, moderator.issued, 1)
	})
}

func TestHandleUnknownCommandAndResolverFailure(t *testing.T) {
	t.Parallel()

	_, err := newHandler(newFakeModerator(), grant(), fakeSwitches{}).
		Handle(t.Context(), invoke("dance", options{}))
	require.ErrorIs(t, err, commands.ErrUnknownCommand)

	handler := commands.NewHandler(commands.Dependencies{
		Moderator:   newFakeModerator(),
		Permissions: fixedPermissions{err: errors.New("db down")},
		Switches:    fakeSwitches{},
	}, zap.NewNop())
	_, err = handler.Handle(t.Context(), invoke(commands.CommandSearch, options{}))
	require.ErrorIs(t, err, moderation.ErrPersistenceFailed)
}

func TestCorrectionsDefaultToLatestAction(t *testing.T) {
	t.Parallel()

	moderator := newFakeModerator()
	latest := &types.Action{ID: "latest", Kind: enum.ActionKindStrike, GuildID: guildID, UserID: targetID, Active: true}
	moderator.actions["latest"] = latest
	moderator.latest = latest

	handler := newHandler(moderator,
		grant(enum.PermissionModerationReason, enum.PermissionModerationDuration), fakeSwitches{})

	embed, err := handler.Handle(t.Context(), invoke(commands.CommandReason, options{
		strings: map[string]string{commands.OptionReason: "updated"},
	}))
	require.NoError(t, err)
	assert.Equal(t, "Reason updated", embed.Title)
	assert.Equal(t, "updated", latest.Reason)

	embed, err = handler.Handle(t.Context(), invoke(commands.CommandDuration, options{
		strings: map[string]string{commands.OptionDuration: "2h"},
	}))
	require.NoError(t, err)
	assert.Equal(t, "Duration updated", embed.Title)
	require.NotNil(t, moderator.expiry)
	assert.Equal(t, fixedNow.Add(2*time.Hour), *moderator.expiry)

	_, err = handler.Handle(t.Context(), invoke(commands.CommandDuration, options{
		strings: map[string]string{commands.OptionDuration: "forever-ish"},
	}))
	require.ErrorIs(t, err, moderation.ErrInvalidDuration)

	_, err = handler.Handle(t.Context(), invoke(commands.CommandDuration, options{
		strings: map[string]string{commands.OptionDuration: "never"},
	}))
	require.NoError(t, err)
	assert.Nil(t, moderator.expiry)

	assert.Equal(t, []string{"reason:latest", "duration:latest", "duration:latest"}, moderator.calls)
}

func TestCorrectionsWithoutHistory(t *testing.T) {
	t.Parallel()

	handler := newHandler(newFakeModerator(), grant(enum.PermissionModerationReason), fakeSwitches{})
	_, err := handler.Handle(t.Context(), invoke(commands.CommandReason, options{
		strings: map[string]string{commands.OptionReason: "updated"},
	}))
	require.ErrorIs(t, err, commands.ErrMissingOption)
}

func TestCorrectionsAreScopedToGuild(t *testing.T) {
	t.Parallel()

	moderator := newFakeModerator()
	moderator.actions["other"] = &types.Action{ID: "other", Kind: enum.ActionKindBan, GuildID: 99, Active: true}
	moderator.actions["own"] = &types.Action{ID: "own", Kind: enum.ActionKindBan, GuildID: guildID, Active: true}

	handler := newHandler(moderator,
		grant(enum.PermissionModerationExpire, enum.PermissionModerationRemove), fakeSwitches{})

	_, err := handler.Handle(t.Context(), invoke(commands.CommandExpire, options{
		strings: map[string]string{commands.OptionUUID: "other"},
	}))
	require.ErrorIs(t, err, moderation.ErrActionNotFound)

	_, err = handler.Handle(t.Context(), invoke(commands.CommandRemove, options{}))
	require.ErrorIs(t, err, commands.ErrMissingOption, "remove never defaults to the latest action")

	embed, err := handler.Handle(t.Context(), invoke(commands.CommandExpire, options{
		strings: map[string]string{commands.OptionUUID: "own"},
	}))
	require.NoError(t, err)
	assert.Equal(t, "Action expired", embed.Title)

	embed, err = handler.Handle(t.Context(), invoke(commands.CommandRemove, options{
		strings: map[string]string{commands.OptionUUID: "own"},
	}))
	require.NoError(t, err)
	assert.Equal(t, "Action removed", embed.Title)

	assert.Equal(t, []string{"expire:own", "remove:own"}, moderator.calls)
}

func TestUnbanAndUnmute(t *testing.T) {
	t.Parallel()

	moderator := newFakeModerator()
	moderator.lifted = []string{"a", "b"}
	handler := newHandler(moderator, grant(enum.PermissionModerationUnban), fakeSwitches{})
	opts := options{snowflakes: map[string]snowflake.ID{commands.OptionUser: snowflake.ID(targetID)}}

	embed, err := handler.Handle(t.Context(), invoke(commands.CommandUnban, opts))
	require.NoError(t, err)
	assert.Equal(t, "User unbanned", embed.Title)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "`a`\n`b`", embed.Fields[0].Value)

	_, err = handler.Handle(t.Context(), invoke(commands.CommandUnmute, opts))
	var permErr *commands.MissingPermissionError
	require.ErrorAs(t, err, &permErr)
	assert.Equal(t, enum.PermissionModerationUnmute, permErr.Permission)

	assert.Equal(t, []string{"unban"}, moderator.calls)
}

func TestSearchPermissions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     options
		required enum.Permission
	}{
		{
			name:     "self",
			opts:     options{},
			required: enum.PermissionModerationSearchSelf,
		},
		{
			name:     "self expired",
			opts:     options{bools: map[string]bool{commands.OptionExpired: true}},
			required: enum.PermissionModerationSearchSelfExpired,
		},
		{
			name:     "others",
			opts:     options{snowflakes: map[string]snowflake.ID{commands.OptionUser: snowflake.ID(targetID)}},
			required: enum.PermissionModerationSearchOthers,
		},
		{
			name: "others expired",
			opts: options{
				snowflakes: map[string]snowflake.ID{commands.OptionUser: snowflake.ID(targetID)},
				bools:      map[string]bool{commands.OptionExpired: true},
			},
			required: enum.PermissionModerationSearchOthersExpired,
		},
		{
			name:     "by uuid",
			opts:     options{strings: map[string]string{commands.OptionUUID: "a1"}},
			required: enum.PermissionModerationSearchUUID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			moderator := newFakeModerator()
			moderator.actions["a1"] = &types.Action{ID: "a1", Kind: enum.ActionKindStrike, GuildID: guildID, UserID: targetID, Active: true}

			_, err := newHandler(moderator, grant(), fakeSwitches{}).Handle(t.Context(), invoke(commands.CommandSearch, tt.opts))
			var permErr *commands.MissingPermissionError
			require.ErrorAs(t, err, &permErr)
			assert.Equal(t, tt.required, permErr.Permission)

			embed, err := newHandler(moderator, grant(tt.required), fakeSwitches{}).
				Handle(t.Context(), invoke(commands.CommandSearch, tt.opts))
			require.NoError(t, err)
			assert.Equal(t, "Moderation history", embed.Title)
		})
	}
}

func TestAutomodStrike(t *testing.T) {
	t.Parallel()

	assert.True(t, commands.IsStrikeRule("No Slurs (STRIKE)"))
	assert.False(t, commands.IsStrikeRule("Block links"))

	moderator := newFakeModerator()
	handler := newHandler(moderator, grant(), fakeSwitches{})

	result, err := handler.HandleAutomod(t.Context(), guildID, targetID, "Block links")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Empty(t, moderator.issued)

	result, err = handler.HandleAutomod(t.Context(), guildID, targetID, "Slurs strike")
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, moderator.issued, 1)
	assert.Equal(t, enum.ActionKindStrike, moderator.issued[0].kind)
	assert.Equal(t, moderation.SystemModerator, moderator.issued[0].req.ModeratorID)
	assert.Equal(t, `Violated "Slurs strike" automod rule`, moderator.issued[0].req.Reason)
	assert.Nil(t, moderator.issued[0].req.Duration)

	blocked := newHandler(moderator, grant(), fakeSwitches{switches: []*types.KillSwitch{
		{Scope: enum.KillSwitchScopeFeature, Target: commands.FeatureAutomod},
	}})
	result, err = blocked.HandleAutomod(t.Context(), guildID, targetID, "strike")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Len(t, moderator.issued, 1)

	moderator.issueErr = moderation.ErrNoDurationConfigured
	_, err = handler.HandleAutomod(t.Context(), guildID, targetID, "strike")
	require.ErrorIs(t, err, moderation.ErrNoDurationConfigured)
}

func TestErrorEmbed(t *testing.T) {
	t.Parallel()

	embed := commands.ErrorEmbed(&commands.MissingPermissionError{Permission: enum.PermissionModerationBan})
	assert.Equal(t, "You do not have permission to do this!", embed.Title)
	assert.Contains(t, embed.Description, "`moderation.ban`")

	embed = commands.ErrorEmbed(moderation.ErrNoMuteRoleConfigured)
	assert.Equal(t, "No mute role configured", embed.Title)

	embed = commands.ErrorEmbed(errors.New("boom"))
	assert.Equal(t, "Something went wrong", embed.Title)
}

func TestDefinitions(t *testing.T) {
	t.Parallel()

	names := make(map[string]bool)
	for _, def := range commands.Definitions() {
		names[def.CommandName()] = true
	}
	for _, name := range []string{
		commands.CommandStrike, commands.CommandMute, commands.CommandKick, commands.CommandBan,
		commands.CommandUnban, commands.CommandUnmute, commands.CommandExpire, commands.CommandRemove,
		commands.CommandReason, commands.CommandDuration, commands.CommandSearch,
	} {
		assert.True(t, names[name], name)
	}
}
