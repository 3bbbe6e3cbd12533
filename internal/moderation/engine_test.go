package moderation_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/internal/duration"
	"github.com/robalyx/reaper/internal/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	guildID     uint64 = 1
	userID      uint64 = 2
	moderatorID uint64 = 3
	muteRoleID  uint64 = 50
)

func durationOf(s string) *duration.Duration {
	d := duration.Parse(s)
	return &d
}

func seedStrikes(h *harness, n int) {
	for i := range n {
		h.actions.seed(&types.Action{
			ID:        fmt.Sprintf("strike-%d", i),
			Kind:      enum.ActionKindStrike,
			UserID:    userID,
			GuildID:   guildID,
			Active:    true,
			CreatedAt: h.clock.Now().Add(-time.Hour),
		})
	}
}

func TestStrikeUsesDefaultDuration(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.config.configs[guildID] = &types.ModerationConfig{GuildID: guildID, DefaultStrikeDuration: ptr("30d")}

	result, err := h.engine.Strike(context.Background(), moderation.Request{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Reason:      "spam",
	})
	require.NoError(t, err)

	action := result.Action
	assert.Equal(t, enum.ActionKindStrike, action.Kind)
	assert.True(t, action.Active)
	require.NotNil(t, action.Expiry)
	assert.Equal(t, h.clock.Now().Add(30*24*time.Hour), *action.Expiry)
	assert.Equal(t, moderatorID, action.ModeratorID)
	assert.Nil(t, result.Escalation)
	assert.True(t, result.Notified)
	assert.NotNil(t, h.actions.snapshot(action.ID))
	assert.Equal(t, 1, h.count("log"))
}

func TestStrikeWithoutDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config *types.ModerationConfig
	}{
		{name: "no config"},
		{name: "no default", config: &types.ModerationConfig{GuildID: guildID, MuteRoleID: ptr(muteRoleID)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness()
			if tt.config != nil {
				h.config.configs[guildID] = tt.config
			}

			_, err := h.engine.Strike(context.Background(), moderation.Request{GuildID: guildID, UserID: userID})
			require.ErrorIs(t, err, moderation.ErrNoDurationConfigured)
			assert.Empty(t, h.actions.byKind(enum.ActionKindStrike))
		})
	}
}

func TestStrikeRejectsZeroDuration(t *testing.T) {
	t.Parallel()
	h := newHarness()

	_, err := h.engine.Strike(context.Background(), moderation.Request{
		GuildID:  guildID,
		UserID:   userID,
		Duration: durationOf("soon"),
	})
	require.ErrorIs(t, err, moderation.ErrInvalidDuration)
	assert.Empty(t, h.rec.list())
}

func TestStrikePermanent(t *testing.T) {
	t.Parallel()
	h := newHarness()
	permanent := duration.Permanent()

	result, err := h.engine.Strike(context.Background(), moderation.Request{
		GuildID:  guildID,
		UserID:   userID,
		Duration: &permanent,
	})
	require.NoError(t, err)
	assert.Nil(t, result.Action.Expiry)
	assert.True(t, result.Action.Active)
}

func TestStrikeEscalatesToKick(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.escalations.rules[guildID] = []*types.EscalationRule{
		{GuildID: guildID, StrikeCount: 3, Kind: enum.ActionKindKick},
	}
	seedStrikes(h, 2)

	result, err := h.engine.Strike(context.Background(), moderation.Request{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Reason:      "third offence",
		Duration:    durationOf("7d"),
	})
	require.NoError(t, err)

	require.NotNil(t, result.Escalation)
	require.NoError(t, result.Escalation.Err)
	kick := result.Escalation.Result.Action
	assert.Equal(t, enum.ActionKindKick, kick.Kind)
	assert.False(t, kick.Active)
	assert.Contains(t, kick.Reason, "3 strikes")
	assert.Equal(t, botUserID, kick.ModeratorID)

	assert.Equal(t, 1, h.count("kick"))
	assert.Len(t, h.actions.byKind(enum.ActionKindKick), 1)
	assert.Len(t, h.actions.byKind(enum.ActionKindStrike), 3)
	assert.Equal(t, enum.ActionKindStrike, result.Action.Kind)
}

func TestStrikeWithoutMatchingRule(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.escalations.rules[guildID] = []*types.EscalationRule{
		{GuildID: guildID, StrikeCount: 3, Kind: enum.ActionKindBan},
	}
	seedStrikes(h, 1)

	result, err := h.engine.Strike(context.Background(), moderation.Request{
		GuildID:  guildID,
		UserID:   userID,
		Duration: durationOf("1d"),
	})
	require.NoError(t, err)
	assert.Nil(t, result.Escalation)
	assert.Zero(t, h.count("ban"))
	assert.Zero(t, h.count("kick"))
	assert.Zero(t, h.count("grant_role"))
}

func TestStrikeEscalationRuleOfKindStrike(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.escalations.rules[guildID] = []*types.EscalationRule{
		{GuildID: guildID, StrikeCount: 1, Kind: enum.ActionKindStrike},
	}

	_, err := h.engine.Strike(context.Background(), moderation.Request{
		GuildID:  guildID,
		UserID:   userID,
		Duration: durationOf("1d"),
	})
	require.ErrorIs(t, err, moderation.ErrInvalidEscalationRule)
	assert.Empty(t, h.actions.byKind(enum.ActionKindStrike))
}

func TestStrikeSurvivesFailedEscalation(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.escalations.rules[guildID] = []*types.EscalationRule{
		{GuildID: guildID, StrikeCount: 1, Kind: enum.ActionKindBan, Duration: ptr("7d")},
	}
	h.platform.err["ban"] = errUnavailable

	result, err := h.engine.Strike(context.Background(), moderation.Request{
		GuildID:  guildID,
		UserID:   userID,
		Duration: durationOf("1d"),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Escalation)
	require.ErrorIs(t, result.Escalation.Err, moderation.ErrPlatformEffectFailed)
	assert.Nil(t, result.Escalation.Result)
	assert.Empty(t, h.actions.byKind(enum.ActionKindBan))
	assert.Len(t, h.actions.byKind(enum.ActionKindStrike), 1)
}

func TestStrikeEscalatesToMuteWithoutDuration(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.config.configs[guildID] = &types.ModerationConfig{GuildID: guildID, MuteRoleID: ptr(muteRoleID)}
	h.escalations.rules[guildID] = []*types.EscalationRule{
		{GuildID: guildID, StrikeCount: 1, Kind: enum.ActionKindMute},
	}

	result, err := h.engine.Strike(context.Background(), moderation.Request{
		GuildID:  guildID,
		UserID:   userID,
		Duration: durationOf("1d"),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Escalation)
	require.ErrorIs(t, result.Escalation.Err, moderation.ErrInvalidEscalationRule)
	assert.Zero(t, h.count("grant_role"))
}

func TestStrikeNotificationFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.notifier.err = errUnavailable
	h.logs.err = errUnavailable

	result, err := h.engine.Strike(context.Background(), moderation.Request{
		GuildID:  guildID,
		UserID:   userID,
		Duration: durationOf("1h"),
	})
	require.NoError(t, err)
	assert.False(t, result.Notified)
	assert.NotNil(t, h.actions.snapshot(result.Action.ID))
}

func TestStrikePersistenceFailure(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.actions.createErr = errUnavailable

	_, err := h.engine.Strike(context.Background(), moderation.Request{
		GuildID:  guildID,
		UserID:   userID,
		Duration: durationOf("1h"),
	})
	require.ErrorIs(t, err, moderation.ErrPersistenceFailed)
	assert.Zero(t, h.count("notify"))
	assert.Zero(t, h.count("log"))
}

func TestMute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *types.ModerationConfig
		wantErr error
	}{
		{name: "no config", wantErr: moderation.ErrNoModerationConfig},
		{name: "no role", config: &types.ModerationConfig{GuildID: guildID}, wantErr: moderation.ErrNoMuteRoleConfigured},
		{name: "configured", config: &types.ModerationConfig{GuildID: guildID, MuteRoleID: ptr(muteRoleID)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness()
			if tt.config != nil {
				h.config.configs[guildID] = tt.config
			}

			result, err := h.engine.Mute(context.Background(), moderation.Request{
				GuildID:  guildID,
				UserID:   userID,
				Duration: durationOf("2h"),
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, h.rec.list())
				return
			}

			require.NoError(t, err)
			assert.True(t, result.Action.Active)
			assert.Equal(t, h.clock.Now().Add(2*time.Hour), *result.Action.Expiry)

			events := h.rec.list()
			require.GreaterOrEqual(t, len(events), 2)
			assert.Equal(t, []string{"grant_role", "persist:mute"}, events[:2])
			assert.ElementsMatch(t, []string{"notify", "log"}, events[2:])
		})
	}
}

func TestMuteWithoutDurationIsPermanent(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.config.configs[guildID] = &types.ModerationConfig{GuildID: guildID, MuteRoleID: ptr(muteRoleID)}

	result, err := h.engine.Mute(context.Background(), moderation.Request{GuildID: guildID, UserID: userID})
	require.NoError(t, err)
	assert.Nil(t, result.Action.Expiry)
}

func TestMuteRoleGrantFailure(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.config.configs[guildID] = &types.ModerationConfig{GuildID: guildID, MuteRoleID: ptr(muteRoleID)}
	h.platform.err["grant_role"] = errUnavailable

	_, err := h.engine.Mute(context.Background(), moderation.Request{
		GuildID:  guildID,
		UserID:   userID,
		Duration: durationOf("2h"),
	})
	require.ErrorIs(t, err, moderation.ErrPlatformEffectFailed)
	assert.Empty(t, h.actions.byKind(enum.ActionKindMute))
}

func TestKick(t *testing.T) {
	t.Parallel()

	for _, notifyErr := range []error{nil, errUnavailable} {
		t.Run(fmt.Sprintf("notify error %v", notifyErr), func(t *testing.T) {
			t.Parallel()
			h := newHarness()
			h.notifier.err = notifyErr

			result, err := h.engine.Kick(context.Background(), moderation.Request{
				GuildID:     guildID,
				UserID:      userID,
				ModeratorID: moderatorID,
				Reason:      "raiding",
			})
			require.NoError(t, err)

			assert.False(t, result.Action.Active)
			assert.Nil(t, result.Action.Expiry)
			assert.Equal(t, notifyErr == nil, result.Notified)
			assert.Equal(t, []string{"notify", "kick", "persist:kick", "log"}, h.rec.list())
			assert.False(t, h.actions.snapshot(result.Action.ID).Active)
		})
	}
}

func TestKickPlatformFailureRecordsNothing(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.platform.err["kick"] = errUnavailable

	_, err := h.engine.Kick(context.Background(), moderation.Request{GuildID: guildID, UserID: userID})
	require.ErrorIs(t, err, moderation.ErrPlatformEffectFailed)
	assert.Empty(t, h.actions.byKind(enum.ActionKindKick))
	assert.Zero(t, h.count("log"))
}

func TestBanPermanent(t *testing.T) {
	t.Parallel()
	h := newHarness()

	result, err := h.engine.Ban(context.Background(), moderation.Request{GuildID: guildID, UserID: userID})
	require.NoError(t, err)

	assert.True(t, result.Action.Active)
	assert.Nil(t, result.Action.Expiry)
	assert.Equal(t, []string{"notify", "ban", "persist:ban", "log"}, h.rec.list())
}

func TestBanPersistenceFailureAfterEffect(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.actions.createErr = errUnavailable

	_, err := h.engine.Ban(context.Background(), moderation.Request{GuildID: guildID, UserID: userID})
	require.ErrorIs(t, err, moderation.ErrPersistenceFailed)
	assert.Equal(t, 1, h.count("ban"))
}

func TestBanExpiryUpdateDelaysSweep(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()
	start := h.clock.Now()

	result, err := h.engine.Ban(ctx, moderation.Request{
		GuildID:  guildID,
		UserID:   userID,
		Duration: durationOf("7d"),
	})
	require.NoError(t, err)

	extended := start.Add(14 * 24 * time.Hour)
	_, err = h.engine.UpdateExpiry(ctx, result.Action.ID, &extended)
	require.NoError(t, err)

	due, err := h.actions.ListDue(ctx, start.Add(8*24*time.Hour), 100)
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = h.actions.ListDue(ctx, start.Add(15*24*time.Hour), 100)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, result.Action.ID, due[0].ID)
}

func TestIssueDispatch(t *testing.T) {
	t.Parallel()
	h := newHarness()

	result, err := h.engine.Issue(context.Background(), enum.ActionKindKick, moderation.Request{GuildID: guildID, UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, enum.ActionKindKick, result.Action.Kind)

	_, err = h.engine.Issue(context.Background(), enum.ActionKind(7), moderation.Request{})
	require.ErrorIs(t, err, enum.ErrInvalidActionKind)
}

func TestExpireManually(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()

	result, err := h.engine.Ban(ctx, moderation.Request{GuildID: guildID, UserID: userID, Duration: durationOf("1d")})
	require.NoError(t, err)

	action, err := h.engine.ExpireManually(ctx, result.Action.ID)
	require.NoError(t, err)
	assert.False(t, action.Active)
	assert.False(t, h.actions.snapshot(action.ID).Active)
	assert.Equal(t, 1, h.count("unban"))
	assert.Equal(t, 1, h.count("log_update"))

	_, err = h.engine.ExpireManually(ctx, result.Action.ID)
	require.ErrorIs(t, err, moderation.ErrActionInactive)
	assert.Equal(t, 1, h.count("unban"))

	_, err = h.engine.ExpireManually(ctx, "missing")
	require.ErrorIs(t, err, moderation.ErrActionNotFound)
}

func TestExpireManuallyKeepsMuteWhenConfigLookupFails(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()
	h.config.configs[guildID] = &types.ModerationConfig{GuildID: guildID, MuteRoleID: ptr(muteRoleID)}

	result, err := h.engine.Mute(ctx, moderation.Request{GuildID: guildID, UserID: userID, Duration: durationOf("1d")})
	require.NoError(t, err)

	h.config.setErr(errUnavailable)
	_, err = h.engine.ExpireManually(ctx, result.Action.ID)
	require.ErrorIs(t, err, moderation.ErrPersistenceFailed)
	assert.True(t, h.actions.snapshot(result.Action.ID).Active)
	assert.Zero(t, h.count("revoke_role"))

	h.config.setErr(nil)
	action, err := h.engine.ExpireManually(ctx, result.Action.ID)
	require.NoError(t, err)
	assert.False(t, action.Active)
	assert.Equal(t, 1, h.count("revoke_role"))
}

func TestCorrections(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()

	result, err := h.engine.Strike(ctx, moderation.Request{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Duration:    durationOf("1d"),
		Reason:      "typo",
	})
	require.NoError(t, err)
	id := result.Action.ID

	latest, err := h.engine.LatestByModerator(ctx, guildID, moderatorID)
	require.NoError(t, err)
	assert.Equal(t, id, latest.ID)

	updated, err := h.engine.UpdateReason(ctx, id, "spamming links")
	require.NoError(t, err)
	assert.Equal(t, "spamming links", updated.Reason)
	assert.Equal(t, "spamming links", h.actions.snapshot(id).Reason)

	past := h.clock.Now().Add(-time.Minute)
	_, err = h.engine.UpdateExpiry(ctx, id, &past)
	require.ErrorIs(t, err, moderation.ErrInvalidDuration)

	updated, err = h.engine.UpdateExpiry(ctx, id, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.Expiry)

	history, err := h.engine.History(ctx, guildID, userID, false)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = h.engine.Remove(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, h.actions.snapshot(id))

	_, err = h.engine.Remove(ctx, id)
	require.ErrorIs(t, err, moderation.ErrActionNotFound)

	_, err = h.engine.LatestByModerator(ctx, guildID, 12345)
	require.ErrorIs(t, err, moderation.ErrActionNotFound)

	assert.Equal(t, 3, h.count("log_update"))
}

func TestUnbanAndUnmute(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()
	h.config.configs[guildID] = &types.ModerationConfig{GuildID: guildID, MuteRoleID: ptr(muteRoleID)}

	ban, err := h.engine.Ban(ctx, moderation.Request{GuildID: guildID, UserID: userID})
	require.NoError(t, err)
	mute, err := h.engine.Mute(ctx, moderation.Request{GuildID: guildID, UserID: userID, Duration: durationOf("1h")})
	require.NoError(t, err)

	ids, err := h.engine.Unban(ctx, guildID, userID, moderatorID)
	require.NoError(t, err)
	assert.Equal(t, []string{ban.Action.ID}, ids)
	assert.False(t, h.actions.snapshot(ban.Action.ID).Active)
	assert.True(t, h.actions.snapshot(mute.Action.ID).Active)

	ids, err = h.engine.Unmute(ctx, guildID, userID, moderatorID)
	require.NoError(t, err)
	assert.Equal(t, []string{mute.Action.ID}, ids)
	assert.Equal(t, 1, h.count("revoke_role"))

	h.platform.err["unban"] = errUnavailable
	_, err = h.engine.Unban(ctx, guildID, userID, moderatorID)
	require.ErrorIs(t, err, moderation.ErrPlatformEffectFailed)
}

func TestGuidance(t *testing.T) {
	t.Parallel()

	title, hint := moderation.Guidance(fmt.Errorf("wrapped: %w", moderation.ErrNoMuteRoleConfigured))
	assert.Equal(t, "No mute role configured", title)
	assert.NotEmpty(t, hint)

	title, _ = moderation.Guidance(errUnavailable)
	assert.Equal(t, "Something went wrong", title)
}
