package types_test

import (
	"testing"

	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscalationRuleValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rule    types.EscalationRule
		wantErr bool
	}{
		{name: "mute rule", rule: types.EscalationRule{StrikeCount: 3, Kind: enum.ActionKindMute, Duration: ptr("1h")}},
		{name: "permanent ban rule", rule: types.EscalationRule{StrikeCount: 5, Kind: enum.ActionKindBan}},
		{name: "strike rule", rule: types.EscalationRule{StrikeCount: 2, Kind: enum.ActionKindStrike}, wantErr: true},
		{name: "zero count", rule: types.EscalationRule{StrikeCount: 0, Kind: enum.ActionKindKick}, wantErr: true},
		{name: "unknown kind", rule: types.EscalationRule{StrikeCount: 1, Kind: enum.ActionKind(9)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.rule.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, types.ErrInvalidEscalation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestKillSwitchSetBlocked(t *testing.T) {
	t.Parallel()

	set := types.NewKillSwitchSet([]*types.KillSwitch{
		{Scope: enum.KillSwitchScopeFeature, Target: "ban", Reason: "maintenance"},
		{Scope: enum.KillSwitchScopeGuild, Target: "100", Reason: "abuse"},
		{Scope: enum.KillSwitchScopeUser, Target: "7", Reason: "spam"},
	})

	reason, blocked := set.Blocked("ban", "1", "2")
	assert.True(t, blocked)
	assert.Equal(t, "maintenance", reason)

	reason, blocked = set.Blocked("strike", "100", "2")
	assert.True(t, blocked)
	assert.Equal(t, "abuse", reason)

	reason, blocked = set.Blocked("strike", "1", "7")
	assert.True(t, blocked)
	assert.Equal(t, "spam", reason)

	_, blocked = set.Blocked("strike", "1", "2")
	assert.False(t, blocked)

	var empty *types.KillSwitchSet
	_, blocked = empty.Blocked("ban", "100", "7")
	assert.False(t, blocked)
}
