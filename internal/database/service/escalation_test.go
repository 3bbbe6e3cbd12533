package service_test

import (
	"testing"

	"github.com/robalyx/reaper/internal/database/service"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEscalations(t *testing.T) {
	t.Parallel()

	hour := "1h"
	rules := []*types.EscalationRule{
		{StrikeCount: 3, Kind: enum.ActionKindMute, Duration: &hour},
		{StrikeCount: 5, Kind: enum.ActionKindBan},
	}
	require.NoError(t, service.ValidateEscalations(42, rules))
	for _, rule := range rules {
		assert.Equal(t, uint64(42), rule.GuildID)
	}

	duplicate := []*types.EscalationRule{
		{StrikeCount: 3, Kind: enum.ActionKindMute},
		{StrikeCount: 3, Kind: enum.ActionKindKick},
	}
	require.ErrorIs(t, service.ValidateEscalations(42, duplicate), types.ErrDuplicateEscalation)

	strike := []*types.EscalationRule{{StrikeCount: 2, Kind: enum.ActionKindStrike}}
	require.ErrorIs(t, service.ValidateEscalations(42, strike), types.ErrInvalidEscalation)
}
