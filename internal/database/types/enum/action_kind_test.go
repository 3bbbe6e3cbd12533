package enum_test

import (
	"testing"

	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionKindColumn(t *testing.T) {
	t.Parallel()

	for _, kind := range enum.ActionKindValues() {
		value, err := kind.Value()
		require.NoError(t, err)

		var scanned enum.ActionKind
		require.NoError(t, scanned.Scan([]byte(value.(string))))
		assert.Equal(t, kind, scanned)
	}

	_, err := enum.ActionKind(42).Value()
	require.ErrorIs(t, err, enum.ErrInvalidActionKind)

	var scanned enum.ActionKind
	require.ErrorIs(t, scanned.Scan("warn"), enum.ErrInvalidActionKind)
	require.ErrorIs(t, scanned.Scan(12), enum.ErrInvalidActionKind)
}

func TestActionKindString(t *testing.T) {
	t.Parallel()

	kind, err := enum.ActionKindString("BAN")
	require.NoError(t, err)
	assert.Equal(t, enum.ActionKindBan, kind)
	assert.True(t, kind.HasOngoingEffect())
	assert.False(t, enum.ActionKindKick.HasOngoingEffect())
}

func TestPermissionNames(t *testing.T) {
	t.Parallel()

	all := enum.PermissionValues()
	assert.Len(t, all, 24)
	assert.Equal(t, "moderation.search.others.expired", enum.PermissionModerationSearchOthersExpired.String())

	seen := make(map[string]bool, len(all))
	for _, p := range all {
		name := p.String()
		assert.False(t, seen[name], "duplicate permission %s", name)
		seen[name] = true

		parsed, err := enum.PermissionString(name)
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	_, err := enum.ParsePermission("moderation.everything")
	require.ErrorIs(t, err, enum.ErrInvalidPermission)
}

func TestKillSwitchScopeColumn(t *testing.T) {
	t.Parallel()

	for _, scope := range enum.KillSwitchScopeValues() {
		value, err := scope.Value()
		require.NoError(t, err)

		var scanned enum.KillSwitchScope
		require.NoError(t, scanned.Scan(value))
		assert.Equal(t, scope, scanned)
	}

	assert.Equal(t, []string{"feature", "guild", "user"}, enum.KillSwitchScopeStrings())

	var scanned enum.KillSwitchScope
	require.ErrorIs(t, scanned.Scan("channel"), enum.ErrInvalidKillSwitchScope)
	_, err := enum.KillSwitchScope(9).Value()
	require.ErrorIs(t, err, enum.ErrInvalidKillSwitchScope)
}
