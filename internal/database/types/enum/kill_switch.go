package enum

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// ErrInvalidKillSwitchScope indicates an unknown kill switch scope.
var ErrInvalidKillSwitchScope = errors.New("invalid kill switch scope")

// KillSwitchScope is what a global kill switch disables.
//
//go:generate go tool enumer -type=KillSwitchScope -trimprefix=KillSwitchScope -transform=lower
type KillSwitchScope int

const (
	// KillSwitchScopeFeature disables a command or event feature for everyone.
	KillSwitchScopeFeature KillSwitchScope = iota
	// KillSwitchScopeGuild disables the bot inside one guild.
	KillSwitchScopeGuild
	// KillSwitchScopeUser blocks one user from using the bot anywhere.
	KillSwitchScopeUser
)

// Value stores the scope as its text name.
func (s KillSwitchScope) Value() (driver.Value, error) {
	if !s.IsAKillSwitchScope() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKillSwitchScope, int(s))
	}
	return s.String(), nil
}

// Scan reads a scope from its text name.
func (s *KillSwitchScope) Scan(src any) error {
	var name string
	switch v := src.(type) {
	case string:
		name = v
	case []byte:
		name = string(v)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidKillSwitchScope, src)
	}

	parsed, err := KillSwitchScopeString(name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKillSwitchScope, err)
	}

	*s = parsed
	return nil
}
