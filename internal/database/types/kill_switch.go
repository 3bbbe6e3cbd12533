package types

import (
	"time"

	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// KillSwitch disables a feature, a guild or a user across every shard.
type KillSwitch struct {
	bun.BaseModel `bun:"table:kill_switches,alias:ks"`

	Scope     enum.KillSwitchScope `bun:",pk,type:text"      json:"scope"`
	Target    string               `bun:",pk,type:text"      json:"target"` // Feature name or snowflake
	Reason    string               `bun:",notnull,type:text" json:"reason"`
	CreatedAt time.Time            `bun:",notnull"           json:"createdAt"`
}

// KillSwitchSet is the cached view of every active kill switch.
type KillSwitchSet struct {
	Features map[string]string `json:"features"`
	Guilds   map[string]string `json:"guilds"`
	Users    map[string]string `json:"users"`
}

// NewKillSwitchSet indexes the given switches by scope.
func NewKillSwitchSet(switches []*KillSwitch) *KillSwitchSet {
	set := &KillSwitchSet{
		Features: make(map[string]string),
		Guilds:   make(map[string]string),
		Users:    make(map[string]string),
	}
	for _, s := range switches {
		switch s.Scope {
		case enum.KillSwitchScopeFeature:
			set.Features[s.Target] = s.Reason
		case enum.KillSwitchScopeGuild:
			set.Guilds[s.Target] = s.Reason
		case enum.KillSwitchScopeUser:
			set.Users[s.Target] = s.Reason
		}
	}
	return set
}

// Blocked reports whether any of the feature, guild or user is disabled, with the stored reason.
func (s *KillSwitchSet) Blocked(feature, guildID, userID string) (string, bool) {
	if s == nil {
		return "", false
	}
	if reason, ok := s.Features[feature]; ok {
		return reason, true
	}
	if reason, ok := s.Guilds[guildID]; ok && guildID != "" {
		return reason, true
	}
	if reason, ok := s.Users[userID]; ok && userID != "" {
		return reason, true
	}
	return "", false
}
