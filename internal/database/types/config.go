package types

import (
	"fmt"

	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/internal/duration"
	"github.com/uptrace/bun"
)

// ModerationConfig holds per-guild moderation settings.
type ModerationConfig struct {
	bun.BaseModel `bun:"table:moderation_configs,alias:mc"`

	GuildID               uint64  `bun:",pk"       json:"guildId"`
	MuteRoleID            *uint64 `bun:",nullzero" json:"muteRoleId,omitempty"`
	DefaultStrikeDuration *string `bun:",nullzero" json:"defaultStrikeDuration,omitempty"`
}

// MuteRole returns the configured mute role.
func (c *ModerationConfig) MuteRole() (uint64, bool) {
	if c == nil || c.MuteRoleID == nil || *c.MuteRoleID == 0 {
		return 0, false
	}
	return *c.MuteRoleID, true
}

// StrikeDuration returns the configured default strike duration text.
func (c *ModerationConfig) StrikeDuration() (string, bool) {
	if c == nil || c.DefaultStrikeDuration == nil || *c.DefaultStrikeDuration == "" {
		return "", false
	}
	return *c.DefaultStrikeDuration, true
}

// Validate rejects a default strike duration that does not parse to any duration.
func (c *ModerationConfig) Validate() error {
	if text, ok := c.StrikeDuration(); ok && duration.Parse(text).IsZero() {
		return fmt.Errorf("%w: default strike duration %q", ErrInvalidModerationConfig, text)
	}
	return nil
}

// LoggingConfig holds per-guild audit log settings.
type LoggingConfig struct {
	bun.BaseModel `bun:"table:logging_configs,alias:lc"`

	GuildID           uint64  `bun:",pk"                      json:"guildId"`
	LogActions        bool    `bun:",notnull,default:false"   json:"logActions"`
	LogMessages       bool    `bun:",notnull,default:false"   json:"logMessages"`
	LogVoice          bool    `bun:",notnull,default:false"   json:"logVoice"`
	LogChannel        *uint64 `bun:",nullzero"                json:"logChannel,omitempty"`
	LogActionChannel  *uint64 `bun:",nullzero"                json:"logActionChannel,omitempty"`
	LogMessageChannel *uint64 `bun:",nullzero"                json:"logMessageChannel,omitempty"`
	LogVoiceChannel   *uint64 `bun:",nullzero"                json:"logVoiceChannel,omitempty"`
}

// Channel resolves the channel a log entry of the given category is posted to.
// The category must be enabled. A single log channel overrides every per-category channel.
func (c *LoggingConfig) Channel(category enum.LogCategory) (uint64, bool) {
	if c == nil {
		return 0, false
	}

	var enabled bool
	var specific *uint64
	switch category {
	case enum.LogCategoryAction:
		enabled, specific = c.LogActions, c.LogActionChannel
	case enum.LogCategoryMessage:
		enabled, specific = c.LogMessages, c.LogMessageChannel
	case enum.LogCategoryVoice:
		enabled, specific = c.LogVoice, c.LogVoiceChannel
	}
	if !enabled {
		return 0, false
	}

	if c.LogChannel != nil && *c.LogChannel != 0 {
		return *c.LogChannel, true
	}
	if specific != nil && *specific != 0 {
		return *specific, true
	}
	return 0, false
}
