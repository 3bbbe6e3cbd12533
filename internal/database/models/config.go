package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robalyx/reaper/internal/database/dbretry"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// GuildConfigModel handles database operations for per-guild moderation and logging settings.
type GuildConfigModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewGuildConfig creates a new GuildConfigModel instance.
func NewGuildConfig(db *bun.DB, logger *zap.Logger) *GuildConfigModel {
	return &GuildConfigModel{
		db:     db,
		logger: logger.Named("db_guild_config"),
	}
}

// GetModeration retrieves the moderation settings of a guild.
// Returns nil without an error if the guild never saved any.
func (m *GuildConfigModel) GetModeration(ctx context.Context, guildID uint64) (*types.ModerationConfig, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.ModerationConfig, error) {
		var config types.ModerationConfig
		err := m.db.NewSelect().
			Model(&config).
			Where("guild_id = ?", guildID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to get moderation config: %w", err)
		}

		return &config, nil
	})
}

// SaveModeration creates or replaces the moderation settings of a guild.
func (m *GuildConfigModel) SaveModeration(ctx context.Context, config *types.ModerationConfig) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(config).
			On("CONFLICT (guild_id) DO UPDATE").
			Set("mute_role_id = EXCLUDED.mute_role_id").
			Set("default_strike_duration = EXCLUDED.default_strike_duration").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to save moderation config: %w", err)
		}

		return nil
	})
}

// GetLogging retrieves the logging settings of a guild.
// Returns nil without an error if the guild never saved any.
func (m *GuildConfigModel) GetLogging(ctx context.Context, guildID uint64) (*types.LoggingConfig, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.LoggingConfig, error) {
		var config types.LoggingConfig
		err := m.db.NewSelect().
			Model(&config).
			Where("guild_id = ?", guildID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to get logging config: %w", err)
		}

		return &config, nil
	})
}

// SaveLogging creates or replaces the logging settings of a guild.
func (m *GuildConfigModel) SaveLogging(ctx context.Context, config *types.LoggingConfig) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(config).
			On("CONFLICT (guild_id) DO UPDATE").
			Set("log_actions = EXCLUDED.log_actions").
			Set("log_messages = EXCLUDED.log_messages").
			Set("log_voice = EXCLUDED.log_voice").
			Set("log_channel = EXCLUDED.log_channel").
			Set("log_action_channel = EXCLUDED.log_action_channel").
			Set("log_message_channel = EXCLUDED.log_message_channel").
			Set("log_voice_channel = EXCLUDED.log_voice_channel").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to save logging config: %w", err)
		}

		return nil
	})
}
