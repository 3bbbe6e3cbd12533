package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	moderationKeyPrefix = "config:moderation:"
	loggingKeyPrefix    = "config:logging:"
	killSwitchKey       = "config:kill_switches"
)

// GuildConfigStore is the persistent store behind the config cache.
type GuildConfigStore interface {
	GetModeration(ctx context.Context, guildID uint64) (*types.ModerationConfig, error)
	SaveModeration(ctx context.Context, config *types.ModerationConfig) error
	GetLogging(ctx context.Context, guildID uint64) (*types.LoggingConfig, error)
	SaveLogging(ctx context.Context, config *types.LoggingConfig) error
}

// KillSwitchStore is the persistent store for kill switches.
type KillSwitchStore interface {
	List(ctx context.Context) ([]*types.KillSwitch, error)
	Set(ctx context.Context, ks *types.KillSwitch) error
	Clear(ctx context.Context, scope enum.KillSwitchScope, target string) (bool, error)
}

// ConfigService serves guild settings and kill switches through a Redis read-through cache.
// Missing settings are cached as well so unconfigured guilds do not hit Postgres on every event.
type ConfigService struct {
	guilds   GuildConfigStore
	switches KillSwitchStore
	client   rueidis.Client
	ttl      time.Duration
	group    singleflight.Group
	logger   *zap.Logger
}

// NewConfig creates a new config service.
func NewConfig(
	guilds GuildConfigStore, switches KillSwitchStore, client rueidis.Client, ttl time.Duration, logger *zap.Logger,
) *ConfigService {
	return &ConfigService{
		guilds:   guilds,
		switches: switches,
		client:   client,
		ttl:      ttl,
		logger:   logger.Named("config_service"),
	}
}

// GetModeration returns the moderation settings of a guild, or nil if none were saved.
func (s *ConfigService) GetModeration(ctx context.Context, guildID uint64) (*types.ModerationConfig, error) {
	return readThrough(ctx, s, moderationKeyPrefix+strconv.FormatUint(guildID, 10),
		func(ctx context.Context) (*types.ModerationConfig, error) {
			return s.guilds.GetModeration(ctx, guildID)
		})
}

// SaveModeration stores moderation settings and drops the cached copy.
func (s *ConfigService) SaveModeration(ctx context.Context, config *types.ModerationConfig) error {
	if err := s.guilds.SaveModeration(ctx, config); err != nil {
		return err
	}
	s.invalidate(ctx, moderationKeyPrefix+strconv.FormatUint(config.GuildID, 10))
	return nil
}

// UpdateModeration applies change to the stored moderation settings of a guild and saves them.
// A guild without saved settings starts from an empty config.
func (s *ConfigService) UpdateModeration(
	ctx context.Context, guildID uint64, change func(*types.ModerationConfig) error,
) (*types.ModerationConfig, error) {
	config, err := s.guilds.GetModeration(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load moderation config: %w", err)
	}
	if config == nil {
		config = &types.ModerationConfig{GuildID: guildID}
	}

	if err := change(config); err != nil {
		return nil, err
	}
	config.GuildID = guildID
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := s.SaveModeration(ctx, config); err != nil {
		return nil, err
	}
	return config, nil
}

// GetLogging returns the logging settings of a guild, or nil if none were saved.
func (s *ConfigService) GetLogging(ctx context.Context, guildID uint64) (*types.LoggingConfig, error) {
	return readThrough(ctx, s, loggingKeyPrefix+strconv.FormatUint(guildID, 10),
		func(ctx context.Context) (*types.LoggingConfig, error) {
			return s.guilds.GetLogging(ctx, guildID)
		})
}

// SaveLogging stores logging settings and drops the cached copy.
func (s *ConfigService) SaveLogging(ctx context.Context, config *types.LoggingConfig) error {
	if err := s.guilds.SaveLogging(ctx, config); err != nil {
		return err
	}
	s.invalidate(ctx, loggingKeyPrefix+strconv.FormatUint(config.GuildID, 10))
	return nil
}

// UpdateLogging applies change to the stored logging settings of a guild and saves them.
func (s *ConfigService) UpdateLogging(
	ctx context.Context, guildID uint64, change func(*types.LoggingConfig) error,
) (*types.LoggingConfig, error) {
	config, err := s.guilds.GetLogging(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load logging config: %w", err)
	}
	if config == nil {
		config = &types.LoggingConfig{GuildID: guildID}
	}

	if err := change(config); err != nil {
		return nil, err
	}
	config.GuildID = guildID

	if err := s.SaveLogging(ctx, config); err != nil {
		return nil, err
	}
	return config, nil
}

// KillSwitches returns every active kill switch indexed by scope.
func (s *ConfigService) KillSwitches(ctx context.Context) (*types.KillSwitchSet, error) {
	return readThrough(ctx, s, killSwitchKey, func(ctx context.Context) (*types.KillSwitchSet, error) {
		switches, err := s.switches.List(ctx)
		if err != nil {
			return nil, err
		}
		return types.NewKillSwitchSet(switches), nil
	})
}

// SetKillSwitch enables a kill switch.
func (s *ConfigService) SetKillSwitch(ctx context.Context, ks *types.KillSwitch) error {
	if err := s.switches.Set(ctx, ks); err != nil {
		return err
	}
	s.invalidate(ctx, killSwitchKey)
	return nil
}

// ClearKillSwitch disables a kill switch. Returns false if it was not set.
func (s *ConfigService) ClearKillSwitch(ctx context.Context, scope enum.KillSwitchScope, target string) (bool, error) {
	cleared, err := s.switches.Clear(ctx, scope, target)
	if err != nil {
		return false, err
	}
	s.invalidate(ctx, killSwitchKey)
	return cleared, nil
}

// ListKillSwitches returns every kill switch straight from the store.
func (s *ConfigService) ListKillSwitches(ctx context.Context) ([]*types.KillSwitch, error) {
	return s.switches.List(ctx)
}

func (s *ConfigService) invalidate(ctx context.Context, key string) {
	if s.client == nil {
		return
	}
	if err := s.client.Do(ctx, s.client.B().Del().Key(key).Build()).Error(); err != nil {
		s.logger.Warn("Failed to invalidate cached config",
			zap.String("key", key),
			zap.Error(err))
	}
}

// readThrough serves key from Redis, loading and caching it on a miss.
// Concurrent misses for the same key share one load. Redis failures fall back to the loader.
func readThrough[T any](
	ctx context.Context, s *ConfigService, key string, load func(context.Context) (*T, error),
) (*T, error) {
	if s.client == nil {
		return load(ctx)
	}

	data, err := s.client.DoCache(ctx, s.client.B().Get().Key(key).Cache(), s.ttl).AsBytes()
	switch {
	case err == nil:
		var value *T
		if err := sonic.Unmarshal(data, &value); err == nil {
			return value, nil
		}
		s.logger.Warn("Discarding malformed cached config", zap.String("key", key))
	case !rueidis.IsRedisNil(err):
		s.logger.Warn("Failed to read cached config", zap.String("key", key), zap.Error(err))
	}

	result, err, _ := s.group.Do(key, func() (any, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}

		payload, err := sonic.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}

		err = s.client.Do(ctx, s.client.B().Set().Key(key).Value(rueidis.BinaryString(payload)).Ex(s.ttl).Build()).Error()
		if err != nil {
			s.logger.Warn("Failed to cache config", zap.String("key", key), zap.Error(err))
		}

		return value, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*T), nil
}
