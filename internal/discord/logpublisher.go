package discord

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"go.uber.org/zap"
)

// LoggingConfigSource loads a guild's logging settings. A nil config means none were saved.
type LoggingConfigSource interface {
	GetLogging(ctx context.Context, guildID uint64) (*types.LoggingConfig, error)
}

// LogPublisher posts audit entries to a guild's configured log channel.
type LogPublisher struct {
	rest   RestClient
	config LoggingConfigSource
	logger *zap.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(client RestClient, config LoggingConfigSource, logger *zap.Logger) *LogPublisher {
	return &LogPublisher{
		rest:   client,
		config: config,
		logger: logger.Named("discord_log"),
	}
}

// PublishAction posts a newly issued action.
func (p *LogPublisher) PublishAction(ctx context.Context, action *types.Action) error {
	return p.Publish(ctx, action.GuildID, enum.LogCategoryAction, LogEmbed(action))
}

// PublishUpdate posts a correction to an action.
func (p *LogPublisher) PublishUpdate(ctx context.Context, action *types.Action, update types.ActionUpdate) error {
	return p.Publish(ctx, action.GuildID, enum.LogCategoryAction, UpdateEmbed(action, update))
}

// Publish posts embed to the channel configured for category.
// Nothing is posted when the category is disabled or has no channel.
func (p *LogPublisher) Publish(
	ctx context.Context, guildID uint64, category enum.LogCategory, embed discord.Embed,
) error {
	config, err := p.config.GetLogging(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to load logging config: %w", err)
	}

	channelID, ok := config.Channel(category)
	if !ok {
		p.logger.Debug("Logging disabled for category",
			zap.Uint64("guildID", guildID),
			zap.Stringer("category", category))
		return nil
	}

	_, err = p.rest.CreateMessage(snowflake.ID(channelID), discord.NewMessageCreateBuilder().
		SetEmbeds(embed).
		Build(), rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to post log entry to channel %d: %w", channelID, err)
	}

	return nil
}
