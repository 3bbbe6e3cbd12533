package discord

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/reaper/internal/database/types"
	"go.uber.org/zap"
)

// Notifier sends action notices to users through direct messages.
type Notifier struct {
	rest   RestClient
	logger *zap.Logger
}

// NewNotifier creates a new Notifier.
func NewNotifier(client RestClient, logger *zap.Logger) *Notifier {
	return &Notifier{
		rest:   client,
		logger: logger.Named("discord_notifier"),
	}
}

// NotifyAction sends the target of action a direct message describing it.
func (n *Notifier) NotifyAction(ctx context.Context, action *types.Action) error {
	channel, err := n.rest.CreateDMChannel(snowflake.ID(action.UserID), rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}

	_, err = n.rest.CreateMessage(channel.ID(), discord.NewMessageCreateBuilder().
		SetEmbeds(NoticeEmbed(action, n.guildName(ctx, action.GuildID))).
		Build(), rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}

	return nil
}

// guildName returns the guild's name, or a placeholder if it cannot be fetched.
func (n *Notifier) guildName(ctx context.Context, guildID uint64) string {
	guild, err := n.rest.GetGuild(snowflake.ID(guildID), false, rest.WithCtx(ctx))
	if err != nil {
		n.logger.Debug("Failed to fetch guild name", zap.Uint64("guildID", guildID), zap.Error(err))
		return "a server"
	}
	return guild.Name
}
