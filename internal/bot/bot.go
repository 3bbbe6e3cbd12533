package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/redis/rueidis"
	"github.com/robalyx/reaper/internal/bot/commands"
	"github.com/robalyx/reaper/internal/database"
	reaperDiscord "github.com/robalyx/reaper/internal/discord"
	"github.com/robalyx/reaper/internal/moderation"
	"github.com/robalyx/reaper/internal/permission"
	"github.com/robalyx/reaper/internal/redis"
	"github.com/robalyx/reaper/internal/setup/config"
	"go.uber.org/zap"
)

// ErrNotInGuild is returned for commands invoked outside of a guild.
var ErrNotInGuild = errors.New("commands can only be used inside a server")

// sweeperLeaseKey names the Redis lease shared by every sweeper process.
const sweeperLeaseKey = "sweeper"

// Bot connects the moderation engine to the Discord gateway.
// It routes slash commands and automod executions to the command handler.
type Bot struct {
	client  bot.Client
	engine  *moderation.Engine
	sweeper *moderation.Sweeper
	handler *commands.Handler
	config  *config.BotConfig
	logger  *zap.Logger
}

// Options carry what New needs besides the database.
type Options struct {
	Config *config.BotConfig
	// LeaseClient, when set, holds the sweeper lease.
	LeaseClient rueidis.Client
	// InstanceID identifies this process as the lease owner.
	InstanceID string
}

// New creates the Discord client and wires the engine, sweeper and command handler to it.
func New(db database.Client, opts Options, logger *zap.Logger) (*Bot, error) {
	b := &Bot{
		config: opts.Config,
		logger: logger.Named("bot"),
	}

	// Configure Discord client with required gateway intents and event handlers
	client, err := disgo.New(opts.Config.Discord.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentAutoModerationExecution,
			),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnReady:                         b.handleReady,
			OnApplicationCommandInteraction: b.handleApplicationCommandInteraction,
			OnAutoModerationActionExecution: b.handleAutoModerationActionExecution,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}
	b.client = client

	rest := client.Rest()
	configService := db.Service().Config()

	b.engine = moderation.NewEngine(moderation.Dependencies{
		Actions:     db.Model().Action(),
		Escalations: db.Model().Escalation(),
		Config:      configService,
		Platform:    reaperDiscord.NewPlatform(rest, logger),
		Notifier:    reaperDiscord.NewNotifier(rest, logger),
		Logs:        reaperDiscord.NewLogPublisher(rest, configService, logger),
		BotUserID:   uint64(client.ID()),
	}, logger)

	sweeperOpts := moderation.SweeperOptions{
		Interval:    opts.Config.Sweeper.IntervalDuration(),
		BatchSize:   opts.Config.Sweeper.BatchSize,
		Concurrency: opts.Config.Sweeper.Concurrency,
	}
	if opts.Config.Sweeper.UseLease && opts.LeaseClient != nil {
		sweeperOpts.Lease = redis.NewLease(opts.LeaseClient, sweeperLeaseKey, opts.InstanceID)
	}
	b.sweeper = moderation.NewSweeper(b.engine, sweeperOpts, logger)

	b.handler = commands.NewHandler(commands.Dependencies{
		Moderator:   b.engine,
		Permissions: permission.NewResolver(db.Model().Permission(), logger),
		Switches:    configService,
	}, logger)

	return b, nil
}

// Start registers the slash commands with Discord and opens the gateway connection.
func (b *Bot) Start(ctx context.Context) error {
	if b.config.Discord.SyncCommands {
		if err := b.registerCommands(); err != nil {
			return err
		}
	}

	b.logger.Info("Starting bot")
	if err := b.client.OpenGateway(ctx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}
	return nil
}

// Close gracefully shuts down the Discord gateway connection.
func (b *Bot) Close(ctx context.Context) {
	b.logger.Info("Closing bot")
	b.client.Close(ctx)
}

// Sweeper returns the expiry sweeper driven by this bot's engine.
func (b *Bot) Sweeper() *moderation.Sweeper {
	return b.sweeper
}

// registerCommands registers the commands globally, or per guild when guilds are listed.
func (b *Bot) registerCommands() error {
	definitions := commands.Definitions()
	rest := b.client.Rest()

	if len(b.config.Discord.CommandGuilds) == 0 {
		b.logger.Info("Registering global commands", zap.Int("count", len(definitions)))
		if _, err := rest.SetGlobalCommands(b.client.ApplicationID(), definitions); err != nil {
			return fmt.Errorf("failed to register commands: %w", err)
		}
		return nil
	}

	for _, guildID := range b.config.Discord.CommandGuilds {
		b.logger.Info("Registering guild commands",
			zap.Uint64("guildID", guildID),
			zap.Int("count", len(definitions)))
		if _, err := rest.SetGuildCommands(b.client.ApplicationID(), snowflake.ID(guildID), definitions); err != nil {
			return fmt.Errorf("failed to register commands in guild %d: %w", guildID, err)
		}
	}
	return nil
}

func (b *Bot) handleReady(event *events.Ready) {
	b.logger.Info("Bot is ready",
		zap.String("username", event.User.Username),
		zap.Int("guilds", len(event.Guilds)))
}

// handleApplicationCommandInteraction defers the response and runs the command in a goroutine.
func (b *Bot) handleApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	go func() {
		// Defer response to prevent Discord timeout while processing
		if err := event.DeferCreateMessage(true); err != nil {
			b.logger.Error("Failed to defer create message", zap.Error(err))
			return
		}

		data, ok := event.Data.(discord.SlashCommandInteractionData)
		if !ok {
			b.respondWithError(event, commands.ErrUnknownCommand)
			return
		}

		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in application command interaction handler", zap.Any("panic", r))
				b.respondWithError(event, errors.New("internal error"))
			}
			b.logger.Debug("Application command interaction handled",
				zap.String("command", data.CommandName()),
				zap.Duration("duration", time.Since(start)))
		}()

		ctx, cancel := context.WithTimeout(context.Background(), b.config.RequestTimeoutDuration())
		defer cancel()

		actor, err := b.actor(event)
		if err != nil {
			b.respondWithError(event, err)
			return
		}

		embed, err := b.handler.Handle(ctx, commands.Invocation{
			Command: data.CommandName(),
			Actor:   actor,
			Options: data,
		})
		if err != nil {
			b.logger.Debug("Command failed",
				zap.String("command", data.CommandName()),
				zap.Uint64("guildID", actor.GuildID),
				zap.Uint64("userID", actor.UserID),
				zap.Error(err))
			b.respondWithError(event, err)
			return
		}

		b.respond(event, embed)
	}()
}

// handleAutoModerationActionExecution strikes members who trip a rule named with "strike".
// A rule with several actions sends one execution per action, so only the first one is handled.
func (b *Bot) handleAutoModerationActionExecution(event *events.AutoModerationActionExecution) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in automod execution handler", zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), b.config.RequestTimeoutDuration())
		defer cancel()

		rule, err := b.client.Rest().GetAutoModerationRule(event.GuildID, event.RuleID)
		if err != nil {
			b.logger.Error("Failed to get automod rule",
				zap.Uint64("guildID", uint64(event.GuildID)),
				zap.Uint64("ruleID", uint64(event.RuleID)),
				zap.Error(err))
			return
		}

		if len(rule.Actions) > 0 && rule.Actions[0].Type != event.Action.Type {
			return
		}

		result, err := b.handler.HandleAutomod(ctx, uint64(event.GuildID), uint64(event.UserID), rule.Name)
		if err != nil {
			b.logger.Error("Failed to strike automod violation",
				zap.Uint64("guildID", uint64(event.GuildID)),
				zap.Uint64("userID", uint64(event.UserID)),
				zap.String("rule", rule.Name),
				zap.Error(err))
			return
		}
		if result != nil {
			b.logger.Info("Struck automod violation",
				zap.Uint64("guildID", uint64(event.GuildID)),
				zap.Uint64("userID", uint64(event.UserID)),
				zap.String("actionID", result.Action.ID))
		}
	}()
}

// actor describes the invoking member for permission resolution.
func (b *Bot) actor(event *events.ApplicationCommandInteractionCreate) (permission.Actor, error) {
	guildID := event.GuildID()
	member := event.Member()
	if guildID == nil || member == nil {
		return permission.Actor{}, ErrNotInGuild
	}

	roleIDs := make([]uint64, len(member.RoleIDs))
	for i, id := range member.RoleIDs {
		roleIDs[i] = uint64(id)
	}

	return permission.Actor{
		GuildID:         uint64(*guildID),
		UserID:          uint64(member.User.ID),
		RoleIDs:         roleIDs,
		IsOwner:         b.isOwner(*guildID, member.User.ID),
		IsAdministrator: member.Permissions.Has(discord.PermissionAdministrator),
	}, nil
}

// isOwner checks the guild cache first and falls back to the REST API.
func (b *Bot) isOwner(guildID, userID snowflake.ID) bool {
	if guild, ok := b.client.Caches().Guild(guildID); ok {
		return guild.OwnerID == userID
	}

	guild, err := b.client.Rest().GetGuild(guildID, false)
	if err != nil {
		b.logger.Warn("Failed to fetch guild owner",
			zap.Uint64("guildID", uint64(guildID)),
			zap.Error(err))
		return false
	}
	return guild.OwnerID == userID
}

func (b *Bot) respond(event *events.ApplicationCommandInteractionCreate, embed discord.Embed) {
	_, err := event.Client().Rest().UpdateInteractionResponse(
		event.ApplicationID(), event.Token(),
		discord.NewMessageUpdateBuilder().SetEmbeds(embed).Build(),
	)
	if err != nil {
		b.logger.Error("Failed to update interaction response", zap.Error(err))
	}
}

func (b *Bot) respondWithError(event *events.ApplicationCommandInteractionCreate, err error) {
	if errors.Is(err, ErrNotInGuild) {
		b.respond(event, reaperDiscord.ErrorEmbed("Server only", ErrNotInGuild.Error()))
		return
	}
	b.respond(event, commands.ErrorEmbed(err))
}
