package main

import (
	"context"

	"github.com/robalyx/reaper/internal/database/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// configCommand edits guild moderation and logging settings.
// Saving drops the bot's cached copy of the settings.
func configCommand(deps *toolDeps) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage guild settings",
		Commands: []*cli.Command{
			{
				Name:  "moderation",
				Usage: "Moderation settings",
				Commands: []*cli.Command{
					{
						Name:      "show",
						Usage:     "Show the moderation settings of a guild",
						ArgsUsage: "GUILD_ID",
						Action: func(ctx context.Context, c *cli.Command) error {
							guildID, err := parseGuildID(c.Args().First())
							if err != nil {
								return err
							}

							config, err := deps.db.Service().Config().GetModeration(ctx, guildID)
							if err != nil {
								return err
							}
							logModeration(deps.logger, guildID, config)
							return nil
						},
					},
					{
						Name:      "set",
						Usage:     "Change the moderation settings of a guild",
						ArgsUsage: "GUILD_ID",
						Flags: []cli.Flag{
							&cli.UintFlag{
								Name:  "mute-role",
								Usage: "Role granted by mutes (0 clears it)",
							},
							&cli.StringFlag{
								Name:  "default-strike-duration",
								Usage: "Expiry of strikes issued without a duration (empty clears it)",
							},
						},
						Action: func(ctx context.Context, c *cli.Command) error {
							guildID, err := parseGuildID(c.Args().First())
							if err != nil {
								return err
							}

							config, err := deps.db.Service().Config().UpdateModeration(ctx, guildID,
								func(config *types.ModerationConfig) error {
									if c.IsSet("mute-role") {
										config.MuteRoleID = optionalID(uint64(c.Uint("mute-role")))
									}
									if c.IsSet("default-strike-duration") {
										config.DefaultStrikeDuration = optionalText(c.String("default-strike-duration"))
									}
									return nil
								})
							if err != nil {
								return err
							}
							logModeration(deps.logger, guildID, config)
							return nil
						},
					},
				},
			},
			{
				Name:  "logging",
				Usage: "Audit log settings",
				Commands: []*cli.Command{
					{
						Name:      "show",
						Usage:     "Show the logging settings of a guild",
						ArgsUsage: "GUILD_ID",
						Action: func(ctx context.Context, c *cli.Command) error {
							guildID, err := parseGuildID(c.Args().First())
							if err != nil {
								return err
							}

							config, err := deps.db.Service().Config().GetLogging(ctx, guildID)
							if err != nil {
								return err
							}
							logLogging(deps.logger, guildID, config)
							return nil
						},
					},
					{
						Name:      "set",
						Usage:     "Change the logging settings of a guild",
						ArgsUsage: "GUILD_ID",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "actions", Usage: "Log moderation actions"},
							&cli.BoolFlag{Name: "messages", Usage: "Log message edits and deletions"},
							&cli.BoolFlag{Name: "voice", Usage: "Log voice activity"},
							&cli.UintFlag{Name: "channel", Usage: "Channel for every category (0 clears it)"},
							&cli.UintFlag{Name: "action-channel", Usage: "Channel for moderation actions (0 clears it)"},
							&cli.UintFlag{Name: "message-channel", Usage: "Channel for message logs (0 clears it)"},
							&cli.UintFlag{Name: "voice-channel", Usage: "Channel for voice logs (0 clears it)"},
						},
						Action: func(ctx context.Context, c *cli.Command) error {
							guildID, err := parseGuildID(c.Args().First())
							if err != nil {
								return err
							}

							config, err := deps.db.Service().Config().UpdateLogging(ctx, guildID,
								func(config *types.LoggingConfig) error {
									if c.IsSet("actions") {
										config.LogActions = c.Bool("actions")
									}
									if c.IsSet("messages") {
										config.LogMessages = c.Bool("messages")
									}
									if c.IsSet("voice") {
										config.LogVoice = c.Bool("voice")
									}
									for flag, field := range map[string]**uint64{
										"channel":         &config.LogChannel,
										"action-channel":  &config.LogActionChannel,
										"message-channel": &config.LogMessageChannel,
										"voice-channel":   &config.LogVoiceChannel,
									} {
										if c.IsSet(flag) {
											*field = optionalID(uint64(c.Uint(flag)))
										}
									}
									return nil
								})
							if err != nil {
								return err
							}
							logLogging(deps.logger, guildID, config)
							return nil
						},
					},
				},
			},
		},
	}
}

// optionalID maps zero to an unset column.
func optionalID(id uint64) *uint64 {
	if id == 0 {
		return nil
	}
	return &id
}

func optionalText(text string) *string {
	if text == "" {
		return nil
	}
	return &text
}

func logModeration(logger *zap.Logger, guildID uint64, config *types.ModerationConfig) {
	if config == nil {
		logger.Info("No moderation settings", zap.Uint64("guildID", guildID))
		return
	}

	muteRole, _ := config.MuteRole()
	duration, _ := config.StrikeDuration()
	logger.Info("Moderation settings",
		zap.Uint64("guildID", guildID),
		zap.Uint64("muteRole", muteRole),
		zap.String("defaultStrikeDuration", duration))
}

func logLogging(logger *zap.Logger, guildID uint64, config *types.LoggingConfig) {
	if config == nil {
		logger.Info("No logging settings", zap.Uint64("guildID", guildID))
		return
	}

	logger.Info("Logging settings",
		zap.Uint64("guildID", guildID),
		zap.Bool("actions", config.LogActions),
		zap.Bool("messages", config.LogMessages),
		zap.Bool("voice", config.LogVoice),
		zap.Uint64p("channel", config.LogChannel),
		zap.Uint64p("actionChannel", config.LogActionChannel),
		zap.Uint64p("messageChannel", config.LogMessageChannel),
		zap.Uint64p("voiceChannel", config.LogVoiceChannel))
}
