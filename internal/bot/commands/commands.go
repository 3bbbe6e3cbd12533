// Package commands implements the moderation slash commands and the automod strike trigger.
package commands

import "github.com/disgoorg/disgo/discord"

// Command names.
const (
	CommandStrike   = "strike"
	CommandMute     = "mute"
	CommandKick     = "kick"
	CommandBan      = "ban"
	CommandUnban    = "unban"
	CommandUnmute   = "unmute"
	CommandExpire   = "expire"
	CommandRemove   = "remove"
	CommandReason   = "reason"
	CommandDuration = "duration"
	CommandSearch   = "search"
)

// Option names.
const (
	OptionUser     = "user"
	OptionReason   = "reason"
	OptionDuration = "duration"
	OptionUUID     = "uuid"
	OptionExpired  = "expired"
)

func userOption(description string, required bool) discord.ApplicationCommandOptionUser {
	return discord.ApplicationCommandOptionUser{Name: OptionUser, Description: description, Required: required}
}

func reasonOption(description string, required bool) discord.ApplicationCommandOptionString {
	return discord.ApplicationCommandOptionString{Name: OptionReason, Description: description, Required: required}
}

func durationOption(description string, required bool) discord.ApplicationCommandOptionString {
	return discord.ApplicationCommandOptionString{
		Name:        OptionDuration,
		Description: description + ` such as "30m", "7d" or "permanent"`,
		Required:    required,
	}
}

func uuidOption(description string, required bool) discord.ApplicationCommandOptionString {
	return discord.ApplicationCommandOptionString{Name: OptionUUID, Description: description, Required: required}
}

// Definitions returns the slash commands to register with Discord.
func Definitions() []discord.ApplicationCommandCreate {
	dmPermission := false
	guildOnly := &dmPermission

	return []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:         CommandStrike,
			Description:  "Strike a user in the server, effectively warning them",
			DMPermission: guildOnly,
			Options: []discord.ApplicationCommandOption{
				userOption("The user to strike", true),
				reasonOption("The reason for the strike", true),
				durationOption("The duration of the strike", false),
			},
		},
		discord.SlashCommandCreate{
			Name:         CommandMute,
			Description:  "Mute a user in the server",
			DMPermission: guildOnly,
			Options: []discord.ApplicationCommandOption{
				userOption("The user to mute", true),
				reasonOption("The reason for the mute", true),
				durationOption("The duration of the mute", false),
			},
		},
		discord.SlashCommandCreate{
			Name:         CommandKick,
			Description:  "Kick a user from the server",
			DMPermission: guildOnly,
			Options: []discord.ApplicationCommandOption{
				userOption("The user to kick", true),
				reasonOption("The reason for the kick", true),
			},
		},
		discord.SlashCommandCreate{
			Name:         CommandBan,
			Description:  "Ban a user from the server",
			DMPermission: guildOnly,
			Options: []discord.ApplicationCommandOption{
				userOption("The user to ban", true),
				reasonOption("The reason for the ban", true),
				durationOption("The duration of the ban", false),
			},
		},
		discord.SlashCommandCreate{
			Name:         CommandUnban,
			Description:  "Unban a user from the server",
			DMPermission: guildOnly,
			Options: []discord.ApplicationCommandOption{
				userOption("The user to unban", true),
			},
		},
		discord.SlashCommandCreate{
			Name:         CommandUnmute,
			Description:  "Unmute a user in the server",
			DMPermission: guildOnly,
			Options: []discord.ApplicationCommandOption{
				userOption("The user to unmute", true),
			},
		},
		discord.SlashCommandCreate{
			Name:         CommandExpire,
			Description:  "Expire an action before its end",
			DMPermission: guildOnly,
			Options: []discord.ApplicationCommandOption{
				uuidOption("The UUID of the action", true),
			},
		},
		discord.SlashCommandCreate{
			Name:         CommandRemove,
			Description:  "Remove an action from the record",
			DMPermission: guildOnly,
			Options: []discord.ApplicationCommandOption{
				uuidOption("The UUID of the action", true),
			},
		},
		discord.SlashCommandCreate{
			Name:         CommandReason,
			Description:  "Change the reason of an action",
			DMPermission: guildOnly,
			Options: []discord.ApplicationCommandOption{
				reasonOption("The new reason for this action", true),
				uuidOption("The UUID of the action, defaults to your latest action", false),
			},
		},
		discord.SlashCommandCreate{
			Name:         CommandDuration,
			Description:  "Change the duration of an action",
			DMPermission: guildOnly,
			Options: []discord.ApplicationCommandOption{
				durationOption("The new duration, counted from now", true),
				uuidOption("The UUID of the action, defaults to your latest action", false),
			},
		},
		discord.SlashCommandCreate{
			Name:         CommandSearch,
			Description:  "Search a user's moderation history",
			DMPermission: guildOnly,
			Options: []discord.ApplicationCommandOption{
				userOption("The user to search, defaults to yourself", false),
				discord.ApplicationCommandOptionBool{
					Name:        OptionExpired,
					Description: "Whether to include expired actions",
				},
				uuidOption("Look up a single action by UUID instead", false),
			},
		},
	}
}
