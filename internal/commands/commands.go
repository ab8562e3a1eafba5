package commands

import "github.com/bwmarrin/discordgo"

func floatPtr(v float64) *float64 { return &v }

// GetAllCommands returns all application commands
func GetAllCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "modsetup",
			Description: "Guided automod setup",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "enable",
					Description: "Step 1: Enable automod and set the log channel",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "enabled",
							Description: "Turn the automod system on",
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Required:    true,
						},
						{
							Name:        "logchannel",
							Description: "Channel for moderation logs",
							Type:        discordgo.ApplicationCommandOptionChannel,
							Required:    true,
						},
					},
				},
				{
					Name:        "features",
					Description: "Step 2: Choose which message rules run",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "spam",
							Description: "Enable anti-spam",
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Required:    false,
						},
						{
							Name:        "links",
							Description: "Enable anti-link",
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Required:    false,
						},
						{
							Name:        "caps",
							Description: "Enable anti-caps",
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Required:    false,
						},
						{
							Name:        "emoji",
							Description: "Enable anti-emoji spam",
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Required:    false,
						},
					},
				},
				{
					Name:        "profanity",
					Description: "Step 3: Configure the profanity filter",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "enabled",
							Description: "Enable the profanity filter",
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Required:    true,
						},
						{
							Name:        "words",
							Description: "Comma-separated words to blacklist",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    false,
						},
					},
				},
				{
					Name:        "warnings",
					Description: "Step 4: Set the warning threshold",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "max",
							Description: "Active warnings before escalation (1-5)",
							Type:        discordgo.ApplicationCommandOptionInteger,
							Required:    true,
							MinValue:    floatPtr(1),
							MaxValue:    5,
						},
					},
				},
				{
					Name:        "escalation",
					Description: "Step 5: Choose the escalation chain",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "first",
							Description: "First escalation action",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    true,
							Choices:     escalationChoices(),
						},
						{
							Name:        "second",
							Description: "Second escalation action",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    false,
							Choices:     escalationChoices(),
						},
						{
							Name:        "third",
							Description: "Third escalation action",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    false,
							Choices:     escalationChoices(),
						},
					},
				},
				{
					Name:        "status",
					Description: "Show the current automod configuration",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
				{
					Name:        "reconfigure",
					Description: "Reset the configuration and restart setup",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
			},
		},
		{
			Name:        "warn",
			Description: "Warn a member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "Member to warn",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
				{
					Name:        "reason",
					Description: "Reason for the warning",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
			},
		},
		{
			Name:        "warnings",
			Description: "View a member's warnings",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "Member to look up",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
			},
		},
		{
			Name:        "clearwarnings",
			Description: "Clear all warnings for a member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "Member whose warnings to clear",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
			},
		},
		{
			Name:        "addword",
			Description: "Add a word to the profanity blacklist",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "word",
					Description: "Word to blacklist",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
			},
		},
		{
			Name:        "removeword",
			Description: "Remove a word from the profanity blacklist",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "word",
					Description: "Word to remove",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
			},
		},
		{
			Name:        "listwords",
			Description: "Show the profanity blacklist",
		},
		{
			Name:        "kick",
			Description: "Kick a member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "Member to kick",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
				{
					Name:        "reason",
					Description: "Reason for the kick",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    false,
				},
			},
		},
		{
			Name:        "ban",
			Description: "Ban a member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "Member to ban",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
				{
					Name:        "reason",
					Description: "Reason for the ban",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    false,
				},
			},
		},
		{
			Name:        "unban",
			Description: "Unban a user by ID",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "userid",
					Description: "ID of the user to unban",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
			},
		},
		{
			Name:        "timeout",
			Description: "Time out a member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "Member to time out",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
				{
					Name:        "duration",
					Description: "Duration like 10m, 1h or 1d (default 10m)",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    false,
				},
				{
					Name:        "reason",
					Description: "Reason for the timeout",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    false,
				},
			},
		},
		{
			Name:        "purge",
			Description: "Bulk delete recent messages in this channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "count",
					Description: "Number of messages to delete (1-100)",
					Type:        discordgo.ApplicationCommandOptionInteger,
					Required:    true,
					MinValue:    floatPtr(1),
					MaxValue:    100,
				},
			},
		},
		{
			Name:        "ping",
			Description: "Check Discord API latency",
		},
		{
			Name:        "stats",
			Description: "Show bot and host statistics",
		},
	}
}

func escalationChoices() []*discordgo.ApplicationCommandOptionChoice {
	return []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Timeout", Value: "timeout"},
		{Name: "Kick", Value: "kick"},
		{Name: "Ban", Value: "ban"},
	}
}
