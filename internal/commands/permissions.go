package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// checkModerator reports whether the invoking member may use moderation
// commands: server owner, Administrator, or Moderate Members.
func checkModerator(s *discordgo.Session, i *discordgo.InteractionCreate) (bool, error) {
	guild, err := s.State.Guild(i.GuildID)
	if err != nil {
		guild, err = s.Guild(i.GuildID)
		if err != nil {
			return false, fmt.Errorf("failed to get guild: %w", err)
		}
	}

	if i.Member.User.ID == guild.OwnerID {
		return true, nil
	}

	permissions, err := s.State.UserChannelPermissions(i.Member.User.ID, i.ChannelID)
	if err != nil {
		permissions, err = s.UserChannelPermissions(i.Member.User.ID, i.ChannelID)
		if err != nil {
			return false, fmt.Errorf("failed to get permissions: %w", err)
		}
	}

	return permissions&(discordgo.PermissionAdministrator|discordgo.PermissionModerateMembers) != 0, nil
}

// checkAdmin reports whether the invoking member is the server owner or has
// Administrator. Setup and blacklist management require this.
func checkAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) (bool, error) {
	guild, err := s.State.Guild(i.GuildID)
	if err != nil {
		guild, err = s.Guild(i.GuildID)
		if err != nil {
			return false, fmt.Errorf("failed to get guild: %w", err)
		}
	}

	if i.Member.User.ID == guild.OwnerID {
		return true, nil
	}

	permissions, err := s.State.UserChannelPermissions(i.Member.User.ID, i.ChannelID)
	if err != nil {
		permissions, err = s.UserChannelPermissions(i.Member.User.ID, i.ChannelID)
		if err != nil {
			return false, fmt.Errorf("failed to get permissions: %w", err)
		}
	}

	return permissions&discordgo.PermissionAdministrator != 0, nil
}

// outranksTarget reports whether the invoker's highest role sits above the
// target's. Owners outrank everyone; nobody outranks the owner.
func outranksTarget(s *discordgo.Session, i *discordgo.InteractionCreate, targetID string) (bool, error) {
	guild, err := s.State.Guild(i.GuildID)
	if err != nil {
		guild, err = s.Guild(i.GuildID)
		if err != nil {
			return false, fmt.Errorf("failed to get guild: %w", err)
		}
	}

	if targetID == guild.OwnerID {
		return false, nil
	}
	if i.Member.User.ID == guild.OwnerID {
		return true, nil
	}

	target, err := s.State.Member(i.GuildID, targetID)
	if err != nil {
		target, err = s.GuildMember(i.GuildID, targetID)
		if err != nil {
			// Target already left; treat as rankable for unban-style flows.
			return true, nil
		}
	}

	invokerHighest := getHighestRole(guild, i.Member.Roles)
	targetHighest := getHighestRole(guild, target.Roles)

	if targetHighest == nil {
		return true, nil
	}
	if invokerHighest == nil {
		return false, nil
	}
	return invokerHighest.Position > targetHighest.Position, nil
}

// getHighestRole returns the highest role from a list of role IDs
func getHighestRole(guild *discordgo.Guild, roleIDs []string) *discordgo.Role {
	var highest *discordgo.Role
	for _, roleID := range roleIDs {
		for _, role := range guild.Roles {
			if role.ID == roleID {
				if highest == nil || role.Position > highest.Position {
					highest = role
				}
			}
		}
	}
	return highest
}

// respondPermissionError sends a permission denied error response
func respondPermissionError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	embed := &discordgo.MessageEmbed{
		Title:       "Access Denied",
		Description: message,
		Color:       0x2B2D31,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Den Manager • Community Moderation",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}
