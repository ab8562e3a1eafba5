package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Moderator executes privileged moderation actions against the Discord API.
// It implements automod.Moderator.
type Moderator struct {
	discord *discordgo.Session
	logger  *zap.Logger
}

func NewModerator(session *Session, logger *zap.Logger) *Moderator {
	return &Moderator{discord: session.Discord(), logger: logger}
}

// CanActOn reports whether the bot outranks the target: the target is not the
// guild owner and the bot's highest role sits above the target's.
func (m *Moderator) CanActOn(guildID, userID string) bool {
	guild, err := m.guild(guildID)
	if err != nil {
		m.logger.Warn("failed to resolve guild for hierarchy check",
			zap.String("guild_id", guildID), zap.Error(err))
		return false
	}

	if userID == guild.OwnerID {
		return false
	}

	target, err := m.member(guildID, userID)
	if err != nil {
		// Target not in the guild anymore; nothing to act on.
		return false
	}

	bot, err := m.member(guildID, m.discord.State.User.ID)
	if err != nil {
		m.logger.Warn("failed to resolve bot member for hierarchy check",
			zap.String("guild_id", guildID), zap.Error(err))
		return false
	}

	botHighest := highestRole(guild, bot.Roles)
	targetHighest := highestRole(guild, target.Roles)

	if botHighest == nil {
		return false
	}
	if targetHighest == nil {
		return true
	}
	return botHighest.Position > targetHighest.Position
}

// Timeout applies a communication timeout ending at now+duration.
func (m *Moderator) Timeout(guildID, userID string, duration time.Duration, reason string) error {
	until := time.Now().Add(duration)
	if err := m.discord.GuildMemberTimeout(guildID, userID, &until); err != nil {
		return fmt.Errorf("failed to timeout member %s: %w", userID, err)
	}
	m.logger.Info("member timed out",
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.Duration("duration", duration),
		zap.String("reason", reason))
	return nil
}

func (m *Moderator) Kick(guildID, userID, reason string) error {
	if err := m.discord.GuildMemberDeleteWithReason(guildID, userID, reason); err != nil {
		return fmt.Errorf("failed to kick member %s: %w", userID, err)
	}
	m.logger.Info("member kicked",
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.String("reason", reason))
	return nil
}

func (m *Moderator) Ban(guildID, userID, reason string) error {
	if err := m.discord.GuildBanCreateWithReason(guildID, userID, reason, 0); err != nil {
		return fmt.Errorf("failed to ban member %s: %w", userID, err)
	}
	m.logger.Info("member banned",
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.String("reason", reason))
	return nil
}

func (m *Moderator) DeleteMessage(channelID, messageID string) error {
	return m.discord.ChannelMessageDelete(channelID, messageID)
}

func (m *Moderator) guild(guildID string) (*discordgo.Guild, error) {
	guild, err := m.discord.State.Guild(guildID)
	if err != nil {
		return m.discord.Guild(guildID)
	}
	return guild, nil
}

func (m *Moderator) member(guildID, userID string) (*discordgo.Member, error) {
	member, err := m.discord.State.Member(guildID, userID)
	if err != nil {
		return m.discord.GuildMember(guildID, userID)
	}
	return member, nil
}

// highestRole returns the highest-positioned role from a list of role IDs.
func highestRole(guild *discordgo.Guild, roleIDs []string) *discordgo.Role {
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
