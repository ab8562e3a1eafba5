package bot

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/om-bhesania/Den-Manager/internal/automod"
)

// SetupEventHandlers wires gateway events into the automod service.
func (s *Session) SetupEventHandlers(svc *automod.Service) {
	s.discord.AddHandler(func(sess *discordgo.Session, r *discordgo.Ready) {
		s.logger.Info("Bot ready",
			zap.String("username", r.User.Username),
			zap.Int("guilds", len(r.Guilds)))
	})

	// Ensure a config document exists as soon as the bot lands in a guild.
	s.discord.AddHandler(func(sess *discordgo.Session, g *discordgo.GuildCreate) {
		if _, err := svc.GuildSnapshot(g.ID); err != nil {
			s.logger.Error("failed to initialize guild config",
				zap.String("guild_id", g.ID),
				zap.Error(err))
			return
		}
		s.logger.Info("Guild loaded",
			zap.String("guild_id", g.ID),
			zap.String("name", g.Name))
	})

	s.discord.AddHandler(func(sess *discordgo.Session, m *discordgo.MessageCreate) {
		s.handleMessageCreate(sess, m, svc)
	})

	s.logger.Info("Discord event handlers configured")
}

func (s *Session) handleMessageCreate(sess *discordgo.Session, m *discordgo.MessageCreate, svc *automod.Service) {
	// DMs, webhooks and other bots are out of scope.
	if m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return
	}

	msg := automod.Message{
		GuildID:       m.GuildID,
		ChannelID:     m.ChannelID,
		MessageID:     m.ID,
		AuthorID:      m.Author.ID,
		AuthorTag:     m.Author.Username,
		Content:       m.Content,
		AuthorIsAdmin: s.authorIsAdmin(sess, m),
	}

	violation, err := svc.HandleMessage(msg)
	if err != nil {
		s.logger.Error("automod message handling failed",
			zap.String("guild_id", m.GuildID),
			zap.String("message_id", m.ID),
			zap.Error(err))
		return
	}

	if violation != nil {
		s.logger.Info("automod violation",
			zap.String("guild_id", m.GuildID),
			zap.String("user_id", m.Author.ID),
			zap.String("rule", string(violation.Kind)),
			zap.String("action", string(violation.Action)))
	}
}

// authorIsAdmin resolves the author's effective permissions from the state
// cache, falling back to the API when the member is not cached.
func (s *Session) authorIsAdmin(sess *discordgo.Session, m *discordgo.MessageCreate) bool {
	perms, err := sess.State.MessagePermissions(m.Message)
	if err != nil {
		perms, err = sess.UserChannelPermissions(m.Author.ID, m.ChannelID)
		if err != nil {
			s.logger.Warn("failed to resolve member permissions",
				zap.String("guild_id", m.GuildID),
				zap.String("user_id", m.Author.ID),
				zap.Error(err))
			return false
		}
	}
	return perms&discordgo.PermissionAdministrator != 0
}
