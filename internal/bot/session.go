package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Session wraps the Discord gateway connection. One Session exists per
// process; collaborators receive it explicitly.
type Session struct {
	discord *discordgo.Session
	logger  *zap.Logger
}

// New creates the Discord session with the gateway intents automod needs:
// guild metadata, member state, moderation events and message content.
func New(token string, logger *zap.Logger) (*Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentGuildModeration |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return &Session{discord: dg, logger: logger}, nil
}

// Discord returns the underlying discordgo session.
func (s *Session) Discord() *discordgo.Session {
	return s.discord
}

// Connect opens the Discord websocket connection.
func (s *Session) Connect() error {
	if err := s.discord.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if s.discord.State.User != nil {
		s.logger.Info("Discord bot connected",
			zap.String("bot_id", s.discord.State.User.ID),
			zap.String("username", s.discord.State.User.Username))
	}
	return nil
}

// Close closes the Discord connection.
func (s *Session) Close() error {
	if s.discord != nil {
		return s.discord.Close()
	}
	return nil
}

// RegisterCommands registers all slash commands with Discord.
func (s *Session) RegisterCommands(commands []*discordgo.ApplicationCommand) error {
	s.logger.Info("Registering slash commands", zap.Int("count", len(commands)))

	for _, cmd := range commands {
		_, err := s.discord.ApplicationCommandCreate(s.discord.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		s.logger.Info("Registered command", zap.String("name", cmd.Name))
	}
	return nil
}

// AddHandler adds an event handler to the Discord session.
func (s *Session) AddHandler(handler interface{}) {
	s.discord.AddHandler(handler)
}
