package commands

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/om-bhesania/Den-Manager/internal/automod"
	"github.com/om-bhesania/Den-Manager/internal/bot"
	"github.com/om-bhesania/Den-Manager/internal/database"
)

// Handler routes slash commands to their handlers.
type Handler struct {
	session *bot.Session
	svc     *automod.Service
	db      *database.Database
	logger  *zap.Logger

	// pendingClears tracks clearwarnings confirmations awaiting a second
	// invocation; keyed by moderator+target, expiring after 30 seconds.
	mu            sync.Mutex
	pendingClears map[string]time.Time

	startTime time.Time
}

const clearConfirmWindow = 30 * time.Second

// New wires the command handler into the session and registers all slash
// commands with Discord.
func New(session *bot.Session, svc *automod.Service, db *database.Database, logger *zap.Logger) (*Handler, error) {
	h := &Handler{
		session:       session,
		svc:           svc,
		db:            db,
		logger:        logger,
		pendingClears: make(map[string]time.Time),
		startTime:     time.Now(),
	}

	session.AddHandler(h.handleInteraction)

	commands := GetAllCommands()
	if err := session.RegisterCommands(commands); err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}

	logger.Info("Command handler initialized", zap.Int("commands", len(commands)))
	return h, nil
}

func (h *Handler) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	h.handleCommand(s, i)
}

// handleCommand routes slash commands to their handlers
func (h *Handler) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" || i.Member == nil {
		respondError(s, i, "This command only works inside a server.")
		return
	}

	data := i.ApplicationCommandData()

	var err error
	switch data.Name {
	case "modsetup":
		err = h.handleModSetup(s, i)
	case "warn":
		err = h.handleWarn(s, i)
	case "warnings":
		err = h.handleWarnings(s, i)
	case "clearwarnings":
		err = h.handleClearWarnings(s, i)
	case "addword":
		err = h.handleAddWord(s, i)
	case "removeword":
		err = h.handleRemoveWord(s, i)
	case "listwords":
		err = h.handleListWords(s, i)
	case "kick":
		err = h.handleKick(s, i)
	case "ban":
		err = h.handleBan(s, i)
	case "unban":
		err = h.handleUnban(s, i)
	case "timeout":
		err = h.handleTimeout(s, i)
	case "purge":
		err = h.handlePurge(s, i)
	case "ping":
		err = h.handlePing(s, i)
	case "stats":
		err = h.handleStats(s, i)
	default:
		err = fmt.Errorf("unknown command: %s", data.Name)
	}

	if err != nil {
		h.logger.Error("Command error",
			zap.String("command", data.Name),
			zap.String("guild_id", i.GuildID),
			zap.Error(err))
		respondError(s, i, userFacingError(err))
	}
}

// userFacingError maps validation errors to readable text; anything else is
// reported generically so internals stay out of chat.
func userFacingError(err error) string {
	switch {
	case errors.Is(err, automod.ErrWordTooShort),
		errors.Is(err, automod.ErrWordExists),
		errors.Is(err, automod.ErrWordNotFound),
		errors.Is(err, automod.ErrSelfTarget),
		errors.Is(err, automod.ErrBotTarget),
		errors.Is(err, automod.ErrNoWarnings),
		errors.Is(err, automod.ErrInvalidCount),
		errors.Is(err, automod.ErrInvalidAction),
		errors.Is(err, automod.ErrLogChannelRequired),
		errors.Is(err, automod.ErrNoEscalationSteps):
		return err.Error()
	case errors.Is(err, automod.ErrWrongSetupStep):
		return "That is not the current setup step. Run `/modsetup status` to see where you are."
	default:
		return "Something went wrong while running that command."
	}
}

// respondError sends an ephemeral error message
func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// respondText sends a plain ephemeral reply.
func respondText(s *discordgo.Session, i *discordgo.InteractionCreate, message string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// respondEmbed sends a single embed reply.
func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

// optionMap flattens interaction options for lookup by name.
func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		out[opt.Name] = opt
	}
	return out
}
