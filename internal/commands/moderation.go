package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/om-bhesania/Den-Manager/internal/automod"
	"github.com/om-bhesania/Den-Manager/pkg/util"
)

const maxTimeoutDuration = 28 * 24 * time.Hour // Discord API limit

// handleKick handles the /kick command
func (h *Handler) handleKick(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	target, reason, ok, err := h.resolveModerationTarget(s, i, "kick members")
	if err != nil || !ok {
		return err
	}

	if err := s.GuildMemberDeleteWithReason(i.GuildID, target.ID, reason); err != nil {
		return fmt.Errorf("failed to kick member: %w", err)
	}

	h.recordAndLog(s, i, target.ID, automod.ActionKick, reason)
	return respondEmbed(s, i, moderationEmbed("👢 Member Kicked", target.ID, reason))
}

// handleBan handles the /ban command
func (h *Handler) handleBan(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	target, reason, ok, err := h.resolveModerationTarget(s, i, "ban members")
	if err != nil || !ok {
		return err
	}

	if err := s.GuildBanCreateWithReason(i.GuildID, target.ID, reason, 0); err != nil {
		return fmt.Errorf("failed to ban member: %w", err)
	}

	h.recordAndLog(s, i, target.ID, automod.ActionBan, reason)
	return respondEmbed(s, i, moderationEmbed("🔨 Member Banned", target.ID, reason))
}

// handleUnban handles the /unban command
func (h *Handler) handleUnban(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	isMod, err := checkModerator(s, i)
	if err != nil {
		return err
	}
	if !isMod {
		respondPermissionError(s, i, "You need Moderate Members permission to unban users.")
		return nil
	}

	opts := optionMap(i.ApplicationCommandData().Options)
	userID := opts["userid"].StringValue()

	if err := s.GuildBanDelete(i.GuildID, userID); err != nil {
		return fmt.Errorf("failed to unban user: %w", err)
	}

	h.recordAndLog(s, i, userID, automod.ActionKind("unban"), "Unbanned by moderator")
	return respondText(s, i, fmt.Sprintf("✅ <@%s> has been unbanned.", userID))
}

// handleTimeout handles the /timeout command
func (h *Handler) handleTimeout(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	target, reason, ok, err := h.resolveModerationTarget(s, i, "time out members")
	if err != nil || !ok {
		return err
	}

	opts := optionMap(i.ApplicationCommandData().Options)
	duration := automod.EscalationTimeout
	if opt, exists := opts["duration"]; exists {
		duration, err = util.ParseDuration(opt.StringValue())
		if err != nil {
			return err
		}
		if duration <= 0 || duration > maxTimeoutDuration {
			return fmt.Errorf("timeout duration must be between 1s and 28d")
		}
	}

	until := time.Now().Add(duration)
	if err := s.GuildMemberTimeout(i.GuildID, target.ID, &until); err != nil {
		return fmt.Errorf("failed to time out member: %w", err)
	}

	h.recordAndLog(s, i, target.ID, automod.ActionTimeout, reason)

	embed := moderationEmbed("⏳ Member Timed Out", target.ID, reason)
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Until",
		Value:  fmt.Sprintf("<t:%d:R>", until.Unix()),
		Inline: true,
	})
	return respondEmbed(s, i, embed)
}

// handlePurge handles the /purge command
func (h *Handler) handlePurge(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	isMod, err := checkModerator(s, i)
	if err != nil {
		return err
	}
	if !isMod {
		respondPermissionError(s, i, "You need Moderate Members permission to purge messages.")
		return nil
	}

	opts := optionMap(i.ApplicationCommandData().Options)
	count := int(opts["count"].IntValue())

	messages, err := s.ChannelMessages(i.ChannelID, count, "", "", "")
	if err != nil {
		return fmt.Errorf("failed to fetch messages: %w", err)
	}

	// Bulk delete rejects messages older than 14 days.
	cutoff := time.Now().Add(-14 * 24 * time.Hour)
	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		if msg.Timestamp.After(cutoff) {
			ids = append(ids, msg.ID)
		}
	}

	if len(ids) == 0 {
		return respondText(s, i, "No messages recent enough to purge.")
	}

	if err := s.ChannelMessagesBulkDelete(i.ChannelID, ids); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}

	h.recordAndLog(s, i, "", automod.ActionKind("purge"),
		fmt.Sprintf("Purged %d messages in #%s", len(ids), i.ChannelID))
	return respondText(s, i, fmt.Sprintf("🧹 Deleted **%d** message(s).", len(ids)))
}

// resolveModerationTarget runs the shared permission and hierarchy checks for
// the member-targeting commands. ok is false when a check failed and a
// response was already sent.
func (h *Handler) resolveModerationTarget(s *discordgo.Session, i *discordgo.InteractionCreate, verb string) (*discordgo.User, string, bool, error) {
	isMod, err := checkModerator(s, i)
	if err != nil {
		return nil, "", false, err
	}
	if !isMod {
		respondPermissionError(s, i, fmt.Sprintf("You need Moderate Members permission to %s.", verb))
		return nil, "", false, nil
	}

	opts := optionMap(i.ApplicationCommandData().Options)
	target := opts["user"].UserValue(s)

	if target.ID == i.Member.User.ID {
		return nil, "", false, automod.ErrSelfTarget
	}
	if target.ID == s.State.User.ID {
		return nil, "", false, automod.ErrBotTarget
	}

	outranks, err := outranksTarget(s, i, target.ID)
	if err != nil {
		return nil, "", false, err
	}
	if !outranks {
		respondPermissionError(s, i, "You cannot act on a member with an equal or higher role.")
		return nil, "", false, nil
	}

	reason := "No reason provided"
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}
	return target, reason, true, nil
}

// recordAndLog writes the audit entry and posts to the guild's log channel.
// Both are best-effort; the action itself already succeeded.
func (h *Handler) recordAndLog(s *discordgo.Session, i *discordgo.InteractionCreate, targetID string, action automod.ActionKind, reason string) {
	if err := h.db.RecordAction(i.GuildID, targetID, i.Member.User.Username, string(action), reason); err != nil {
		h.logger.Warn("failed to record moderation action",
			zap.String("guild_id", i.GuildID),
			zap.String("action", string(action)),
			zap.Error(err))
	}

	cfg, err := h.svc.GuildSnapshot(i.GuildID)
	if err != nil || cfg.LogChannelID == "" {
		return
	}

	subject := "this channel"
	if targetID != "" {
		subject = fmt.Sprintf("<@%s> (`%s`)", targetID, targetID)
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🛡️ %s", action.Display()),
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Target",
				Value:  subject,
				Inline: true,
			},
			{
				Name:   "Moderator",
				Value:  fmt.Sprintf("<@%s>", i.Member.User.ID),
				Inline: true,
			},
			{
				Name:   "Reason",
				Value:  reason,
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Den Manager • Moderation Log",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	go s.ChannelMessageSendEmbed(cfg.LogChannelID, embed)
}

func moderationEmbed(title, targetID, reason string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("<@%s>", targetID),
		Color:       0xED4245,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Reason",
				Value:  reason,
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Den Manager • Community Moderation",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
