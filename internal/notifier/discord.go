package notifier

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/om-bhesania/Den-Manager/internal/automod"
)

const (
	colorWarning   = 0xFEE75C
	colorViolation = 0xED4245
	colorAction    = 0x5865F2
)

// Discord sends best-effort moderation notifications: warning DMs, action
// logs and violation logs. Failures are logged, never propagated; a closed DM
// or a deleted log channel must not block enforcement.
type Discord struct {
	discord *discordgo.Session
	logger  *zap.Logger
}

func New(session *discordgo.Session, logger *zap.Logger) *Discord {
	return &Discord{discord: session, logger: logger}
}

// WarningDM notifies the user about a warning in a direct message.
func (d *Discord) WarningDM(m automod.Member, reason string, activeCount, maxWarnings int) {
	go func() {
		channel, err := d.discord.UserChannelCreate(m.UserID)
		if err != nil {
			d.logger.Debug("failed to open DM channel",
				zap.String("user_id", m.UserID), zap.Error(err))
			return
		}

		embed := &discordgo.MessageEmbed{
			Title:       "⚠️ You received a warning",
			Color:       colorWarning,
			Description: fmt.Sprintf("**Reason:** %s", reason),
			Fields: []*discordgo.MessageEmbedField{
				{
					Name:   "Warnings",
					Value:  fmt.Sprintf("**%d** / **%d** before escalation", activeCount, maxWarnings),
					Inline: true,
				},
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text: "Den Manager • Warnings expire after 7 days",
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		if _, err := d.discord.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
			d.logger.Debug("failed to send warning DM",
				zap.String("user_id", m.UserID), zap.Error(err))
		}
	}()
}

// ActionLog posts a moderation action to the guild's log channel.
func (d *Discord) ActionLog(logChannelID string, m automod.Member, action automod.ActionKind, reason string) {
	if logChannelID == "" {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s %s", actionEmoji(action), action.Display()),
		Color: colorAction,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "👤 Member",
				Value:  fmt.Sprintf("<@%s> (`%s`)", m.UserID, m.UserID),
				Inline: true,
			},
			{
				Name:   "📋 Reason",
				Value:  reason,
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Den Manager • Moderation Log",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	go d.sendEmbed(logChannelID, embed)
}

// ViolationLog posts an automod rule violation to the guild's log channel.
func (d *Discord) ViolationLog(logChannelID string, msg automod.Message, kind automod.ViolationKind, action automod.ActionKind) {
	if logChannelID == "" {
		return
	}

	content := msg.Content
	if len(content) > 1000 {
		content = content[:1000] + "…"
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🛡️ %s Violation", kind),
		Color:       colorViolation,
		Description: fmt.Sprintf("**Action Taken:** %s", action.Display()),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "👤 Member",
				Value:  fmt.Sprintf("<@%s> (`%s`)", msg.AuthorID, msg.AuthorID),
				Inline: true,
			},
			{
				Name:   "💬 Channel",
				Value:  fmt.Sprintf("<#%s>", msg.ChannelID),
				Inline: true,
			},
			{
				Name:   "📝 Message",
				Value:  fmt.Sprintf("```%s```", content),
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Den Manager • Automod",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	go d.sendEmbed(logChannelID, embed)
}

func (d *Discord) sendEmbed(channelID string, embed *discordgo.MessageEmbed) {
	if _, err := d.discord.ChannelMessageSendEmbed(channelID, embed); err != nil {
		d.logger.Warn("failed to send log embed",
			zap.String("channel_id", channelID), zap.Error(err))
	}
}

func actionEmoji(action automod.ActionKind) string {
	switch action {
	case automod.ActionWarn:
		return "⚠️"
	case automod.ActionTimeout:
		return "⏳"
	case automod.ActionKick:
		return "👢"
	case automod.ActionBan:
		return "🔨"
	default:
		return "🛡️"
	}
}
