package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/om-bhesania/Den-Manager/internal/automod"
)

// handleModSetup routes the /modsetup subcommands. Each subcommand feeds one
// step into the setup state machine; steps must arrive in order.
func (h *Handler) handleModSetup(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	isAdmin, err := checkAdmin(s, i)
	if err != nil {
		return err
	}
	if !isAdmin {
		respondPermissionError(s, i, "Only administrators can configure the automod system.")
		return nil
	}

	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return fmt.Errorf("missing subcommand")
	}

	sub := data.Options[0]
	opts := optionMap(sub.Options)

	var ev automod.SetupEvent
	switch sub.Name {
	case "enable":
		ev = automod.EnableStep{
			Enabled:      opts["enabled"].BoolValue(),
			LogChannelID: opts["logchannel"].ChannelValue(nil).ID,
		}
	case "features":
		step := automod.AntiFeaturesStep{}
		if opt, ok := opts["spam"]; ok {
			step.Spam = opt.BoolValue()
		}
		if opt, ok := opts["links"]; ok {
			step.Link = opt.BoolValue()
		}
		if opt, ok := opts["caps"]; ok {
			step.Caps = opt.BoolValue()
		}
		if opt, ok := opts["emoji"]; ok {
			step.Emoji = opt.BoolValue()
		}
		ev = step
	case "profanity":
		step := automod.ProfanityStep{Enabled: opts["enabled"].BoolValue()}
		if opt, ok := opts["words"]; ok {
			for _, word := range strings.Split(opt.StringValue(), ",") {
				if trimmed := strings.TrimSpace(word); trimmed != "" {
					step.Words = append(step.Words, trimmed)
				}
			}
		}
		ev = step
	case "warnings":
		ev = automod.WarningsStep{MaxWarnings: int(opts["max"].IntValue())}
	case "escalation":
		step := automod.EscalationStep{}
		for _, name := range []string{"first", "second", "third"} {
			opt, ok := opts[name]
			if !ok {
				continue
			}
			action, err := automod.ParseActionKind(opt.StringValue())
			if err != nil {
				return err
			}
			step.Actions = append(step.Actions, action)
		}
		ev = step
	case "status":
		return h.respondSetupStatus(s, i)
	case "reconfigure":
		ev = automod.ReconfigureStep{}
	default:
		return fmt.Errorf("unknown subcommand: %s", sub.Name)
	}

	res, err := h.svc.ApplySetup(i.GuildID, ev)
	if err != nil {
		return err
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Automod Setup",
		Description: res.Summary,
		Color:       0x57F287,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Next Step",
				Value:  setupStepHint(res.State),
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Den Manager • Guided Setup",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	return respondEmbed(s, i, embed)
}

// respondSetupStatus shows the wizard position and the full configuration.
func (h *Handler) respondSetupStatus(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	state, cfg, err := h.svc.SetupState(i.GuildID)
	if err != nil {
		return err
	}

	logChannel := "not set"
	if cfg.LogChannelID != "" {
		logChannel = fmt.Sprintf("<#%s>", cfg.LogChannelID)
	}

	features := fmt.Sprintf(
		"Anti-Spam: %s\nAnti-Link: %s\nAnti-Caps: %s\nAnti-Emoji: %s\nProfanity Filter: %s",
		onOff(cfg.AntiSpam.Enabled),
		onOff(cfg.AntiLink.Enabled),
		onOff(cfg.AntiCaps.Enabled),
		onOff(cfg.AntiEmoji.Enabled),
		onOff(cfg.ProfanityFilter.Enabled))

	chain := make([]string, len(cfg.WarnSystem.Escalation))
	for idx, action := range cfg.WarnSystem.Escalation {
		chain[idx] = action.Display()
	}
	escalation := "not configured"
	if len(chain) > 0 {
		escalation = strings.Join(chain, " → ")
	}

	embed := &discordgo.MessageEmbed{
		Title: "Automod Status",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "System",
				Value: fmt.Sprintf("Enabled: %s\nLog Channel: %s",
					onOff(cfg.Enabled), logChannel),
				Inline: false,
			},
			{
				Name:   "Rules",
				Value:  features,
				Inline: true,
			},
			{
				Name: "Warnings",
				Value: fmt.Sprintf("Threshold: %d\nEscalation: %s\nExpiry: %s",
					cfg.WarnSystem.MaxWarnings,
					escalation,
					formatDuration(time.Duration(cfg.WarnSystem.WarnExpiryMs)*time.Millisecond)),
				Inline: true,
			},
			{
				Name: "Setup",
				Value: fmt.Sprintf("Current step: %s\nStep deadline: %s\n%s",
					state.String(),
					formatDuration(state.Deadline()),
					setupStepHint(state)),
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Den Manager • Community Moderation",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	return respondEmbed(s, i, embed)
}

func setupStepHint(state automod.SetupState) string {
	switch state {
	case automod.StateEnable:
		return "Run `/modsetup enable` to turn automod on and choose a log channel."
	case automod.StateAntiFeatures:
		return "Run `/modsetup features` to choose which message rules run."
	case automod.StateProfanity:
		return "Run `/modsetup profanity` to configure the word filter."
	case automod.StateWarnings:
		return "Run `/modsetup warnings` to set the warning threshold."
	case automod.StateEscalation:
		return "Run `/modsetup escalation` to choose what happens after repeated warnings."
	case automod.StateCompleted:
		return "Setup is complete. Use `/modsetup reconfigure` to start over."
	default:
		return "Run `/modsetup status` to see the current configuration."
	}
}

func onOff(enabled bool) string {
	if enabled {
		return "✅ on"
	}
	return "❌ off"
}
