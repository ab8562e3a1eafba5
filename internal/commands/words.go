package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// handleAddWord handles the /addword command
func (h *Handler) handleAddWord(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	isAdmin, err := checkAdmin(s, i)
	if err != nil {
		return err
	}
	if !isAdmin {
		respondPermissionError(s, i, "Only administrators can manage the blacklist.")
		return nil
	}

	opts := optionMap(i.ApplicationCommandData().Options)
	word := opts["word"].StringValue()

	total, err := h.svc.AddBlacklistWord(i.GuildID, word)
	if err != nil {
		return err
	}

	return respondText(s, i, fmt.Sprintf("✅ Word added to the blacklist (%d total).", total))
}

// handleRemoveWord handles the /removeword command
func (h *Handler) handleRemoveWord(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	isAdmin, err := checkAdmin(s, i)
	if err != nil {
		return err
	}
	if !isAdmin {
		respondPermissionError(s, i, "Only administrators can manage the blacklist.")
		return nil
	}

	opts := optionMap(i.ApplicationCommandData().Options)
	word := opts["word"].StringValue()

	total, err := h.svc.RemoveBlacklistWord(i.GuildID, word)
	if err != nil {
		return err
	}

	return respondText(s, i, fmt.Sprintf("✅ Word removed from the blacklist (%d remaining).", total))
}

// handleListWords handles the /listwords command. Words are shown censored;
// the full list never appears in chat.
func (h *Handler) handleListWords(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	isMod, err := checkModerator(s, i)
	if err != nil {
		return err
	}
	if !isMod {
		respondPermissionError(s, i, "You need Moderate Members permission to view the blacklist.")
		return nil
	}

	words, enabled, err := h.svc.BlacklistWords(i.GuildID)
	if err != nil {
		return err
	}

	if len(words) == 0 {
		return respondText(s, i, "The blacklist is empty. Use `/addword` to add entries.")
	}

	censored := make([]string, len(words))
	for idx, word := range words {
		censored[idx] = censorWord(word)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Profanity Blacklist",
		Description: fmt.Sprintf("Filter: %s • %d word(s)", onOff(enabled), len(words)),
		Color:       0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Words",
				Value:  strings.Join(censored, ", "),
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Den Manager • Community Moderation",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

// censorWord keeps the first and last rune and masks the middle.
func censorWord(word string) string {
	runes := []rune(word)
	if len(runes) <= 2 {
		return string(runes[0]) + "\\*"
	}
	return string(runes[0]) + strings.Repeat("\\*", len(runes)-2) + string(runes[len(runes)-1])
}
