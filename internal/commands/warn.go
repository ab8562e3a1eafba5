package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/om-bhesania/Den-Manager/internal/automod"
)

// handleWarn handles the /warn command
func (h *Handler) handleWarn(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	isMod, err := checkModerator(s, i)
	if err != nil {
		return err
	}
	if !isMod {
		respondPermissionError(s, i, "You need Moderate Members permission to warn users.")
		return nil
	}

	opts := optionMap(i.ApplicationCommandData().Options)
	target := opts["user"].UserValue(s)
	reason := opts["reason"].StringValue()

	if target.Bot {
		return automod.ErrBotTarget
	}

	outranks, err := outranksTarget(s, i, target.ID)
	if err != nil {
		return err
	}
	if !outranks {
		respondPermissionError(s, i, "You cannot warn a member with an equal or higher role.")
		return nil
	}

	member := automod.Member{GuildID: i.GuildID, UserID: target.ID, Tag: target.Username}
	actor := automod.Actor{ID: i.Member.User.ID, Label: i.Member.User.Username}

	res, err := h.svc.WarnUser(member, reason, actor)
	if err != nil {
		return err
	}

	description := fmt.Sprintf("<@%s> has been warned.", target.ID)
	if res.Escalated != "" {
		description += fmt.Sprintf("\nWarning threshold reached; escalated to **%s**.", res.Escalated.Display())
	}

	embed := &discordgo.MessageEmbed{
		Title:       "⚠️ Warning Issued",
		Description: description,
		Color:       0xFEE75C,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Reason",
				Value:  reason,
				Inline: true,
			},
			{
				Name:   "Active Warnings",
				Value:  fmt.Sprintf("%d / %d", res.ActiveCount, res.MaxWarnings),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Den Manager • Community Moderation",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	return respondEmbed(s, i, embed)
}

// handleWarnings handles the /warnings command
func (h *Handler) handleWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	isMod, err := checkModerator(s, i)
	if err != nil {
		return err
	}
	if !isMod {
		respondPermissionError(s, i, "You need Moderate Members permission to view warnings.")
		return nil
	}

	opts := optionMap(i.ApplicationCommandData().Options)
	target := opts["user"].UserValue(s)

	view, err := h.svc.UserWarnings(i.GuildID, target.ID)
	if err != nil {
		return err
	}

	if view.Total == 0 {
		return respondText(s, i, fmt.Sprintf("<@%s> has no warnings.", target.ID))
	}

	lines := make([]string, 0, len(view.Recent))
	for idx, rec := range view.Recent {
		if idx >= 10 {
			lines = append(lines, fmt.Sprintf("… and %d more", len(view.Recent)-idx))
			break
		}
		status := "expired"
		if view.ActiveFlags[idx] {
			status = "active"
		}
		lines = append(lines, fmt.Sprintf("**%d.** %s — %s (<t:%d:R>, %s)",
			idx+1, rec.Reason, rec.Moderator, rec.CreatedAt/1000, status))
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Warnings for %s", target.Username),
		Color: 0xFEE75C,
		Description: fmt.Sprintf("**%d** active of **%d** total (threshold %d)",
			view.ActiveCount, view.Total, view.MaxWarnings),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "History",
				Value:  joinLines(lines),
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Den Manager • Warnings expire after 7 days",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	return respondEmbed(s, i, embed)
}

// handleClearWarnings handles the /clearwarnings command. The first
// invocation asks for confirmation; running it again within 30 seconds
// clears the ledger.
func (h *Handler) handleClearWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	isMod, err := checkModerator(s, i)
	if err != nil {
		return err
	}
	if !isMod {
		respondPermissionError(s, i, "You need Moderate Members permission to clear warnings.")
		return nil
	}

	opts := optionMap(i.ApplicationCommandData().Options)
	target := opts["user"].UserValue(s)

	key := i.Member.User.ID + ":" + target.ID
	now := time.Now()

	h.mu.Lock()
	deadline, pending := h.pendingClears[key]
	if pending && now.Before(deadline) {
		delete(h.pendingClears, key)
		h.mu.Unlock()

		removed, err := h.svc.ClearUserWarnings(i.GuildID, target.ID)
		if err != nil {
			return err
		}
		h.recordAndLog(s, i, target.ID, automod.ActionKind("clearwarnings"),
			fmt.Sprintf("Cleared %d warning(s)", removed))
		return respondText(s, i, fmt.Sprintf("🧹 Cleared **%d** warning(s) for <@%s>.", removed, target.ID))
	}

	h.pendingClears[key] = now.Add(clearConfirmWindow)
	for k, d := range h.pendingClears {
		if now.After(d) {
			delete(h.pendingClears, k)
		}
	}
	h.mu.Unlock()

	return respondText(s, i, fmt.Sprintf(
		"⚠️ This removes **all** warnings for <@%s>, including active ones. Run the command again within %d seconds to confirm.",
		target.ID, int(clearConfirmWindow.Seconds())))
}

func joinLines(lines []string) string {
	out := ""
	for idx, line := range lines {
		if idx > 0 {
			out += "\n"
		}
		out += line
	}
	return out
}
