package commands

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
)

// handleStats shows bot, host and recent moderation statistics
func (h *Handler) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	// Defer response to allow time for gathering stats
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return err
	}

	embeds := []*discordgo.MessageEmbed{
		h.botStatsEmbed(s),
		hostStatsEmbed(),
	}
	if modEmbed := h.moderationStatsEmbed(i.GuildID); modEmbed != nil {
		embeds = append(embeds, modEmbed)
	}

	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &embeds,
	})
	return err
}

func (h *Handler) botStatsEmbed(s *discordgo.Session) *discordgo.MessageEmbed {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &discordgo.MessageEmbed{
		Title: "🤖 Bot Statistics",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "🚀 Status",
				Value: fmt.Sprintf("**Uptime:** `%s`\n**Guilds:** `%d`\n**Latency:** `%dms`",
					formatDuration(time.Since(h.startTime)),
					len(s.State.Guilds),
					s.HeartbeatLatency().Milliseconds()),
				Inline: true,
			},
			{
				Name: "🔷 Go Runtime",
				Value: fmt.Sprintf("**Version:** `%s`\n**Goroutines:** `%d`\n**Allocated:** `%s`\n**GC Cycles:** `%d`",
					runtime.Version(),
					runtime.NumGoroutine(),
					formatBytes(m.Alloc),
					m.NumGC),
				Inline: true,
			},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func hostStatsEmbed() *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{}

	if hostInfo, err := host.Info(); err == nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "🖥️ Host",
			Value: fmt.Sprintf("**Hostname:** `%s`\n**OS:** `%s` (`%s`)\n**Uptime:** `%s`",
				hostInfo.Hostname,
				hostInfo.OS,
				hostInfo.Platform,
				formatDuration(time.Duration(hostInfo.Uptime)*time.Second)),
			Inline: false,
		})
	}

	if cpuPercent, err := cpu.Percent(time.Second, false); err == nil && len(cpuPercent) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "⚡ CPU",
			Value: fmt.Sprintf("**Threads:** `%d`\n**Usage:** `%.2f%%`",
				runtime.NumCPU(), cpuPercent[0]),
			Inline: true,
		})
	}

	if memInfo, err := mem.VirtualMemory(); err == nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "💾 Memory",
			Value: fmt.Sprintf("**Used:** `%s` / `%s`\n**Usage:** `%.2f%%`",
				formatBytes(memInfo.Used),
				formatBytes(memInfo.Total),
				memInfo.UsedPercent),
			Inline: true,
		})
	}

	if diskInfo, err := disk.Usage("/"); err == nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "💽 Disk",
			Value: fmt.Sprintf("**Used:** `%s` / `%s` (`%.2f%%`)",
				formatBytes(diskInfo.Used),
				formatBytes(diskInfo.Total),
				diskInfo.UsedPercent),
			Inline: true,
		})
	}

	if netIO, err := net.IOCounters(false); err == nil && len(netIO) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "🌐 Network",
			Value: fmt.Sprintf("**Sent:** `%s`\n**Received:** `%s`",
				formatBytes(netIO[0].BytesSent),
				formatBytes(netIO[0].BytesRecv)),
			Inline: true,
		})
	}

	return &discordgo.MessageEmbed{
		Title:     "📊 Host Statistics",
		Color:     0x00BFFF,
		Fields:    fields,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// moderationStatsEmbed summarizes the guild's recent audit entries; nil when
// the log is empty or unreadable.
func (h *Handler) moderationStatsEmbed(guildID string) *discordgo.MessageEmbed {
	entries, err := h.db.RecentModerationActions(guildID, 10)
	if err != nil || len(entries) == 0 {
		return nil
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		subject := "—"
		if e.UserID != "" {
			subject = fmt.Sprintf("<@%s>", e.UserID)
		}
		lines = append(lines, fmt.Sprintf("`%s` %s by %s (<t:%d:R>)",
			e.Action, subject, e.Moderator, e.Timestamp))
	}

	return &discordgo.MessageEmbed{
		Title: "🛡️ Recent Moderation Activity",
		Color: 0xED4245,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Last Actions",
				Value:  strings.Join(lines, "\n"),
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Den Manager • Moderation Log",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// Helper functions

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
