package automod

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Message is the slice of an inbound platform message the rule engine needs.
type Message struct {
	GuildID   string
	ChannelID string
	MessageID string
	AuthorID  string
	AuthorTag string
	Content   string

	// AuthorIsAdmin exempts the author from every rule.
	AuthorIsAdmin bool
}

// ViolationKind names the rule that matched.
type ViolationKind string

const (
	ViolationSpam      ViolationKind = "Anti-Spam"
	ViolationLink      ViolationKind = "Anti-Link"
	ViolationCaps      ViolationKind = "Anti-Caps"
	ViolationEmoji     ViolationKind = "Anti-Emoji Spam"
	ViolationProfanity ViolationKind = "Profanity Filter"
)

// Violation is the outcome of rule evaluation: at most one per message.
type Violation struct {
	Kind         ViolationKind
	Action       ActionKind
	ShouldDelete bool
}

var (
	linkPattern        = regexp.MustCompile(`(?i)https?://[^\s]+`)
	customEmojiPattern = regexp.MustCompile(`<a?:[^:]+:\d+>`)
)

// Evaluate runs the rules in fixed order (spam, link, caps, emoji, profanity)
// and returns the first match. Later rules are skipped even when they would
// also match. Administrators are exempt and a disabled config no-ops.
//
// Evaluation mutates cfg.SpamState; callers are expected to persist the
// config afterwards.
func Evaluate(cfg *GuildConfig, msg Message, now time.Time) *Violation {
	if !cfg.Enabled || msg.AuthorIsAdmin {
		return nil
	}

	if cfg.AntiSpam.Enabled {
		count := RecordMessage(cfg, msg.AuthorID, now)
		if count > cfg.AntiSpam.MaxMessages {
			return &Violation{Kind: ViolationSpam, Action: cfg.AntiSpam.Action, ShouldDelete: true}
		}
	}

	if cfg.AntiLink.Enabled && hasDisallowedLink(msg.Content, cfg.AntiLink.AllowedDomains) {
		return &Violation{Kind: ViolationLink, Action: cfg.AntiLink.Action, ShouldDelete: true}
	}

	if cfg.AntiCaps.Enabled && exceedsCapsLimit(msg.Content, cfg.AntiCaps.MinLength, cfg.AntiCaps.MaxPercentage) {
		return &Violation{Kind: ViolationCaps, Action: cfg.AntiCaps.Action, ShouldDelete: true}
	}

	if cfg.AntiEmoji.Enabled && countEmojis(msg.Content) > cfg.AntiEmoji.MaxEmojis {
		return &Violation{Kind: ViolationEmoji, Action: cfg.AntiEmoji.Action, ShouldDelete: true}
	}

	if cfg.ProfanityFilter.Enabled && containsBlacklistedWord(msg.Content, cfg.ProfanityFilter.Blacklist) {
		return &Violation{Kind: ViolationProfanity, Action: cfg.ProfanityFilter.Action, ShouldDelete: true}
	}

	return nil
}

// hasDisallowedLink reports whether the content holds a URL that does not
// contain any allowed domain. Matching is substring-based, not full host
// parsing; "evil.com/discord.gg" passes. Known limitation kept for
// compatibility with existing allowlists.
func hasDisallowedLink(content string, allowedDomains []string) bool {
	links := linkPattern.FindAllString(content, -1)
	for _, link := range links {
		lower := strings.ToLower(link)
		allowed := false
		for _, domain := range allowedDomains {
			if strings.Contains(lower, strings.ToLower(domain)) {
				allowed = true
				break
			}
		}
		if !allowed {
			return true
		}
	}
	return false
}

// exceedsCapsLimit measures the uppercase-letter share of the message. Short
// messages below minLength are never flagged.
func exceedsCapsLimit(content string, minLength, maxPercentage int) bool {
	runes := []rune(content)
	if len(runes) < minLength {
		return false
	}
	caps := 0
	for _, r := range runes {
		if r >= 'A' && r <= 'Z' {
			caps++
		}
	}
	percentage := float64(caps) / float64(len(runes)) * 100
	return percentage > float64(maxPercentage)
}

// countEmojis counts custom-emoji markup plus pictographic runes.
func countEmojis(content string) int {
	count := len(customEmojiPattern.FindAllString(content, -1))
	stripped := customEmojiPattern.ReplaceAllString(content, "")
	for _, r := range stripped {
		if isEmojiRune(r) {
			count++
		}
	}
	return count
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF: // pictographs, emoticons, symbols
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
		return true
	case unicode.Is(unicode.So, r):
		return true
	}
	return false
}

// containsBlacklistedWord does case-insensitive substring containment; no
// word-boundary enforcement, which is why word management rejects entries
// under 2 characters.
func containsBlacklistedWord(content string, blacklist []string) bool {
	lower := strings.ToLower(content)
	for _, word := range blacklist {
		if word == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(word)) {
			return true
		}
	}
	return false
}
