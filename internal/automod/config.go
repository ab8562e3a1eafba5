package automod

// CurrentSchemaVersion is bumped whenever the persisted document gains new
// substructure. Documents written by older versions are upgraded on read.
const CurrentSchemaVersion = 1

// Default thresholds applied when a guild is first seen or a stored document
// is missing a section.
const (
	DefaultMaxMessages    = 5
	DefaultSpamWindowMs   = 10_000
	DefaultMaxCapsPercent = 70
	DefaultMinCapsLength  = 10
	DefaultMaxEmojis      = 5
	DefaultMaxWarnings    = 3
	DefaultWarnExpiryMs   = 604_800_000 // 7 days
)

// GuildConfig is the per-guild automod document. Exactly one exists per
// guild; it is created with safe defaults on first access and never deleted,
// only reset.
type GuildConfig struct {
	SchemaVersion int    `json:"schemaVersion"`
	Enabled       bool   `json:"enabled"`
	LogChannelID  string `json:"logChannel,omitempty"`

	AntiFeaturesConfigured bool `json:"antiFeaturesConfigured"`
	ProfanityConfigured    bool `json:"profanityConfigured"`
	WarningsConfigured     bool `json:"warningsConfigured"`
	EscalationConfigured   bool `json:"escalationConfigured"`

	AntiSpam        AntiSpamConfig  `json:"antiSpam"`
	AntiLink        AntiLinkConfig  `json:"antiLink"`
	AntiCaps        AntiCapsConfig  `json:"antiCaps"`
	AntiEmoji       AntiEmojiConfig `json:"antiEmoji"`
	ProfanityFilter ProfanityConfig `json:"profanityFilter"`
	WarnSystem      WarnSystemConfig `json:"warnSystem"`

	// Warnings holds the per-user warning ledger. Records are append-only
	// and expire lazily on read; expired records stay stored until an
	// explicit clear.
	Warnings map[string][]WarningRecord `json:"userWarnings"`

	// SpamState holds the per-user fixed-window message counters.
	SpamState map[string]*SpamWindow `json:"spamTracking"`
}

type AntiSpamConfig struct {
	Enabled     bool       `json:"enabled"`
	MaxMessages int        `json:"maxMessages"`
	WindowMs    int64      `json:"timeWindow"`
	Action      ActionKind `json:"action"`
}

type AntiLinkConfig struct {
	Enabled        bool       `json:"enabled"`
	AllowedDomains []string   `json:"allowedDomains"`
	Action         ActionKind `json:"action"`
}

type AntiCapsConfig struct {
	Enabled       bool       `json:"enabled"`
	MaxPercentage int        `json:"maxPercentage"`
	MinLength     int        `json:"minLength"`
	Action        ActionKind `json:"action"`
}

type AntiEmojiConfig struct {
	Enabled   bool       `json:"enabled"`
	MaxEmojis int        `json:"maxEmojis"`
	Action    ActionKind `json:"action"`
}

type ProfanityConfig struct {
	Enabled   bool       `json:"enabled"`
	Blacklist []string   `json:"blacklistedWords"`
	Action    ActionKind `json:"action"`
}

type WarnSystemConfig struct {
	MaxWarnings  int          `json:"maxWarnings"`
	Escalation   []ActionKind `json:"escalation"`
	WarnExpiryMs int64        `json:"warnExpiry"`
}

// WarningRecord is immutable once created; the ledger only appends or
// bulk-clears.
type WarningRecord struct {
	Reason      string `json:"reason"`
	CreatedAt   int64  `json:"timestamp"` // unix milliseconds
	Moderator   string `json:"moderator"`
	ModeratorID string `json:"moderatorId,omitempty"`
}

// SpamWindow tracks message timestamps inside the current fixed window.
// The whole list is dropped when the window rolls over; timestamps are never
// pruned individually.
type SpamWindow struct {
	Timestamps  []int64 `json:"messages"`
	WindowStart int64   `json:"lastReset"` // unix milliseconds
}

// DefaultGuildConfig returns a fresh document with automod disabled and all
// thresholds at their defaults.
func DefaultGuildConfig() *GuildConfig {
	return &GuildConfig{
		SchemaVersion: CurrentSchemaVersion,
		Enabled:       false,
		AntiSpam: AntiSpamConfig{
			MaxMessages: DefaultMaxMessages,
			WindowMs:    DefaultSpamWindowMs,
			Action:      ActionTimeout,
		},
		AntiLink: AntiLinkConfig{
			AllowedDomains: []string{"discord.gg", "discord.com"},
			Action:         ActionDelete,
		},
		AntiCaps: AntiCapsConfig{
			MaxPercentage: DefaultMaxCapsPercent,
			MinLength:     DefaultMinCapsLength,
			Action:        ActionWarn,
		},
		AntiEmoji: AntiEmojiConfig{
			MaxEmojis: DefaultMaxEmojis,
			Action:    ActionWarn,
		},
		ProfanityFilter: ProfanityConfig{
			Blacklist: []string{},
			Action:    ActionDelete,
		},
		WarnSystem: WarnSystemConfig{
			MaxWarnings:  DefaultMaxWarnings,
			Escalation:   []ActionKind{ActionTimeout, ActionKick, ActionBan},
			WarnExpiryMs: DefaultWarnExpiryMs,
		},
		Warnings:  map[string][]WarningRecord{},
		SpamState: map[string]*SpamWindow{},
	}
}

// Migrate backfills substructure that older documents lack and reports
// whether anything changed. Callers persist the document when it did.
func Migrate(cfg *GuildConfig) bool {
	changed := false
	def := DefaultGuildConfig()

	if cfg.AntiSpam.MaxMessages == 0 && cfg.AntiSpam.WindowMs == 0 {
		enabled := cfg.AntiSpam.Enabled
		cfg.AntiSpam = def.AntiSpam
		cfg.AntiSpam.Enabled = enabled
		changed = true
	}
	if cfg.AntiLink.AllowedDomains == nil {
		enabled := cfg.AntiLink.Enabled
		action := cfg.AntiLink.Action
		cfg.AntiLink = def.AntiLink
		cfg.AntiLink.Enabled = enabled
		if action.Valid() {
			cfg.AntiLink.Action = action
		}
		changed = true
	}
	if cfg.AntiCaps.MaxPercentage == 0 && cfg.AntiCaps.MinLength == 0 {
		enabled := cfg.AntiCaps.Enabled
		cfg.AntiCaps = def.AntiCaps
		cfg.AntiCaps.Enabled = enabled
		changed = true
	}
	if cfg.AntiEmoji.MaxEmojis == 0 {
		enabled := cfg.AntiEmoji.Enabled
		cfg.AntiEmoji = def.AntiEmoji
		cfg.AntiEmoji.Enabled = enabled
		changed = true
	}
	if cfg.ProfanityFilter.Blacklist == nil {
		cfg.ProfanityFilter.Blacklist = []string{}
		changed = true
	}
	if !cfg.ProfanityFilter.Action.Valid() {
		cfg.ProfanityFilter.Action = def.ProfanityFilter.Action
		changed = true
	}
	if cfg.WarnSystem.MaxWarnings == 0 {
		escalation := cfg.WarnSystem.Escalation
		cfg.WarnSystem = def.WarnSystem
		if escalation != nil {
			cfg.WarnSystem.Escalation = escalation
		}
		changed = true
	}
	if cfg.WarnSystem.WarnExpiryMs == 0 {
		cfg.WarnSystem.WarnExpiryMs = DefaultWarnExpiryMs
		changed = true
	}
	if cfg.Warnings == nil {
		cfg.Warnings = map[string][]WarningRecord{}
		changed = true
	}
	if cfg.SpamState == nil {
		cfg.SpamState = map[string]*SpamWindow{}
		changed = true
	}
	if cfg.SchemaVersion < CurrentSchemaVersion {
		cfg.SchemaVersion = CurrentSchemaVersion
		changed = true
	}
	return changed
}

// Reset returns the config to defaults while preserving the profanity
// blacklist and the existing warning ledger. Spam counters are dropped.
func Reset(cfg *GuildConfig) *GuildConfig {
	fresh := DefaultGuildConfig()
	fresh.ProfanityFilter.Blacklist = cfg.ProfanityFilter.Blacklist
	if fresh.ProfanityFilter.Blacklist == nil {
		fresh.ProfanityFilter.Blacklist = []string{}
	}
	if cfg.Warnings != nil {
		fresh.Warnings = cfg.Warnings
	}
	// Reconfiguration starts with an empty escalation chain so the wizard
	// forces an explicit choice.
	fresh.WarnSystem.Escalation = []ActionKind{}
	return fresh
}
