package automod

import (
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Validation errors surfaced to the command adapters, which map them to
// user-facing text. Nothing here mutates state before validating.
var (
	ErrWordTooShort  = errors.New("blacklist words must be at least 2 characters")
	ErrWordExists    = errors.New("word is already blacklisted")
	ErrWordNotFound  = errors.New("word is not in the blacklist")
	ErrSelfTarget    = errors.New("you cannot target yourself")
	ErrBotTarget     = errors.New("the bot cannot be targeted")
	ErrNoWarnings    = errors.New("user has no warnings")
	ErrInvalidCount  = errors.New("count is out of range")
	ErrInvalidAction = errors.New("invalid escalation action")
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// Service is the automod core with all collaborators injected. It owns the
// per-guild load-mutate-save cycle and serializes it through keyed locks so
// concurrent violations in one guild cannot lose updates.
type Service struct {
	store    *GuildConfigStore
	clock    Clock
	esc      *EscalationController
	mod      Moderator
	notifier Notifier
	logger   *zap.Logger

	mu         sync.Mutex
	guildLocks map[string]*sync.Mutex
}

func NewService(store *GuildConfigStore, clock Clock, mod Moderator, notifier Notifier, recorder Recorder, logger *zap.Logger) *Service {
	return &Service{
		store:      store,
		clock:      clock,
		esc:        NewEscalationController(mod, notifier, recorder, logger),
		mod:        mod,
		notifier:   notifier,
		logger:     logger,
		guildLocks: make(map[string]*sync.Mutex),
	}
}

// lockGuild serializes all config reads and writes for one guild.
func (s *Service) lockGuild(guildID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.guildLocks[guildID]
	if !ok {
		lock = &sync.Mutex{}
		s.guildLocks[guildID] = lock
	}
	return lock
}

// HandleMessage runs the full automod flow for one inbound message: rule
// evaluation, message deletion, escalation, persistence. Returns the
// violation found, or nil when the message is clean.
func (s *Service) HandleMessage(msg Message) (*Violation, error) {
	lock := s.lockGuild(msg.GuildID)
	lock.Lock()
	defer lock.Unlock()

	cfg, err := s.store.Load(msg.GuildID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	violation := Evaluate(cfg, msg, now)

	// Spam tracking mutates state even without a violation.
	if violation == nil {
		if cfg.Enabled && cfg.AntiSpam.Enabled && !msg.AuthorIsAdmin {
			if err := s.store.Save(msg.GuildID, cfg); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	if violation.ShouldDelete {
		if err := s.mod.DeleteMessage(msg.ChannelID, msg.MessageID); err != nil {
			s.logger.Warn("failed to delete message",
				zap.String("guild_id", msg.GuildID),
				zap.String("message_id", msg.MessageID),
				zap.Error(err))
		}
	}

	member := Member{GuildID: msg.GuildID, UserID: msg.AuthorID, Tag: msg.AuthorTag}
	reason := "Automod: " + string(violation.Kind)
	s.esc.ApplyAction(cfg, member, reason, violation.Action, Actor{Label: "Den Manager Bot"}, now)

	s.notifier.ViolationLog(cfg.LogChannelID, msg, violation.Kind, violation.Action)

	if err := s.store.Save(msg.GuildID, cfg); err != nil {
		return violation, err
	}
	return violation, nil
}

// WarnResult reports the outcome of a manual warning.
type WarnResult struct {
	ActiveCount int
	MaxWarnings int

	// Escalated names the action resolved when the warning pushed the user
	// over the threshold; empty otherwise.
	Escalated ActionKind
}

// WarnUser appends a moderator-issued warning and runs the same escalation
// path automod uses.
func (s *Service) WarnUser(m Member, reason string, by Actor) (*WarnResult, error) {
	if m.UserID == by.ID {
		return nil, ErrSelfTarget
	}

	lock := s.lockGuild(m.GuildID)
	lock.Lock()
	defer lock.Unlock()

	cfg, err := s.store.Load(m.GuildID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	res := &WarnResult{MaxWarnings: cfg.WarnSystem.MaxWarnings}
	res.ActiveCount = s.esc.ApplyAction(cfg, m, reason, ActionWarn, by, now)

	if res.ActiveCount >= cfg.WarnSystem.MaxWarnings && len(cfg.WarnSystem.Escalation) > 0 {
		idx := res.ActiveCount - cfg.WarnSystem.MaxWarnings
		if idx > len(cfg.WarnSystem.Escalation)-1 {
			idx = len(cfg.WarnSystem.Escalation) - 1
		}
		res.Escalated = cfg.WarnSystem.Escalation[idx]
	}

	if err := s.store.Save(m.GuildID, cfg); err != nil {
		return nil, err
	}
	return res, nil
}

// WarningsView is a read-only snapshot of one user's ledger.
type WarningsView struct {
	Total       int
	ActiveCount int
	MaxWarnings int
	ExpiryMs    int64
	Recent      []WarningRecord // newest first
	ActiveFlags []bool          // parallel to Recent
}

// UserWarnings returns the user's ledger with lazy expiry applied to the
// active count; stored records are untouched.
func (s *Service) UserWarnings(guildID, userID string) (*WarningsView, error) {
	lock := s.lockGuild(guildID)
	lock.Lock()
	defer lock.Unlock()

	cfg, err := s.store.Load(guildID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	recent := RecentWarnings(cfg, userID)
	flags := make([]bool, len(recent))
	for i, rec := range recent {
		flags[i] = IsWarningActive(cfg, rec, now)
	}

	return &WarningsView{
		Total:       TotalWarningCount(cfg, userID),
		ActiveCount: ActiveWarningCount(cfg, userID, now),
		MaxWarnings: cfg.WarnSystem.MaxWarnings,
		ExpiryMs:    cfg.WarnSystem.WarnExpiryMs,
		Recent:      recent,
		ActiveFlags: flags,
	}, nil
}

// ClearUserWarnings removes all records for the user and returns the removed
// count. ErrNoWarnings when the ledger was already empty.
func (s *Service) ClearUserWarnings(guildID, userID string) (int, error) {
	lock := s.lockGuild(guildID)
	lock.Lock()
	defer lock.Unlock()

	cfg, err := s.store.Load(guildID)
	if err != nil {
		return 0, err
	}

	removed := ClearWarnings(cfg, userID)
	if removed == 0 {
		return 0, ErrNoWarnings
	}

	if err := s.store.Save(guildID, cfg); err != nil {
		return 0, err
	}
	return removed, nil
}

// AddBlacklistWord adds a normalized word to the profanity blacklist.
// Words under 2 runes are rejected to limit substring false positives;
// duplicates are rejected with ErrWordExists.
func (s *Service) AddBlacklistWord(guildID, word string) (int, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if utf8.RuneCountInString(word) < 2 {
		return 0, ErrWordTooShort
	}

	lock := s.lockGuild(guildID)
	lock.Lock()
	defer lock.Unlock()

	cfg, err := s.store.Load(guildID)
	if err != nil {
		return 0, err
	}

	for _, existing := range cfg.ProfanityFilter.Blacklist {
		if existing == word {
			return len(cfg.ProfanityFilter.Blacklist), ErrWordExists
		}
	}

	cfg.ProfanityFilter.Blacklist = append(cfg.ProfanityFilter.Blacklist, word)
	if err := s.store.Save(guildID, cfg); err != nil {
		return 0, err
	}
	return len(cfg.ProfanityFilter.Blacklist), nil
}

// RemoveBlacklistWord removes a word from the blacklist, preserving the
// order of the remaining entries.
func (s *Service) RemoveBlacklistWord(guildID, word string) (int, error) {
	word = strings.ToLower(strings.TrimSpace(word))

	lock := s.lockGuild(guildID)
	lock.Lock()
	defer lock.Unlock()

	cfg, err := s.store.Load(guildID)
	if err != nil {
		return 0, err
	}

	idx := -1
	for i, existing := range cfg.ProfanityFilter.Blacklist {
		if existing == word {
			idx = i
			break
		}
	}
	if idx == -1 {
		return len(cfg.ProfanityFilter.Blacklist), ErrWordNotFound
	}

	cfg.ProfanityFilter.Blacklist = append(
		cfg.ProfanityFilter.Blacklist[:idx],
		cfg.ProfanityFilter.Blacklist[idx+1:]...)
	if err := s.store.Save(guildID, cfg); err != nil {
		return 0, err
	}
	return len(cfg.ProfanityFilter.Blacklist), nil
}

// BlacklistWords returns a copy of the guild's blacklist together with the
// filter's enabled flag.
func (s *Service) BlacklistWords(guildID string) ([]string, bool, error) {
	lock := s.lockGuild(guildID)
	lock.Lock()
	defer lock.Unlock()

	cfg, err := s.store.Load(guildID)
	if err != nil {
		return nil, false, err
	}

	words := make([]string, len(cfg.ProfanityFilter.Blacklist))
	copy(words, cfg.ProfanityFilter.Blacklist)
	return words, cfg.ProfanityFilter.Enabled, nil
}

// GuildSnapshot returns a copy of the guild's config for display.
func (s *Service) GuildSnapshot(guildID string) (*GuildConfig, error) {
	lock := s.lockGuild(guildID)
	lock.Lock()
	defer lock.Unlock()
	return s.store.Load(guildID)
}

// ResetGuild reverts the config to defaults, keeping the blacklist and the
// warning ledger.
func (s *Service) ResetGuild(guildID string) error {
	lock := s.lockGuild(guildID)
	lock.Lock()
	defer lock.Unlock()

	cfg, err := s.store.Load(guildID)
	if err != nil {
		return err
	}
	return s.store.Save(guildID, Reset(cfg))
}

// ApplySetup advances the guided-setup state machine with a moderator-
// submitted step and persists the result at the step boundary.
func (s *Service) ApplySetup(guildID string, ev SetupEvent) (*SetupResult, error) {
	lock := s.lockGuild(guildID)
	lock.Lock()
	defer lock.Unlock()

	cfg, err := s.store.Load(guildID)
	if err != nil {
		return nil, err
	}

	res, err := ApplySetupEvent(cfg, ev)
	if err != nil {
		return nil, err
	}

	if res.Persist {
		if err := s.store.Save(guildID, cfg); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// SetupState reports the wizard's current state for a guild.
func (s *Service) SetupState(guildID string) (SetupState, *GuildConfig, error) {
	lock := s.lockGuild(guildID)
	lock.Lock()
	defer lock.Unlock()

	cfg, err := s.store.Load(guildID)
	if err != nil {
		return StateEnable, nil, err
	}
	return CurrentSetupState(cfg), cfg, nil
}
