package automod

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// SetupState is one step of the guided configuration flow. The flow is
// strictly linear; each state is reachable only once the previous one has
// been completed.
type SetupState int

const (
	StateEnable SetupState = iota
	StateAntiFeatures
	StateProfanity
	StateWarnings
	StateEscalation
	StateCompleted
)

func (s SetupState) String() string {
	switch s {
	case StateEnable:
		return "enable"
	case StateAntiFeatures:
		return "antifeatures"
	case StateProfanity:
		return "profanity"
	case StateWarnings:
		return "warnings"
	case StateEscalation:
		return "escalation"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// Deadline is how long a moderator has to finish the step before it is
// abandoned. Nothing persists for an abandoned step beyond what prior step
// boundaries already saved.
func (s SetupState) Deadline() time.Duration {
	switch s {
	case StateProfanity:
		return 5 * time.Minute
	case StateCompleted:
		return time.Minute
	default:
		return 2 * time.Minute
	}
}

var (
	ErrWrongSetupStep     = errors.New("input does not match the current setup step")
	ErrLogChannelRequired = errors.New("a log channel must be selected")
	ErrNoEscalationSteps  = errors.New("at least one escalation action is required")
)

// SetupEventKind discriminates moderator-submitted wizard inputs.
type SetupEventKind int

const (
	SetupEventEnable SetupEventKind = iota
	SetupEventAntiFeatures
	SetupEventProfanity
	SetupEventWarnings
	SetupEventEscalation
	SetupEventReconfigure
)

// SetupEvent is one completed wizard step's worth of input.
type SetupEvent interface {
	Kind() SetupEventKind
}

// EnableStep turns automod on or off and stores the moderation log channel.
type EnableStep struct {
	Enabled      bool
	LogChannelID string
}

func (EnableStep) Kind() SetupEventKind { return SetupEventEnable }

// AntiFeaturesStep selects which content rules are active.
type AntiFeaturesStep struct {
	Spam  bool
	Link  bool
	Caps  bool
	Emoji bool
}

func (AntiFeaturesStep) Kind() SetupEventKind { return SetupEventAntiFeatures }

// ProfanityStep toggles the profanity filter and optionally adds words.
type ProfanityStep struct {
	Enabled bool
	Words   []string
}

func (ProfanityStep) Kind() SetupEventKind { return SetupEventProfanity }

// WarningsStep sets the escalation threshold.
type WarningsStep struct {
	MaxWarnings int
}

func (WarningsStep) Kind() SetupEventKind { return SetupEventWarnings }

// EscalationStep sets the ordered action chain.
type EscalationStep struct {
	Actions []ActionKind
}

func (EscalationStep) Kind() SetupEventKind { return SetupEventEscalation }

// ReconfigureStep resets a completed setup back to the first step, keeping
// the blacklist and warning ledger.
type ReconfigureStep struct{}

func (ReconfigureStep) Kind() SetupEventKind { return SetupEventReconfigure }

// SetupResult is the outcome of one transition.
type SetupResult struct {
	State   SetupState
	Persist bool
	Summary string
}

// CurrentSetupState derives the wizard position from the config's progress
// flags. Reaching antifeatures requires a stored log channel; later states
// each require their predecessor's completion flag.
func CurrentSetupState(cfg *GuildConfig) SetupState {
	state := StateEnable
	if cfg.LogChannelID != "" {
		state = StateAntiFeatures
	}
	if cfg.AntiFeaturesConfigured {
		state = StateProfanity
	}
	if cfg.ProfanityConfigured {
		state = StateWarnings
	}
	if cfg.WarningsConfigured {
		state = StateEscalation
	}
	if cfg.EscalationConfigured {
		state = StateCompleted
	}
	return state
}

// ApplySetupEvent validates the event against the current state, mutates the
// config, and returns the new state. Events for any other step are rejected;
// steps cannot be skipped or replayed out of order.
func ApplySetupEvent(cfg *GuildConfig, ev SetupEvent) (*SetupResult, error) {
	current := CurrentSetupState(cfg)

	switch e := ev.(type) {
	case EnableStep:
		if current != StateEnable {
			return nil, stepMismatch(current, "enable")
		}
		if e.LogChannelID == "" {
			return nil, ErrLogChannelRequired
		}
		cfg.Enabled = e.Enabled
		cfg.LogChannelID = e.LogChannelID
		return &SetupResult{
			State:   CurrentSetupState(cfg),
			Persist: true,
			Summary: fmt.Sprintf("Automod %s, log channel set", enabledWord(e.Enabled)),
		}, nil

	case AntiFeaturesStep:
		if current != StateAntiFeatures {
			return nil, stepMismatch(current, "antifeatures")
		}
		cfg.AntiSpam.Enabled = e.Spam
		cfg.AntiLink.Enabled = e.Link
		cfg.AntiCaps.Enabled = e.Caps
		cfg.AntiEmoji.Enabled = e.Emoji
		cfg.AntiFeaturesConfigured = true
		return &SetupResult{
			State:   CurrentSetupState(cfg),
			Persist: true,
			Summary: "Anti-features configured: " + featureSummary(cfg),
		}, nil

	case ProfanityStep:
		if current != StateProfanity {
			return nil, stepMismatch(current, "profanity")
		}
		cfg.ProfanityFilter.Enabled = e.Enabled
		for _, word := range e.Words {
			word = strings.ToLower(strings.TrimSpace(word))
			if utf8.RuneCountInString(word) < 2 {
				continue
			}
			if !containsWord(cfg.ProfanityFilter.Blacklist, word) {
				cfg.ProfanityFilter.Blacklist = append(cfg.ProfanityFilter.Blacklist, word)
			}
		}
		cfg.ProfanityConfigured = true
		return &SetupResult{
			State:   CurrentSetupState(cfg),
			Persist: true,
			Summary: fmt.Sprintf("Profanity filter %s, %d words blacklisted", enabledWord(e.Enabled), len(cfg.ProfanityFilter.Blacklist)),
		}, nil

	case WarningsStep:
		if current != StateWarnings {
			return nil, stepMismatch(current, "warnings")
		}
		if e.MaxWarnings < 1 || e.MaxWarnings > 5 {
			return nil, fmt.Errorf("%w: warning threshold must be between 1 and 5", ErrInvalidCount)
		}
		cfg.WarnSystem.MaxWarnings = e.MaxWarnings
		cfg.WarningsConfigured = true
		return &SetupResult{
			State:   CurrentSetupState(cfg),
			Persist: true,
			Summary: fmt.Sprintf("Escalation after %d warnings", e.MaxWarnings),
		}, nil

	case EscalationStep:
		if current != StateEscalation {
			return nil, stepMismatch(current, "escalation")
		}
		if len(e.Actions) == 0 {
			return nil, ErrNoEscalationSteps
		}
		if len(e.Actions) > 3 {
			return nil, fmt.Errorf("%w: at most 3 escalation actions", ErrInvalidCount)
		}
		for _, a := range e.Actions {
			if !a.Escalatable() {
				return nil, fmt.Errorf("%w: %q", ErrInvalidAction, a)
			}
		}
		cfg.WarnSystem.Escalation = append([]ActionKind(nil), e.Actions...)
		cfg.EscalationConfigured = true
		return &SetupResult{
			State:   CurrentSetupState(cfg),
			Persist: true,
			Summary: "Escalation chain: " + actionSummary(e.Actions),
		}, nil

	case ReconfigureStep:
		if current != StateCompleted {
			return nil, stepMismatch(current, "reconfigure")
		}
		*cfg = *Reset(cfg)
		return &SetupResult{
			State:   CurrentSetupState(cfg),
			Persist: true,
			Summary: "Configuration reset; blacklist and warnings preserved",
		}, nil
	}

	return nil, fmt.Errorf("unknown setup event %T", ev)
}

func stepMismatch(current SetupState, got string) error {
	return fmt.Errorf("%w: expected %s input, got %s", ErrWrongSetupStep, current, got)
}

func enabledWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func featureSummary(cfg *GuildConfig) string {
	var features []string
	if cfg.AntiSpam.Enabled {
		features = append(features, "Anti-Spam")
	}
	if cfg.AntiLink.Enabled {
		features = append(features, "Anti-Link")
	}
	if cfg.AntiCaps.Enabled {
		features = append(features, "Anti-Caps")
	}
	if cfg.AntiEmoji.Enabled {
		features = append(features, "Anti-Emoji")
	}
	if len(features) == 0 {
		return "none"
	}
	return strings.Join(features, ", ")
}

func actionSummary(actions []ActionKind) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = fmt.Sprintf("%d. %s", i+1, a.Display())
	}
	return strings.Join(parts, " ")
}

func containsWord(words []string, word string) bool {
	for _, w := range words {
		if w == word {
			return true
		}
	}
	return false
}
