package automod

import "fmt"

// ActionKind identifies a moderation action taken in response to a rule
// violation or an escalation step.
type ActionKind string

const (
	ActionWarn    ActionKind = "warn"
	ActionTimeout ActionKind = "timeout"
	ActionKick    ActionKind = "kick"
	ActionBan     ActionKind = "ban"
	ActionDelete  ActionKind = "delete"
)

// Valid reports whether the action is one of the known kinds.
func (a ActionKind) Valid() bool {
	switch a {
	case ActionWarn, ActionTimeout, ActionKick, ActionBan, ActionDelete:
		return true
	}
	return false
}

// Escalatable reports whether the action may appear in an escalation chain.
// Warn and delete never escalate into themselves.
func (a ActionKind) Escalatable() bool {
	switch a {
	case ActionTimeout, ActionKick, ActionBan:
		return true
	}
	return false
}

// Display returns the action name with the first letter capitalized.
func (a ActionKind) Display() string {
	s := string(a)
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-32) + s[1:]
	}
	return s
}

// ParseActionKind converts user input into an ActionKind.
func ParseActionKind(s string) (ActionKind, error) {
	a := ActionKind(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown action %q", s)
	}
	return a, nil
}
