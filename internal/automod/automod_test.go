package automod

import (
	"sync"
	"time"
)

// memDocStore is an in-memory DocumentStore for tests.
type memDocStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func newMemDocStore() *memDocStore {
	return &memDocStore{docs: map[string][]byte{}}
}

func (m *memDocStore) ReadDocument(guildID string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[guildID]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, true, nil
}

func (m *memDocStore) WriteDocument(guildID string, document []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(document))
	copy(out, document)
	m.docs[guildID] = out
	return nil
}

// fakeClock returns a fixed time that tests advance explicitly.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type actionCall struct {
	Kind   ActionKind
	UserID string
	Reason string
}

// fakeModerator records platform calls and lets tests toggle moderability.
type fakeModerator struct {
	mu          sync.Mutex
	moderatable bool
	calls       []actionCall
	deleted     []string
}

func newFakeModerator() *fakeModerator {
	return &fakeModerator{moderatable: true}
}

func (f *fakeModerator) CanActOn(guildID, userID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.moderatable
}

func (f *fakeModerator) Timeout(guildID, userID string, duration time.Duration, reason string) error {
	f.recordCall(ActionTimeout, userID, reason)
	return nil
}

func (f *fakeModerator) Kick(guildID, userID, reason string) error {
	f.recordCall(ActionKick, userID, reason)
	return nil
}

func (f *fakeModerator) Ban(guildID, userID, reason string) error {
	f.recordCall(ActionBan, userID, reason)
	return nil
}

func (f *fakeModerator) DeleteMessage(channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeModerator) recordCall(kind ActionKind, userID, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, actionCall{Kind: kind, UserID: userID, Reason: reason})
}

func (f *fakeModerator) callsOf(kind ActionKind) []actionCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []actionCall
	for _, c := range f.calls {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// fakeNotifier records best-effort notifications.
type fakeNotifier struct {
	mu         sync.Mutex
	dms        []string
	actionLogs []ActionKind
	violations []ViolationKind
}

func (f *fakeNotifier) WarningDM(m Member, reason string, activeCount, maxWarnings int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dms = append(f.dms, reason)
}

func (f *fakeNotifier) ActionLog(logChannelID string, m Member, action ActionKind, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actionLogs = append(f.actionLogs, action)
}

func (f *fakeNotifier) ViolationLog(logChannelID string, msg Message, kind ViolationKind, action ActionKind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.violations = append(f.violations, kind)
}

// fakeRecorder collects audit entries.
type fakeRecorder struct {
	mu      sync.Mutex
	entries []actionCall
}

func (f *fakeRecorder) RecordAction(guildID, userID, moderator, action, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, actionCall{Kind: ActionKind(action), UserID: userID, Reason: reason})
	return nil
}
