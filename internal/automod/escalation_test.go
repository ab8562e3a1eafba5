package automod

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestController() (*EscalationController, *fakeModerator, *fakeNotifier, *fakeRecorder) {
	mod := newFakeModerator()
	notifier := &fakeNotifier{}
	recorder := &fakeRecorder{}
	ctrl := NewEscalationController(mod, notifier, recorder, zap.NewNop())
	return ctrl, mod, notifier, recorder
}

func testMember() Member {
	return Member{GuildID: "guild-1", UserID: "user-1", Tag: "user#1"}
}

func seedActiveWarnings(cfg *GuildConfig, userID string, n int, now time.Time) {
	for i := 0; i < n; i++ {
		AddWarning(cfg, userID, WarningRecord{Reason: "seed", CreatedAt: now.UnixMilli()})
	}
}

func TestEscalationDeterminism(t *testing.T) {
	// maxWarnings=3, escalation=[timeout kick ban]: the 3rd active warning
	// resolves timeout, the 4th kick, the 5th and beyond ban.
	tests := []struct {
		priorWarnings int
		want          ActionKind
	}{
		{2, ActionTimeout},
		{3, ActionKick},
		{4, ActionBan},
		{7, ActionBan}, // clamped to the last chain entry
	}

	for _, tt := range tests {
		ctrl, mod, _, _ := newTestController()
		cfg := DefaultGuildConfig()
		now := time.Now()
		seedActiveWarnings(cfg, "user-1", tt.priorWarnings, now)

		ctrl.ApplyAction(cfg, testMember(), "test", ActionWarn, Actor{Label: "mod"}, now)

		calls := mod.callsOf(tt.want)
		require.Len(t, calls, 1, "prior=%d want=%s", tt.priorWarnings, tt.want)
	}
}

func TestWarnTriggersKickSameCall(t *testing.T) {
	ctrl, mod, notifier, recorder := newTestController()
	cfg := DefaultGuildConfig()
	cfg.WarnSystem.MaxWarnings = 1
	cfg.WarnSystem.Escalation = []ActionKind{ActionKick}
	now := time.Now()

	active := ctrl.ApplyAction(cfg, testMember(), "first strike", ActionWarn, Actor{Label: "mod"}, now)

	assert.Equal(t, 1, active)
	assert.Equal(t, 1, TotalWarningCount(cfg, "user-1"))
	require.Len(t, mod.callsOf(ActionKick), 1)
	assert.Contains(t, mod.callsOf(ActionKick)[0].Reason, "Escalation")
	assert.Len(t, notifier.dms, 1)
	// Audit trail records both the warn and the kick.
	assert.Len(t, recorder.entries, 2)
}

func TestExpiredWarningsDoNotEscalate(t *testing.T) {
	ctrl, mod, _, _ := newTestController()
	cfg := DefaultGuildConfig()
	now := time.Now()

	// Two warnings well past expiry plus the new one: only 1 active.
	old := now.Add(-time.Duration(cfg.WarnSystem.WarnExpiryMs)*time.Millisecond - time.Hour)
	seedActiveWarnings(cfg, "user-1", 2, old)

	active := ctrl.ApplyAction(cfg, testMember(), "new", ActionWarn, Actor{Label: "mod"}, now)

	assert.Equal(t, 1, active)
	assert.Empty(t, mod.calls)
}

func TestUnprivilegedTargetSkipped(t *testing.T) {
	ctrl, mod, _, recorder := newTestController()
	mod.moderatable = false
	cfg := DefaultGuildConfig()

	ctrl.ApplyAction(cfg, testMember(), "test", ActionBan, Actor{Label: "mod"}, time.Now())

	// Skipped silently: no platform call, no audit entry, no panic.
	assert.Empty(t, mod.calls)
	assert.Empty(t, recorder.entries)
}

func TestDeleteActionIsNoOpHere(t *testing.T) {
	ctrl, mod, _, _ := newTestController()
	cfg := DefaultGuildConfig()

	ctrl.ApplyAction(cfg, testMember(), "test", ActionDelete, Actor{Label: "mod"}, time.Now())

	assert.Empty(t, mod.calls)
	assert.Empty(t, mod.deleted)
}

func TestEmptyEscalationChainNeverEscalates(t *testing.T) {
	ctrl, mod, _, _ := newTestController()
	cfg := DefaultGuildConfig()
	cfg.WarnSystem.MaxWarnings = 1
	cfg.WarnSystem.Escalation = nil
	now := time.Now()

	active := ctrl.ApplyAction(cfg, testMember(), "strike", ActionWarn, Actor{Label: "mod"}, now)

	assert.Equal(t, 1, active)
	assert.Empty(t, mod.calls)
}
