package automod

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizardLinearFlow(t *testing.T) {
	cfg := DefaultGuildConfig()
	assert.Equal(t, StateEnable, CurrentSetupState(cfg))

	res, err := ApplySetupEvent(cfg, EnableStep{Enabled: true, LogChannelID: "chan-1"})
	require.NoError(t, err)
	assert.Equal(t, StateAntiFeatures, res.State)
	assert.True(t, res.Persist)

	res, err = ApplySetupEvent(cfg, AntiFeaturesStep{Spam: true, Caps: true})
	require.NoError(t, err)
	assert.Equal(t, StateProfanity, res.State)
	assert.True(t, cfg.AntiSpam.Enabled)
	assert.False(t, cfg.AntiLink.Enabled)
	assert.True(t, cfg.AntiCaps.Enabled)

	res, err = ApplySetupEvent(cfg, ProfanityStep{Enabled: true, Words: []string{"Bad", "x", " worse "}})
	require.NoError(t, err)
	assert.Equal(t, StateWarnings, res.State)
	// "x" is under the 2-character minimum and dropped; others normalize.
	assert.Equal(t, []string{"bad", "worse"}, cfg.ProfanityFilter.Blacklist)

	res, err = ApplySetupEvent(cfg, WarningsStep{MaxWarnings: 2})
	require.NoError(t, err)
	assert.Equal(t, StateEscalation, res.State)
	assert.Equal(t, 2, cfg.WarnSystem.MaxWarnings)

	res, err = ApplySetupEvent(cfg, EscalationStep{Actions: []ActionKind{ActionTimeout, ActionBan}})
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, res.State)
	assert.Equal(t, []ActionKind{ActionTimeout, ActionBan}, cfg.WarnSystem.Escalation)
}

func TestWizardNoSkipping(t *testing.T) {
	cfg := DefaultGuildConfig()

	// Escalation input while still on the first step is rejected.
	_, err := ApplySetupEvent(cfg, EscalationStep{Actions: []ActionKind{ActionBan}})
	assert.ErrorIs(t, err, ErrWrongSetupStep)

	// Antifeatures requires the log channel from the enable step.
	_, err = ApplySetupEvent(cfg, AntiFeaturesStep{Spam: true})
	assert.ErrorIs(t, err, ErrWrongSetupStep)
}

func TestWizardEnableRequiresLogChannel(t *testing.T) {
	cfg := DefaultGuildConfig()
	_, err := ApplySetupEvent(cfg, EnableStep{Enabled: true})
	assert.ErrorIs(t, err, ErrLogChannelRequired)
	assert.Equal(t, StateEnable, CurrentSetupState(cfg))
}

func TestWizardValidation(t *testing.T) {
	cfg := DefaultGuildConfig()
	completeThrough(t, cfg, StateWarnings)

	_, err := ApplySetupEvent(cfg, WarningsStep{MaxWarnings: 0})
	assert.ErrorIs(t, err, ErrInvalidCount)
	_, err = ApplySetupEvent(cfg, WarningsStep{MaxWarnings: 6})
	assert.ErrorIs(t, err, ErrInvalidCount)

	require.NoError(t, apply(cfg, WarningsStep{MaxWarnings: 3}))

	_, err = ApplySetupEvent(cfg, EscalationStep{})
	assert.ErrorIs(t, err, ErrNoEscalationSteps)
	_, err = ApplySetupEvent(cfg, EscalationStep{Actions: []ActionKind{ActionWarn}})
	assert.ErrorIs(t, err, ErrInvalidAction)
	_, err = ApplySetupEvent(cfg, EscalationStep{Actions: []ActionKind{ActionBan, ActionBan, ActionBan, ActionBan}})
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestWizardReconfigurePreservesBlacklistAndLedger(t *testing.T) {
	cfg := DefaultGuildConfig()
	completeThrough(t, cfg, StateCompleted)
	require.Equal(t, StateCompleted, CurrentSetupState(cfg))

	AddWarning(cfg, "user-1", WarningRecord{Reason: "kept", CreatedAt: time.Now().UnixMilli()})
	blacklist := cfg.ProfanityFilter.Blacklist

	res, err := ApplySetupEvent(cfg, ReconfigureStep{})
	require.NoError(t, err)
	assert.Equal(t, StateEnable, res.State)

	assert.False(t, cfg.Enabled)
	assert.Empty(t, cfg.LogChannelID)
	assert.False(t, cfg.AntiFeaturesConfigured)
	assert.False(t, cfg.EscalationConfigured)
	assert.Empty(t, cfg.WarnSystem.Escalation)
	assert.Equal(t, blacklist, cfg.ProfanityFilter.Blacklist)
	assert.Equal(t, 1, TotalWarningCount(cfg, "user-1"))
	assert.Empty(t, cfg.SpamState)
}

func TestWizardReconfigureOnlyWhenCompleted(t *testing.T) {
	cfg := DefaultGuildConfig()
	_, err := ApplySetupEvent(cfg, ReconfigureStep{})
	assert.ErrorIs(t, err, ErrWrongSetupStep)
}

func TestSetupStateDeadlines(t *testing.T) {
	assert.Equal(t, 2*time.Minute, StateEnable.Deadline())
	assert.Equal(t, 5*time.Minute, StateProfanity.Deadline())
	assert.Equal(t, time.Minute, StateCompleted.Deadline())
}

// completeThrough advances the wizard until the given state is current.
func completeThrough(t *testing.T, cfg *GuildConfig, target SetupState) {
	t.Helper()
	steps := []SetupEvent{
		EnableStep{Enabled: true, LogChannelID: "chan-1"},
		AntiFeaturesStep{Spam: true},
		ProfanityStep{Enabled: true, Words: []string{"badword"}},
		WarningsStep{MaxWarnings: 3},
		EscalationStep{Actions: []ActionKind{ActionTimeout, ActionKick, ActionBan}},
	}
	for _, step := range steps {
		if CurrentSetupState(cfg) == target {
			return
		}
		require.NoError(t, apply(cfg, step))
	}
	require.Equal(t, target, CurrentSetupState(cfg))
}

func apply(cfg *GuildConfig, ev SetupEvent) error {
	_, err := ApplySetupEvent(cfg, ev)
	return err
}
