package automod

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWarningSoftExpiry(t *testing.T) {
	cfg := DefaultGuildConfig()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	AddWarning(cfg, "user-1", WarningRecord{
		Reason:    "spamming",
		CreatedAt: now.UnixMilli(),
		Moderator: "mod#1",
	})

	assert.GreaterOrEqual(t, ActiveWarningCount(cfg, "user-1", now), 1)

	expired := now.Add(time.Duration(cfg.WarnSystem.WarnExpiryMs)*time.Millisecond + time.Millisecond)
	assert.Equal(t, 0, ActiveWarningCount(cfg, "user-1", expired))

	// Expired records stay stored until explicitly cleared.
	assert.Equal(t, 1, TotalWarningCount(cfg, "user-1"))
}

func TestClearWarningsReturnsRemovedCount(t *testing.T) {
	cfg := DefaultGuildConfig()
	now := time.Now()

	for i := 0; i < 3; i++ {
		AddWarning(cfg, "user-1", WarningRecord{Reason: "x", CreatedAt: now.UnixMilli()})
	}

	assert.Equal(t, 3, ClearWarnings(cfg, "user-1"))
	assert.Equal(t, 0, TotalWarningCount(cfg, "user-1"))
	assert.Equal(t, 0, ClearWarnings(cfg, "user-1"))
}

func TestRecentWarningsSortedNewestFirst(t *testing.T) {
	cfg := DefaultGuildConfig()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	AddWarning(cfg, "user-1", WarningRecord{Reason: "first", CreatedAt: base.UnixMilli()})
	AddWarning(cfg, "user-1", WarningRecord{Reason: "third", CreatedAt: base.Add(2 * time.Hour).UnixMilli()})
	AddWarning(cfg, "user-1", WarningRecord{Reason: "second", CreatedAt: base.Add(time.Hour).UnixMilli()})

	recent := RecentWarnings(cfg, "user-1")
	assert.Equal(t, []string{"third", "second", "first"}, []string{recent[0].Reason, recent[1].Reason, recent[2].Reason})

	// Storage order stays insertion-ordered.
	stored := cfg.Warnings["user-1"]
	assert.Equal(t, "first", stored[0].Reason)
	assert.Equal(t, "third", stored[1].Reason)
	assert.Equal(t, "second", stored[2].Reason)
}

func TestActiveCountMixedAges(t *testing.T) {
	cfg := DefaultGuildConfig()
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	AddWarning(cfg, "user-1", WarningRecord{Reason: "old", CreatedAt: now.Add(-8 * 24 * time.Hour).UnixMilli()})
	AddWarning(cfg, "user-1", WarningRecord{Reason: "recent", CreatedAt: now.Add(-time.Hour).UnixMilli()})

	assert.Equal(t, 1, ActiveWarningCount(cfg, "user-1", now))
	assert.Equal(t, 2, TotalWarningCount(cfg, "user-1"))
}
