package automod

import (
	"sort"
	"time"
)

// AddWarning appends a record to the user's ledger. Retention is unlimited;
// expiry only affects the active count.
func AddWarning(cfg *GuildConfig, userID string, rec WarningRecord) {
	if cfg.Warnings == nil {
		cfg.Warnings = map[string][]WarningRecord{}
	}
	cfg.Warnings[userID] = append(cfg.Warnings[userID], rec)
}

// IsWarningActive reports whether a record has not yet expired.
func IsWarningActive(cfg *GuildConfig, rec WarningRecord, now time.Time) bool {
	return now.UnixMilli()-rec.CreatedAt < cfg.WarnSystem.WarnExpiryMs
}

// ActiveWarningCount counts the user's unexpired records.
func ActiveWarningCount(cfg *GuildConfig, userID string, now time.Time) int {
	count := 0
	for _, rec := range cfg.Warnings[userID] {
		if IsWarningActive(cfg, rec, now) {
			count++
		}
	}
	return count
}

// TotalWarningCount counts all stored records, expired included.
func TotalWarningCount(cfg *GuildConfig, userID string) int {
	return len(cfg.Warnings[userID])
}

// ClearWarnings removes every record for the user and returns how many were
// removed, for confirmation messaging.
func ClearWarnings(cfg *GuildConfig, userID string) int {
	removed := len(cfg.Warnings[userID])
	delete(cfg.Warnings, userID)
	return removed
}

// RecentWarnings returns a copy of the user's records sorted newest first.
// Storage order stays insertion-ordered.
func RecentWarnings(cfg *GuildConfig, userID string) []WarningRecord {
	records := cfg.Warnings[userID]
	out := make([]WarningRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}
