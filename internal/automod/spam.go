package automod

import "time"

// RecordMessage counts a message against the user's fixed spam window and
// returns the number of messages in the current window.
//
// The window resets wholesale once it has elapsed rather than evicting
// timestamps one by one, so a burst straddling the boundary can undercount.
// That behavior is intentional and relied upon by existing guild configs.
func RecordMessage(cfg *GuildConfig, userID string, now time.Time) int {
	if cfg.SpamState == nil {
		cfg.SpamState = map[string]*SpamWindow{}
	}

	nowMs := now.UnixMilli()
	window, ok := cfg.SpamState[userID]
	if !ok {
		window = &SpamWindow{WindowStart: nowMs}
		cfg.SpamState[userID] = window
	}

	if nowMs-window.WindowStart > cfg.AntiSpam.WindowMs {
		window.Timestamps = []int64{nowMs}
		window.WindowStart = nowMs
		return 1
	}

	window.Timestamps = append(window.Timestamps, nowMs)
	return len(window.Timestamps)
}
