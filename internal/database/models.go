package database

// ModerationLogEntry is one applied moderation action in the audit log.
type ModerationLogEntry struct {
	ID        int64  `json:"id"`
	GuildID   string `json:"guild_id"`
	UserID    string `json:"user_id"`
	Moderator string `json:"moderator"`
	Action    string `json:"action"`
	Reason    string `json:"reason"`
	Timestamp int64  `json:"timestamp"`
}
