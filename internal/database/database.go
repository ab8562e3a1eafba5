package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Database wraps the SQLite connection backing the per-guild document store
// and the moderation audit log.
type Database struct {
	db *sql.DB
}

// Open creates and initializes the SQLite database at the given path.
func Open(path string) (*Database, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	d := &Database{db: db}
	if err := d.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// IsConnected checks if the database connection is alive.
func (d *Database) IsConnected() bool {
	if d.db == nil {
		return false
	}
	return d.db.Ping() == nil
}

// createTables creates all necessary database tables
func (d *Database) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS guild_documents (
		guild_id TEXT PRIMARY KEY,
		document TEXT NOT NULL,
		created_at INTEGER DEFAULT 0,
		updated_at INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS moderation_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		moderator TEXT NOT NULL,
		action TEXT NOT NULL,
		reason TEXT NOT NULL,
		timestamp INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_guild_documents_guild ON guild_documents(guild_id);
	CREATE INDEX IF NOT EXISTS idx_moderation_log_guild ON moderation_log(guild_id);
	CREATE INDEX IF NOT EXISTS idx_moderation_log_timestamp ON moderation_log(timestamp);
	`

	_, err := d.db.Exec(schema)
	return err
}

// ReadDocument returns the stored document for a guild. The second return is
// false when no document exists for that guild.
func (d *Database) ReadDocument(guildID string) ([]byte, bool, error) {
	var doc string
	err := d.db.QueryRow(
		`SELECT document FROM guild_documents WHERE guild_id = ?`,
		guildID,
	).Scan(&doc)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return []byte(doc), true, nil
}

// WriteDocument creates or fully overwrites the document for a guild.
func (d *Database) WriteDocument(guildID string, document []byte) error {
	now := time.Now().Unix()
	_, err := d.db.Exec(
		`INSERT INTO guild_documents (guild_id, document, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(guild_id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		guildID, string(document), now, now,
	)
	return err
}

// LogModerationAction appends an entry to the moderation audit log.
func (d *Database) LogModerationAction(entry *ModerationLogEntry) error {
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().Unix()
	}
	_, err := d.db.Exec(
		`INSERT INTO moderation_log (guild_id, user_id, moderator, action, reason, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.GuildID, entry.UserID, entry.Moderator, entry.Action, entry.Reason, entry.Timestamp,
	)
	return err
}

// RecordAction appends an audit entry. Adapter used by the automod
// escalation path.
func (d *Database) RecordAction(guildID, userID, moderator, action, reason string) error {
	return d.LogModerationAction(&ModerationLogEntry{
		GuildID:   guildID,
		UserID:    userID,
		Moderator: moderator,
		Action:    action,
		Reason:    reason,
	})
}

// RecentModerationActions returns the latest audit entries for a guild,
// newest first.
func (d *Database) RecentModerationActions(guildID string, limit int) ([]ModerationLogEntry, error) {
	rows, err := d.db.Query(
		`SELECT id, guild_id, user_id, moderator, action, reason, timestamp
		 FROM moderation_log WHERE guild_id = ? ORDER BY timestamp DESC LIMIT ?`,
		guildID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ModerationLogEntry
	for rows.Next() {
		var e ModerationLogEntry
		if err := rows.Scan(&e.ID, &e.GuildID, &e.UserID, &e.Moderator, &e.Action, &e.Reason, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
