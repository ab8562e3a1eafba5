package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDocumentRoundTrip(t *testing.T) {
	db := openTestDB(t)

	_, ok, err := db.ReadDocument("guild-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.WriteDocument("guild-1", []byte(`{"enabled":true}`)))

	doc, ok, err := db.ReadDocument("guild-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"enabled":true}`, string(doc))
}

func TestDocumentOverwrite(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.WriteDocument("guild-1", []byte(`{"v":1}`)))
	require.NoError(t, db.WriteDocument("guild-1", []byte(`{"v":2}`)))

	doc, ok, err := db.ReadDocument("guild-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"v":2}`, string(doc))
}

func TestDocumentsIsolatedPerGuild(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.WriteDocument("guild-1", []byte(`{"v":1}`)))

	_, ok, err := db.ReadDocument("guild-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestModerationLog(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.RecordAction("guild-1", "user-1", "mod#1", "warn", "spamming"))
	require.NoError(t, db.RecordAction("guild-1", "user-1", "mod#1", "kick", "repeat offender"))
	require.NoError(t, db.RecordAction("guild-2", "user-9", "mod#2", "ban", "other guild"))

	entries, err := db.RecentModerationActions("guild-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		assert.Equal(t, "guild-1", e.GuildID)
		assert.Equal(t, "user-1", e.UserID)
		assert.NotZero(t, e.Timestamp)
	}
}

func TestRecentModerationActionsLimit(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, db.RecordAction("guild-1", "user-1", "mod#1", "warn", "r"))
	}

	entries, err := db.RecentModerationActions("guild-1", 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestIsConnected(t *testing.T) {
	db := openTestDB(t)
	assert.True(t, db.IsConnected())
}
