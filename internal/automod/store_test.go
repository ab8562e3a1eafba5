package automod

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStoreLoadCreatesDefaults(t *testing.T) {
	docs := newMemDocStore()
	store := NewGuildConfigStore(docs, zap.NewNop())

	cfg, err := store.Load("guild-1")
	require.NoError(t, err)

	assert.False(t, cfg.Enabled)
	assert.Empty(t, cfg.Warnings)
	assert.Empty(t, cfg.SpamState)
	assert.Equal(t, DefaultMaxWarnings, cfg.WarnSystem.MaxWarnings)
	assert.Equal(t, []ActionKind{ActionTimeout, ActionKick, ActionBan}, cfg.WarnSystem.Escalation)
	assert.Equal(t, int64(DefaultWarnExpiryMs), cfg.WarnSystem.WarnExpiryMs)

	// Defaults must have been persisted on first access.
	_, ok, err := docs.ReadDocument("guild-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStoreLoadReplacesCorruptDocument(t *testing.T) {
	docs := newMemDocStore()
	require.NoError(t, docs.WriteDocument("guild-1", []byte("{not json")))

	store := NewGuildConfigStore(docs, zap.NewNop())
	cfg, err := store.Load("guild-1")
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)

	// The corrupt document was overwritten with valid defaults.
	raw, ok, err := docs.ReadDocument("guild-1")
	require.NoError(t, err)
	require.True(t, ok)
	var replaced GuildConfig
	require.NoError(t, json.Unmarshal(raw, &replaced))
}

func TestStoreLoadBackfillsOldDocument(t *testing.T) {
	docs := newMemDocStore()
	// A document from before the warn system and spam tracking existed.
	old := []byte(`{"enabled":true,"logChannel":"123","antiSpam":{"enabled":true,"maxMessages":3,"timeWindow":5000,"action":"timeout"}}`)
	require.NoError(t, docs.WriteDocument("guild-1", old))

	store := NewGuildConfigStore(docs, zap.NewNop())
	cfg, err := store.Load("guild-1")
	require.NoError(t, err)

	// Existing values survive.
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "123", cfg.LogChannelID)
	assert.Equal(t, 3, cfg.AntiSpam.MaxMessages)

	// Missing sections are defaulted and the upgraded document persisted.
	assert.Equal(t, DefaultMaxWarnings, cfg.WarnSystem.MaxWarnings)
	assert.NotNil(t, cfg.Warnings)
	assert.NotNil(t, cfg.SpamState)
	assert.Equal(t, CurrentSchemaVersion, cfg.SchemaVersion)

	raw, _, err := docs.ReadDocument("guild-1")
	require.NoError(t, err)
	var persisted GuildConfig
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, CurrentSchemaVersion, persisted.SchemaVersion)
	assert.Equal(t, DefaultMaxWarnings, persisted.WarnSystem.MaxWarnings)
}

func TestStoreSaveRoundTrip(t *testing.T) {
	docs := newMemDocStore()
	store := NewGuildConfigStore(docs, zap.NewNop())

	cfg, err := store.Load("guild-1")
	require.NoError(t, err)

	cfg.Enabled = true
	cfg.ProfanityFilter.Blacklist = []string{"badword"}
	require.NoError(t, store.Save("guild-1", cfg))

	reloaded, err := store.Load("guild-1")
	require.NoError(t, err)
	assert.True(t, reloaded.Enabled)
	assert.Equal(t, []string{"badword"}, reloaded.ProfanityFilter.Blacklist)
}
