package automod

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// DocumentStore is the persistence collaborator: a per-guild keyed document
// store. The second return of ReadDocument is false when no document exists.
type DocumentStore interface {
	ReadDocument(guildID string) ([]byte, bool, error)
	WriteDocument(guildID string, document []byte) error
}

// GuildConfigStore loads and saves per-guild automod documents, supplying
// defaults on first access and upgrading stale documents on read.
type GuildConfigStore struct {
	docs   DocumentStore
	logger *zap.Logger
}

func NewGuildConfigStore(docs DocumentStore, logger *zap.Logger) *GuildConfigStore {
	return &GuildConfigStore{docs: docs, logger: logger}
}

// Load returns the guild's config, creating and persisting defaults when the
// document is absent. A malformed stored document is treated as absent and
// replaced; corruption never reaches the caller.
func (s *GuildConfigStore) Load(guildID string) (*GuildConfig, error) {
	raw, ok, err := s.docs.ReadDocument(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to read guild document: %w", err)
	}

	if !ok {
		cfg := DefaultGuildConfig()
		if err := s.Save(guildID, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg GuildConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		s.logger.Warn("corrupt guild document replaced with defaults",
			zap.String("guild_id", guildID),
			zap.Error(err))
		fresh := DefaultGuildConfig()
		if err := s.Save(guildID, fresh); err != nil {
			return nil, err
		}
		return fresh, nil
	}

	if Migrate(&cfg) {
		if err := s.Save(guildID, &cfg); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// Save fully overwrites the guild's document. Safe to call repeatedly with
// the same config.
func (s *GuildConfigStore) Save(guildID string, cfg *GuildConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode guild document: %w", err)
	}
	if err := s.docs.WriteDocument(guildID, raw); err != nil {
		return fmt.Errorf("failed to write guild document: %w", err)
	}
	return nil
}
