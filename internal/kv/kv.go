// Package kv is the persistence helper for small JSON-encoded settings:
// theme, nurture type, the companion pool and profile snapshots.
//
// Its contract is that storage trouble never reaches the caller. Load falls
// back to a caller-supplied default when a key is missing or unreadable, and
// Save logs and drops write failures. There is no coordination between
// concurrent writers: the last write wins.
package kv

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/sakif/ganfan/internal/repository"
)

// Keys used across the application.
const (
	KeyCompanionPool = "companion_pool"

	// Per-user prefixes, combined with UserKey.
	PrefixTheme   = "ganfan_theme"
	PrefixNurture = "nurture_type"
)

// UserKey namespaces a per-user setting, e.g. UserKey("ganfan_theme", id).
func UserKey(prefix, userID string) string {
	return prefix + ":" + userID
}

// Store wraps a raw repository.KVStore with JSON encoding and the
// never-fail contract.
type Store struct {
	backend repository.KVStore
	logger  *slog.Logger
}

func New(backend repository.KVStore, logger *slog.Logger) *Store {
	return &Store{backend: backend, logger: logger}
}

// Load decodes the value under key into a T. It returns fallback when the key
// is absent, the backend fails, or the stored text is not a valid T.
func Load[T any](ctx context.Context, s *Store, key string, fallback T) T {
	raw, found, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.Warn("kv: read failed, using fallback",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return fallback
	}
	if !found || raw == "" {
		return fallback
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		s.logger.Warn("kv: failed to parse stored value",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return fallback
	}
	return value
}

// Save encodes value as JSON and stores it. Failures are logged only.
func Save(ctx context.Context, s *Store, key string, value any) {
	b, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("kv: failed to encode value",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := s.backend.Put(ctx, key, string(b)); err != nil {
		s.logger.Error("kv: write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
