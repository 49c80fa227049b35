// Package storage provides the namespaced key-value persistence layer.
//
// All application state is stored as JSON documents under string keys. Keys
// are derived from a user namespace and a document kind so that each user's
// expenses, profile and categories live side by side without interfering.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	applog "tracker/internal/log"
)

// ErrKeyNotFound is returned by Get when no value exists under the key.
var ErrKeyNotFound = errors.New("storage: key not found")

// Document kinds persisted per user namespace.
const (
	KindExpenses   = "expenses"
	KindProfile    = "profile"
	KindCategories = "categories"
)

const keyPrefix = "expense-tracker"

// Store is a flat key-value store holding JSON-encoded documents.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key builds the storage key for a user-scoped document. An empty userID
// selects the legacy shared namespace used before accounts existed.
func Key(userID, kind string) string {
	if userID == "" {
		return fmt.Sprintf("%s-%s", keyPrefix, kind)
	}
	return fmt.Sprintf("%s-%s-%s", keyPrefix, userID, kind)
}

// UsersKey is the global key holding all registered accounts.
func UsersKey() string { return keyPrefix + "-users" }

// SessionKey is the global key holding the current session, if any.
func SessionKey() string { return keyPrefix + "-user" }

// Load reads and decodes the document at key. A missing key or a document
// that fails to decode yields def; decode failures are logged, never
// propagated, so one corrupt record cannot take the application down.
func Load[T any](ctx context.Context, s Store, key string, def T) T {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			slog.ErrorContext(ctx, "storage read failed", applog.FieldKey, key, applog.FieldError, err)
		}
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		slog.WarnContext(ctx, "corrupt document, using default", applog.FieldKey, key, applog.FieldError, err)
		return def
	}
	return v
}

// Save encodes v and writes it at key.
func Save[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
