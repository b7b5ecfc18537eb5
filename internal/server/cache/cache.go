// Package cache provides the TTL key-value layer used to accelerate read
// paths. Cached values are serialized snapshots of prior read results and
// are never authoritative: every caller treats a cache failure as a miss.
package cache

import (
	"context"
	"time"
)

// Cache is a string-keyed byte store with per-entry expiry.
type Cache interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// AgendaKey is the cache key for a user's future-agenda snapshot.
func AgendaKey(userID string) string {
	return "agenda:" + userID
}

// EventKey is the cache key for a single-event snapshot.
func EventKey(eventID string) string {
	return "event:" + eventID
}
