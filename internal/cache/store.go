package cache

import "errors"

// Common errors returned by cache stores.
var (
	// ErrNotFound is returned by Get when no entry exists for a key.
	ErrNotFound = errors.New("cache entry not found")

	// ErrKeyConflict is returned when a Put would replace an existing
	// entry with different bytes. Under a sound fingerprint this never
	// happens; it is detected rather than silently overwritten.
	ErrKeyConflict = errors.New("cache key already holds a different result")
)

// Store is a write-once key-value store addressed by fingerprint digests.
// Implementations must tolerate concurrent readers and writers; writes to
// the same key are idempotent for identical payloads.
type Store interface {
	// Has reports whether an entry exists for the key.
	Has(key Key) (bool, error)

	// Get returns the stored payload, or ErrNotFound.
	Get(key Key) ([]byte, error)

	// Put stores the payload under the key. Re-storing identical bytes is
	// a no-op; differing bytes return ErrKeyConflict.
	Put(key Key, data []byte) error
}
