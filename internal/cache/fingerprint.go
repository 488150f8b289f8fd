package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/danielreuter/reagency/internal/codec"
)

// Key is the hex-encoded 256-bit digest identifying one task call by its
// identity and normalized arguments.
type Key string

// String returns the digest as a string.
func (k Key) String() string { return string(k) }

// Fingerprint derives the cache key for a task identity and its normalized
// arguments. Each component is length-prefixed before hashing so distinct
// (identity, args) pairs can never produce the same input stream, and the
// arguments are rendered through the canonical encoding so semantically
// identical calls always collide.
func Fingerprint(identity string, args codec.Value) (Key, error) {
	payload, err := codec.MarshalCanonical(args)
	if err != nil {
		return "", fmt.Errorf("encoding arguments: %w", err)
	}

	h := sha256.New()
	writeField(h, []byte(identity))
	writeField(h, payload)
	return Key(hex.EncodeToString(h.Sum(nil))), nil
}

func writeField(h hash.Hash, data []byte) {
	var length [8]byte
	binary.BigEndian.PutUint64(length[:], uint64(len(data)))
	h.Write(length[:])
	h.Write(data)
}
