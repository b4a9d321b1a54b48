// Package id provides unique ID generation utilities.
//
// Two strategies are supported:
//   - UUID: standard UUID v4 (random), used for document identifiers
//   - ULID: lexicographically sortable, used where creation order matters
package id

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewUUID generates a new UUID v4 string.
func NewUUID() string {
	return uuid.NewString()
}

// NewULID generates a new ULID string. Safe for concurrent use.
func NewULID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// ChunkID derives the deterministic vector ID for a document chunk.
// Re-ingesting the same document ID overwrites its chunks in place.
func ChunkID(docID string, index int) string {
	return fmt.Sprintf("%s-chunk-%d", docID, index)
}

// IsValidUUID checks if a string is a valid UUID.
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
