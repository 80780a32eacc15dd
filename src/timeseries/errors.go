package timeseries

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed session. It is not retryable; the caller
// has to fix the data.
type ValidationError struct {
	SessionID string
	Problems  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid session %q: %s", e.SessionID, strings.Join(e.Problems, "; "))
}

// StorageError wraps a backend failure verbatim. Callers may retry the whole
// Save or Load call.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Retryable() bool { return true }

// DataIntegrityError means metadata flags a chunk that is not stored. Unless
// InFlight is set (a save may still be writing chunks) it points at an earlier
// partial write and is not retryable.
type DataIntegrityError struct {
	SessionID string
	ChunkType string
	InFlight  bool
}

func (e *DataIntegrityError) Error() string {
	if e.InFlight {
		return fmt.Sprintf("session %q: %s chunk not yet written", e.SessionID, e.ChunkType)
	}
	return fmt.Sprintf("session %q: %s chunk flagged in metadata but missing", e.SessionID, e.ChunkType)
}

func (e *DataIntegrityError) Retryable() bool { return e.InFlight }
