// Package handlers holds the command-bus handlers for the write-side
// operations of spec §4.7, grounded on the teacher's
// commands/handlers/*_handler.go shape: one small struct per command,
// holding only the collaborators it needs plus a logger, with a single
// Handle method. The teacher's handlers held repository ports directly;
// these hold a narrow Core interface instead, since every write here
// targets the one shared in-memory aggregate the orchestrator owns
// rather than fetching a fresh entity per call from a repository.
package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"backend2/domain/core/aggregates"
)

// Core is the slice of application/core.Orchestrator a command handler
// needs. Defined here (the consumer) rather than imported from
// application/core, so this package never imports its own caller.
type Core interface {
	// WriteLocked executes fn with exclusive access to the live state,
	// rebuilding the graph engine and marking the manifest cache stale
	// afterward if fn succeeds (spec §5's single-writer model).
	WriteLocked(fn func(*aggregates.State) error) error

	// Now returns the current time as epoch milliseconds.
	Now() int64

	// TriggerManifestRegeneration marks the manifest cache stale and
	// kicks the background regeneration worker, returning false if a
	// regeneration was already in flight.
	TriggerManifestRegeneration() bool

	// CheckIdempotent looks up a previously-cached result for the given
	// fingerprint (operation name plus payload), so a retried remember
	// or associate from a flaky host transport replays its prior result
	// instead of double-inserting (see DESIGN.md's idempotent replay
	// guard entry).
	CheckIdempotent(key string) (result interface{}, ok bool)

	// RecordIdempotent caches result under key for future CheckIdempotent
	// lookups.
	RecordIdempotent(key string, result interface{})
}

// fingerprint derives a stable replay key for an operation name plus its
// command payload.
func fingerprint(operation string, payload interface{}) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s:%#v", operation, payload)
	return hex.EncodeToString(h.Sum(nil))
}
