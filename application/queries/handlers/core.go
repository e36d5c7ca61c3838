// Package handlers holds the query-bus handlers for the read-side
// operations of spec §4.7.
package handlers

import (
	"backend2/domain/core/aggregates"
	"backend2/domain/graphengine"
)

// Core is the slice of application/core.Orchestrator a query handler
// needs, defined here rather than imported from application/core for the
// same reason application/commands/handlers.Core is.
type Core interface {
	// ReadLocked executes fn with a consistent read-only view of the
	// state and its current graph engine (spec §5's "reads observe a
	// consistent snapshot").
	ReadLocked(fn func(*aggregates.State, *graphengine.Engine))

	// RecallLocked executes fn with exclusive access, for the one read
	// operation (recall) that also performs the bounded access-bookkeeping
	// mutation spec §4.4 step 6 requires (see DESIGN.md's "Graph engine,
	// activation, recall, lifecycle" entry for why this isn't ReadLocked).
	// The returned error is any persistence failure from saving the
	// touch bookkeeping; the hits fn already computed remain valid.
	RecallLocked(fn func(*aggregates.State, *graphengine.Engine)) error

	// Now returns the current time as epoch milliseconds.
	Now() int64

	// ManifestSnapshot returns the last rendered manifest, its
	// generation timestamp, and whether it is currently stale.
	ManifestSnapshot() (text string, generatedAt int64, stale bool)

	// ManifestRegenerating reports whether a background regeneration is
	// currently in flight.
	ManifestRegenerating() bool
}
