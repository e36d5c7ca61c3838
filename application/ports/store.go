// Package ports declares the collaborator interfaces application/core
// depends on without knowing their concrete implementation (hexagonal
// ports), mirroring the teacher's application/ports/repositories.go in
// shape: the domain doesn't know about persistence, persistence doesn't
// know about the domain's callers.
package ports

import (
	"context"
	"errors"

	"backend2/domain/core/aggregates"
	"backend2/domain/config"
)

// ErrStoreUnavailable is the sentinel a Store implementation wraps a
// connectivity/transport failure with, distinct from corruption or
// unexpected I/O errors on an otherwise-reachable store (spec §7's
// "store unavailable" error kind, spec §6's exit code 75).
var ErrStoreUnavailable = errors.New("store unavailable")

// Store persists and restores the entire memory core state as a single
// unit (spec §6's "persisted file format"/"persisted graph format"). Both
// the file-backed and graph-database-backed implementations satisfy this
// with a full-state load/save rather than per-item CRUD, since State is
// the sole aggregate this system has.
type Store interface {
	// Load restores the persisted state, or a fresh empty state seeded
	// with policy if nothing has been persisted yet.
	Load(ctx context.Context, policy *config.Policy) (*aggregates.State, error)

	// Save durably persists state. Implementations must make this atomic
	// with respect to concurrent readers observing a prior version (the
	// file store via write-temp-then-rename, the graph store via a
	// single transaction).
	Save(ctx context.Context, state *aggregates.State) error

	// Close releases any held resources (file handles, driver sessions).
	Close(ctx context.Context) error
}

// SearchableStore is an optional capability: a store that can evaluate a
// text query against its own index rather than requiring the caller to
// load the full state and scan it in memory. Neither shipped store
// implementation currently exercises this path for recall (recall always
// runs in-process over the loaded State so spreading activation has a
// consistent adjacency snapshot to work over), but the graph-database
// store satisfies it with a full-text-indexed lookup that no caller in
// this repository uses.
type SearchableStore interface {
	Store
	SearchText(ctx context.Context, query string, limit int) ([]string, error)
}
