// Package core wires the domain packages (graphengine, activation,
// recall, lifecycle, manifest) behind the single Orchestrator that
// application/commands/handlers and application/queries/handlers depend
// on through their own narrow Core interfaces (spec §4.7, §5).
package core

import (
	"context"
	"os"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"backend2/application/ports"
	"backend2/domain/config"
	"backend2/domain/core/aggregates"
	"backend2/domain/graphengine"
	"backend2/domain/manifest"
	domainerrors "backend2/pkg/errors"
	"backend2/pkg/observability"
)

const persistTimeout = 10 * time.Second

// Orchestrator is the single owner of the memory core's live state (the
// teacher's Graph-owning service, generalized from per-request repository
// fetches to one long-lived in-memory aggregate). It serializes every
// write and recall behind writeMu (the teacher's DistributedLock pattern,
// adapted down to an in-process advisory lock since exactly one process
// holds this state — see DESIGN.md), and guards the state/engine pair
// concurrent readers observe behind a separate snapshot sync.RWMutex, so
// a writer's post-mutation persistence I/O never blocks readers that
// merely need the already-mutated snapshot.
type Orchestrator struct {
	writeMu sync.Mutex
	snapMu  sync.RWMutex

	state  *aggregates.State
	engine *graphengine.Engine
	policy *config.Policy

	store      ports.Store
	summariser ports.ExternalSummariser

	manifestCache *manifestCache
	idempotency   *idempotencyGuard

	clock func() int64

	logger *zap.Logger
	tracer *observability.Tracer

	// fatal is invoked when a post-write invariant check fails (spec §7's
	// "internal invariant" error kind). Defaults to os.Exit(1); tests
	// substitute a non-exiting stub so they can assert on the returned
	// error instead of killing the test binary.
	fatal func(error)
}

// New builds an Orchestrator around an already-loaded (or freshly created)
// state. It starts the manifest cache's background regeneration worker
// and schedules an initial regeneration so the first describe() call
// after startup doesn't observe an empty manifest.
func New(state *aggregates.State, store ports.Store, summariser ports.ExternalSummariser, clock func() int64, logger *zap.Logger) *Orchestrator {
	o := &Orchestrator{
		state:         state,
		engine:        graphengine.Build(state),
		policy:        state.Policy(),
		store:         store,
		summariser:    summariser,
		manifestCache: newManifestCache(state.Policy().ManifestTTL),
		idempotency:   newIdempotencyGuard(idempotencyCapacity),
		clock:         clock,
		logger:        logger,
		tracer:        observability.NewTracer("memoryd"),
	}
	o.fatal = func(err error) {
		_ = o.logger.Sync()
		os.Exit(1)
	}
	go o.manifestCache.run(o.regenerateManifest)
	o.manifestCache.requestRegeneration()
	return o
}

// Close stops the background manifest worker.
func (o *Orchestrator) Close() {
	o.manifestCache.close()
}

// WriteLocked executes fn with exclusive access to state for mutation.
// On success it rebuilds the graph engine, persists the new state, and
// schedules manifest regeneration; on failure nothing about the live
// state or cached manifest changes. Only one write (or recall) runs at a
// time across the whole orchestrator. A persistence failure is returned
// to the caller (spec §6); the in-memory mutation already applied and
// validated above stands regardless, so the caller sees a degraded-store
// error rather than a rolled-back write.
func (o *Orchestrator) WriteLocked(fn func(*aggregates.State) error) error {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	o.snapMu.Lock()
	err := fn(o.state)
	if err == nil {
		if invErr := o.state.Validate(); invErr != nil {
			o.snapMu.Unlock()
			fatal := domainerrors.NewFatalInvariantError("state.Validate", invErr.Error())
			o.logger.Error("state invariant violated after write, terminating", zap.Error(fatal))
			o.fatal(fatal)
			return fatal
		}
		o.engine = graphengine.Build(o.state)
		o.logDomainEvents()
	}
	o.snapMu.Unlock()

	if err != nil {
		return err
	}

	o.manifestCache.markStale()
	o.manifestCache.requestRegeneration()
	return o.persist()
}

// ReadLocked executes fn with a consistent read-only view of state and
// its current graph engine.
func (o *Orchestrator) ReadLocked(fn func(*aggregates.State, *graphengine.Engine)) {
	o.snapMu.RLock()
	defer o.snapMu.RUnlock()
	fn(o.state, o.engine)
}

// RecallLocked executes fn with exclusive access, since recall performs
// the bounded item.Touch(now) access-bookkeeping mutation spec §4.4 step 6
// requires (see DESIGN.md's "Graph engine, activation, recall, lifecycle"
// entry for why this can't be a plain ReadLocked read). Persistence errors
// are surfaced to the caller; the in-memory state (and the touch bookkeeping
// already applied to it) remains authoritative regardless (spec §4.3,
// §6's "store unavailable").
func (o *Orchestrator) RecallLocked(fn func(*aggregates.State, *graphengine.Engine)) error {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	o.snapMu.Lock()
	fn(o.state, o.engine)
	o.snapMu.Unlock()

	return o.persist()
}

// Now returns the current time as epoch milliseconds.
func (o *Orchestrator) Now() int64 { return o.clock() }

// TriggerManifestRegeneration forces the manifest cache stale and kicks
// an out-of-cycle regeneration, used by RefreshCommand. It reports
// whether this call actually queued a new regeneration (false if one was
// already pending or in flight).
func (o *Orchestrator) TriggerManifestRegeneration() bool {
	o.manifestCache.markStale()
	return o.manifestCache.requestRegeneration()
}

// ManifestSnapshot returns the last rendered manifest text, its
// generation timestamp, and whether it is currently marked stale.
func (o *Orchestrator) ManifestSnapshot() (text string, generatedAt int64, stale bool) {
	return o.manifestCache.snapshot()
}

// ManifestRegenerating reports whether a background regeneration is
// currently in flight.
func (o *Orchestrator) ManifestRegenerating() bool {
	return o.manifestCache.isRegenerating()
}

// CheckIdempotent looks up a cached result for a previously-applied
// command fingerprint.
func (o *Orchestrator) CheckIdempotent(key string) (interface{}, bool) {
	return o.idempotency.lookup(key)
}

// RecordIdempotent caches result under key for future replay guards.
func (o *Orchestrator) RecordIdempotent(key string, result interface{}) {
	o.idempotency.remember(key, result)
}

// logDomainEvents drains the events raised by the mutation just applied
// to state (and every item it touched) and logs each as a structured
// entry, then marks them committed so they don't accumulate indefinitely.
// Called with snapMu held for writing; there is no external event bus to
// publish onto, so logging is the sink spec.md's "Domain events" module
// map entry gets until one exists.
func (o *Orchestrator) logDomainEvents() {
	raised := o.state.GetUncommittedEvents()
	for _, e := range raised {
		o.logger.Info("domain event",
			zap.String("type", e.GetEventType()),
			zap.String("aggregateId", e.GetAggregateID()),
			zap.Int("version", e.GetVersion()),
			zap.Time("occurredAt", e.GetTimestamp()),
		)
	}
	o.state.MarkEventsAsCommitted()
}

func (o *Orchestrator) regenerateManifest() (string, int64) {
	o.snapMu.RLock()
	state := o.state
	engine := o.engine
	o.snapMu.RUnlock()

	now := o.clock()
	var rendered string
	_ = o.tracer.TraceFunction(context.Background(), "regenerateManifest", func(ctx context.Context) error {
		m := manifest.Generate(state, engine, o.policy, o.summariser, now)
		rendered = m.Rendered
		o.tracer.AddAnnotation(ctx, "communityCount", strconv.Itoa(len(m.Communities)))
		return nil
	})
	return rendered, now
}

// persist saves the current state and returns any store error to the
// caller (spec §6: "save failures are surfaced to the caller; the
// in-memory state is unaffected"). The mutation this follows has already
// been applied and validated in memory regardless of the outcome here.
func (o *Orchestrator) persist() error {
	if o.store == nil {
		return nil
	}

	o.snapMu.RLock()
	state := o.state
	o.snapMu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	err := o.tracer.TraceFunction(ctx, "persist", func(ctx context.Context) error {
		return o.store.Save(ctx, state)
	})
	if err != nil {
		o.logger.Error("persist state after write", zap.Error(err))
		return domainerrors.NewDomainError(
			domainerrors.DomainInfrastructureError,
			"STORE_UNAVAILABLE",
			"The persistence backend is unavailable",
		).WithRetryable(true).WithCause(err)
	}
	return nil
}
