package aggregates

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"backend2/domain/config"
	"backend2/domain/core/entities"
	"backend2/domain/core/valueobjects"
	"backend2/domain/events"
)

// maxHistoryEntries bounds the rolling operation history ring spec §3
// describes ("a small rolling history of recent operations").
const maxHistoryEntries = 256

// HistoryEntry records one completed write operation in the bounded
// session log; the log is persisted with the state, and neither the
// manifest nor status reads it.
type HistoryEntry struct {
	Operation string
	Detail    string
	Timestamp int64
}

// State is the aggregate root: the full logical contents of the memory
// core. The orchestrator exclusively owns a State while processing a
// request; no long-lived reference to its interior escapes it.
type State struct {
	id        string
	bornAt    int64
	items     map[valueobjects.ItemID]*entities.MemoryItem
	edges     []*MemoryEdge
	history   []HistoryEntry
	policy    *config.Policy
	version   int

	events []events.DomainEvent
}

// NewState creates an empty state with the given policy.
func NewState(policy *config.Policy, now int64) *State {
	return &State{
		id:      uuid.New().String(),
		bornAt:  now,
		items:   make(map[valueobjects.ItemID]*entities.MemoryItem),
		edges:   []*MemoryEdge{},
		history: []HistoryEntry{},
		policy:  policy,
		version: 1,
	}
}

// ReconstructState rebuilds a State from persisted fields (used by store
// Load paths). Items and edges are supplied already validated.
func ReconstructState(id string, bornAt int64, items map[valueobjects.ItemID]*entities.MemoryItem, edges []*MemoryEdge, history []HistoryEntry, policy *config.Policy) *State {
	return &State{
		id:      id,
		bornAt:  bornAt,
		items:   items,
		edges:   edges,
		history: history,
		policy:  policy,
		version: 1,
	}
}

func (s *State) ID() string           { return s.id }
func (s *State) BornAt() int64        { return s.bornAt }
func (s *State) Policy() *config.Policy { return s.policy }
func (s *State) Version() int         { return s.version }

// Items returns a copy of the id->item map, preserving aggregate
// encapsulation.
func (s *State) Items() map[valueobjects.ItemID]*entities.MemoryItem {
	out := make(map[valueobjects.ItemID]*entities.MemoryItem, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out
}

// Item looks up a single item by id.
func (s *State) Item(id valueobjects.ItemID) (*entities.MemoryItem, bool) {
	item, ok := s.items[id]
	return item, ok
}

// HasItem reports whether id refers to an existing item.
func (s *State) HasItem(id valueobjects.ItemID) bool {
	_, ok := s.items[id]
	return ok
}

// ItemCount returns the number of items currently held.
func (s *State) ItemCount() int {
	return len(s.items)
}

// Edges returns a copy of the edge slice.
func (s *State) Edges() []*MemoryEdge {
	out := make([]*MemoryEdge, len(s.edges))
	copy(out, s.edges)
	return out
}

// EdgeCount returns the number of edges currently held.
func (s *State) EdgeCount() int {
	return len(s.edges)
}

// History returns a copy of the rolling operation history, oldest first.
func (s *State) History() []HistoryEntry {
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// AddItem inserts a newly-remembered item into the state.
func (s *State) AddItem(item *entities.MemoryItem) error {
	if item == nil {
		return errors.New("item cannot be nil")
	}
	if _, exists := s.items[item.ID()]; exists {
		return errors.New("item already exists in state")
	}
	s.items[item.ID()] = item
	s.version++
	s.addEvent(events.NewMemoryRemembered(item.ID(), string(item.Type()), item.CreatedAt()))
	return nil
}

// Associate implements the associate() lifecycle operation (spec §4.5):
// reinforce an existing (from,to,relation) edge's weight, or insert a new
// one. Both endpoints must already exist.
func (s *State) Associate(from, to valueobjects.ItemID, relation string, weight float64, now int64) (*MemoryEdge, error) {
	if !s.HasItem(from) || !s.HasItem(to) {
		return nil, errors.New("both endpoints must exist")
	}
	for _, e := range s.edges {
		if e.From.Equals(from) && e.To.Equals(to) && e.Relation == relation {
			e.Weight += weight
			if e.Weight > s.policy.MaxEdgeWeight {
				e.Weight = s.policy.MaxEdgeWeight
			}
			e.LastReinforcedAt = now
			s.version++
			s.addEvent(events.NewItemsAssociated(from, to, relation, e.Weight, now))
			return e, nil
		}
	}
	edge := &MemoryEdge{From: from, To: to, Relation: relation, Weight: weight, LastReinforcedAt: now}
	if edge.Weight > s.policy.MaxEdgeWeight {
		edge.Weight = s.policy.MaxEdgeWeight
	}
	s.edges = append(s.edges, edge)
	s.version++
	s.addEvent(events.NewItemsAssociated(from, to, relation, edge.Weight, now))
	return edge, nil
}

// Consolidate removes items below the pruning floor and rarely accessed,
// cascading to incident edges. Returns the number of items removed.
func (s *State) Consolidate(now int64) int {
	floor := s.policy.PruningEnergyFloor
	minAccess := s.policy.PruningMinAccessCount

	toRemove := make(map[valueobjects.ItemID]struct{})
	for id, item := range s.items {
		if item.Prunable(floor, minAccess) {
			toRemove[id] = struct{}{}
		}
	}
	if len(toRemove) == 0 {
		return 0
	}

	for id := range toRemove {
		delete(s.items, id)
	}

	remaining := s.edges[:0:0]
	for _, e := range s.edges {
		_, fromRemoved := toRemove[e.From]
		_, toRemoved := toRemove[e.To]
		if fromRemoved || toRemoved {
			continue
		}
		remaining = append(remaining, e)
	}
	s.edges = remaining
	s.version++
	s.addEvent(events.NewItemsConsolidated(s.id, len(toRemove), now))
	return len(toRemove)
}

// Decay applies lifecycle decay to every item (spec §4.5).
func (s *State) Decay(halfLifeDays float64, now int64) int {
	count := 0
	for _, item := range s.items {
		item.Decay(halfLifeDays, now)
		count++
	}
	s.version++
	return count
}

// RecordHistory appends an operation to the bounded rolling history ring.
func (s *State) RecordHistory(operation, detail string, now int64) {
	s.history = append(s.history, HistoryEntry{Operation: operation, Detail: detail, Timestamp: now})
	if len(s.history) > maxHistoryEntries {
		s.history = s.history[len(s.history)-maxHistoryEntries:]
	}
}

// Validate ensures the §3 invariants hold: every edge endpoint exists, and
// item/edge bookkeeping is internally consistent.
func (s *State) Validate() error {
	for _, e := range s.edges {
		if !s.HasItem(e.From) {
			return errors.New("edge references non-existent source item")
		}
		if !s.HasItem(e.To) {
			return errors.New("edge references non-existent target item")
		}
	}
	for id, item := range s.items {
		if !id.Equals(item.ID()) {
			return errors.New("item map key does not match item id")
		}
		if item.UpdatedAt() < item.CreatedAt() {
			return errors.New("updatedAt precedes createdAt")
		}
		if item.LastAccessedAt() < item.CreatedAt() {
			return errors.New("lastAccessedAt precedes createdAt")
		}
		if item.Energy() < 0 || item.Energy() > 1 {
			return errors.New("energy outside [0,1]")
		}
		if item.Importance() < 0 || item.Importance() > 1 {
			return errors.New("importance outside [0,1]")
		}
		if item.Success() < 0 || item.Fail() < 0 {
			return errors.New("feedback counters must be non-negative")
		}
	}
	return nil
}

// SortedItemIDs returns every item id in a stable, deterministic order —
// spreading activation and manifest generation depend on this for
// reproducible results (spec §4.3 "Ordering & determinism").
func (s *State) SortedItemIDs() []valueobjects.ItemID {
	ids := make([]valueobjects.ItemID, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// GetUncommittedEvents returns events raised on the state and on every
// item it holds.
func (s *State) GetUncommittedEvents() []events.DomainEvent {
	all := make([]events.DomainEvent, len(s.events))
	copy(all, s.events)
	for _, item := range s.items {
		all = append(all, item.GetUncommittedEvents()...)
	}
	return all
}

// MarkEventsAsCommitted clears events on the state and every item.
func (s *State) MarkEventsAsCommitted() {
	s.events = nil
	for _, item := range s.items {
		item.MarkEventsAsCommitted()
	}
}

func (s *State) addEvent(e events.DomainEvent) {
	s.events = append(s.events, e)
}
