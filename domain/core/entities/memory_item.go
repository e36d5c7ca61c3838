package entities

import (
	"errors"
	"math"

	"backend2/domain/core/valueobjects"
	"backend2/domain/events"
)

// FeedbackOutcome is the result reported against a remembered item.
type FeedbackOutcome string

const (
	OutcomeSuccess FeedbackOutcome = "success"
	OutcomeFail    FeedbackOutcome = "fail"
)

const (
	energyBoostSuccess  = 1.1
	energyPenaltyFail   = 0.9
	importanceNudgeEps  = 0.02
	decayFloor          = 1e-2
)

// MemoryItem is a single unit of knowledge in the associative memory graph.
// It is a rich entity: every mutation enforces the §3 invariants inline
// before the field is written.
type MemoryItem struct {
	id             valueobjects.ItemID
	itemType       ItemType
	text           string
	tags           valueobjects.TagSet
	importance     float64
	energy         float64
	ttl            string
	scope          valueobjects.Scope
	createdAt      int64
	updatedAt      int64
	lastAccessedAt int64
	accessCount    int64
	success        int64
	fail           int64

	events []events.DomainEvent
}

// NewMemoryItem constructs a freshly-remembered item. Energy starts equal
// to importance; counters start at zero.
func NewMemoryItem(itemType ItemType, text string, tags valueobjects.TagSet, importance float64, ttl string, scope valueobjects.Scope, now int64) (*MemoryItem, error) {
	if !itemType.IsValid() {
		return nil, errors.New("unknown item type")
	}
	if text == "" {
		return nil, errors.New("text cannot be empty")
	}
	importance = clamp01(importance)

	item := &MemoryItem{
		id:             valueobjects.NewItemID(),
		itemType:       itemType,
		text:           text,
		tags:           tags,
		importance:     importance,
		energy:         importance,
		ttl:            ttl,
		scope:          scope,
		createdAt:      now,
		updatedAt:      now,
		lastAccessedAt: now,
		accessCount:    0,
		success:        0,
		fail:           0,
	}
	item.addEvent(events.NewMemoryRemembered(item.id, string(itemType), now))
	return item, nil
}

// ReconstructMemoryItem rebuilds an item from stored data, preserving
// timestamps and counters exactly (used by store Load paths).
func ReconstructMemoryItem(
	id valueobjects.ItemID,
	itemType ItemType,
	text string,
	tags valueobjects.TagSet,
	importance, energy float64,
	ttl string,
	scope valueobjects.Scope,
	createdAt, updatedAt, lastAccessedAt int64,
	accessCount, success, fail int64,
) *MemoryItem {
	return &MemoryItem{
		id:             id,
		itemType:       itemType,
		text:           text,
		tags:           tags,
		importance:     clamp01(importance),
		energy:         clamp01(energy),
		ttl:            ttl,
		scope:          scope,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		lastAccessedAt: lastAccessedAt,
		accessCount:    accessCount,
		success:        success,
		fail:           fail,
	}
}

func (m *MemoryItem) ID() valueobjects.ItemID     { return m.id }
func (m *MemoryItem) Type() ItemType              { return m.itemType }
func (m *MemoryItem) Text() string                { return m.text }
func (m *MemoryItem) Tags() valueobjects.TagSet    { return m.tags }
func (m *MemoryItem) Importance() float64         { return m.importance }
func (m *MemoryItem) Energy() float64             { return m.energy }
func (m *MemoryItem) TTL() string                 { return m.ttl }
func (m *MemoryItem) Scope() valueobjects.Scope    { return m.scope }
func (m *MemoryItem) CreatedAt() int64            { return m.createdAt }
func (m *MemoryItem) UpdatedAt() int64            { return m.updatedAt }
func (m *MemoryItem) LastAccessedAt() int64       { return m.lastAccessedAt }
func (m *MemoryItem) AccessCount() int64          { return m.accessCount }
func (m *MemoryItem) Success() int64              { return m.success }
func (m *MemoryItem) Fail() int64                 { return m.fail }

// Touch bumps access bookkeeping as part of a recall hit.
func (m *MemoryItem) Touch(now int64) {
	m.accessCount++
	m.lastAccessedAt = now
}

// ApplyFeedback implements the feedback lifecycle operation of spec §4.5.
func (m *MemoryItem) ApplyFeedback(outcome FeedbackOutcome, now int64) error {
	switch outcome {
	case OutcomeSuccess:
		m.success++
		m.energy = clamp01(m.energy * energyBoostSuccess)
		m.importance = clamp01(m.importance + importanceNudgeEps)
	case OutcomeFail:
		m.fail++
		m.energy = clamp01(m.energy * energyPenaltyFail)
	default:
		return errors.New("unknown feedback outcome")
	}
	m.updatedAt = now
	m.addEvent(events.NewFeedbackRecorded(m.id, string(outcome), now))
	return nil
}

// Decay applies exponential energy decay since the item's last access, per
// spec §4.5: energy <- energy * exp(ln(0.5) * age / halfLifeDays). Energy
// below decayFloor is clamped to zero. now and lastAccessedAt are epoch ms.
func (m *MemoryItem) Decay(halfLifeDays float64, now int64) {
	if halfLifeDays <= 0 {
		return
	}
	ageDays := float64(now-m.lastAccessedAt) / float64(86400000)
	if ageDays <= 0 {
		return
	}
	m.energy = clamp01(m.energy * math.Exp(math.Ln2*-1*ageDays/halfLifeDays))
	if m.energy < decayFloor {
		m.energy = 0
	}
}

// Prunable reports whether the item qualifies for consolidation: energy
// below the pruning floor and rarely accessed.
func (m *MemoryItem) Prunable(energyFloor float64, minAccessCount int64) bool {
	return m.energy < energyFloor && m.accessCount < minAccessCount
}

// GetUncommittedEvents returns domain events raised since creation or the
// last commit.
func (m *MemoryItem) GetUncommittedEvents() []events.DomainEvent {
	return m.events
}

// MarkEventsAsCommitted clears the uncommitted events list.
func (m *MemoryItem) MarkEventsAsCommitted() {
	m.events = nil
}

func (m *MemoryItem) addEvent(e events.DomainEvent) {
	m.events = append(m.events, e)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
