package events

import (
	"backend2/domain/core/valueobjects"
)

// MemoryRemembered is raised when a new memory item is created.
type MemoryRemembered struct {
	BaseEvent
	ItemID   valueobjects.ItemID `json:"item_id"`
	ItemType string              `json:"item_type"`
}

func NewMemoryRemembered(id valueobjects.ItemID, itemType string, timestampMs int64) MemoryRemembered {
	return MemoryRemembered{
		BaseEvent: BaseEvent{
			AggregateID: id.String(),
			EventType:   "memory.remembered",
			Timestamp:   msToTime(timestampMs),
			Version:     1,
		},
		ItemID:   id,
		ItemType: itemType,
	}
}

// ItemsAssociated is raised when an edge is inserted or reinforced between
// two items.
type ItemsAssociated struct {
	BaseEvent
	From     valueobjects.ItemID `json:"from"`
	To       valueobjects.ItemID `json:"to"`
	Relation string              `json:"relation"`
	Weight   float64             `json:"weight"`
}

func NewItemsAssociated(from, to valueobjects.ItemID, relation string, weight float64, timestampMs int64) ItemsAssociated {
	return ItemsAssociated{
		BaseEvent: BaseEvent{
			AggregateID: from.String(),
			EventType:   "memory.associated",
			Timestamp:   msToTime(timestampMs),
			Version:     1,
		},
		From:     from,
		To:       to,
		Relation: relation,
		Weight:   weight,
	}
}

// FeedbackRecorded is raised when feedback is applied to an item.
type FeedbackRecorded struct {
	BaseEvent
	ItemID  valueobjects.ItemID `json:"item_id"`
	Outcome string              `json:"outcome"`
}

func NewFeedbackRecorded(id valueobjects.ItemID, outcome string, timestampMs int64) FeedbackRecorded {
	return FeedbackRecorded{
		BaseEvent: BaseEvent{
			AggregateID: id.String(),
			EventType:   "memory.feedback_recorded",
			Timestamp:   msToTime(timestampMs),
			Version:     1,
		},
		ItemID:  id,
		Outcome: outcome,
	}
}

// ItemsConsolidated is raised after a consolidate() pass removes items.
type ItemsConsolidated struct {
	BaseEvent
	RemovedCount int `json:"removed_count"`
}

func NewItemsConsolidated(stateID string, removedCount int, timestampMs int64) ItemsConsolidated {
	return ItemsConsolidated{
		BaseEvent: BaseEvent{
			AggregateID: stateID,
			EventType:   "memory.consolidated",
			Timestamp:   msToTime(timestampMs),
			Version:     1,
		},
		RemovedCount: removedCount,
	}
}

// ManifestRegenerated is raised when the manifest cache is refreshed.
type ManifestRegenerated struct {
	BaseEvent
	CommunityCount int `json:"community_count"`
	RenderedBytes  int `json:"rendered_bytes"`
}

func NewManifestRegenerated(stateID string, communityCount, renderedBytes int, timestampMs int64) ManifestRegenerated {
	return ManifestRegenerated{
		BaseEvent: BaseEvent{
			AggregateID: stateID,
			EventType:   "memory.manifest_regenerated",
			Timestamp:   msToTime(timestampMs),
			Version:     1,
		},
		CommunityCount: communityCount,
		RenderedBytes:  renderedBytes,
	}
}
