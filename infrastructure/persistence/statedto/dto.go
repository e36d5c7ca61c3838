// Package statedto is the shared persistence-transfer shape both
// infrastructure/persistence/filestore (JSON encoding) and
// infrastructure/persistence/graphstore (s-expression encoding, Memory/Tag
// graph) build their on-the-wire formats from, so the State<->DTO
// flattening (MemoryItem/MemoryEdge hold unexported fields, so neither
// store can serialize them directly) is written once.
package statedto

import (
	"backend2/domain/config"
	"backend2/domain/core/aggregates"
	"backend2/domain/core/entities"
	"backend2/domain/core/valueobjects"
)

// State is the flattened, serialization-friendly shape of aggregates.State
// (spec §6's "persisted file format"/"persisted graph format").
type State struct {
	ID      string         `json:"id"`
	BornAt  int64          `json:"bornAt"`
	Items   []Item         `json:"items"`
	Edges   []Edge         `json:"edges"`
	History []History      `json:"history"`
	Policy  *config.Policy `json:"policy"`
}

type Item struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Text           string   `json:"text"`
	Tags           []string `json:"tags"`
	Importance     float64  `json:"importance"`
	Energy         float64  `json:"energy"`
	TTL            string   `json:"ttl"`
	Scope          string   `json:"scope"`
	CreatedAt      int64    `json:"createdAt"`
	UpdatedAt      int64    `json:"updatedAt"`
	LastAccessedAt int64    `json:"lastAccessedAt"`
	AccessCount    int64    `json:"accessCount"`
	Success        int64    `json:"success"`
	Fail           int64    `json:"fail"`
}

type Edge struct {
	From             string  `json:"from"`
	To               string  `json:"to"`
	Relation         string  `json:"relation"`
	Weight           float64 `json:"weight"`
	LastReinforcedAt int64   `json:"lastReinforcedAt"`
}

type History struct {
	Operation string `json:"operation"`
	Detail    string `json:"detail"`
	Timestamp int64  `json:"timestamp"`
}

// FromState flattens a live aggregate into its DTO.
func FromState(state *aggregates.State) *State {
	dto := &State{
		ID:     state.ID(),
		BornAt: state.BornAt(),
		Policy: state.Policy(),
	}

	for _, id := range state.SortedItemIDs() {
		item, _ := state.Item(id)
		dto.Items = append(dto.Items, Item{
			ID:             item.ID().String(),
			Type:           string(item.Type()),
			Text:           item.Text(),
			Tags:           item.Tags().Slice(),
			Importance:     item.Importance(),
			Energy:         item.Energy(),
			TTL:            item.TTL(),
			Scope:          item.Scope().String(),
			CreatedAt:      item.CreatedAt(),
			UpdatedAt:      item.UpdatedAt(),
			LastAccessedAt: item.LastAccessedAt(),
			AccessCount:    item.AccessCount(),
			Success:        item.Success(),
			Fail:           item.Fail(),
		})
	}

	for _, edge := range state.Edges() {
		dto.Edges = append(dto.Edges, Edge{
			From:             edge.From.String(),
			To:               edge.To.String(),
			Relation:         edge.Relation,
			Weight:           edge.Weight,
			LastReinforcedAt: edge.LastReinforcedAt,
		})
	}

	for _, h := range state.History() {
		dto.History = append(dto.History, History{
			Operation: h.Operation, Detail: h.Detail, Timestamp: h.Timestamp,
		})
	}

	return dto
}

// ToState reconstructs a live aggregate from its DTO.
func ToState(dto *State) (*aggregates.State, error) {
	items := make(map[valueobjects.ItemID]*entities.MemoryItem, len(dto.Items))
	for _, it := range dto.Items {
		id, err := valueobjects.NewItemIDFromString(it.ID)
		if err != nil {
			return nil, err
		}
		tags, err := valueobjects.NewTagSet(it.Tags)
		if err != nil {
			return nil, err
		}
		scope, err := valueobjects.NewScope(it.Scope)
		if err != nil {
			return nil, err
		}
		items[id] = entities.ReconstructMemoryItem(
			id, entities.ItemType(it.Type), it.Text, tags, it.Importance, it.Energy,
			it.TTL, scope, it.CreatedAt, it.UpdatedAt, it.LastAccessedAt,
			it.AccessCount, it.Success, it.Fail,
		)
	}

	edges := make([]*aggregates.MemoryEdge, 0, len(dto.Edges))
	for _, e := range dto.Edges {
		from, err := valueobjects.NewItemIDFromString(e.From)
		if err != nil {
			return nil, err
		}
		to, err := valueobjects.NewItemIDFromString(e.To)
		if err != nil {
			return nil, err
		}
		edges = append(edges, &aggregates.MemoryEdge{
			From: from, To: to, Relation: e.Relation, Weight: e.Weight,
			LastReinforcedAt: e.LastReinforcedAt,
		})
	}

	history := make([]aggregates.HistoryEntry, 0, len(dto.History))
	for _, h := range dto.History {
		history = append(history, aggregates.HistoryEntry{
			Operation: h.Operation, Detail: h.Detail, Timestamp: h.Timestamp,
		})
	}

	return aggregates.ReconstructState(dto.ID, dto.BornAt, items, edges, history, dto.Policy), nil
}
