package aggregates

import "backend2/domain/core/valueobjects"

// MemoryEdge is a directed, typed, weighted association from one item to
// another. Both endpoints must reference items present in the owning
// State.
type MemoryEdge struct {
	From             valueobjects.ItemID
	To               valueobjects.ItemID
	Relation         string
	Weight           float64
	LastReinforcedAt int64
}

// key identifies an edge by its logical (from, to, relation) triple — the
// dimension associate() merges weight on.
func (e *MemoryEdge) key() string {
	return e.From.String() + "->" + e.To.String() + "::" + e.Relation
}
