// Package graphengine owns the adjacency structure derived from a state's
// edges, independent of the aggregate's consistency concerns (spec §4.2).
package graphengine

import (
	"sort"

	"backend2/domain/core/aggregates"
	"backend2/domain/core/valueobjects"
)

// Neighbour is one bidirectional adjacency entry: a node reachable from
// another along an edge in either direction, carrying that edge's weight.
type Neighbour struct {
	ID     valueobjects.ItemID
	Weight float64
	Edge   *aggregates.MemoryEdge
}

// Engine owns the in-memory adjacency structure. It is rebuilt from a
// State's edges whenever edges change in bulk (load, save-induced rebuild,
// consolidation); incremental updates are permitted but must reproduce a
// full rebuild's results exactly.
type Engine struct {
	nodeIDs    []valueobjects.ItemID
	neighbours map[valueobjects.ItemID][]Neighbour
	outDegree  map[valueobjects.ItemID]int
	inDegree   map[valueobjects.ItemID]int
}

// Build constructs an Engine from the current contents of state. Neighbour
// lists are bidirectional: an edge A->B contributes B to A's neighbour list
// and A to B's, as spec §4.2 requires for activation and centrality.
func Build(state *aggregates.State) *Engine {
	e := &Engine{
		neighbours: make(map[valueobjects.ItemID][]Neighbour),
		outDegree:  make(map[valueobjects.ItemID]int),
		inDegree:   make(map[valueobjects.ItemID]int),
	}

	e.nodeIDs = state.SortedItemIDs()
	for _, id := range e.nodeIDs {
		e.neighbours[id] = nil
	}

	for _, edge := range state.Edges() {
		e.neighbours[edge.From] = append(e.neighbours[edge.From], Neighbour{ID: edge.To, Weight: edge.Weight, Edge: edge})
		e.neighbours[edge.To] = append(e.neighbours[edge.To], Neighbour{ID: edge.From, Weight: edge.Weight, Edge: edge})
		e.outDegree[edge.From]++
		e.inDegree[edge.To]++
	}

	for id := range e.neighbours {
		ns := e.neighbours[id]
		sort.Slice(ns, func(i, j int) bool { return ns[i].ID.String() < ns[j].ID.String() })
		e.neighbours[id] = ns
	}

	return e
}

// Nodes returns every node id in deterministic sorted order.
func (e *Engine) Nodes() []valueobjects.ItemID {
	out := make([]valueobjects.ItemID, len(e.nodeIDs))
	copy(out, e.nodeIDs)
	return out
}

// Neighbours returns the bidirectional neighbour list for id, sorted by id.
func (e *Engine) Neighbours(id valueobjects.ItemID) []Neighbour {
	return e.neighbours[id]
}

// Degree returns the bidirectional degree (len(Neighbours(id))).
func (e *Engine) Degree(id valueobjects.ItemID) int {
	return len(e.neighbours[id])
}

// OutDegree returns the number of edges directed away from id.
func (e *Engine) OutDegree(id valueobjects.ItemID) int {
	return e.outDegree[id]
}

// InDegree returns the number of edges directed into id.
func (e *Engine) InDegree(id valueobjects.ItemID) int {
	return e.inDegree[id]
}

// NodeCount returns the number of nodes in the engine.
func (e *Engine) NodeCount() int {
	return len(e.nodeIDs)
}
