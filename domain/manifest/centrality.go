package manifest

import (
	"math"

	"backend2/domain/core/valueobjects"
	"backend2/domain/graphengine"
)

// PageRank computes PageRank scores over engine's nodes (spec §4.6 step 3),
// ported from sqvect's graph_algorithms.go PageRank: same power-iteration
// shape (per-round max-diff convergence check against 1e-6, accumulate
// from in-links weighted by source out-degree), generalized from a single
// global out-degree counter to the directed edges the analysis graph
// carries. Each in-link contributes its source's score divided by the
// source's out-degree; edge weights are not used. Falls back to the
// uniform distribution, reporting the fallback, if the iteration budget
// is exhausted without converging.
func PageRank(engine *graphengine.Engine, damping float64, maxIterations int, convergenceEps float64) (scores map[valueobjects.ItemID]float64, converged bool) {
	nodes := engine.Nodes()
	n := float64(len(nodes))
	scores = make(map[valueobjects.ItemID]float64, len(nodes))
	if len(nodes) == 0 {
		return scores, true
	}

	initial := 1.0 / n
	for _, id := range nodes {
		scores[id] = initial
	}

	if damping <= 0 || damping > 1 {
		damping = 0.85
	}
	if maxIterations <= 0 {
		maxIterations = 100
	}
	if convergenceEps <= 0 {
		convergenceEps = 1e-6
	}

	newScores := make(map[valueobjects.ItemID]float64, len(nodes))
	converged = false

	for iter := 0; iter < maxIterations; iter++ {
		maxDiff := 0.0

		for _, id := range nodes {
			rank := (1.0 - damping) / n

			for _, nb := range engine.Neighbours(id) {
				if nb.Edge == nil || !nb.Edge.To.Equals(id) {
					continue
				}
				srcOut := engine.OutDegree(nb.Edge.From)
				if srcOut == 0 {
					continue
				}
				rank += damping * scores[nb.Edge.From] / float64(srcOut)
			}

			newScores[id] = rank
			if diff := math.Abs(newScores[id] - scores[id]); diff > maxDiff {
				maxDiff = diff
			}
		}

		for id, v := range newScores {
			scores[id] = v
		}

		if maxDiff < convergenceEps {
			converged = true
			break
		}
	}

	if !converged {
		for _, id := range nodes {
			scores[id] = initial
		}
	}

	return scores, converged
}

// Betweenness computes a betweenness-centrality pass restricted to sources
// (spec §4.6 step 3's "optional betweenness on the top-ranked subset"):
// rather than the usual all-pairs Brandes' algorithm, shortest-path trees
// are only grown from the nodes in sources, which keeps the pass cheap
// enough to run on every manifest regeneration. Edges are treated as
// unweighted and bidirectional, matching the engine's own adjacency.
// Scores are normalised to [0,1] by the largest raw score observed.
func Betweenness(engine *graphengine.Engine, sources []valueobjects.ItemID) map[valueobjects.ItemID]float64 {
	scores := make(map[valueobjects.ItemID]float64)
	for _, id := range engine.Nodes() {
		scores[id] = 0
	}

	for _, s := range sources {
		accumulateBetweennessFrom(engine, s, scores)
	}

	maxScore := 0.0
	for _, v := range scores {
		if v > maxScore {
			maxScore = v
		}
	}
	if maxScore > 0 {
		for id, v := range scores {
			scores[id] = v / maxScore
		}
	}
	return scores
}

// accumulateBetweennessFrom runs one round of Brandes' algorithm rooted at
// s: a BFS (the engine's adjacency is unweighted for this purpose) builds
// the shortest-path DAG, then dependency is accumulated back from the
// furthest nodes toward s, adding each intermediate node's share into
// scores.
func accumulateBetweennessFrom(engine *graphengine.Engine, s valueobjects.ItemID, scores map[valueobjects.ItemID]float64) {
	dist := map[valueobjects.ItemID]int{s: 0}
	sigma := map[valueobjects.ItemID]float64{s: 1}
	predecessors := map[valueobjects.ItemID][]valueobjects.ItemID{}
	var order []valueobjects.ItemID

	queue := []valueobjects.ItemID{s}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		order = append(order, v)

		for _, nb := range engine.Neighbours(v) {
			w := nb.ID
			if _, seen := dist[w]; !seen {
				dist[w] = dist[v] + 1
				queue = append(queue, w)
			}
			if dist[w] == dist[v]+1 {
				sigma[w] += sigma[v]
				predecessors[w] = append(predecessors[w], v)
			}
		}
	}

	delta := map[valueobjects.ItemID]float64{}
	for i := len(order) - 1; i >= 0; i-- {
		w := order[i]
		for _, v := range predecessors[w] {
			delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
		}
		if w != s {
			scores[w] += delta[w]
		}
	}
}
