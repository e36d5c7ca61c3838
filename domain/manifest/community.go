package manifest

import (
	"backend2/domain/core/valueobjects"
	"backend2/domain/graphengine"
)

// communityDetection partitions engine's nodes using a simplified Louvain
// pass (spec §4.6 step 2), ported from sqvect's graph_algorithms.go
// CommunityDetection: same label-propagation-to-fixed-point shape
// (communities[i] = i initially, repeatedly move each node to its
// best-connected neighbouring community until no node moves or the
// iteration budget is spent), generalized from sqvect's raw "move to the
// community I share the most edge weight with" rule to a resolution-
// parameterised modularity gain (Newman's ΔQ = k_i,in/m -
// resolution·σ_tot·k_i/(2m²)), so LouvainResolution > 1 favours many small
// communities and < 1 favours fewer large ones. Nodes that never share an
// edge with anything remain in their own singleton community, same as the
// orphan handling sqvect gets "for free" from initializing communities[i]=i.
func communityDetection(engine *graphengine.Engine, resolution float64) map[valueobjects.ItemID]int {
	nodes := engine.Nodes()
	index := make(map[valueobjects.ItemID]int, len(nodes))
	for i, id := range nodes {
		index[id] = i
	}

	community := make([]int, len(nodes))
	for i := range community {
		community[i] = i
	}

	degree := make([]float64, len(nodes))
	totalWeight := 0.0
	for i, id := range nodes {
		for _, nb := range engine.Neighbours(id) {
			degree[i] += nb.Weight
		}
		totalWeight += degree[i]
	}
	m := totalWeight / 2.0
	if m <= 0 {
		return singletonAssignment(nodes)
	}

	sigma := make([]float64, len(nodes))
	for i, c := range community {
		sigma[c] += degree[i]
	}

	if resolution <= 0 {
		resolution = 1.0
	}

	const maxIterations = 100
	changed := true
	for iter := 0; changed && iter < maxIterations; iter++ {
		changed = false

		for i, id := range nodes {
			current := community[i]
			sigma[current] -= degree[i]

			commWeight := make(map[int]float64)
			for _, nb := range engine.Neighbours(id) {
				j := index[nb.ID]
				commWeight[community[j]] += nb.Weight
			}

			best := current
			bestGain := resolution * degree[i] * sigma[current] / (2 * m * m) * -1
			if w, ok := commWeight[current]; ok {
				bestGain = w/m - resolution*degree[i]*sigma[current]/(2*m*m)
			}

			for c, w := range commWeight {
				if c == current {
					continue
				}
				gain := w/m - resolution*degree[i]*sigma[c]/(2*m*m)
				if gain > bestGain {
					bestGain = gain
					best = c
				}
			}

			community[i] = best
			sigma[best] += degree[i]
			if best != current {
				changed = true
			}
		}
	}

	out := make(map[valueobjects.ItemID]int, len(nodes))
	for i, id := range nodes {
		out[id] = community[i]
	}
	return relabel(out, nodes)
}

func singletonAssignment(nodes []valueobjects.ItemID) map[valueobjects.ItemID]int {
	out := make(map[valueobjects.ItemID]int, len(nodes))
	for i, id := range nodes {
		out[id] = i
	}
	return out
}

// relabel compacts arbitrary community ids into a dense 0..k-1 range,
// ordered by first appearance in nodes for determinism.
func relabel(assignment map[valueobjects.ItemID]int, nodes []valueobjects.ItemID) map[valueobjects.ItemID]int {
	next := 0
	seen := make(map[int]int)
	out := make(map[valueobjects.ItemID]int, len(nodes))
	for _, id := range nodes {
		c := assignment[id]
		relabelled, ok := seen[c]
		if !ok {
			relabelled = next
			seen[c] = relabelled
			next++
		}
		out[id] = relabelled
	}
	return out
}

func groupByCommunity(assignment map[valueobjects.ItemID]int, nodes []valueobjects.ItemID) map[int][]valueobjects.ItemID {
	groups := make(map[int][]valueobjects.ItemID)
	for _, id := range nodes {
		c := assignment[id]
		groups[c] = append(groups[c], id)
	}
	return groups
}
