// Package activation implements spreading activation over the memory
// graph (spec §4.3): iterative propagation of a scalar from seed nodes
// along weighted edges, damped by decay and gated by a threshold.
package activation

import (
	"backend2/domain/core/valueobjects"
	"backend2/domain/graphengine"
)

// Params is the {steps, decay, threshold} triple spec §4.3 names, with
// defaults {3, 0.85, 0.1}.
type Params struct {
	Steps     int
	Decay     float64
	Threshold float64
}

// Map is an activation value per item id, always in [0,1].
type Map map[valueobjects.ItemID]float64

// Spread runs spreading activation over engine starting from seeds,
// returning an activation map covering every node the engine knows about.
//
// Algorithm (spec §4.3): initialise every known id to zero, add the
// clamped seed values, then repeat Steps times: every node whose current
// activation exceeds Threshold distributes activation*weight*decay to each
// neighbour, accumulated in a delta map; after scanning all nodes in a
// fixed order, deltas are applied and clamped back to [0,1]. Nodes below
// threshold still receive but do not propagate. Iteration order is the
// engine's sorted node order, so results are deterministic and repeatable.
func Spread(engine *graphengine.Engine, seeds Map, params Params) Map {
	nodes := engine.Nodes()

	activation := make(Map, len(nodes))
	for _, id := range nodes {
		activation[id] = 0
	}
	for id, v := range seeds {
		if _, known := activation[id]; known {
			activation[id] = clamp01(v)
		}
	}

	for step := 0; step < params.Steps; step++ {
		delta := make(Map, len(nodes))

		for _, id := range nodes {
			level := activation[id]
			if level <= params.Threshold {
				continue
			}
			for _, n := range engine.Neighbours(id) {
				delta[n.ID] += level * n.Weight * params.Decay
			}
		}

		for id, d := range delta {
			activation[id] = clamp01(activation[id] + d)
		}
	}

	return activation
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
