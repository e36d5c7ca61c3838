package manifest

import (
	"sort"

	"backend2/domain/core/aggregates"
	"backend2/domain/core/valueobjects"
)

// detectBridges implements spec §4.6 step 9: edges whose endpoints lie in
// different communities, top N (policy-configured, default 10) by weight.
func detectBridges(edges []*aggregates.MemoryEdge, communities map[valueobjects.ItemID]int, topN int) []Bridge {
	var bridges []Bridge
	for _, e := range edges {
		cf, cfOK := communities[e.From]
		ct, ctOK := communities[e.To]
		if !cfOK || !ctOK || cf == ct {
			continue
		}
		bridges = append(bridges, Bridge{
			From:     e.From,
			To:       e.To,
			Relation: e.Relation,
			Weight:   e.Weight,
			CommFrom: cf,
			CommTo:   ct,
		})
	}

	sort.Slice(bridges, func(i, j int) bool {
		if bridges[i].Weight != bridges[j].Weight {
			return bridges[i].Weight > bridges[j].Weight
		}
		return bridges[i].From.String() < bridges[j].From.String()
	})

	if topN <= 0 {
		topN = 10
	}
	if len(bridges) > topN {
		bridges = bridges[:topN]
	}
	return bridges
}
