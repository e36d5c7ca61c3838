package manifest

import (
	"sort"

	"backend2/domain/core/entities"
	"backend2/domain/core/valueobjects"
	"backend2/domain/graphengine"
)

const keyNodeLabelMaxLen = 50

// selectKeyNodes implements spec §4.6 steps 3 and 8: from the union of the
// top 20 PageRank nodes, run an optional betweenness pass restricted to
// that same pool (see Betweenness), score each as
// 0.3*PR + 0.2*betweenness + 0.25*energy + 0.25*importance, and return the
// top N (policy-configured, default 5), labels truncated to ~50 characters.
func selectKeyNodes(engine *graphengine.Engine, pageRank map[valueobjects.ItemID]float64, items map[valueobjects.ItemID]*entities.MemoryItem, topN int) []KeyNode {
	type ranked struct {
		id valueobjects.ItemID
		pr float64
	}
	all := make([]ranked, 0, len(pageRank))
	for id, pr := range pageRank {
		all = append(all, ranked{id: id, pr: pr})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].pr != all[j].pr {
			return all[i].pr > all[j].pr
		}
		return all[i].id.String() < all[j].id.String()
	})

	const candidatePoolSize = 20
	if len(all) > candidatePoolSize {
		all = all[:candidatePoolSize]
	}

	pool := make([]valueobjects.ItemID, len(all))
	for i, r := range all {
		pool[i] = r.id
	}
	betweenness := Betweenness(engine, pool)

	scored := make([]KeyNode, 0, len(all))
	for _, r := range all {
		item, ok := items[r.id]
		if !ok {
			continue
		}
		bc := betweenness[r.id]
		score := 0.3*r.pr + 0.2*bc + 0.25*item.Energy() + 0.25*item.Importance()
		scored = append(scored, KeyNode{ID: r.id, Label: truncateLabel(item.Text()), Score: score, Betweenness: bc})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID.String() < scored[j].ID.String()
	})

	if topN <= 0 {
		topN = 5
	}
	if len(scored) > topN {
		scored = scored[:topN]
	}
	return scored
}

func truncateLabel(text string) string {
	r := []rune(text)
	if len(r) <= keyNodeLabelMaxLen {
		return text
	}
	return string(r[:keyNodeLabelMaxLen]) + "…"
}
