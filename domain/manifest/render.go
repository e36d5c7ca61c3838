package manifest

import (
	"fmt"
	"strings"
)

// render implements spec §4.6 step 10: a compact multi-section
// description bounded to maxBytes, truncated at section boundaries rather
// than mid-section when a draft runs long.
func render(m *Manifest, maxBytes int) string {
	sections := make([]string, 0, 8)

	sections = append(sections, fmt.Sprintf(
		"Memory core: %d items, %d edges, density %.3f, %d communities",
		m.Topology.NodeCount, m.Topology.EdgeCount, m.Topology.Density, len(m.Communities),
	))

	if len(m.Communities) > 0 {
		var b strings.Builder
		b.WriteString("Themes:\n")
		limit := len(m.Communities)
		if limit > 5 {
			limit = 5
		}
		for _, c := range m.Communities[:limit] {
			fmt.Fprintf(&b, "- %s (%d items, keywords: %s)\n", c.Theme, len(c.Members), strings.Join(c.Keywords, ", "))
			if c.RecentPreview != "" {
				fmt.Fprintf(&b, "  recent: %s\n", c.RecentPreview)
			}
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}

	sections = append(sections, fmt.Sprintf(
		"Temporal: %d emerging, %d active, %d stable, %d decaying",
		m.Temporal.Emerging, m.Temporal.Active, m.Temporal.Stable, m.Temporal.Decaying,
	))

	if len(m.KeyNodes) > 0 {
		var b strings.Builder
		b.WriteString("Key nodes:\n")
		for _, k := range m.KeyNodes {
			fmt.Fprintf(&b, "- %s (score %.3f)\n", k.Label, k.Score)
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}

	convergence := "converged"
	if m.PageRankFellBack {
		convergence = "fell back to uniform distribution"
	}
	sections = append(sections, fmt.Sprintf(
		"Topology: avg degree %.2f, clustering %.3f, modularity %.3f, %d components, %d bridges, pagerank %s",
		m.Topology.AverageDegree, m.Topology.ClusteringCoefficient, m.Topology.Modularity,
		m.Topology.ConnectedComponents, len(m.Bridges), convergence,
	))

	return boundedJoin(sections, maxBytes)
}

// boundedJoin joins sections with blank lines, dropping trailing sections
// (never truncating mid-section) once the running total would exceed
// maxBytes.
func boundedJoin(sections []string, maxBytes int) string {
	var b strings.Builder
	for _, s := range sections {
		addition := s
		if b.Len() > 0 {
			addition = "\n\n" + s
		}
		if b.Len()+len(addition) > maxBytes {
			break
		}
		b.WriteString(addition)
	}
	return b.String()
}
