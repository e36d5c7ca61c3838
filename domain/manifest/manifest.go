package manifest

import (
	"backend2/domain/config"
	"backend2/domain/core/aggregates"
	"backend2/domain/graphengine"
)

// Generate runs the full manifest pipeline of spec §4.6 over state, using
// engine as the analysis graph and policy for every tunable the pipeline
// steps name. summariser may be nil (the default keyword summary is then
// always used). now is epoch milliseconds.
func Generate(state *aggregates.State, engine *graphengine.Engine, policy *config.Policy, summariser ThemeSummariser, now int64) *Manifest {
	items := state.Items()
	edges := state.Edges()
	nodes := engine.Nodes()

	assignment := communityDetection(engine, policy.LouvainResolution)
	groups := groupByCommunity(assignment, nodes)

	pageRank, converged := PageRank(engine, policy.PageRankDamping, policy.PageRankMaxIterations, policy.PageRankConvergenceEps)

	communities := aggregateCommunities(groups, items, pageRank, now, policy.ManifestTopCommunities, summariser, policy.SummariserTimeout)

	keyNodes := selectKeyNodes(engine, pageRank, items, policy.ManifestTopKeyNodes)
	bridges := detectBridges(edges, assignment, policy.ManifestTopBridges)
	topology := computeTopology(engine, len(edges), assignment)
	temporal := temporalCounts(items, now)

	m := &Manifest{
		GeneratedAt:      now,
		Communities:      communities,
		KeyNodes:         keyNodes,
		Bridges:          bridges,
		Temporal:         temporal,
		Topology:         topology,
		PageRankFellBack: !converged,
	}
	m.Rendered = render(m, policy.ManifestMaxBytes)
	return m
}
