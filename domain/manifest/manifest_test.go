package manifest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"backend2/domain/config"
	"backend2/domain/core/aggregates"
	"backend2/domain/core/entities"
	"backend2/domain/core/valueobjects"
	"backend2/domain/graphengine"
)

func buildTestState(t *testing.T) (*aggregates.State, []valueobjects.ItemID) {
	t.Helper()
	policy := config.DefaultPolicy()
	state := aggregates.NewState(policy, 1_000_000)

	texts := []struct {
		text string
		tags []string
	}{
		{"deploy the service with canary rollout", []string{"deploy", "ops"}},
		{"canary rollout failed on region eu-west-1", []string{"deploy", "incident"}},
		{"rollback procedure for canary failures", []string{"deploy", "runbook"}},
		{"quarterly planning notes for Q3", []string{"planning"}},
		{"Q3 budget allocation draft", []string{"planning", "finance"}},
	}

	ids := make([]valueobjects.ItemID, 0, len(texts))
	for _, tc := range texts {
		tags, err := valueobjects.NewTagSet(tc.tags)
		require.NoError(t, err)
		scope, err := valueobjects.NewScope("")
		require.NoError(t, err)
		item, err := entities.NewMemoryItem(entities.ItemTypeFact, tc.text, tags, 0.6, "", scope, 1_000_000)
		require.NoError(t, err)
		require.NoError(t, state.AddItem(item))
		ids = append(ids, item.ID())
	}

	_, err := state.Associate(ids[0], ids[1], "relates_to", 0.5, 1_000_000)
	require.NoError(t, err)
	_, err = state.Associate(ids[1], ids[2], "relates_to", 0.7, 1_000_000)
	require.NoError(t, err)
	_, err = state.Associate(ids[3], ids[4], "relates_to", 0.9, 1_000_000)
	require.NoError(t, err)

	return state, ids
}

func TestGenerateProducesBoundedManifest(t *testing.T) {
	state, _ := buildTestState(t)
	engine := graphengine.Build(state)
	policy := state.Policy()

	m := Generate(state, engine, policy, nil, 1_000_000)

	require.LessOrEqual(t, len(m.Rendered), policy.ManifestMaxBytes)
	require.NotEmpty(t, m.Rendered)
	require.Equal(t, 5, m.Topology.NodeCount)
	require.Equal(t, 3, m.Topology.EdgeCount)
	require.NotEmpty(t, m.Communities)
}

func TestCommunityDetectionSeparatesDisconnectedClusters(t *testing.T) {
	state, ids := buildTestState(t)
	engine := graphengine.Build(state)

	assignment := communityDetection(engine, 1.0)

	deployCluster := assignment[ids[0]]
	require.Equal(t, deployCluster, assignment[ids[1]])
	require.Equal(t, deployCluster, assignment[ids[2]])

	planningCluster := assignment[ids[3]]
	require.Equal(t, planningCluster, assignment[ids[4]])
	require.NotEqual(t, deployCluster, planningCluster)
}

func TestPageRankConvergesAndSumsToOne(t *testing.T) {
	state, _ := buildTestState(t)
	engine := graphengine.Build(state)

	scores, converged := PageRank(engine, 0.85, 100, 1e-6)
	require.True(t, converged)

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	require.InDelta(t, 1.0, sum, 1e-6)
}

func TestPageRankEmptyGraph(t *testing.T) {
	policy := config.DefaultPolicy()
	state := aggregates.NewState(policy, 0)
	engine := graphengine.Build(state)

	scores, converged := PageRank(engine, 0.85, 100, 1e-6)
	require.True(t, converged)
	require.Empty(t, scores)
}

func TestBetweennessScoresMiddleNodeHighestOnAChain(t *testing.T) {
	state, ids := buildTestState(t)
	engine := graphengine.Build(state)

	scores := Betweenness(engine, ids)
	require.Greater(t, scores[ids[1]], scores[ids[0]], "the node bridging both of its neighbours must score higher")
	require.LessOrEqual(t, scores[ids[1]], 1.0)
}

func TestBetweennessIsZeroForEmptySourceSet(t *testing.T) {
	state, _ := buildTestState(t)
	engine := graphengine.Build(state)

	scores := Betweenness(engine, nil)
	for _, v := range scores {
		require.Zero(t, v)
	}
}

func TestClassifyTemporalLayers(t *testing.T) {
	now := int64(100 * millisPerDay)
	scope, _ := valueobjects.NewScope("")
	tags, _ := valueobjects.NewTagSet(nil)

	emerging, _ := entities.NewMemoryItem(entities.ItemTypeEvent, "just happened", tags, 0.5, "", scope, now)
	require.Equal(t, LayerEmerging, classify(emerging, now))

	stable := entities.ReconstructMemoryItem(
		valueobjects.NewItemID(), entities.ItemTypeFact, "long settled fact", tags,
		0.8, 0.5, "", scope,
		now-40*millisPerDay, now-35*millisPerDay, now-35*millisPerDay, 10, 5, 0,
	)
	require.Equal(t, LayerStable, classify(stable, now))

	decaying := entities.ReconstructMemoryItem(
		valueobjects.NewItemID(), entities.ItemTypeFact, "forgotten", tags,
		0.2, 0.02, "", scope,
		now-40*millisPerDay, now-35*millisPerDay, now-35*millisPerDay, 1, 0, 1,
	)
	require.Equal(t, LayerDecaying, classify(decaying, now))
}

type stubSummariser struct {
	themes map[int]string
	err    error
}

func (s *stubSummariser) SummariseThemes(ctx context.Context, briefs []CommunityBrief) (map[int]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.themes, nil
}

func TestAggregateCommunitiesFallsBackSilentlyOnSummariserError(t *testing.T) {
	state, _ := buildTestState(t)
	engine := graphengine.Build(state)
	policy := state.Policy()

	assignment := communityDetection(engine, policy.LouvainResolution)
	groups := groupByCommunity(assignment, engine.Nodes())
	pageRank, _ := PageRank(engine, policy.PageRankDamping, policy.PageRankMaxIterations, policy.PageRankConvergenceEps)

	failing := &stubSummariser{err: context.DeadlineExceeded}
	communities := aggregateCommunities(groups, state.Items(), pageRank, 1_000_000, policy.ManifestTopCommunities, failing, policy.SummariserTimeout)

	for _, c := range communities {
		require.NotEmpty(t, c.Theme)
	}
}
