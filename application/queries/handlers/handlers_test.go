package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backend2/application/queries"
	"backend2/domain/config"
	"backend2/domain/core/aggregates"
	"backend2/domain/core/entities"
	"backend2/domain/core/valueobjects"
	"backend2/domain/graphengine"
)

type fakeCore struct {
	state       *aggregates.State
	engine      *graphengine.Engine
	now         int64
	manifest    string
	generatedAt int64
	stale       bool
	regen       bool
	persistErr  error
}

func newFakeCore(t *testing.T) *fakeCore {
	t.Helper()
	state := aggregates.NewState(config.DefaultPolicy(), 1000)
	return &fakeCore{state: state, engine: graphengine.Build(state), now: 1000}
}

func (c *fakeCore) ReadLocked(fn func(*aggregates.State, *graphengine.Engine)) {
	fn(c.state, c.engine)
}

func (c *fakeCore) RecallLocked(fn func(*aggregates.State, *graphengine.Engine)) error {
	fn(c.state, c.engine)
	return c.persistErr
}

func (c *fakeCore) Now() int64 { return c.now }

func (c *fakeCore) ManifestSnapshot() (string, int64, bool) {
	return c.manifest, c.generatedAt, c.stale
}

func (c *fakeCore) ManifestRegenerating() bool { return c.regen }

func testLogger() *zap.Logger { return zap.NewNop() }

func addItem(t *testing.T, state *aggregates.State, text string, tags []string, now int64) {
	t.Helper()
	tagSet, err := valueobjects.NewTagSet(tags)
	require.NoError(t, err)
	item, err := entities.NewMemoryItem(entities.ItemTypeFact, text, tagSet, 0.5, "", valueobjects.Scope{}, now)
	require.NoError(t, err)
	require.NoError(t, state.AddItem(item))
}

func TestStatusHandler_Handle(t *testing.T) {
	core := newFakeCore(t)
	addItem(t, core.state, "fact", nil, 1000)
	core.manifest = "rendered"
	core.generatedAt = 900
	core.stale = true
	core.regen = true

	h := NewStatusHandler(core, testLogger())
	result, err := h.Handle(context.Background(), queries.StatusQuery{})
	require.NoError(t, err)

	status := result.(queries.StatusResult)
	require.Equal(t, 1, status.ItemCount)
	require.Equal(t, int64(900), status.LastManifestAt)
	require.True(t, status.ManifestStale)
	require.True(t, status.ManifestRegenerating)
}

func TestStatusHandler_RejectsWrongQueryType(t *testing.T) {
	core := newFakeCore(t)
	h := NewStatusHandler(core, testLogger())
	_, err := h.Handle(context.Background(), queries.DescribeQuery{})
	require.Error(t, err)
}

func TestDescribeHandler_Handle(t *testing.T) {
	core := newFakeCore(t)
	core.manifest = "## memory\n"
	core.generatedAt = 1234
	core.stale = false

	h := NewDescribeHandler(core, testLogger())
	result, err := h.Handle(context.Background(), queries.DescribeQuery{})
	require.NoError(t, err)

	describe := result.(queries.DescribeResult)
	require.Equal(t, "## memory\n", describe.Manifest)
	require.Equal(t, int64(1234), describe.GeneratedAt)
	require.False(t, describe.Stale)
}

func TestRecallHandler_Handle(t *testing.T) {
	core := newFakeCore(t)
	addItem(t, core.state, "deploy the canary rollout", []string{"deploy"}, 1000)
	core.engine = graphengine.Build(core.state)
	core.now = 2000

	h := NewRecallHandler(core, testLogger())
	result, err := h.Handle(context.Background(), queries.RecallQuery{Text: "canary"})
	require.NoError(t, err)

	recallResult := result.(queries.RecallResult)
	require.Len(t, recallResult.Hits, 1)
	require.Equal(t, "deploy the canary rollout", recallResult.Hits[0].Text)
}

func TestRecallHandler_PropagatesPersistError(t *testing.T) {
	core := newFakeCore(t)
	core.persistErr = context.DeadlineExceeded

	h := NewRecallHandler(core, testLogger())
	_, err := h.Handle(context.Background(), queries.RecallQuery{Text: "canary"})
	require.Error(t, err)
}

func TestRecallHandler_NoMatchReturnsEmptyHits(t *testing.T) {
	core := newFakeCore(t)
	h := NewRecallHandler(core, testLogger())

	result, err := h.Handle(context.Background(), queries.RecallQuery{Text: "nothing matches"})
	require.NoError(t, err)
	require.Empty(t, result.(queries.RecallResult).Hits)
}
