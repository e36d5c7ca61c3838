package aggregates

import (
	"testing"

	"github.com/stretchr/testify/require"

	"backend2/domain/config"
	"backend2/domain/core/entities"
	"backend2/domain/core/valueobjects"
)

func newTestItem(t *testing.T, text string, importance float64, now int64) *entities.MemoryItem {
	t.Helper()
	item, err := entities.NewMemoryItem(entities.ItemTypeFact, text, valueobjects.Empty(), importance, "", valueobjects.Scope{}, now)
	require.NoError(t, err)
	return item
}

func TestState_AddItem(t *testing.T) {
	state := NewState(config.DefaultPolicy(), 1000)
	item := newTestItem(t, "fact one", 0.5, 1000)

	require.NoError(t, state.AddItem(item))
	require.Equal(t, 1, state.ItemCount())
	require.True(t, state.HasItem(item.ID()))

	require.Error(t, state.AddItem(item), "adding the same item twice must fail")
}

func TestState_AddItem_RejectsNil(t *testing.T) {
	state := NewState(config.DefaultPolicy(), 1000)
	require.Error(t, state.AddItem(nil))
}

func TestState_Associate_RequiresBothEndpoints(t *testing.T) {
	state := NewState(config.DefaultPolicy(), 1000)
	a := newTestItem(t, "a", 0.5, 1000)
	require.NoError(t, state.AddItem(a))

	_, err := state.Associate(a.ID(), valueobjects.NewItemID(), "relates_to", 0.5, 1000)
	require.Error(t, err)
}

func TestState_Associate_InsertsAndReinforces(t *testing.T) {
	state := NewState(config.DefaultPolicy(), 1000)
	a := newTestItem(t, "a", 0.5, 1000)
	b := newTestItem(t, "b", 0.5, 1000)
	require.NoError(t, state.AddItem(a))
	require.NoError(t, state.AddItem(b))

	edge, err := state.Associate(a.ID(), b.ID(), "relates_to", 0.3, 1000)
	require.NoError(t, err)
	require.Equal(t, 0.3, edge.Weight)
	require.Equal(t, 1, state.EdgeCount())

	edge, err = state.Associate(a.ID(), b.ID(), "relates_to", 0.3, 2000)
	require.NoError(t, err)
	require.InDelta(t, 0.6, edge.Weight, 1e-9)
	require.Equal(t, 1, state.EdgeCount(), "reinforcing an existing edge must not create a second one")
}

func TestState_Associate_ClampsToMaxEdgeWeight(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.MaxEdgeWeight = 1.0
	state := NewState(policy, 1000)
	a := newTestItem(t, "a", 0.5, 1000)
	b := newTestItem(t, "b", 0.5, 1000)
	require.NoError(t, state.AddItem(a))
	require.NoError(t, state.AddItem(b))

	edge, err := state.Associate(a.ID(), b.ID(), "relates_to", 5.0, 1000)
	require.NoError(t, err)
	require.Equal(t, 1.0, edge.Weight)
}

func TestState_Consolidate_RemovesPrunableItemsAndIncidentEdges(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.PruningEnergyFloor = 0.2
	policy.PruningMinAccessCount = 100
	state := NewState(policy, 1000)

	a := newTestItem(t, "a", 0.01, 1000)
	b := newTestItem(t, "b", 0.9, 1000)
	require.NoError(t, state.AddItem(a))
	require.NoError(t, state.AddItem(b))
	_, err := state.Associate(a.ID(), b.ID(), "relates_to", 0.5, 1000)
	require.NoError(t, err)

	removed := state.Consolidate(2000)
	require.Equal(t, 1, removed)
	require.False(t, state.HasItem(a.ID()))
	require.True(t, state.HasItem(b.ID()))
	require.Equal(t, 0, state.EdgeCount())
}

func TestState_Decay_AppliesToEveryItem(t *testing.T) {
	state := NewState(config.DefaultPolicy(), 0)
	a := newTestItem(t, "a", 1.0, 0)
	require.NoError(t, state.AddItem(a))

	count := state.Decay(1.0, int64(86400000))
	require.Equal(t, 1, count)
	require.Less(t, a.Energy(), 1.0)
}

func TestState_Validate_CatchesBrokenInvariants(t *testing.T) {
	state := NewState(config.DefaultPolicy(), 1000)
	a := newTestItem(t, "a", 0.5, 1000)
	require.NoError(t, state.AddItem(a))
	require.NoError(t, state.Validate())

	state.edges = append(state.edges, &MemoryEdge{From: a.ID(), To: valueobjects.NewItemID(), Relation: "x", Weight: 0.1})
	require.Error(t, state.Validate())
}

func TestState_Validate_CatchesLastAccessedBeforeCreated(t *testing.T) {
	item := entities.ReconstructMemoryItem(
		valueobjects.NewItemID(), entities.ItemTypeFact, "a", valueobjects.Empty(),
		0.5, 0.5, "", valueobjects.Scope{},
		2000, 2000, 1000, 0, 0, 0,
	)
	items := map[valueobjects.ItemID]*entities.MemoryItem{item.ID(): item}
	state := ReconstructState("broken", 1000, items, nil, nil, config.DefaultPolicy())

	require.Error(t, state.Validate())
}

func TestState_SortedItemIDs_IsDeterministic(t *testing.T) {
	state := NewState(config.DefaultPolicy(), 1000)
	for i := 0; i < 5; i++ {
		require.NoError(t, state.AddItem(newTestItem(t, "item", 0.5, 1000)))
	}

	first := state.SortedItemIDs()
	second := state.SortedItemIDs()
	require.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		require.Less(t, first[i-1].String(), first[i].String())
	}
}

func TestState_RecordHistory_BoundsLength(t *testing.T) {
	state := NewState(config.DefaultPolicy(), 1000)
	for i := 0; i < maxHistoryEntries+10; i++ {
		state.RecordHistory("op", "detail", int64(i))
	}
	require.Len(t, state.History(), maxHistoryEntries)
}
