package entities

import (
	"testing"

	"github.com/stretchr/testify/require"

	"backend2/domain/core/valueobjects"
)

func mustTags(t *testing.T, raw ...string) valueobjects.TagSet {
	t.Helper()
	set, err := valueobjects.NewTagSet(raw)
	require.NoError(t, err)
	return set
}

func mustScope(t *testing.T) valueobjects.Scope {
	t.Helper()
	scope, err := valueobjects.NewScope("")
	require.NoError(t, err)
	return scope
}

func TestNewMemoryItem_RejectsUnknownType(t *testing.T) {
	_, err := NewMemoryItem(ItemType("bogus"), "text", valueobjects.Empty(), 0.5, "", mustScope(t), 1000)
	require.Error(t, err)
}

func TestNewMemoryItem_RejectsEmptyText(t *testing.T) {
	_, err := NewMemoryItem(ItemTypeFact, "", valueobjects.Empty(), 0.5, "", mustScope(t), 1000)
	require.Error(t, err)
}

func TestNewMemoryItem_EnergyStartsAtImportance(t *testing.T) {
	item, err := NewMemoryItem(ItemTypeFact, "some fact", mustTags(t, "a"), 0.7, "", mustScope(t), 1000)
	require.NoError(t, err)
	require.Equal(t, 0.7, item.Importance())
	require.Equal(t, 0.7, item.Energy())
	require.Len(t, item.GetUncommittedEvents(), 1)
}

func TestNewMemoryItem_ClampsImportance(t *testing.T) {
	item, err := NewMemoryItem(ItemTypeFact, "fact", valueobjects.Empty(), 1.5, "", mustScope(t), 1000)
	require.NoError(t, err)
	require.Equal(t, 1.0, item.Importance())
}

func TestMemoryItem_Touch(t *testing.T) {
	item, err := NewMemoryItem(ItemTypeFact, "fact", valueobjects.Empty(), 0.5, "", mustScope(t), 1000)
	require.NoError(t, err)

	item.Touch(2000)
	require.EqualValues(t, 1, item.AccessCount())
	require.EqualValues(t, 2000, item.LastAccessedAt())
}

func TestMemoryItem_ApplyFeedback(t *testing.T) {
	item, err := NewMemoryItem(ItemTypeFact, "fact", valueobjects.Empty(), 0.5, "", mustScope(t), 1000)
	require.NoError(t, err)

	require.NoError(t, item.ApplyFeedback(OutcomeSuccess, 2000))
	require.EqualValues(t, 1, item.Success())
	require.Greater(t, item.Energy(), 0.5)
	require.Greater(t, item.Importance(), 0.5)

	require.NoError(t, item.ApplyFeedback(OutcomeFail, 3000))
	require.EqualValues(t, 1, item.Fail())

	require.Error(t, item.ApplyFeedback(FeedbackOutcome("shrug"), 4000))
}

func TestMemoryItem_DecayReducesEnergyOverTime(t *testing.T) {
	item, err := NewMemoryItem(ItemTypeFact, "fact", valueobjects.Empty(), 1.0, "", mustScope(t), 0)
	require.NoError(t, err)

	oneDayMs := int64(86400000)
	item.Decay(1.0, oneDayMs)
	require.InDelta(t, 0.5, item.Energy(), 0.01)
}

func TestMemoryItem_DecayClampsToZeroBelowFloor(t *testing.T) {
	item, err := NewMemoryItem(ItemTypeFact, "fact", valueobjects.Empty(), 0.01, "", mustScope(t), 0)
	require.NoError(t, err)

	item.Decay(1.0, int64(86400000)*30)
	require.Equal(t, 0.0, item.Energy())
}

func TestMemoryItem_DecayNoopWithoutHalfLifeOrElapsedTime(t *testing.T) {
	item, err := NewMemoryItem(ItemTypeFact, "fact", valueobjects.Empty(), 0.5, "", mustScope(t), 1000)
	require.NoError(t, err)

	item.Decay(0, 2000)
	require.Equal(t, 0.5, item.Energy())

	item.Decay(1.0, 1000)
	require.Equal(t, 0.5, item.Energy())
}

func TestMemoryItem_Prunable(t *testing.T) {
	item, err := NewMemoryItem(ItemTypeFact, "fact", valueobjects.Empty(), 0.5, "", mustScope(t), 1000)
	require.NoError(t, err)

	require.False(t, item.Prunable(0.1, 5))

	item.Decay(1.0, int64(86400000)*30)
	require.True(t, item.Prunable(0.1, 5))
}

func TestItemType_IsValid(t *testing.T) {
	require.True(t, ItemTypeFact.IsValid())
	require.True(t, ItemTypeBridge.IsValid())
	require.False(t, ItemType("nonsense").IsValid())
}
