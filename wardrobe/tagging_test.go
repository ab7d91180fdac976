package wardrobe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaggingSessionFlow(t *testing.T) {
	session := NewTaggingSession(map[Category][]Item{
		CategoryTops:  {CatalogItem{ID: "top-1"}, CatalogItem{ID: "top-2"}},
		CategoryShoes: {CatalogItem{ID: "shoes-1"}},
	})
	require.Equal(t, StepSelectingCategory, session.Step)
	require.Equal(t, 3, session.Remaining())

	session, err := session.SelectCategory(CategoryTops)
	require.NoError(t, err)
	assert.Equal(t, StepTaggingItem, session.Step)
	assert.Equal(t, "top-1", session.Current.Identity())

	session, err = session.ApplyTags(basicTag([]Season{Fall}, []Occasion{Casual}))
	require.NoError(t, err)
	assert.Equal(t, StepTaggingItem, session.Step)
	assert.Equal(t, "top-2", session.Current.Identity())

	session, err = session.ApplyTags(statementTag([]Season{Winter}, []Occasion{Work}))
	require.NoError(t, err)
	assert.Equal(t, StepSelectingCategory, session.Step)

	session, err = session.SelectCategory(CategoryShoes)
	require.NoError(t, err)
	session, err = session.ApplyTags(basicTag([]Season{Fall}, []Occasion{Casual}))
	require.NoError(t, err)

	assert.Equal(t, StepDone, session.Step)
	assert.Equal(t, 0, session.Remaining())
	assert.Equal(t, StyleStatement, session.Collected[CategoryTops]["top-2"].Style)
	assert.Len(t, session.Collected[CategoryTops], 2)
	assert.Len(t, session.Collected[CategoryShoes], 1)
}

func TestTaggingSessionEmptyBatchIsDone(t *testing.T) {
	session := NewTaggingSession(nil)
	assert.Equal(t, StepDone, session.Step)
}

func TestTaggingSessionInvalidTransitions(t *testing.T) {
	session := NewTaggingSession(map[Category][]Item{
		CategoryTops: {CatalogItem{ID: "top-1"}},
	})

	_, err := session.ApplyTags(TagRecord{})
	require.Error(t, err)

	_, err = session.SelectCategory(CategoryBottoms)
	require.Error(t, err)
}

func TestTaggingSessionTransitionsAreImmutable(t *testing.T) {
	session := NewTaggingSession(map[Category][]Item{
		CategoryTops: {CatalogItem{ID: "top-1"}},
	})

	next, err := session.SelectCategory(CategoryTops)
	require.NoError(t, err)
	_, err = next.ApplyTags(basicTag([]Season{Fall}, []Occasion{Casual}))
	require.NoError(t, err)

	// Earlier steps keep their state.
	assert.Equal(t, StepSelectingCategory, session.Step)
	assert.Equal(t, 1, session.Remaining())
	assert.Empty(t, session.Collected)
	assert.Equal(t, StepTaggingItem, next.Step)
}
