package wardrobe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basicTag(seasons []Season, occasions []Occasion) TagRecord {
	return TagRecord{Style: StyleBasic, Seasons: seasons, Occasions: occasions}
}

func statementTag(seasons []Season, occasions []Occasion) TagRecord {
	return TagRecord{Style: StyleStatement, Seasons: seasons, Occasions: occasions}
}

// fallCasualCloset is the minimal closet with exactly one valid two-piece
// combination: a Fall/Casual top, a Fall+Summer/Casual bottom and a
// statement Fall/Casual+Work outerwear.
func fallCasualCloset() *Closet {
	items := map[Category][]Item{
		CategoryTops:      {CatalogItem{ID: "top-1", Ref: "blue_shirt.jpg"}},
		CategoryBottoms:   {CatalogItem{ID: "bottom-1", Ref: "black_jeans.jpg"}},
		CategoryOuterwear: {CatalogItem{ID: "outer-1", Ref: "red_coat.jpg"}},
	}
	tags := map[Category]map[string]TagRecord{
		CategoryTops: {
			"top-1": basicTag([]Season{Fall}, []Occasion{Casual}),
		},
		CategoryBottoms: {
			"bottom-1": basicTag([]Season{Fall, Summer}, []Occasion{Casual}),
		},
		CategoryOuterwear: {
			"outer-1": statementTag([]Season{Fall}, []Occasion{Casual, Work}),
		},
	}
	return NewCloset(items, tags)
}

func TestGenerateSingleOutfit(t *testing.T) {
	closet := fallCasualCloset()

	require.Len(t, closet.Outfits, 1)
	outfit := closet.Outfits[0]
	assert.Equal(t, []Season{Fall}, outfit.Seasons)
	assert.Equal(t, []Occasion{Casual}, outfit.Occasions)
	assert.True(t, outfit.Statement)
	assert.Equal(t, "top-1", outfit.Items[CategoryTops].Identity())
	assert.Equal(t, "bottom-1", outfit.Items[CategoryBottoms].Identity())
	assert.Equal(t, "outer-1", outfit.Items[CategoryOuterwear].Identity())
}

func TestGenerateRejectsTwoStatements(t *testing.T) {
	items := map[Category][]Item{
		CategoryDresses:   {CatalogItem{ID: "dress-1"}},
		CategoryOuterwear: {CatalogItem{ID: "outer-1"}},
	}
	tags := map[Category]map[string]TagRecord{
		CategoryDresses: {
			"dress-1": statementTag([]Season{Summer}, []Occasion{ClubFancy}),
		},
		CategoryOuterwear: {
			"outer-1": statementTag([]Season{Summer}, []Occasion{ClubFancy}),
		},
	}
	closet := NewCloset(items, tags)
	assert.Empty(t, closet.Outfits)
}

func TestGenerateRejectsDisjointTags(t *testing.T) {
	items := map[Category][]Item{
		CategoryDresses:   {CatalogItem{ID: "dress-1"}},
		CategoryOuterwear: {CatalogItem{ID: "outer-1"}},
	}
	tags := map[Category]map[string]TagRecord{
		CategoryDresses: {
			"dress-1": basicTag([]Season{Summer}, []Occasion{Casual}),
		},
		CategoryOuterwear: {
			"outer-1": basicTag([]Season{Winter}, []Occasion{Casual}),
		},
	}
	closet := NewCloset(items, tags)
	assert.Empty(t, closet.Outfits)
}

func TestGenerateBothShapes(t *testing.T) {
	all := basicTag(AllSeasons, AllOccasions)
	items := map[Category][]Item{
		CategoryTops:      {CatalogItem{ID: "top-1"}, CatalogItem{ID: "top-2"}},
		CategoryBottoms:   {CatalogItem{ID: "bottom-1"}},
		CategoryDresses:   {CatalogItem{ID: "dress-1"}},
		CategoryOuterwear: {CatalogItem{ID: "outer-1"}, CatalogItem{ID: "outer-2"}},
	}
	tags := map[Category]map[string]TagRecord{
		CategoryTops:      {"top-1": all, "top-2": all},
		CategoryBottoms:   {"bottom-1": all},
		CategoryDresses:   {"dress-1": all},
		CategoryOuterwear: {"outer-1": all, "outer-2": all},
	}
	closet := NewCloset(items, tags)

	// 1 dress x 2 outerwear plus 2 tops x 1 bottom x 2 outerwear
	require.Len(t, closet.Outfits, 6)
	onePiece, twoPiece := 0, 0
	for _, outfit := range closet.Outfits {
		if _, ok := outfit.Items[CategoryDresses]; ok {
			onePiece++
			assert.Len(t, outfit.Items, 2)
		} else {
			twoPiece++
			assert.Len(t, outfit.Items, 3)
		}
	}
	assert.Equal(t, 2, onePiece)
	assert.Equal(t, 4, twoPiece)
}

func TestGeneratedOutfitsSatisfyMatchRule(t *testing.T) {
	closet := fallCasualCloset()
	closet.AddItems(
		map[Category][]Item{
			CategoryTops:    {CatalogItem{ID: "top-2"}},
			CategoryDresses: {CatalogItem{ID: "dress-1"}},
		},
		map[Category]map[string]TagRecord{
			CategoryTops:    {"top-2": statementTag([]Season{Fall, Winter}, []Occasion{Casual, DinnerBar})},
			CategoryDresses: {"dress-1": basicTag([]Season{Fall}, []Occasion{Work})},
		},
	)

	for _, outfit := range closet.Outfits {
		assert.NotEmpty(t, outfit.Seasons)
		assert.NotEmpty(t, outfit.Occasions)
		statements := 0
		for cat, item := range outfit.Items {
			if closet.TagFor(cat, item).Style == StyleStatement {
				statements++
			}
		}
		assert.LessOrEqual(t, statements, 1)
	}
}

func TestAddItemsKeepsExistingOutfits(t *testing.T) {
	closet := fallCasualCloset()
	existing := closet.Outfits[0]

	closet.AddItems(
		map[Category][]Item{CategoryTops: {CatalogItem{ID: "top-2"}}},
		map[Category]map[string]TagRecord{
			CategoryTops: {"top-2": basicTag([]Season{Fall}, []Occasion{Casual})},
		},
	)

	require.Len(t, closet.Outfits, 2)
	assert.Equal(t, existing, closet.Outfits[0])
	assert.Equal(t, "top-2", closet.Outfits[1].Items[CategoryTops].Identity())
}

func TestAddItemsCombinesNewWithNew(t *testing.T) {
	closet := fallCasualCloset()

	// A new top and a new outerwear must combine with each other and with
	// the existing bottom, not only with pre-existing pieces.
	closet.AddItems(
		map[Category][]Item{
			CategoryTops:      {CatalogItem{ID: "top-2"}},
			CategoryOuterwear: {CatalogItem{ID: "outer-2"}},
		},
		map[Category]map[string]TagRecord{
			CategoryTops:      {"top-2": basicTag([]Season{Fall}, []Occasion{Casual})},
			CategoryOuterwear: {"outer-2": basicTag([]Season{Fall}, []Occasion{Casual})},
		},
	)

	// top-1/outer-1, top-2/outer-1, top-1/outer-2, top-2/outer-2
	require.Len(t, closet.Outfits, 4)
	seen := make(map[[2]string]bool)
	for _, outfit := range closet.Outfits {
		key := [2]string{
			outfit.Items[CategoryTops].Identity(),
			outfit.Items[CategoryOuterwear].Identity(),
		}
		assert.False(t, seen[key], "duplicate outfit %v", key)
		seen[key] = true
	}
}

func TestRemoveItemCascades(t *testing.T) {
	closet := fallCasualCloset()
	closet.AddItems(
		map[Category][]Item{CategoryTops: {CatalogItem{ID: "top-2"}}},
		map[Category]map[string]TagRecord{
			CategoryTops: {"top-2": basicTag([]Season{Fall}, []Occasion{Casual})},
		},
	)
	require.Len(t, closet.Outfits, 2)

	closet.RemoveItem(CategoryOuterwear, CatalogItem{ID: "outer-1"})

	assert.Empty(t, closet.Items[CategoryOuterwear])
	assert.Empty(t, closet.Outfits)
	assert.NotContains(t, closet.Tags[CategoryOuterwear], "outer-1")
}

func TestRemoveItemKeepsUnrelatedOutfits(t *testing.T) {
	closet := fallCasualCloset()
	closet.AddItems(
		map[Category][]Item{CategoryTops: {CatalogItem{ID: "top-2"}}},
		map[Category]map[string]TagRecord{
			CategoryTops: {"top-2": basicTag([]Season{Fall}, []Occasion{Casual})},
		},
	)

	closet.RemoveItem(CategoryTops, CatalogItem{ID: "top-2"})

	require.Len(t, closet.Outfits, 1)
	assert.Equal(t, "top-1", closet.Outfits[0].Items[CategoryTops].Identity())
}

func TestFilterOutfitsIdempotent(t *testing.T) {
	closet := fallCasualCloset()
	once := closet.FilterOutfits([]Season{Fall}, []Occasion{Casual})
	require.Len(t, once, 1)

	scratch := LoadCloset(closet.Items, closet.Tags, once)
	twice := scratch.FilterOutfits([]Season{Fall}, []Occasion{Casual})
	assert.Equal(t, once, twice)
}

func TestFilterOutfitsNoMatch(t *testing.T) {
	closet := fallCasualCloset()
	assert.Empty(t, closet.FilterOutfits([]Season{Summer}, []Occasion{Casual}))
	assert.Empty(t, closet.FilterOutfits([]Season{Fall}, []Occasion{ClubFancy}))
}

func TestFilterItemsByTag(t *testing.T) {
	closet := fallCasualCloset()

	filtered := closet.FilterItemsByTag(nil, []Season{Summer}, []Occasion{Casual})
	require.Len(t, filtered, 1)
	require.Len(t, filtered[CategoryBottoms], 1)
	assert.Equal(t, "bottom-1", filtered[CategoryBottoms][0].Identity())
}

func TestFilterItemsByStyle(t *testing.T) {
	closet := fallCasualCloset()

	statements := closet.FilterItemsByStyle(StyleStatement)
	require.Len(t, statements, 1)
	assert.Equal(t, "outer-1", statements[CategoryOuterwear][0].Identity())

	basics := closet.FilterItemsByStyle(StyleBasic)
	assert.Len(t, basics, 2)
}

func TestComputeStats(t *testing.T) {
	closet := fallCasualCloset()
	closet.AddItems(
		map[Category][]Item{CategoryShoes: {CatalogItem{ID: "shoes-1"}}},
		map[Category]map[string]TagRecord{
			CategoryShoes: {"shoes-1": basicTag(nil, nil)},
		},
	)

	stats := closet.ComputeStats()
	assert.Equal(t, 4, stats.TotalItems)
	assert.Equal(t, 1, stats.TotalOutfits)
	assert.Equal(t, 3, stats.BySeason[Fall])
	assert.Equal(t, 3, stats.ByOccasion[Casual])
	assert.InDelta(t, 0.25, stats.StatementRate, 1e-9)
	require.Len(t, stats.Untagged[CategoryShoes], 1)
	assert.Equal(t, "shoes-1", stats.Untagged[CategoryShoes][0].Identity())
}
