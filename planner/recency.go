package planner

import (
	"fmt"

	"aistheticapi/wardrobe"
)

// PackingAmount is how much of the closet a trip can draw from. Smaller
// luggage forces earlier repeats, so it maps to smaller recency windows.
type PackingAmount string

const (
	PackSmallCarryOn   PackingAmount = "small carry-on suitcase"
	PackMediumSuitcase PackingAmount = "medium suitcase"
	PackLargeSuitcase  PackingAmount = "large suitcase"
	PackEntireCloset   PackingAmount = "entire closet"
)

// ErrUnknownPackingAmount reports a packing amount outside the closed set.
var ErrUnknownPackingAmount = fmt.Errorf("planner: unknown packing amount")

var (
	highCadences = map[wardrobe.Category]int{
		wardrobe.CategoryTops:      4,
		wardrobe.CategoryBottoms:   4,
		wardrobe.CategoryDresses:   4,
		wardrobe.CategoryOuterwear: 0,
	}
	medCadences = map[wardrobe.Category]int{
		wardrobe.CategoryTops:      5,
		wardrobe.CategoryBottoms:   5,
		wardrobe.CategoryDresses:   6,
		wardrobe.CategoryOuterwear: 1,
	}
	lowCadences = map[wardrobe.Category]int{
		wardrobe.CategoryTops:      6,
		wardrobe.CategoryBottoms:   6,
		wardrobe.CategoryDresses:   9,
		wardrobe.CategoryOuterwear: 3,
	}
)

// Cadences returns the per-category recency window for a packing amount. A
// cadence of N means an item of that category stays blocked for the next N
// selections; 0 means the category repeats freely.
func Cadences(amount PackingAmount) (map[wardrobe.Category]int, error) {
	var table map[wardrobe.Category]int
	switch amount {
	case PackSmallCarryOn:
		table = highCadences
	case PackMediumSuitcase, PackLargeSuitcase:
		table = medCadences
	case PackEntireCloset:
		table = lowCadences
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPackingAmount, amount)
	}
	copied := make(map[wardrobe.Category]int, len(table))
	for cat, cadence := range table {
		copied[cat] = cadence
	}
	return copied, nil
}

// RecencyTracker holds, per category, the identities of the most recently
// chosen items, newest first, capped at the category's cadence. It lives
// for exactly one planning session and must not be shared between
// concurrent selections.
type RecencyTracker struct {
	cadences map[wardrobe.Category]int
	recent   map[wardrobe.Category][]string
}

// NewRecencyTracker starts an empty tracker over the given cadences.
// Categories absent from the table are never tracked.
func NewRecencyTracker(cadences map[wardrobe.Category]int) *RecencyTracker {
	t := &RecencyTracker{
		cadences: make(map[wardrobe.Category]int, len(cadences)),
		recent:   make(map[wardrobe.Category][]string),
	}
	for cat, cadence := range cadences {
		t.cadences[cat] = cadence
	}
	return t
}

// Record pushes each tracked category's item to the front of its recency
// list and truncates to the cadence.
func (t *RecencyTracker) Record(outfit map[wardrobe.Category]wardrobe.Item) {
	for cat, cadence := range t.cadences {
		item, ok := outfit[cat]
		if !ok {
			continue
		}
		updated := append([]string{item.Identity()}, t.recent[cat]...)
		if len(updated) > cadence {
			updated = updated[:cadence]
		}
		if len(updated) == 0 {
			delete(t.recent, cat)
			continue
		}
		t.recent[cat] = updated
	}
}

// Recent returns the identities currently blocked for a category, newest
// first.
func (t *RecencyTracker) Recent(cat wardrobe.Category) []string {
	return append([]string{}, t.recent[cat]...)
}

// snapshot copies the recency lists so relaxation can loosen them without
// touching the tracker itself.
func (t *RecencyTracker) snapshot() map[wardrobe.Category][]string {
	copied := make(map[wardrobe.Category][]string, len(t.recent))
	for cat, identities := range t.recent {
		if len(identities) == 0 {
			continue
		}
		copied[cat] = append([]string{}, identities...)
	}
	return copied
}
