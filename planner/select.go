package planner

import (
	"fmt"
	"math/rand"
	"time"

	"aistheticapi/wardrobe"
)

// StatementPolicy controls when accessory candidates are restricted to
// Basic style.
type StatementPolicy int

const (
	// StatementBaseOnly restricts accessories to Basic only when the base
	// outfit already carries a Statement piece.
	StatementBaseOnly StatementPolicy = iota
	// StatementPerAccessory restricts accessories to Basic unconditionally.
	StatementPerAccessory
)

// Engine picks outfits from a generated closet. It is stateless between
// calls apart from its random source; recency lives in the caller's
// RecencyTracker.
type Engine struct {
	rng    *rand.Rand
	policy StatementPolicy
}

// NewEngine returns an engine with a time-seeded random source and the
// StatementBaseOnly policy.
func NewEngine() *Engine {
	return NewEngineWith(rand.New(rand.NewSource(time.Now().UnixNano())), StatementBaseOnly)
}

// NewEngineWith injects the random source and policy, mainly for tests and
// for callers that want deterministic plans.
func NewEngineWith(rng *rand.Rand, policy StatementPolicy) *Engine {
	return &Engine{rng: rng, policy: policy}
}

// ChooseOutfit picks one outfit for the given weather and occasion,
// avoiding recently worn items where possible and attaching matching
// accessories. Shoes are always considered; hats and bags only when
// includeAccessories is set.
//
// A nil map with a nil error means no eligible outfit exists, which is a
// normal outcome. Errors are reserved for contract violations: an unknown
// weather type or occasion.
//
// The tracker is read, never written; recording the choice is the
// caller's move so a rejected suggestion costs nothing.
func (e *Engine) ChooseOutfit(
	closet *wardrobe.Closet,
	weather wardrobe.WeatherType,
	occasion wardrobe.Occasion,
	includeAccessories bool,
	tracker *RecencyTracker,
) (map[wardrobe.Category]wardrobe.Item, error) {
	season, err := wardrobe.SeasonForWeather(weather)
	if err != nil {
		return nil, err
	}
	if !wardrobe.ValidOccasion(occasion) {
		return nil, fmt.Errorf("%w: %q", wardrobe.ErrUnknownOccasion, occasion)
	}

	eligible := closet.FilterOutfits([]wardrobe.Season{season}, []wardrobe.Occasion{occasion})
	if len(eligible) == 0 {
		return nil, nil
	}

	recent := map[wardrobe.Category][]string{}
	if tracker != nil {
		recent = tracker.snapshot()
	}
	pool := nonRecentPool(eligible, recent)

	choice := pool[e.rng.Intn(len(pool))]
	pieces := choice.Pieces()

	accessoryCats := []wardrobe.Category{wardrobe.CategoryShoes}
	if includeAccessories {
		accessoryCats = append(accessoryCats, wardrobe.AccessoryCategories...)
	}
	basicOnly := e.policy == StatementPerAccessory ||
		(e.policy == StatementBaseOnly && choice.Statement)
	for _, cat := range accessoryCats {
		if item, ok := e.pickAccessory(closet, cat, season, occasion, basicOnly); ok {
			pieces[cat] = item
		}
	}

	return pieces, nil
}

// pickAccessory draws one matching item for the category, or reports that
// none fit. Missing candidates just omit the category.
func (e *Engine) pickAccessory(
	closet *wardrobe.Closet,
	cat wardrobe.Category,
	season wardrobe.Season,
	occasion wardrobe.Occasion,
	basicOnly bool,
) (wardrobe.Item, bool) {
	var candidates []wardrobe.Item
	for _, item := range closet.Items[cat] {
		record := closet.TagFor(cat, item)
		if !record.HasSeason(season) || !record.HasOccasion(occasion) {
			continue
		}
		if basicOnly && record.Style == wardrobe.StyleStatement {
			continue
		}
		candidates = append(candidates, item)
	}
	if len(candidates) == 0 {
		return nil, false
	}
	return candidates[e.rng.Intn(len(candidates))], true
}

// blockedCategories lists the outfit's categories whose member item sits in
// the recent lists. Empty means the outfit is wearable as-is.
func blockedCategories(outfit wardrobe.Outfit, recent map[wardrobe.Category][]string) []wardrobe.Category {
	var blocked []wardrobe.Category
	for cat, item := range outfit.Items {
		for _, identity := range recent[cat] {
			if identity == item.Identity() {
				blocked = append(blocked, cat)
				break
			}
		}
	}
	return blocked
}

// nonRecentPool filters eligible outfits against the recent lists. When
// every outfit is blocked it relaxes the lists one slot at a time: the
// categories blocking every single option each lose their oldest entry,
// then the filter runs again. Only blocking categories are loosened, so
// recency in the other categories keeps holding.
//
// Each pass removes at least one entry, which bounds the loop by the total
// entry count; the final pass runs against empty lists and returns all of
// eligible. Callers must pass a non-empty eligible slice.
func nonRecentPool(eligible []wardrobe.Outfit, recent map[wardrobe.Category][]string) []wardrobe.Outfit {
	for {
		var pool []wardrobe.Outfit
		var blocking [][]wardrobe.Category
		for _, outfit := range eligible {
			cats := blockedCategories(outfit, recent)
			if len(cats) == 0 {
				pool = append(pool, outfit)
			} else {
				blocking = append(blocking, cats)
			}
		}
		if len(pool) > 0 || len(blocking) == 0 {
			return pool
		}

		drop := intersectCategories(blocking)
		if len(drop) == 0 {
			// A cycle of outfits blocked in disjoint categories has an
			// empty intersection; widen to the union so progress is still
			// guaranteed.
			drop = unionCategories(blocking)
		}
		for _, cat := range drop {
			entries := recent[cat]
			if len(entries) == 0 {
				continue
			}
			entries = entries[:len(entries)-1]
			if len(entries) == 0 {
				delete(recent, cat)
			} else {
				recent[cat] = entries
			}
		}
	}
}

func intersectCategories(sets [][]wardrobe.Category) []wardrobe.Category {
	if len(sets) == 0 {
		return nil
	}
	counts := make(map[wardrobe.Category]int)
	for _, set := range sets {
		seen := make(map[wardrobe.Category]bool, len(set))
		for _, cat := range set {
			if !seen[cat] {
				seen[cat] = true
				counts[cat]++
			}
		}
	}
	var common []wardrobe.Category
	for _, cat := range wardrobe.AllCategories {
		if counts[cat] == len(sets) {
			common = append(common, cat)
		}
	}
	return common
}

func unionCategories(sets [][]wardrobe.Category) []wardrobe.Category {
	seen := make(map[wardrobe.Category]bool)
	for _, set := range sets {
		for _, cat := range set {
			seen[cat] = true
		}
	}
	var all []wardrobe.Category
	for _, cat := range wardrobe.AllCategories {
		if seen[cat] {
			all = append(all, cat)
		}
	}
	return all
}
