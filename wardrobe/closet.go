package wardrobe

// Closet owns the tagged catalog and the derived outfit set. Outfits are
// generated once at construction and kept in sync by AddItems/RemoveItem;
// nothing else mutates them.
//
// Generation enumerates the full cartesian product of the category lists
// for each outfit shape, so it is O(dresses*outerwear) +
// O(tops*bottoms*outerwear). That blow-up is deliberate: personal wardrobes
// hold tens to low hundreds of items per category and the brute-force
// enumeration is the behavior being promised, not an implementation detail.
// Do not swap in pruning heuristics here without changing the contract.
type Closet struct {
	Items   map[Category][]Item
	Tags    map[Category]map[string]TagRecord
	Outfits []Outfit
}

// NewCloset builds the closet and generates every valid outfit from the
// given catalog. Tags for unknown items are ignored; items without a tag
// record behave as untagged and never match.
func NewCloset(items map[Category][]Item, tags map[Category]map[string]TagRecord) *Closet {
	c := &Closet{
		Items: make(map[Category][]Item, len(items)),
		Tags:  make(map[Category]map[string]TagRecord, len(tags)),
	}
	for cat, catItems := range items {
		c.Items[cat] = append([]Item{}, catItems...)
	}
	for cat, catTags := range tags {
		copied := make(map[string]TagRecord, len(catTags))
		for identity, record := range catTags {
			copied[identity] = record
		}
		c.Tags[cat] = copied
	}
	c.Outfits = c.generateOutfits(nil)
	return c
}

// LoadCloset restores a closet from an already generated outfit list, e.g.
// a persisted catalog. No regeneration happens; the caller vouches that the
// outfits belong to the items.
func LoadCloset(items map[Category][]Item, tags map[Category]map[string]TagRecord, outfits []Outfit) *Closet {
	c := NewCloset(map[Category][]Item{}, nil)
	for cat, catItems := range items {
		c.Items[cat] = append([]Item{}, catItems...)
	}
	for cat, catTags := range tags {
		copied := make(map[string]TagRecord, len(catTags))
		for identity, record := range catTags {
			copied[identity] = record
		}
		c.Tags[cat] = copied
	}
	c.Outfits = append([]Outfit{}, outfits...)
	return c
}

// TagFor returns the tag record for an item, or a zero record when the item
// was never tagged.
func (c *Closet) TagFor(cat Category, item Item) TagRecord {
	catTags, ok := c.Tags[cat]
	if !ok {
		return TagRecord{}
	}
	return catTags[item.Identity()]
}

type outfitMember struct {
	cat  Category
	item Item
}

// buildOutfit applies the three-part match rule to one candidate
// combination. The rule is a hard filter: non-empty season overlap,
// non-empty occasion overlap, at most one Statement piece.
func (c *Closet) buildOutfit(members []outfitMember) (Outfit, bool) {
	records := make([]TagRecord, len(members))
	for i, m := range members {
		records[i] = c.TagFor(m.cat, m.item)
	}
	seasons := SeasonOverlap(records)
	if len(seasons) == 0 {
		return Outfit{}, false
	}
	occasions := OccasionOverlap(records)
	if len(occasions) == 0 {
		return Outfit{}, false
	}
	statements := statementCount(records)
	if statements > 1 {
		return Outfit{}, false
	}
	items := make(map[Category]Item, len(members))
	for _, m := range members {
		items[m.cat] = m.item
	}
	return Outfit{
		Items:     items,
		Seasons:   seasons,
		Occasions: occasions,
		Statement: statements > 0,
	}, true
}

// generateOutfits enumerates both outfit shapes. When onlyNew is non-nil,
// combinations made entirely of old items are skipped; this is the
// incremental path used by AddItems and it must produce exactly the outfits
// a full regeneration would add.
func (c *Closet) generateOutfits(onlyNew map[string]bool) []Outfit {
	isNew := func(item Item) bool {
		return onlyNew == nil || onlyNew[item.Identity()]
	}
	anyNew := func(members ...Item) bool {
		if onlyNew == nil {
			return true
		}
		for _, m := range members {
			if isNew(m) {
				return true
			}
		}
		return false
	}

	var outfits []Outfit

	for _, dress := range c.Items[CategoryDresses] {
		for _, outer := range c.Items[CategoryOuterwear] {
			if !anyNew(dress, outer) {
				continue
			}
			outfit, ok := c.buildOutfit([]outfitMember{
				{CategoryDresses, dress},
				{CategoryOuterwear, outer},
			})
			if ok {
				outfits = append(outfits, outfit)
			}
		}
	}

	for _, top := range c.Items[CategoryTops] {
		for _, bottom := range c.Items[CategoryBottoms] {
			for _, outer := range c.Items[CategoryOuterwear] {
				if !anyNew(top, bottom, outer) {
					continue
				}
				outfit, ok := c.buildOutfit([]outfitMember{
					{CategoryTops, top},
					{CategoryBottoms, bottom},
					{CategoryOuterwear, outer},
				})
				if ok {
					outfits = append(outfits, outfit)
				}
			}
		}
	}

	return outfits
}

// AddItems appends new items with their tags and extends the outfit set
// with every valid combination that includes at least one of them,
// including combinations of several new items. Existing outfits are kept
// as-is, never re-derived.
func (c *Closet) AddItems(items map[Category][]Item, tags map[Category]map[string]TagRecord) {
	newIdentities := make(map[string]bool)
	for cat, catItems := range items {
		for _, item := range catItems {
			c.Items[cat] = append(c.Items[cat], item)
			newIdentities[item.Identity()] = true
		}
	}
	for cat, catTags := range tags {
		if c.Tags[cat] == nil {
			c.Tags[cat] = make(map[string]TagRecord, len(catTags))
		}
		for identity, record := range catTags {
			c.Tags[cat][identity] = record
		}
	}
	c.Outfits = append(c.Outfits, c.generateOutfits(newIdentities)...)
}

// RemoveItem deletes the item from the catalog and cascades: every outfit
// referencing it is dropped in the same operation. Leaving a dangling
// outfit reference would be a data integrity bug, so there is no soft
// delete here.
func (c *Closet) RemoveItem(cat Category, item Item) {
	identity := item.Identity()

	kept := c.Items[cat][:0]
	for _, existing := range c.Items[cat] {
		if !sameItem(existing, item) {
			kept = append(kept, existing)
		}
	}
	c.Items[cat] = kept

	if catTags, ok := c.Tags[cat]; ok {
		delete(catTags, identity)
	}

	keptOutfits := c.Outfits[:0]
	for _, outfit := range c.Outfits {
		if !outfit.Includes(identity) {
			keptOutfits = append(keptOutfits, outfit)
		}
	}
	c.Outfits = keptOutfits
}

// TotalItems counts every catalogued garment across categories.
func (c *Closet) TotalItems() int {
	total := 0
	for _, catItems := range c.Items {
		total += len(catItems)
	}
	return total
}
