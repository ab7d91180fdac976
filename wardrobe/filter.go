package wardrobe

// FilterItemsByTag returns, per category, the items whose tag record holds
// at least one of the requested seasons and at least one of the requested
// occasions. An empty seasons or occasions slice means "any" for that
// dimension. Categories that end up empty are omitted from the result.
func (c *Closet) FilterItemsByTag(categories []Category, seasons []Season, occasions []Occasion) map[Category][]Item {
	if len(categories) == 0 {
		categories = AllCategories
	}
	result := make(map[Category][]Item)
	for _, cat := range categories {
		for _, item := range c.Items[cat] {
			record := c.TagFor(cat, item)
			if len(seasons) > 0 && !record.HasAnySeason(seasons) {
				continue
			}
			if len(occasions) > 0 && !record.HasAnyOccasion(occasions) {
				continue
			}
			result[cat] = append(result[cat], item)
		}
	}
	return result
}

// FilterItemsByStyle keeps only items of the given style, preserving the
// per-category grouping.
func (c *Closet) FilterItemsByStyle(style Style) map[Category][]Item {
	result := make(map[Category][]Item)
	for cat, catItems := range c.Items {
		for _, item := range catItems {
			if c.TagFor(cat, item).Style == style {
				result[cat] = append(result[cat], item)
			}
		}
	}
	return result
}

// FilterOutfits returns the outfits wearable under every requested season
// and occasion. Within a dimension the outfit needs any one of the values;
// across dimensions both constraints must hold. Empty slices mean "any".
func (c *Closet) FilterOutfits(seasons []Season, occasions []Occasion) []Outfit {
	var matched []Outfit
	for _, outfit := range c.Outfits {
		if outfit.matchesTags(seasons, occasions) {
			matched = append(matched, outfit)
		}
	}
	return matched
}
