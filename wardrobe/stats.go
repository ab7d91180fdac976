package wardrobe

// Stats summarizes catalog coverage. Counts are derived on demand; the
// struct is a snapshot, not a live view.
type Stats struct {
	TotalItems    int                `json:"total_items"`
	TotalOutfits  int                `json:"total_outfits"`
	ByCategory    map[Category]int   `json:"by_category"`
	BySeason      map[Season]int     `json:"by_season"`
	ByOccasion    map[Occasion]int   `json:"by_occasion"`
	StatementRate float64            `json:"statement_rate"`
	Untagged      map[Category][]Item `json:"-"`
}

// ComputeStats walks the catalog once. An item counts toward every season
// and occasion it is tagged with; items with neither season nor occasion
// tags are reported as untagged since generation can never use them.
func (c *Closet) ComputeStats() Stats {
	stats := Stats{
		TotalItems:   c.TotalItems(),
		TotalOutfits: len(c.Outfits),
		ByCategory:   make(map[Category]int),
		BySeason:     make(map[Season]int),
		ByOccasion:   make(map[Occasion]int),
		Untagged:     make(map[Category][]Item),
	}
	statement := 0
	for _, cat := range AllCategories {
		catItems := c.Items[cat]
		if len(catItems) > 0 {
			stats.ByCategory[cat] = len(catItems)
		}
		for _, item := range catItems {
			record := c.TagFor(cat, item)
			for _, season := range record.Seasons {
				stats.BySeason[season]++
			}
			for _, occasion := range record.Occasions {
				stats.ByOccasion[occasion]++
			}
			if record.Style == StyleStatement {
				statement++
			}
			if len(record.Seasons) == 0 && len(record.Occasions) == 0 {
				stats.Untagged[cat] = append(stats.Untagged[cat], item)
			}
		}
	}
	if stats.TotalItems > 0 {
		stats.StatementRate = float64(statement) / float64(stats.TotalItems)
	}
	return stats
}
