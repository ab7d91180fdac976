package wardrobe

import "strings"

// Filename tag markers used by catalogs imported from the legacy desktop
// tool, which encoded tags straight into image filenames:
//
//	bas_ / st_            style
//	su_ fa_ wi_ sp_       seasons
//	ca_ wo_ bar_ f_       occasions
//
// Example: "st_su_sp_ca_bar_floral_skirt.jpg".
var (
	filenameSeasonMarkers = map[string]Season{
		"su_": Summer,
		"fa_": Fall,
		"wi_": Winter,
		"sp_": Spring,
	}
	filenameOccasionMarkers = map[string]Occasion{
		"ca_":  Casual,
		"wo_":  Work,
		"bar_": DinnerBar,
		"f_":   ClubFancy,
	}
)

// ParseFilenameTags recovers a tag record from a legacy marker-encoded
// filename. Markers may appear anywhere in the name; a missing style
// marker defaults to Basic, and absent season or occasion markers simply
// leave that list empty. Season and occasion lists come back in canonical
// order regardless of marker position.
func ParseFilenameTags(filename string) TagRecord {
	record := TagRecord{Style: StyleBasic}
	if strings.Contains(filename, "st_") {
		record.Style = StyleStatement
	}
	for _, season := range AllSeasons {
		for marker, s := range filenameSeasonMarkers {
			if s == season && strings.Contains(filename, marker) {
				record.Seasons = append(record.Seasons, season)
			}
		}
	}
	for _, occasion := range AllOccasions {
		for marker, o := range filenameOccasionMarkers {
			if o == occasion && strings.Contains(filename, marker) {
				record.Occasions = append(record.Occasions, occasion)
			}
		}
	}
	return record
}
