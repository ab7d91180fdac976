package wardrobe

import (
	"errors"
	"fmt"
)

// Style of a clothing item. Exactly one per item.
type Style string

const (
	StyleBasic     Style = "Basic"
	StyleStatement Style = "Statement"
)

type Season string

const (
	Summer Season = "Summer"
	Fall   Season = "Fall"
	Winter Season = "Winter"
	Spring Season = "Spring"
)

// AllSeasons in canonical order. Overlap results keep this order so that
// serialized outfits are stable across runs.
var AllSeasons = []Season{Summer, Fall, Winter, Spring}

type Occasion string

const (
	Casual    Occasion = "Casual"
	Work      Occasion = "Work"
	DinnerBar Occasion = "Dinner/Bar"
	ClubFancy Occasion = "Club/Fancy"
)

var AllOccasions = []Occasion{Casual, Work, DinnerBar, ClubFancy}

type Category string

const (
	CategoryTops      Category = "tops"
	CategoryBottoms   Category = "bottoms"
	CategoryDresses   Category = "dresses"
	CategoryOuterwear Category = "outerwear"
	CategoryShoes     Category = "shoes"
	CategoryHats      Category = "hats"
	CategoryBags      Category = "bags"
)

// MainCategories form the outfit bodies; AccessoryCategories are attached
// after an outfit is chosen.
var MainCategories = []Category{CategoryTops, CategoryBottoms, CategoryDresses, CategoryOuterwear, CategoryShoes}
var AccessoryCategories = []Category{CategoryHats, CategoryBags}

var AllCategories = append(append([]Category{}, MainCategories...), AccessoryCategories...)

// WeatherType is the closed set of daily weather summaries the planner
// accepts. Values outside this set are a caller bug, not bad user data.
type WeatherType string

const (
	WeatherHot        WeatherType = "Hot"
	WeatherWarm       WeatherType = "Warm"
	WeatherMild       WeatherType = "Mild"
	WeatherChilly     WeatherType = "Chilly"
	WeatherCold       WeatherType = "Cold"
	WeatherReallyCold WeatherType = "Really Cold"
	WeatherRainy      WeatherType = "Rainy"
)

var (
	ErrUnknownWeatherType = errors.New("unknown weather type")
	ErrUnknownOccasion    = errors.New("unknown occasion")
	ErrUnknownCategory    = errors.New("unknown category")
)

var weatherToSeason = map[WeatherType]Season{
	WeatherHot:        Summer,
	WeatherWarm:       Summer,
	WeatherMild:       Spring,
	WeatherChilly:     Fall,
	WeatherRainy:      Fall,
	WeatherCold:       Winter,
	WeatherReallyCold: Winter,
}

// SeasonForWeather maps a daily weather type to the season whose clothes
// suit it. An unknown weather type is a contract violation and fails loudly.
func SeasonForWeather(w WeatherType) (Season, error) {
	season, ok := weatherToSeason[w]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownWeatherType, w)
	}
	return season, nil
}

func ValidOccasion(o Occasion) bool {
	for _, known := range AllOccasions {
		if o == known {
			return true
		}
	}
	return false
}

func ValidCategory(c Category) bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// TagRecord holds the three tag dimensions of one item. A missing dimension
// behaves as an empty set, so an untagged item never matches anything.
type TagRecord struct {
	Style     Style      `json:"style"`
	Seasons   []Season   `json:"season"`
	Occasions []Occasion `json:"occasion"`
}

func (t TagRecord) HasSeason(s Season) bool {
	for _, have := range t.Seasons {
		if have == s {
			return true
		}
	}
	return false
}

func (t TagRecord) HasOccasion(o Occasion) bool {
	for _, have := range t.Occasions {
		if have == o {
			return true
		}
	}
	return false
}

func (t TagRecord) HasAnySeason(seasons []Season) bool {
	for _, s := range seasons {
		if t.HasSeason(s) {
			return true
		}
	}
	return false
}

func (t TagRecord) HasAnyOccasion(occasions []Occasion) bool {
	for _, o := range occasions {
		if t.HasOccasion(o) {
			return true
		}
	}
	return false
}

// SeasonOverlap returns the seasons shared by every record, in AllSeasons
// order. An empty record list yields an empty overlap.
func SeasonOverlap(records []TagRecord) []Season {
	if len(records) == 0 {
		return nil
	}
	var overlap []Season
	for _, season := range AllSeasons {
		shared := true
		for _, record := range records {
			if !record.HasSeason(season) {
				shared = false
				break
			}
		}
		if shared {
			overlap = append(overlap, season)
		}
	}
	return overlap
}

// OccasionOverlap returns the occasions shared by every record, in
// AllOccasions order.
func OccasionOverlap(records []TagRecord) []Occasion {
	if len(records) == 0 {
		return nil
	}
	var overlap []Occasion
	for _, occasion := range AllOccasions {
		shared := true
		for _, record := range records {
			if !record.HasOccasion(occasion) {
				shared = false
				break
			}
		}
		if shared {
			overlap = append(overlap, occasion)
		}
	}
	return overlap
}

func statementCount(records []TagRecord) int {
	count := 0
	for _, record := range records {
		if record.Style == StyleStatement {
			count++
		}
	}
	return count
}
