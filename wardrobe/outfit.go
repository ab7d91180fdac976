package wardrobe

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Outfit is one valid combination of garments: either a one-piece
// {dress, outerwear} or a two-piece {top, bottom, outerwear}. The tag
// overlaps and the statement flag are computed once at creation; outfits
// are never mutated afterwards, only dropped wholesale when a member item
// is deleted.
type Outfit struct {
	Items     map[Category]Item
	Seasons   []Season
	Occasions []Occasion
	Statement bool
}

// Includes reports whether the outfit references the given item identity in
// any category.
func (o Outfit) Includes(identity string) bool {
	for _, item := range o.Items {
		if item.Identity() == identity {
			return true
		}
	}
	return false
}

// matchesTags needs any one of the requested seasons and any one of the
// requested occasions. An empty request list places no constraint on that
// dimension.
func (o Outfit) matchesTags(seasons []Season, occasions []Occasion) bool {
	if len(seasons) > 0 {
		hit := false
		for _, s := range seasons {
			for _, have := range o.Seasons {
				if s == have {
					hit = true
				}
			}
		}
		if !hit {
			return false
		}
	}
	if len(occasions) == 0 {
		return true
	}
	for _, oc := range occasions {
		for _, have := range o.Occasions {
			if oc == have {
				return true
			}
		}
	}
	return false
}

// Pieces returns a copy of the category to item mapping, without the tag
// metadata. This is the shape handed to callers after selection.
func (o Outfit) Pieces() map[Category]Item {
	pieces := make(map[Category]Item, len(o.Items))
	for cat, item := range o.Items {
		pieces[cat] = item
	}
	return pieces
}

type outfitTagsJSON struct {
	Season      []Season   `json:"season"`
	Occasion    []Occasion `json:"occasion"`
	IsStatement bool       `json:"is_statement"`
}

// MarshalJSON writes the persisted catalog layout:
// {"<category>": ref, ..., "tags": {"season": [...], "occasion": [...], "is_statement": bool}}
func (o Outfit) MarshalJSON() ([]byte, error) {
	record := make(map[string]interface{}, len(o.Items)+1)
	for cat, item := range o.Items {
		record[string(cat)] = item.DisplayRef()
	}
	record["tags"] = outfitTagsJSON{
		Season:      o.Seasons,
		Occasion:    o.Occasions,
		IsStatement: o.Statement,
	}
	return json.Marshal(record)
}

// UnmarshalJSON restores an outfit from the persisted layout. Loaded items
// carry their display reference as identity, so a saved catalog round-trips
// without regeneration.
func (o *Outfit) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	items := make(map[Category]Item)
	for key, value := range raw {
		if key == "tags" {
			var tags outfitTagsJSON
			if err := json.Unmarshal(value, &tags); err != nil {
				return fmt.Errorf("outfit tags: %w", err)
			}
			o.Seasons = tags.Season
			o.Occasions = tags.Occasion
			o.Statement = tags.IsStatement
			continue
		}
		cat := Category(key)
		if !ValidCategory(cat) {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, key)
		}
		var ref string
		if err := json.Unmarshal(value, &ref); err != nil {
			return fmt.Errorf("outfit item %q: %w", key, err)
		}
		items[cat] = ItemFromRef(ref)
	}
	o.Items = items
	return nil
}

// sortedCategories is used by tests and debug prints to iterate outfit
// members deterministically.
func (o Outfit) sortedCategories() []Category {
	cats := make([]Category, 0, len(o.Items))
	for cat := range o.Items {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}
