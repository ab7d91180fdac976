package models

import (
	"strconv"
	"time"

	"github.com/lib/pq"

	"aistheticapi/wardrobe"
)

type ClothingItem struct {
	JsonModel
	Name     string      `json:"name"`
	Category string      `json:"category"` // tops, bottoms, dresses, outerwear, shoes, hats, bags
	Owner    UserAccount `json:"-"`
	OwnerID  uint        `json:"-"`

	Style     string         `json:"style"` // Basic, Statement
	Seasons   pq.StringArray `gorm:"type:text[]" json:"seasons"`
	Occasions pq.StringArray `gorm:"type:text[]" json:"occasions"`
	// manual, filename, suggested
	TagSource string `json:"tag_source"`

	Status              string  `json:"status"`            // temporary, in_closet
	ImageStatus         string  `json:"image_status"`      // draft, uploaded
	ProcessingStatus    string  `json:"processing_status"` // idle, suggesting, completed, failed
	ProcessRetryTimes   int     `json:"process_retry_times"`
	ProcessErrorMessage *string `json:"process_error_message"`
	ImageURL            *string `json:"image_url"`
}

// Identity and DisplayRef let a stored row participate in outfit
// generation directly.
func (ci ClothingItem) Identity() string {
	return strconv.FormatUint(uint64(ci.ID), 10)
}

func (ci ClothingItem) DisplayRef() string {
	if ci.ImageURL != nil && *ci.ImageURL != "" {
		return *ci.ImageURL
	}
	return ci.Name
}

func (ci ClothingItem) TagRecord() wardrobe.TagRecord {
	record := wardrobe.TagRecord{Style: wardrobe.Style(ci.Style)}
	for _, s := range ci.Seasons {
		record.Seasons = append(record.Seasons, wardrobe.Season(s))
	}
	for _, o := range ci.Occasions {
		record.Occasions = append(record.Occasions, wardrobe.Occasion(o))
	}
	return record
}

// BuildCloset groups stored rows by category and runs outfit generation
// over them. Rows with an unknown category are skipped rather than
// poisoning the whole closet.
func BuildCloset(rows []ClothingItem) *wardrobe.Closet {
	items := make(map[wardrobe.Category][]wardrobe.Item)
	tags := make(map[wardrobe.Category]map[string]wardrobe.TagRecord)
	for _, row := range rows {
		cat := wardrobe.Category(row.Category)
		if !wardrobe.ValidCategory(cat) {
			continue
		}
		items[cat] = append(items[cat], row)
		if tags[cat] == nil {
			tags[cat] = make(map[string]wardrobe.TagRecord)
		}
		tags[cat][row.Identity()] = row.TagRecord()
	}
	return wardrobe.NewCloset(items, tags)
}

type OutfitPlanRecord struct {
	JsonModel
	Owner     UserAccount `json:"-"`
	OwnerID   uint        `json:"-"`
	Occasion  string      `json:"occasion"`
	City      string      `json:"city"`
	StartDate time.Time   `json:"start_date"`
	EndDate   time.Time   `json:"end_date"`
	Amount    string      `json:"amount"`
	// serialized {dates: [...], outfits: [...]} payload
	PlanJSON string `gorm:"type:text" json:"plan"`
}

// --- closet endpoint payloads

type CreateItemIn struct {
	Name      string   `json:"name" validate:"omitempty,max=300"`
	Category  string   `json:"category" validate:"required"`
	FileName  *string  `json:"file_name"`
	Style     string   `json:"style"`
	Seasons   []string `json:"seasons"`
	Occasions []string `json:"occasions"`
}

type ItemTagsIn struct {
	Style     string   `json:"style" validate:"required"`
	Seasons   []string `json:"seasons" validate:"required"`
	Occasions []string `json:"occasions" validate:"required"`
}

type LegacyImportIn struct {
	// category -> marker-encoded filenames
	Files map[string][]string `json:"files" validate:"required"`
}

type ItemOut struct {
	Id        uint     `json:"id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Style     string   `json:"style"`
	Seasons   []string `json:"seasons"`
	Occasions []string `json:"occasions"`
	TagSource string   `json:"tag_source"`
	ImageURL  *string  `json:"image_url"`
	UploadURL *string  `json:"upload_url,omitempty"`
}

type OutfitOut struct {
	Items       map[string]string `json:"items"` // category -> display ref
	Seasons     []string          `json:"seasons"`
	Occasions   []string          `json:"occasions"`
	IsStatement bool              `json:"is_statement"`
}

// --- planner endpoint payloads

type ChooseOutfitIn struct {
	WeatherType        string `json:"weather_type" validate:"required"`
	Occasion           string `json:"occasion" validate:"required"`
	IncludeAccessories bool   `json:"include_accessories"`
}

type TripPlanIn struct {
	Occasions          []string `json:"occasions" validate:"required,min=1"`
	StartDate          string   `json:"start_date" validate:"required"`
	EndDate            string   `json:"end_date" validate:"required"`
	City               string   `json:"city"`
	Latitude           float64  `json:"latitude"`
	Longitude          float64  `json:"longitude"`
	Amount             string   `json:"amount" validate:"required"`
	WorkDays           []string `json:"work_days"`
	IncludeAccessories bool     `json:"include_accessories"`
	Save               bool     `json:"save"`
}

type DayOutfitOut struct {
	Date   string            `json:"date"`
	Outfit map[string]string `json:"outfit"`
}

type PlanOut struct {
	Occasion string         `json:"occasion"`
	Days     []DayOutfitOut `json:"days"`
}
