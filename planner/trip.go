package planner

import (
	"fmt"
	"strings"
	"time"

	"aistheticapi/wardrobe"
)

// ErrNoEligibleOutfits means the catalog cannot cover a season the trip's
// weather implies. It is returned before any day is planned so a caller
// never receives a plan with silently missing days.
var ErrNoEligibleOutfits = fmt.Errorf("planner: no eligible outfits")

// Plan is the result of one trip-planning run for a single occasion.
// Dates and Outfits always have the same length; skipped non-work days
// simply do not appear.
type Plan struct {
	Occasion wardrobe.Occasion
	Dates    []time.Time
	Outfits  []map[wardrobe.Category]wardrobe.Item
}

// TripRequest carries everything one planning run needs. Weather aligns
// one-to-one with Dates.
type TripRequest struct {
	Occasion           wardrobe.Occasion
	Dates              []time.Time
	Weather            []wardrobe.WeatherType
	WorkDays           []time.Weekday
	Amount             PackingAmount
	IncludeAccessories bool
}

// DateRange expands an inclusive start/end pair into consecutive days.
// An end before start yields nil.
func DateRange(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// PlanOutfits walks the trip day by day with a fresh RecencyTracker. For a
// Work occasion, dates outside WorkDays are skipped without an entry. Every
// planned day picks via ChooseOutfit and records the pick so the next day's
// selection sees it.
//
// Before planning it checks that every season implied by the weather
// sequence has at least one eligible outfit for the occasion, and returns
// ErrNoEligibleOutfits naming the uncovered seasons otherwise.
func (e *Engine) PlanOutfits(closet *wardrobe.Closet, req TripRequest) (*Plan, error) {
	if len(req.Dates) != len(req.Weather) {
		return nil, fmt.Errorf("planner: %d dates but %d weather entries", len(req.Dates), len(req.Weather))
	}
	if !wardrobe.ValidOccasion(req.Occasion) {
		return nil, fmt.Errorf("%w: %q", wardrobe.ErrUnknownOccasion, req.Occasion)
	}

	seasons, err := impliedSeasons(req.Weather)
	if err != nil {
		return nil, err
	}
	if missing := uncoveredSeasons(closet, seasons, req.Occasion); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, season := range missing {
			names[i] = string(season)
		}
		return nil, fmt.Errorf("%w for occasion %q in seasons: %s",
			ErrNoEligibleOutfits, req.Occasion, strings.Join(names, ", "))
	}

	cadences, err := Cadences(req.Amount)
	if err != nil {
		return nil, err
	}
	tracker := NewRecencyTracker(cadences)

	workDays := make(map[time.Weekday]bool, len(req.WorkDays))
	for _, day := range req.WorkDays {
		workDays[day] = true
	}

	plan := &Plan{Occasion: req.Occasion}
	for i, date := range req.Dates {
		if req.Occasion == wardrobe.Work && !workDays[date.Weekday()] {
			continue
		}
		outfit, err := e.ChooseOutfit(closet, req.Weather[i], req.Occasion, req.IncludeAccessories, tracker)
		if err != nil {
			return nil, err
		}
		plan.Dates = append(plan.Dates, date)
		plan.Outfits = append(plan.Outfits, outfit)
		tracker.Record(outfit)
	}
	return plan, nil
}

// PlanAll runs one independent plan per occasion. Each plan gets its own
// tracker, so a top worn on a Work day stays available for Casual the same
// week.
func (e *Engine) PlanAll(closet *wardrobe.Closet, req TripRequest, occasions []wardrobe.Occasion) (map[wardrobe.Occasion]*Plan, error) {
	plans := make(map[wardrobe.Occasion]*Plan, len(occasions))
	for _, occasion := range occasions {
		occReq := req
		occReq.Occasion = occasion
		plan, err := e.PlanOutfits(closet, occReq)
		if err != nil {
			return nil, err
		}
		plans[occasion] = plan
	}
	return plans, nil
}

func impliedSeasons(weather []wardrobe.WeatherType) ([]wardrobe.Season, error) {
	seen := make(map[wardrobe.Season]bool)
	for _, w := range weather {
		season, err := wardrobe.SeasonForWeather(w)
		if err != nil {
			return nil, err
		}
		seen[season] = true
	}
	var seasons []wardrobe.Season
	for _, season := range wardrobe.AllSeasons {
		if seen[season] {
			seasons = append(seasons, season)
		}
	}
	return seasons, nil
}

func uncoveredSeasons(closet *wardrobe.Closet, seasons []wardrobe.Season, occasion wardrobe.Occasion) []wardrobe.Season {
	var missing []wardrobe.Season
	for _, season := range seasons {
		eligible := closet.FilterOutfits([]wardrobe.Season{season}, []wardrobe.Occasion{occasion})
		if len(eligible) == 0 {
			missing = append(missing, season)
		}
	}
	return missing
}
