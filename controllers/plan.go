package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"aistheticapi/models"
	"aistheticapi/planner"
	"aistheticapi/services"
	"aistheticapi/wardrobe"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type ChosenOutfitResponse struct {
	Outfit map[string]string `json:"outfit"`
	Empty  bool              `json:"empty"`
}

type TripPlanResponse struct {
	City    string           `json:"city"`
	Weather []string         `json:"weather"`
	Plans   []models.PlanOut `json:"plans"`
	PlanId  *uint            `json:"plan_id,omitempty"`
}

type PlanController struct {
	Weather services.WeatherServiceProvider
}

func (controller *PlanController) PlanRoutes(g *echo.Group) {
	g.POST("/outfit", controller.ChooseOutfit)
	g.POST("/trip", controller.PlanTrip)
	g.GET("/saved", controller.ListSavedPlans)
}

// ChooseOutfit picks a single outfit for today's weather and occasion.
// One-off picks carry no packing window, so recency does not apply.
func (controller *PlanController) ChooseOutfit(c echo.Context) error {
	var req models.ChooseOutfitIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	rows, err := loadClosetRows(db, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch closet items"})
	}
	closet := models.BuildCloset(rows)

	engine := planner.NewEngine()
	tracker := planner.NewRecencyTracker(nil)
	outfit, err := engine.ChooseOutfit(
		closet,
		wardrobe.WeatherType(req.WeatherType),
		wardrobe.Occasion(req.Occasion),
		req.IncludeAccessories,
		tracker,
	)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if outfit == nil {
		return c.JSON(http.StatusOK, ChosenOutfitResponse{Outfit: map[string]string{}, Empty: true})
	}

	display := map[string]string{}
	for cat, item := range outfit {
		display[string(cat)] = item.DisplayRef()
	}
	return c.JSON(http.StatusOK, ChosenOutfitResponse{Outfit: display})
}

func (controller *PlanController) PlanTrip(c echo.Context) error {
	var req models.TripPlanIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid start_date, expected YYYY-MM-DD"})
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid end_date, expected YYYY-MM-DD"})
	}
	if end.Before(start) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "end_date must not precede start_date"})
	}

	occasions := make([]wardrobe.Occasion, 0, len(req.Occasions))
	for _, raw := range req.Occasions {
		occasion := wardrobe.Occasion(raw)
		if !wardrobe.ValidOccasion(occasion) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Unknown occasion %q", raw)})
		}
		occasions = append(occasions, occasion)
	}

	workDays, err := parseWorkDays(req.WorkDays)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	weather, err := controller.Weather.DailyWeather(c.Request().Context(), req.Latitude, req.Longitude, start, end)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Weather forecast is unavailable right now, please try again"})
	}

	rows, err := loadClosetRows(db, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch closet items"})
	}
	closet := models.BuildCloset(rows)

	engine := planner.NewEngine()
	plans, err := engine.PlanAll(closet, planner.TripRequest{
		Dates:              planner.DateRange(start, end),
		Weather:            weather,
		WorkDays:           workDays,
		Amount:             planner.PackingAmount(req.Amount),
		IncludeAccessories: req.IncludeAccessories,
	}, occasions)
	if err != nil {
		if errors.Is(err, planner.ErrNoEligibleOutfits) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		}
		if errors.Is(err, planner.ErrUnknownPackingAmount) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to plan the trip, please try again"})
	}

	response := TripPlanResponse{City: req.City}
	for _, w := range weather {
		response.Weather = append(response.Weather, string(w))
	}
	for _, occasion := range occasions {
		plan := plans[occasion]
		out := models.PlanOut{Occasion: string(occasion)}
		for i, date := range plan.Dates {
			display := map[string]string{}
			for cat, item := range plan.Outfits[i] {
				display[string(cat)] = item.DisplayRef()
			}
			out.Days = append(out.Days, models.DayOutfitOut{
				Date:   date.Format("2006-01-02"),
				Outfit: display,
			})
		}
		response.Plans = append(response.Plans, out)
	}

	if req.Save {
		planJson, err := json.Marshal(response.Plans)
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save the plan"})
		}
		record := models.OutfitPlanRecord{
			OwnerID:   user.ID,
			Occasion:  req.Occasions[0],
			City:      req.City,
			StartDate: start,
			EndDate:   end,
			Amount:    req.Amount,
			PlanJSON:  string(planJson),
		}
		if err := db.Create(&record).Error; err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save the plan"})
		}
		response.PlanId = &record.ID
		fmt.Println("Trip plan saved, Plan ID: ", record.ID, " User ID: ", user.ID)
	}

	return c.JSON(http.StatusOK, response)
}

func (controller *PlanController) ListSavedPlans(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var records []models.OutfitPlanRecord
	if err := db.Where("owner_id = ?", user.ID).Order("id desc").Find(&records).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch saved plans"})
	}

	type savedPlanOut struct {
		Id        uint             `json:"id"`
		City      string           `json:"city"`
		StartDate string           `json:"start_date"`
		EndDate   string           `json:"end_date"`
		Amount    string           `json:"amount"`
		Plans     []models.PlanOut `json:"plans"`
	}
	out := make([]savedPlanOut, 0, len(records))
	for _, record := range records {
		var plans []models.PlanOut
		if err := json.Unmarshal([]byte(record.PlanJSON), &plans); err != nil {
			sentry.CaptureException(fmt.Errorf("corrupt saved plan %v: %w", record.ID, err))
			continue
		}
		out = append(out, savedPlanOut{
			Id:        record.ID,
			City:      record.City,
			StartDate: record.StartDate.Format("2006-01-02"),
			EndDate:   record.EndDate.Format("2006-01-02"),
			Amount:    record.Amount,
			Plans:     plans,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"plans": out})
}

var weekdayNames = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// parseWorkDays maps weekday names to time.Weekday, defaulting to the
// usual Monday through Friday week when none are given.
func parseWorkDays(raw []string) ([]time.Weekday, error) {
	if len(raw) == 0 {
		return []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, nil
	}
	var out []time.Weekday
	for _, name := range raw {
		day, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("Unknown work day %q", name)
		}
		out = append(out, day)
	}
	return out, nil
}
