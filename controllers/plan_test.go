package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"aistheticapi/dbhelper"
	"aistheticapi/models"
	"aistheticapi/test"
	"aistheticapi/wardrobe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChooseOutfitOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.WeatherServiceMock{})
	user := test.FakeUser(db)
	test.FakeFallCasualCloset(db, user.ID)

	reqBody := models.ChooseOutfitIn{
		WeatherType:        "Chilly",
		Occasion:           "Casual",
		IncludeAccessories: false,
	}
	req := test.NewJSONAuthRequest("POST", "/plan/outfit", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response ChosenOutfitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.False(t, response.Empty)
	assert.NotEmpty(t, response.Outfit)
	// picks always carry shoes when the closet has an eligible pair
	assert.Contains(t, response.Outfit, "shoes")
}

func TestChooseOutfitNoMatch(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.WeatherServiceMock{})
	user := test.FakeUser(db)
	test.FakeFallCasualCloset(db, user.ID)

	// Hot implies Summer, the seeded closet is Fall leaning
	reqBody := models.ChooseOutfitIn{WeatherType: "Hot", Occasion: "Club/Fancy"}
	req := test.NewJSONAuthRequest("POST", "/plan/outfit", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response ChosenOutfitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Empty)
	assert.Empty(t, response.Outfit)
}

func TestChooseOutfitUnknownWeather(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.WeatherServiceMock{})
	user := test.FakeUser(db)
	test.FakeFallCasualCloset(db, user.ID)

	reqBody := models.ChooseOutfitIn{WeatherType: "Scorching", Occasion: "Casual"}
	req := test.NewJSONAuthRequest("POST", "/plan/outfit", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanTripOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	weather := test.WeatherServiceMock{Types: []wardrobe.WeatherType{wardrobe.WeatherChilly}}
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, weather)
	user := test.FakeUser(db)
	test.FakeFallCasualCloset(db, user.ID)

	reqBody := models.TripPlanIn{
		Occasions: []string{"Casual"},
		StartDate: "2026-10-05",
		EndDate:   "2026-10-07",
		City:      "Lisbon",
		Amount:    "medium suitcase",
	}
	req := test.NewJSONAuthRequest("POST", "/plan/trip", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response TripPlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Plans, 1)
	assert.Equal(t, "Casual", response.Plans[0].Occasion)
	assert.Len(t, response.Plans[0].Days, 3)
	assert.Equal(t, "2026-10-05", response.Plans[0].Days[0].Date)
	assert.Nil(t, response.PlanId)
}

func TestPlanTripWorkSkipsWeekend(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	weather := test.WeatherServiceMock{Types: []wardrobe.WeatherType{wardrobe.WeatherChilly}}
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, weather)
	user := test.FakeUser(db)
	test.FakeFallCasualCloset(db, user.ID)
	// a Work top so the Work occasion has eligible outfits
	test.FakeItem(db, user.ID, "silk blouse", "tops", "Basic", []string{"Fall"}, []string{"Work"})

	// Monday through Sunday
	reqBody := models.TripPlanIn{
		Occasions: []string{"Work"},
		StartDate: "2026-10-05",
		EndDate:   "2026-10-11",
		Amount:    "entire closet",
	}
	req := test.NewJSONAuthRequest("POST", "/plan/trip", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response TripPlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Plans, 1)
	assert.Len(t, response.Plans[0].Days, 5)
	assert.Equal(t, "2026-10-09", response.Plans[0].Days[4].Date)
}

func TestPlanTripSeasonNotCovered(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	weather := test.WeatherServiceMock{Types: []wardrobe.WeatherType{wardrobe.WeatherHot}}
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, weather)
	user := test.FakeUser(db)
	test.FakeFallCasualCloset(db, user.ID)

	reqBody := models.TripPlanIn{
		Occasions: []string{"Club/Fancy"},
		StartDate: "2026-07-01",
		EndDate:   "2026-07-03",
		Amount:    "medium suitcase",
	}
	req := test.NewJSONAuthRequest("POST", "/plan/trip", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "Summer")
}

func TestPlanTripUnknownAmount(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	weather := test.WeatherServiceMock{Types: []wardrobe.WeatherType{wardrobe.WeatherChilly}}
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, weather)
	user := test.FakeUser(db)
	test.FakeFallCasualCloset(db, user.ID)

	reqBody := models.TripPlanIn{
		Occasions: []string{"Casual"},
		StartDate: "2026-10-05",
		EndDate:   "2026-10-06",
		Amount:    "steamer trunk",
	}
	req := test.NewJSONAuthRequest("POST", "/plan/trip", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanTripSaveAndList(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	weather := test.WeatherServiceMock{Types: []wardrobe.WeatherType{wardrobe.WeatherChilly}}
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, weather)
	user := test.FakeUser(db)
	test.FakeFallCasualCloset(db, user.ID)
	userPk := strconv.FormatUint(uint64(user.ID), 10)

	reqBody := models.TripPlanIn{
		Occasions: []string{"Casual"},
		StartDate: "2026-10-05",
		EndDate:   "2026-10-07",
		City:      "Porto",
		Amount:    "small carry-on suitcase",
		Save:      true,
	}
	req := test.NewJSONAuthRequest("POST", "/plan/trip", userPk, reqBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response TripPlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.NotNil(t, response.PlanId)

	req = test.NewJSONAuthRequest("GET", "/plan/saved", userPk, nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var saved struct {
		Plans []struct {
			Id        uint             `json:"id"`
			City      string           `json:"city"`
			StartDate string           `json:"start_date"`
			Plans     []models.PlanOut `json:"plans"`
		} `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	require.Len(t, saved.Plans, 1)
	assert.Equal(t, *response.PlanId, saved.Plans[0].Id)
	assert.Equal(t, "Porto", saved.Plans[0].City)
	assert.Equal(t, "2026-10-05", saved.Plans[0].StartDate)
	require.Len(t, saved.Plans[0].Plans, 1)
	assert.Len(t, saved.Plans[0].Plans[0].Days, 3)
}

func TestPlanTripInvalidDates(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.WeatherServiceMock{})
	user := test.FakeUser(db)

	reqBody := models.TripPlanIn{
		Occasions: []string{"Casual"},
		StartDate: "2026-10-07",
		EndDate:   "2026-10-05",
		Amount:    "medium suitcase",
	}
	req := test.NewJSONAuthRequest("POST", "/plan/trip", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
