package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"aistheticapi/dbhelper"
	"aistheticapi/models"
	"aistheticapi/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItemOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.WeatherServiceMock{})
	user := test.FakeUser(db)

	reqBody := models.CreateItemIn{
		Name:      "white tee",
		Category:  "tops",
		FileName:  StrPointer("tee.jpg"),
		Style:     "Basic",
		Seasons:   []string{"Fall", "Spring"},
		Occasions: []string{"Casual"},
	}

	req := test.NewJSONAuthRequest("POST", "/closet/items", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, "Expected status code 201 Created, got %d", rec.Code)

	var response ItemCreatedResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Equal(t, reqBody.Name, response.Item.Name)
	require.Equal(t, "tops", response.Item.Category)
	require.Equal(t, "manual", response.Item.TagSource)
	require.NotNil(t, response.FileUploadUrl)
	assert.Contains(t, *response.FileUploadUrl, "tee.jpg")
}

func TestCreateItemGeneratesName(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.WeatherServiceMock{})
	user := test.FakeUser(db)

	reqBody := models.CreateItemIn{
		Category:  "bottoms",
		Seasons:   []string{"Winter"},
		Occasions: []string{"Work"},
	}
	req := test.NewJSONAuthRequest("POST", "/closet/items", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var response ItemCreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Item.Name)
}

func TestCreateItemUnknownCategory(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.WeatherServiceMock{})
	user := test.FakeUser(db)

	reqBody := models.CreateItemIn{
		Name:     "mystery piece",
		Category: "capes",
	}
	req := test.NewJSONAuthRequest("POST", "/closet/items", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "capes")
}

func TestCreateItemUnauthorized(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.WeatherServiceMock{})
	test.FakeUser(db)

	reqBody := models.CreateItemIn{Name: "white tee", Category: "tops"}
	req := test.NewJSONRequest("POST", "/closet/items", reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListItemsGrouped(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{MockUrl: "https://cache.example/read"}, test.WeatherServiceMock{})
	user := test.FakeUser(db)
	test.FakeFallCasualCloset(db, user.ID)

	req := test.NewJSONAuthRequest("GET", "/closet/items", strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response ClosetListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 5, response.Total)
	assert.Len(t, response.Items["tops"], 1)
	assert.Len(t, response.Items["bottoms"], 1)
	assert.Len(t, response.Items["dresses"], 1)
	assert.Len(t, response.Items["outerwear"], 1)
	assert.Len(t, response.Items["shoes"], 1)
	assert.Empty(t, response.Items["hats"])
}

func TestListItemsSeasonFilter(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.WeatherServiceMock{})
	user := test.FakeUser(db)
	test.FakeFallCasualCloset(db, user.ID)

	req := test.NewJSONAuthRequest("GET", "/closet/items?season=Winter", strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response ClosetListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Total)
	assert.Len(t, response.Items["bottoms"], 1)
}

func TestUpdateItemTags(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.WeatherServiceMock{})
	user := test.FakeUser(db)
	item := test.FakeItem(db, user.ID, "old coat", "outerwear", "Basic", []string{"Fall"}, []string{"Casual"})

	reqBody := models.ItemTagsIn{
		Style:     "Statement",
		Seasons:   []string{"Winter"},
		Occasions: []string{"Work", "Dinner/Bar"},
	}
	req := test.NewJSONAuthRequest("PUT", fmt.Sprintf("/closet/items/%v/tags", item.ID), strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response models.ItemOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Statement", response.Style)
	assert.Equal(t, []string{"Winter"}, response.Seasons)
	assert.Equal(t, []string{"Work", "Dinner/Bar"}, response.Occasions)

	var stored models.ClothingItem
	db.First(&stored, item.ID)
	assert.Equal(t, "manual", stored.TagSource)
}

func TestUpdateItemTagsNotOwned(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.WeatherServiceMock{})
	owner := test.FakeUser(db)
	item := test.FakeItem(db, owner.ID, "old coat", "outerwear", "Basic", []string{"Fall"}, []string{"Casual"})

	stranger := &models.UserAccount{Name: "Other", Email: "other@example.com", Status: "FINISHED_AUTH"}
	db.Create(&stranger)

	reqBody := models.ItemTagsIn{Style: "Basic", Seasons: []string{"Fall"}, Occasions: []string{"Casual"}}
	req := test.NewJSONAuthRequest("PUT", fmt.Sprintf("/closet/items/%v/tags", item.ID), strconv.FormatUint(uint64(stranger.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteItemDropsOutfits(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.WeatherServiceMock{})
	user := test.FakeUser(db)
	items := test.FakeFallCasualCloset(db, user.ID)
	userPk := strconv.FormatUint(uint64(user.ID), 10)

	req := test.NewJSONAuthRequest("GET", "/closet/outfits", userPk, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var before map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &before))
	var beforeTotal int
	require.NoError(t, json.Unmarshal(before["total"], &beforeTotal))
	require.Greater(t, beforeTotal, 0)

	// items[0] is the only top, removing it kills every two-piece outfit
	req = test.NewJSONAuthRequest("DELETE", fmt.Sprintf("/closet/items/%v", items[0].ID), userPk, nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = test.NewJSONAuthRequest("GET", "/closet/outfits", userPk, nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var after map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	var afterTotal int
	require.NoError(t, json.Unmarshal(after["total"], &afterTotal))
	assert.Less(t, afterTotal, beforeTotal)
}

func TestImportLegacyFilenames(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.WeatherServiceMock{})
	user := test.FakeUser(db)

	reqBody := models.LegacyImportIn{
		Files: map[string][]string{
			"tops":    {"bas_su_sp_ca_white_tee.jpg"},
			"dresses": {"st_fa_bar_f_floral_dress.jpg"},
		},
	}
	req := test.NewJSONAuthRequest("POST", "/closet/import", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var tee models.ClothingItem
	db.Where("owner_id = ? AND category = ?", user.ID, "tops").First(&tee)
	assert.Equal(t, "Basic", tee.Style)
	assert.Equal(t, []string{"Summer", "Spring"}, []string(tee.Seasons))
	assert.Equal(t, []string{"Casual"}, []string(tee.Occasions))
	assert.Equal(t, "filename", tee.TagSource)

	var dress models.ClothingItem
	db.Where("owner_id = ? AND category = ?", user.ID, "dresses").First(&dress)
	assert.Equal(t, "Statement", dress.Style)
	assert.Equal(t, []string{"Fall"}, []string(dress.Seasons))
	assert.Equal(t, []string{"Dinner/Bar", "Club/Fancy"}, []string(dress.Occasions))
}

func TestListOutfitsSeasonFilter(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.WeatherServiceMock{})
	user := test.FakeUser(db)
	test.FakeFallCasualCloset(db, user.ID)
	userPk := strconv.FormatUint(uint64(user.ID), 10)

	req := test.NewJSONAuthRequest("GET", "/closet/outfits?season=Summer", userPk, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var response struct {
		Outfits []models.OutfitOut `json:"outfits"`
		Total   int                `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Zero(t, response.Total)

	req = test.NewJSONAuthRequest("GET", "/closet/outfits?season=Fall&occasion=Casual", userPk, nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Greater(t, response.Total, 0)
	for _, outfit := range response.Outfits {
		assert.Contains(t, outfit.Seasons, "Fall")
		assert.Contains(t, outfit.Occasions, "Casual")
	}
}

func TestListOutfitsUnknownOccasion(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.WeatherServiceMock{})
	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("GET", "/closet/outfits?occasion=Gala", strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClosetStats(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.WeatherServiceMock{})
	user := test.FakeUser(db)
	test.FakeFallCasualCloset(db, user.ID)
	test.FakeItem(db, user.ID, "untagged cap", "hats", "Basic", nil, nil)

	req := test.NewJSONAuthRequest("GET", "/closet/stats", strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response struct {
		TotalItems  int                 `json:"total_items"`
		ByCategory  map[string]int      `json:"by_category"`
		Untagged    map[string][]string `json:"untagged"`
		TotalOutfit int                 `json:"total_outfits"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 6, response.TotalItems)
	assert.Equal(t, 1, response.ByCategory["hats"])
	assert.Contains(t, response.Untagged["hats"], "untagged cap")
}
