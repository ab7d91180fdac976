package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"aistheticapi/languageutil"
	"aistheticapi/models"
	"aistheticapi/services"
	"aistheticapi/tasks"
	"aistheticapi/wardrobe"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ItemCreatedResponse struct {
	Item          models.ItemOut `json:"item"`
	FileUploadUrl *string        `json:"file_upload_url,omitempty"`
}

type ClosetListResponse struct {
	Items map[string][]models.ItemOut `json:"items"`
	Total int                         `json:"total"`
}

type ClosetController struct {
	AWSService  services.AWSServiceProvider
	FirebaseApp *firebase.App
	URLCache    services.URLCacheServiceProvider
}

func (controller *ClosetController) ClosetRoutes(g *echo.Group) {
	g.POST("/items", controller.CreateItem)
	g.GET("/items", controller.ListItems)
	g.PUT("/items/:itemId/tags", controller.UpdateItemTags)
	g.DELETE("/items/:itemId", controller.DeleteItem)
	g.POST("/import", controller.ImportLegacyFilenames)
	g.GET("/outfits", controller.ListOutfits)
	g.GET("/stats", controller.ClosetStats)
}

func (controller *ClosetController) CreateItem(c echo.Context) error {
	var req models.CreateItemIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	if !wardrobe.ValidCategory(wardrobe.Category(req.Category)) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Unknown category %q", req.Category)})
	}
	seasons, err := knownSeasons(req.Seasons)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	occasions, err := knownOccasions(req.Occasions)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	itemName := req.Name
	if itemName == "" {
		itemName = languageutil.DefaultItemName()
	}
	item := models.ClothingItem{
		Name:      itemName,
		Category:  req.Category,
		OwnerID:   user.ID,
		Style:     normalizeStyle(req.Style),
		Seasons:   pq.StringArray(seasons),
		Occasions: pq.StringArray(occasions),
		Status:    "in_closet",
	}
	if len(seasons) > 0 || len(occasions) > 0 {
		item.TagSource = "manual"
	}

	var uploadUrl *string
	if req.FileName != nil && *req.FileName != "" {
		if !services.IsAllowedImage(*req.FileName) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported image type"})
		}
		bucketName := services.GetEnv("R2_BUCKET_NAME", "")
		safeFileName := fmt.Sprintf("closet/%v/%s", user.ID, *req.FileName)
		presigned, presignErr := controller.AWSService.PresignLink(context.Background(), bucketName, safeFileName)
		if presignErr != nil {
			log.Printf("Unable to presign upload for %s!, %s", item.Name, presignErr)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Error while creating item with attachment",
			})
		}
		item.ImageURL = &safeFileName
		item.ImageStatus = "draft"
		uploadUrl = &presigned
	}

	if err := db.Create(&item).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}

	// untagged items with a photo go through LLM suggestion
	if item.TagSource == "" && item.ImageURL != nil {
		asynqClient, ok := c.Get("__asynqclient").(*asynq.Client)
		if !ok {
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Service is not available, please try again a bit later"})
		}
		item.ProcessingStatus = "idle"
		if err := db.Save(&item).Error; err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to update item status, please try again"})
		}
		task, err := tasks.NewTagSuggestionTask(item.ID)
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process the item, please try again"})
		}
		info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("suggest"))
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process the item, please try again"})
		}
		fmt.Println("[Queue] Tag suggestion task submitted, Item ID: ", item.ID, " Task ID: ", info.ID)
	}

	return c.JSON(http.StatusCreated, ItemCreatedResponse{
		Item:          itemOut(item, nil),
		FileUploadUrl: uploadUrl,
	})
}

// populatePresignedItemImages enriches stored items with presigned read
// URLs concurrently, with a direct R2 fallback when the cache layer
// itself fails.
func (controller *ClosetController) populatePresignedItemImages(ctx context.Context, items []models.ClothingItem) []models.ItemOut {
	if len(items) == 0 {
		return []models.ItemOut{}
	}

	var wg sync.WaitGroup
	processed := make([]models.ItemOut, len(items))
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")

	for i, storedItem := range items {
		wg.Add(1)
		go func(index int, item models.ClothingItem) {
			defer wg.Done()

			var imageUrl string
			if item.ImageURL != nil && *item.ImageURL != "" {
				objectKey := *item.ImageURL
				url, err := controller.URLCache.GetReadURL(ctx, objectKey)
				if err == nil {
					imageUrl = url
				} else {
					log.Printf("CACHE WARNING: Cache system failed for key '%s': %v. Triggering manual R2 fallback.", objectKey, err)
					sentry.WithScope(func(scope *sentry.Scope) {
						scope.SetTag("failure_type", "cache_system")
						scope.SetExtra("objectKey", objectKey)
						sentry.CaptureException(err)
					})
					fallbackUrl, fallbackErr := controller.AWSService.GetPresignedR2FileReadURL(ctx, bucketName, objectKey)
					if fallbackErr != nil {
						log.Printf("CRITICAL: Manual R2 fallback also failed for key '%s': %v", objectKey, fallbackErr)
						sentry.CaptureException(fallbackErr)
					} else {
						imageUrl = fallbackUrl
					}
				}
			}
			var urlPtr *string
			if imageUrl != "" {
				urlPtr = &imageUrl
			}
			processed[index] = itemOut(item, urlPtr)
		}(i, storedItem)
	}

	wg.Wait()
	return processed
}

func (controller *ClosetController) ListItems(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	query := db.Where("owner_id = ? AND status = ?", user.ID, "in_closet")
	if style := c.QueryParam("style"); style != "" {
		query = query.Where("style = ?", normalizeStyle(style))
	}
	if season := c.QueryParam("season"); season != "" {
		query = query.Where("? = ANY(seasons)", season)
	}
	if occasion := c.QueryParam("occasion"); occasion != "" {
		query = query.Where("? = ANY(occasions)", occasion)
	}

	var items []models.ClothingItem
	if err := query.Order("id").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch closet items"})
	}

	processed := controller.populatePresignedItemImages(c.Request().Context(), items)

	grouped := map[string][]models.ItemOut{}
	for _, cat := range wardrobe.AllCategories {
		grouped[string(cat)] = []models.ItemOut{}
	}
	for _, out := range processed {
		grouped[out.Category] = append(grouped[out.Category], out)
	}
	return c.JSON(http.StatusOK, ClosetListResponse{
		Items: grouped,
		Total: len(processed),
	})
}

func (controller *ClosetController) UpdateItemTags(c echo.Context) error {
	var itemId uint
	if err := echo.PathParamsBinder(c).Uint("itemId", &itemId).BindError(); err != nil {
		return echo.ErrBadRequest
	}
	var req models.ItemTagsIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	seasons, err := knownSeasons(req.Seasons)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	occasions, err := knownOccasions(req.Occasions)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	var item models.ClothingItem
	r := db.Where("id = ? AND owner_id = ?", itemId, user.ID).Limit(1).Find(&item)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch the item"})
	}
	if r.RowsAffected == 0 {
		return echo.ErrNotFound
	}

	item.Style = normalizeStyle(req.Style)
	item.Seasons = pq.StringArray(seasons)
	item.Occasions = pq.StringArray(occasions)
	item.TagSource = "manual"
	if err := db.Save(&item).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update tags"})
	}
	return c.JSON(http.StatusOK, itemOut(item, nil))
}

func (controller *ClosetController) DeleteItem(c echo.Context) error {
	var itemId uint
	if err := echo.PathParamsBinder(c).Uint("itemId", &itemId).BindError(); err != nil {
		return echo.ErrBadRequest
	}
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	result := db.Where("id = ? AND owner_id = ?", itemId, user.ID).Delete(&models.ClothingItem{})
	if result.Error != nil {
		sentry.CaptureException(result.Error)
		return echo.ErrInternalServerError
	}
	if result.RowsAffected == 0 {
		return echo.ErrNotFound
	}
	// outfits are derived per request from surviving rows, nothing else
	// to cascade here
	return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}

// ImportLegacyFilenames bulk-creates items from marker-encoded
// filenames, the format older closets were kept in.
func (controller *ClosetController) ImportLegacyFilenames(c echo.Context) error {
	var req models.LegacyImportIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var created []models.ItemOut
	for category, files := range req.Files {
		if !wardrobe.ValidCategory(wardrobe.Category(category)) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Unknown category %q", category)})
		}
		for _, fileName := range files {
			record := wardrobe.ParseFilenameTags(fileName)
			item := models.ClothingItem{
				Name:      fileName,
				Category:  category,
				OwnerID:   user.ID,
				Style:     string(record.Style),
				Seasons:   pq.StringArray(seasonStrings(record.Seasons)),
				Occasions: pq.StringArray(occasionStrings(record.Occasions)),
				TagSource: "filename",
				Status:    "in_closet",
			}
			if err := db.Create(&item).Error; err != nil {
				sentry.CaptureException(err)
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to import items"})
			}
			created = append(created, itemOut(item, nil))
		}
	}
	fmt.Printf("[User %v] Imported %v legacy items\n", user.ID, len(created))
	return c.JSON(http.StatusCreated, echo.Map{
		"imported": len(created),
		"items":    created,
	})
}

func (controller *ClosetController) ListOutfits(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	seasons, err := knownSeasons(splitQueryList(c.QueryParam("season")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	occasions, err := knownOccasions(splitQueryList(c.QueryParam("occasion")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	rows, err := loadClosetRows(db, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch closet items"})
	}

	closet := models.BuildCloset(rows)
	matched := closet.FilterOutfits(toSeasons(seasons), toOccasions(occasions))

	outs := make([]models.OutfitOut, 0, len(matched))
	for _, outfit := range matched {
		outs = append(outs, outfitOut(outfit))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"outfits": outs,
		"total":   len(outs),
	})
}

func (controller *ClosetController) ClosetStats(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	rows, err := loadClosetRows(db, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch closet items"})
	}
	closet := models.BuildCloset(rows)
	stats := closet.ComputeStats()

	untagged := map[string][]string{}
	for cat, items := range stats.Untagged {
		for _, item := range items {
			untagged[string(cat)] = append(untagged[string(cat)], item.DisplayRef())
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_items":    stats.TotalItems,
		"total_outfits":  stats.TotalOutfits,
		"by_category":    stats.ByCategory,
		"by_season":      stats.BySeason,
		"by_occasion":    stats.ByOccasion,
		"statement_rate": stats.StatementRate,
		"untagged":       untagged,
	})
}

func loadClosetRows(db *gorm.DB, ownerId uint) ([]models.ClothingItem, error) {
	var rows []models.ClothingItem
	err := db.Where("owner_id = ? AND status = ?", ownerId, "in_closet").Order("id").Find(&rows).Error
	return rows, err
}

func itemOut(item models.ClothingItem, readUrl *string) models.ItemOut {
	out := models.ItemOut{
		Id:        item.ID,
		Name:      item.Name,
		Category:  item.Category,
		Style:     item.Style,
		Seasons:   append([]string{}, item.Seasons...),
		Occasions: append([]string{}, item.Occasions...),
		TagSource: item.TagSource,
		ImageURL:  readUrl,
	}
	return out
}

func outfitOut(outfit wardrobe.Outfit) models.OutfitOut {
	items := map[string]string{}
	for cat, item := range outfit.Items {
		items[string(cat)] = item.DisplayRef()
	}
	return models.OutfitOut{
		Items:       items,
		Seasons:     seasonStrings(outfit.Seasons),
		Occasions:   occasionStrings(outfit.Occasions),
		IsStatement: outfit.Statement,
	}
}

func normalizeStyle(style string) string {
	if style == string(wardrobe.StyleStatement) {
		return string(wardrobe.StyleStatement)
	}
	return string(wardrobe.StyleBasic)
}

func splitQueryList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func knownSeasons(raw []string) ([]string, error) {
	var out []string
	for _, s := range raw {
		known := false
		for _, valid := range wardrobe.AllSeasons {
			if string(valid) == s {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("Unknown season %q", s)
		}
		out = append(out, s)
	}
	return out, nil
}

func knownOccasions(raw []string) ([]string, error) {
	var out []string
	for _, o := range raw {
		if !wardrobe.ValidOccasion(wardrobe.Occasion(o)) {
			return nil, fmt.Errorf("Unknown occasion %q", o)
		}
		out = append(out, o)
	}
	return out, nil
}

func toSeasons(raw []string) []wardrobe.Season {
	var out []wardrobe.Season
	for _, s := range raw {
		out = append(out, wardrobe.Season(s))
	}
	return out
}

func toOccasions(raw []string) []wardrobe.Occasion {
	var out []wardrobe.Occasion
	for _, o := range raw {
		out = append(out, wardrobe.Occasion(o))
	}
	return out
}

func seasonStrings(seasons []wardrobe.Season) []string {
	out := make([]string, 0, len(seasons))
	for _, s := range seasons {
		out = append(out, string(s))
	}
	return out
}

func occasionStrings(occasions []wardrobe.Occasion) []string {
	out := make([]string, 0, len(occasions))
	for _, o := range occasions {
		out = append(out, string(o))
	}
	return out
}
