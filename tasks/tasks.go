package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aistheticapi/models"
	"aistheticapi/services"
	"aistheticapi/wardrobe"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const maxTagSuggestRetries = 3

type TagSuggestionPayload struct {
	ItemID uint `json:"item_id"`
}

type ClosetRefreshPayload struct {
	UserID uint `json:"user_id"`
}

func NewTagSuggestionTask(itemId uint) (*asynq.Task, error) {
	payload, err := json.Marshal(TagSuggestionPayload{ItemID: itemId})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask("closet:suggest_tags", payload), nil
}

func NewClosetReminderTask(userId uint) (*asynq.Task, error) {
	payload, err := json.Marshal(ClosetRefreshPayload{UserID: userId})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask("closet:untagged_reminder", payload), nil
}

func NewUntaggedScanTask() *asynq.Task {
	return asynq.NewTask("closet:untagged_scan", []byte{})
}

// HandleUntaggedScanTask fans out per-user reminder tasks for everyone
// who opted into notifications. Runs from the scheduler.
func HandleUntaggedScanTask(ctx context.Context, t *asynq.Task, db *gorm.DB, asynqClient *asynq.Client) error {
	var userIds []uint
	err := db.Model(&models.UserAccount{}).
		Where("receive_notifications = ? AND banned = ?", true, false).
		Pluck("id", &userIds).Error
	if err != nil {
		sentry.CaptureException(err)
		return err
	}
	for _, userId := range userIds {
		task, err := NewClosetReminderTask(userId)
		if err != nil {
			sentry.CaptureException(err)
			continue
		}
		if _, err := asynqClient.Enqueue(task, asynq.MaxRetry(1), asynq.Queue("notify")); err != nil {
			sentry.CaptureException(err)
		}
	}
	fmt.Printf("[Queue] Untagged scan enqueued %v reminders\n", len(userIds))
	return nil
}

func getFileForItem(awsService services.AWSServiceProvider, item models.ClothingItem) ([]byte, string, error) {
	bucketName := os.Getenv("R2_BUCKET_NAME")
	fmt.Printf("[Item: %v] Bucket name: %s\n", item.ID, bucketName)
	if item.ImageURL == nil {
		return nil, "", fmt.Errorf("[Item: %v] Image URL is nil", item.ID)
	}
	fileUrl, err := awsService.GetPresignedR2FileReadURL(context.TODO(), bucketName, *item.ImageURL)
	fileName := filepath.Base(*item.ImageURL)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Item: %v] Error on getting presigned URL for file %s", item.ID, *item.ImageURL))
		return nil, fileName, err
	}
	fmt.Printf("Downloading... %s\n", fileUrl)
	fileBytes, err := services.ReadFileFromUrl(fileUrl)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Item: %v] Error on downloading image %s", item.ID, fileName))
		return nil, fileName, err
	}
	return fileBytes, fileName, nil
}

func saveItemSuggestFail(db *gorm.DB, item models.ClothingItem, message string, retriable bool) {
	item.ProcessErrorMessage = &message
	if retriable && item.ProcessRetryTimes < maxTagSuggestRetries {
		item.ProcessRetryTimes += 1
		item.ProcessingStatus = "idle"
	} else {
		item.ProcessingStatus = "failed"
	}
	if err := db.Save(&item).Error; err != nil {
		fmt.Printf("[Item: %v] Error on saving failed status %v\n", item.ID, err)
		sentry.CaptureException(err)
	}
}

// HandleTagSuggestionTask downloads the item image from R2, asks the
// model for tags and stores the suggestion on the item. Tags entered by
// the user beforehand win and are never overwritten.
func HandleTagSuggestionTask(
	ctx context.Context,
	t *asynq.Task,
	db *gorm.DB,
	suggester services.TagSuggester,
	awsService services.AWSServiceProvider,
	fbApp *firebase.App,
) error {
	var payload TagSuggestionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	fmt.Printf("[Item: %v] Tag suggestion processing\n", payload.ItemID)

	var item models.ClothingItem
	res := db.First(&item, payload.ItemID)
	if res.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on retrieving item for tag suggestion %v", payload.ItemID))
		return res.Error
	}

	if item.TagSource == "manual" {
		fmt.Printf("[Item: %v] Already tagged manually, skipping suggestion\n", item.ID)
		return nil
	}

	item.ProcessingStatus = "suggesting"
	if err := db.Save(&item).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}

	fileBytes, fileName, err := getFileForItem(awsService, item)
	if err != nil {
		saveItemSuggestFail(db, item, "Could not fetch the item photo, please re-upload it", true)
		return err
	}

	tmpPath, err := services.CreateTempFile(fileBytes, fileName)
	if err != nil {
		sentry.CaptureException(err)
		saveItemSuggestFail(db, item, "Internal error while preparing photo", true)
		return err
	}
	defer os.Remove(tmpPath)

	suggestion, err := suggester.SuggestTags(tmpPath, services.Flash25)
	if err != nil {
		if strings.Contains(err.Error(), "content violation") {
			saveItemSuggestFail(db, item, "The photo did not pass our content check", false)
			return nil
		}
		sentry.CaptureException(fmt.Errorf("[Item: %v] Tag suggestion failed: %w", item.ID, err))
		saveItemSuggestFail(db, item, "Could not suggest tags, please tag the item manually", true)
		return err
	}
	fmt.Printf("[Item: %v] Suggested %s/%s seasons=%v occasions=%v tokens=%v\n",
		item.ID, suggestion.Category, suggestion.Style, suggestion.Seasons, suggestion.Occasions, suggestion.TotalTokenCount)

	if wardrobe.ValidCategory(wardrobe.Category(suggestion.Category)) {
		item.Category = suggestion.Category
	}
	if suggestion.Style == string(wardrobe.StyleStatement) {
		item.Style = string(wardrobe.StyleStatement)
	} else {
		item.Style = string(wardrobe.StyleBasic)
	}
	item.Seasons = pq.StringArray(keepKnownSeasons(suggestion.Seasons))
	item.Occasions = pq.StringArray(keepKnownOccasions(suggestion.Occasions))
	item.TagSource = "suggested"
	item.ProcessingStatus = "completed"
	item.ProcessErrorMessage = nil
	if err := db.Save(&item).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}

	services.SendNotification(fbApp, db, item.OwnerID,
		"Your item is ready",
		fmt.Sprintf("We tagged %q for you, review the tags and it is closet-ready!", item.Name),
		map[string]string{"item_id": fmt.Sprint(item.ID), "kind": "tag_suggestion"},
	)
	return nil
}

func keepKnownSeasons(raw []string) []string {
	var out []string
	for _, s := range wardrobe.AllSeasons {
		for _, r := range raw {
			if string(s) == r {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func keepKnownOccasions(raw []string) []string {
	var out []string
	for _, o := range wardrobe.AllOccasions {
		for _, r := range raw {
			if string(o) == r {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// HandleClosetReminderTask nudges users who still have untagged items
// sitting in the closet. Scheduled daily from the worker.
func HandleClosetReminderTask(ctx context.Context, t *asynq.Task, db *gorm.DB, fbApp *firebase.App) error {
	var payload ClosetRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}

	var user models.UserAccount
	if err := db.First(&user, payload.UserID).Error; err != nil {
		return err
	}
	if !user.ReceiveNotifications {
		return nil
	}

	var untaggedCount int64
	err := db.Model(&models.ClothingItem{}).
		Where("owner_id = ? AND (seasons IS NULL OR cardinality(seasons) = 0) AND (occasions IS NULL OR cardinality(occasions) = 0)", user.ID).
		Count(&untaggedCount).Error
	if err != nil {
		sentry.CaptureException(err)
		return err
	}
	if untaggedCount == 0 {
		return nil
	}
	fmt.Printf("[User %v] Reminder: %v untagged items at %s\n", user.ID, untaggedCount, time.Now().Format(time.RFC3339))
	services.SendNotification(fbApp, db, user.ID,
		"Untagged items in your closet",
		fmt.Sprintf("You have %d items without tags, tag them to unlock more outfits.", untaggedCount),
		map[string]string{"kind": "untagged_reminder"},
	)
	return nil
}
