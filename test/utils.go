package test

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"aistheticapi/models"
	"aistheticapi/services"
	"aistheticapi/wardrobe"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lib/pq"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {

	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func GenerateUserToken(userPk string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userPk,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	t, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		log.Fatalf("Error when signing user token for %s. Error %s ", userPk, err)
	}
	return t
}

func NewJSONAuthRequest(method string, target string, userPk string, param interface{}) *http.Request {
	log.Println(JsonString(param))
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	token := GenerateUserToken(userPk)
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	return req
}

func Int64Pointer(i int64) *int64 {
	return &i
}

func NewRefString(data string) *string {
	return &data
}

func Contains(items []string, lookFor string) bool {

	for i := 0; i < len(items); i++ {

		if items[i] == lookFor {
			return true
		}
	}
	return false
}

func FakeUser(db *gorm.DB) *models.UserAccount {
	user := &models.UserAccount{
		Name:      "OurName",
		Email:     "email@example.com",
		GoogleID:  "12232",
		Platform:  models.PlatformIOS,
		LastIp:    "123.122.122.122",
		Status:    "FINISHED_AUTH",
		AvatarURL: "pictureurl",
	}
	db.Create(&user)
	tokenDb := models.UserPushToken{
		UserAccountID: user.ID,
		Platform:      "android",
		Token:         "cX-UZ3zwQEiPt-2GJkG2gA:APA91bGqRflaGrJrnynhRwZ442HdgUjVcO7mWMFnx6IwAdJ9RRKopvSP4QU7hbvTmk1XAp8XGvtHZLvo5JmOPTVKBbGqqvhfbZWKlXA9csEjx1hgpNvrWepU",
		Active:        true,
	}
	db.Save(&tokenDb)
	return user
}

// FakeItem stores a tagged closet item for the given owner.
func FakeItem(db *gorm.DB, ownerId uint, name string, category string, style string, seasons []string, occasions []string) *models.ClothingItem {
	item := &models.ClothingItem{
		Name:      name,
		Category:  category,
		OwnerID:   ownerId,
		Style:     style,
		Seasons:   pq.StringArray(seasons),
		Occasions: pq.StringArray(occasions),
		TagSource: "manual",
		Status:    "in_closet",
	}
	db.Create(&item)
	return item
}

// FakeFallCasualCloset seeds enough items for both outfit shapes in
// Fall or Casual contexts.
func FakeFallCasualCloset(db *gorm.DB, ownerId uint) []*models.ClothingItem {
	basic := string(wardrobe.StyleBasic)
	items := []*models.ClothingItem{
		FakeItem(db, ownerId, "white tee", "tops", basic, []string{"Fall", "Spring"}, []string{"Casual"}),
		FakeItem(db, ownerId, "black jeans", "bottoms", basic, []string{"Fall", "Winter"}, []string{"Casual", "Work"}),
		FakeItem(db, ownerId, "wrap dress", "dresses", string(wardrobe.StyleStatement), []string{"Fall"}, []string{"Casual"}),
		FakeItem(db, ownerId, "denim jacket", "outerwear", basic, []string{"Fall", "Spring"}, []string{"Casual", "Work"}),
		FakeItem(db, ownerId, "white sneakers", "shoes", basic, []string{"Fall", "Spring", "Summer"}, []string{"Casual"}),
	}
	return items
}

type GoogleServiceMock struct{}

func (gsm GoogleServiceMock) ValidateIdToken(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error) {

	return &idtoken.Payload{Issuer: "Issue", Audience: "AAA", Expires: 119919191919, IssuedAt: 12312321321, Subject: "fake@example.com", Claims: map[string]interface{}{
		"email":   "fake@example.com",
		"picture": "pictureurl",
		"name":    "Fake Name",
		"sub":     "123googleid",
	}}, nil

}

type AWSProviderMock struct {
	MockUrl string
}

func (awsService AWSProviderMock) InitPresignClient(ctx context.Context) error {
	return nil
}

func (awsService AWSProviderMock) PresignLink(ctx context.Context, bucketName string, fileName string) (string, error) {

	return fmt.Sprintf("https://fakebucketurl.com/%s", fileName), nil
}

func (awsService AWSProviderMock) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	return awsService.MockUrl, nil
}

func (awsService AWSProviderMock) UploadToPresignedURL(ctx context.Context, bucketName, url string, fileContent []byte) (string, int, error) {
	return url, 204, nil
}

type URLCacheMock struct {
	MockUrl string
}

func (m URLCacheMock) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	return m.MockUrl, nil
}

// WeatherServiceMock returns the configured sequence regardless of
// coordinates, repeating the last entry if the range is longer.
type WeatherServiceMock struct {
	Types []wardrobe.WeatherType
}

func (m WeatherServiceMock) DailyWeather(ctx context.Context, latitude, longitude float64, start, end time.Time) ([]wardrobe.WeatherType, error) {
	var out []wardrobe.WeatherType
	i := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if i < len(m.Types) {
			out = append(out, m.Types[i])
		} else if len(m.Types) > 0 {
			out = append(out, m.Types[len(m.Types)-1])
		} else {
			out = append(out, wardrobe.WeatherChilly)
		}
		i++
	}
	return out, nil
}

type TagSuggesterMock struct {
	Suggestion services.TagSuggestion
	Err        error
}

func (m TagSuggesterMock) SuggestTags(filePath string, modelName services.LLMModelName) (*services.TagSuggestion, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	s := m.Suggestion
	return &s, nil
}
