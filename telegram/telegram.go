package telegram

import (
	"fmt"
	"log"
	"os"
	"strings"

	"aistheticapi/languageutil"
	"aistheticapi/models"
	"aistheticapi/wardrobe"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var usernames string = os.Getenv("TG_ADMINS") //separated by comma from env

func EscapeMessage(message string) string {
	r := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return r.Replace(message)
}

func isAdmin(username string) bool {
	for _, admin := range strings.Split(usernames, ",") {
		if admin != "" && admin == username {
			return true
		}
	}
	return false
}

// RunAdminBot serves a small ops channel over Telegram: signup and
// closet counters for the admins listed in TG_ADMINS.
func RunAdminBot(e *echo.Echo, db *gorm.DB) {
	bot, err := tgbotapi.NewBotAPI(os.Getenv("TG_TOKEN"))
	if err != nil {
		println("Error tg bot init")
		log.Panic(err)
	}
	bot.Debug = true

	log.Printf("Authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)
		if !isAdmin(update.Message.From.UserName) {
			continue
		}

		switch update.Message.Command() {
		case "start":
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "Commands:\n/stats user and item totals\n/categories item counts per category")
			bot.Send(msg)
		case "stats":
			var userCount, itemCount, planCount int64
			db.Model(&models.UserAccount{}).Count(&userCount)
			db.Model(&models.ClothingItem{}).Where("status = ?", "in_closet").Count(&itemCount)
			db.Model(&models.OutfitPlanRecord{}).Count(&planCount)

			description := strings.Builder{}
			description.WriteString("```\n")
			description.WriteString(fmt.Sprintf("👤 users  %v\n", userCount))
			description.WriteString(fmt.Sprintf("👗 items  %v\n", itemCount))
			description.WriteString(fmt.Sprintf("🧳 plans  %v\n", planCount))
			description.WriteString("```")
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, description.String())
			msg.ParseMode = "markdown"
			bot.Send(msg)
		case "categories":
			description := strings.Builder{}
			description.WriteString("```\n")
			for _, category := range wardrobe.AllCategories {
				var count int64
				db.Model(&models.ClothingItem{}).Where("status = ? AND category = ?", "in_closet", string(category)).Count(&count)
				description.WriteString(fmt.Sprintf("%-10s %v\n", languageutil.TitleCaser.String(string(category)), count))
			}
			description.WriteString("```")
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, description.String())
			msg.ParseMode = "markdown"
			bot.Send(msg)
		}
	}
}
