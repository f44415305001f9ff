package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"slack-worklog-notify/handlers"
	"slack-worklog-notify/models"
	"slack-worklog-notify/services"
	"slack-worklog-notify/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".envファイルが見つかりません。環境変数を直接使用します")
	}

	db, err := gorm.Open(sqlite.Open("worklog.db"), &gorm.Config{})
	if err != nil {
		log.Fatalf("DBを開けませんでした: %v", err)
	}
	db.AutoMigrate(&models.ReportState{})

	ctx := context.Background()

	credentials := os.Getenv("GOOGLE_CREDENTIALS_FILE")
	if credentials == "" {
		credentials = "credentials.json"
	}
	spreadsheetID := os.Getenv("SPREADSHEET_ID")
	if spreadsheetID == "" {
		log.Fatal("SPREADSHEET_ID が設定されていません")
	}

	st, err := store.NewSheetsStore(ctx, credentials, spreadsheetID)
	if err != nil {
		log.Fatalf("スプレッドシートに接続できませんでした: %v", err)
	}

	go services.NewReporter(db, st).Start(ctx)

	r := gin.Default()
	r.POST("/slack/events", handlers.HandleSlackEvents(st))
	r.POST("/slack/command", handlers.HandleSlackCommand(st))

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
