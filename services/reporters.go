package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"slack-worklog-notify/models"
	"slack-worklog-notify/store"
)

// SummaryChannelID は定期レポートの投稿先チャンネル
const SummaryChannelID = "C08JZTEQZL3"

// Reporter は週次・月次レポートの定期投稿を担当する。
// 最終送信日をDBに持つので、再起動しても同じ日に二重投稿しない
type Reporter struct {
	DB    *gorm.DB
	Store store.Store

	// テストから差し替えるための継ぎ目
	Now  func() time.Time
	Post func(channel, text string) error
}

func NewReporter(db *gorm.DB, st store.Store) *Reporter {
	return &Reporter{
		DB:    db,
		Store: st,
		Now:   NowJST,
		Post:  PostChannelText,
	}
}

// Start は1分ごとに送信条件を見に行くループを開始する
func (r *Reporter) Start(ctx context.Context) {
	log.Println("定期レポートのスケジューラを開始します")

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("定期レポートのスケジューラを停止します")
			return
		case <-ticker.C:
			r.CheckWeekly()
			r.CheckMonthly()
		}
	}
}

// CheckWeekly は日曜22時台（JST）に週次レポートを1回だけ送る
func (r *Reporter) CheckWeekly() {
	now := r.Now().In(JST)
	if now.Weekday() != time.Sunday || now.Hour() != 22 {
		return
	}
	if r.alreadyFired("weekly", now) {
		return
	}

	// 送信失敗で毎分リトライし続けないよう、結果に関わらず送信済みにする
	r.markFired("weekly", now)

	total, err := CalculateTotalMinutes(r.Store.Logs(), PeriodWeekly, now)
	if err != nil {
		log.Printf("週次レポートの集計に失敗しました: %v", err)
		return
	}

	text := fmt.Sprintf("📊 *今週の活動レポート*\n今週（%s〜）の合計作業時間: *%s*",
		startOfWeek(now).Format(DateLayout), FormatMinutes(total))
	if err := r.Post(SummaryChannelID, text); err != nil {
		log.Printf("週次レポートの投稿に失敗しました: %v", err)
		return
	}
	log.Printf("週次レポートを送信しました (%d min)", total)
}

// CheckMonthly は月末の22時30分以降（JST）に月次レポートを1回だけ送る
func (r *Reporter) CheckMonthly() {
	now := r.Now().In(JST)
	if now.AddDate(0, 0, 1).Month() == now.Month() {
		return
	}
	if now.Hour() != 22 || now.Minute() < 30 {
		return
	}
	if r.alreadyFired("monthly", now) {
		return
	}

	r.markFired("monthly", now)

	total, err := CalculateTotalMinutes(r.Store.Logs(), PeriodMonthly, now)
	if err != nil {
		log.Printf("月次レポートの集計に失敗しました: %v", err)
		return
	}

	text := fmt.Sprintf("📊 *%s月の活動レポート*\n今月の合計作業時間: *%s*",
		now.Format("1"), FormatMinutes(total))
	if err := r.Post(SummaryChannelID, text); err != nil {
		log.Printf("月次レポートの投稿に失敗しました: %v", err)
		return
	}
	log.Printf("月次レポートを送信しました (%d min)", total)
}

func (r *Reporter) alreadyFired(kind string, now time.Time) bool {
	var state models.ReportState
	err := r.DB.Where("kind = ?", kind).First(&state).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("レポート送信状態の取得に失敗しました (%s): %v", kind, err)
		}
		return false
	}
	return state.LastFired == now.Format(DateLayout)
}

func (r *Reporter) markFired(kind string, now time.Time) {
	today := now.Format(DateLayout)

	var state models.ReportState
	err := r.DB.Where("kind = ?", kind).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		state = models.ReportState{
			ID:        uuid.NewString(),
			Kind:      kind,
			LastFired: today,
		}
		if err := r.DB.Create(&state).Error; err != nil {
			log.Printf("レポート送信状態の作成に失敗しました (%s): %v", kind, err)
		}
		return
	}
	if err != nil {
		log.Printf("レポート送信状態の取得に失敗しました (%s): %v", kind, err)
		return
	}

	state.LastFired = today
	if err := r.DB.Save(&state).Error; err != nil {
		log.Printf("レポート送信状態の更新に失敗しました (%s): %v", kind, err)
	}
}
