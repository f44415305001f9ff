package models

import "time"

// ReportState は定期レポートの最終実行日を保持する。
// プロセス再起動後も同じ日に二重投稿しないようsqliteに永続化する
type ReportState struct {
	ID        string `gorm:"primaryKey"`
	Kind      string `gorm:"uniqueIndex"` // "weekly" または "monthly"
	LastFired string // 最後に投稿した日付 (YYYY/MM/DD, JST)
	CreatedAt time.Time
	UpdatedAt time.Time
}
