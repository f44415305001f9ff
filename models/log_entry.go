package models

import (
	"strconv"
	"strings"
)

// LogEntry は集計シートの1行（1人の1回分の作業記録）
type LogEntry struct {
	Name       string // サーバーでの表示名
	Date       string // 作業日 (YYYY/MM/DD)
	Task       string
	Minutes    int
	Note       string
	RecordedAt string // 記録日時 (RFC3339)
	MessageID  string // 記録元メッセージのts（リアクション取消時の削除キー）
}

// シート上の列の並び。7列目のMessage IDは削除処理の検索キーになるため固定
const (
	LogColName = iota + 1
	LogColDate
	LogColTask
	LogColMinutes
	LogColNote
	LogColRecordedAt
	LogColMessageID
)

// Row はシートに追記する行表現に変換する。時間は「N分」形式で保存する
func (e LogEntry) Row() []string {
	return []string{
		e.Name,
		e.Date,
		e.Task,
		strconv.Itoa(e.Minutes) + "分",
		e.Note,
		e.RecordedAt,
		e.MessageID,
	}
}

// ParseLogRow はシートの行をLogEntryに戻す。
// 時間セルが数値として読めない行は ok=false（集計側でスキップ）
func ParseLogRow(row []string) (LogEntry, bool) {
	if len(row) < LogColMessageID {
		return LogEntry{}, false
	}

	minutesStr := strings.TrimSuffix(strings.TrimSpace(row[LogColMinutes-1]), "分")
	minutes, err := strconv.Atoi(minutesStr)
	if err != nil {
		return LogEntry{}, false
	}

	return LogEntry{
		Name:       row[LogColName-1],
		Date:       row[LogColDate-1],
		Task:       row[LogColTask-1],
		Minutes:    minutes,
		Note:       row[LogColNote-1],
		RecordedAt: row[LogColRecordedAt-1],
		MessageID:  row[LogColMessageID-1],
	}, true
}
