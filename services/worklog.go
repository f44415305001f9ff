package services

import (
	"errors"
	"strconv"
	"time"

	"slack-worklog-notify/models"
	"slack-worklog-notify/store"
)

// 記録簿の日付はすべて日本時間
var JST = time.FixedZone("JST", 9*60*60)

const DateLayout = "2006/01/02"

// NowJST は現在の日本時間を返す
func NowJST() time.Time {
	return time.Now().In(JST)
}

// AppendLogEntry は作業記録を集計シートの末尾に追記する
func AppendLogEntry(logs store.Table, entry models.LogEntry) error {
	return logs.Append(entry.Row())
}

// FindScheduleByMessage はメッセージtsに対応する活動予定を探す。
// 見つからなければ store.ErrNotFound
func FindScheduleByMessage(schedules store.Table, messageID string) (*models.ScheduleRecord, error) {
	_, row, err := schedules.FindRow(models.ScheduleColMessageID, messageID)
	if err != nil {
		return nil, err
	}
	if len(row) < models.ScheduleColDate {
		return nil, store.ErrNotFound
	}

	return &models.ScheduleRecord{
		MessageID:   row[models.ScheduleColMessageID-1],
		Task:        row[models.ScheduleColTask-1],
		PlannedDate: row[models.ScheduleColDate-1],
	}, nil
}

// FindSessionByMessage はメッセージtsに対応するグループ作業を探す
func FindSessionByMessage(sessions store.Table, messageID string) (*models.GroupSession, error) {
	_, row, err := sessions.FindRow(models.SessionColMessageID, messageID)
	if err != nil {
		return nil, err
	}
	if len(row) < models.SessionColAuthor {
		return nil, store.ErrNotFound
	}

	minutes, err := strconv.Atoi(row[models.SessionColMinutes-1])
	if err != nil {
		return nil, errors.New("group session row has invalid minutes")
	}

	return &models.GroupSession{
		MessageID:      row[models.SessionColMessageID-1],
		Task:           row[models.SessionColTask-1],
		DefaultMinutes: minutes,
		AuthorName:     row[models.SessionColAuthor-1],
	}, nil
}

// DeleteLatestLogFor はメッセージtsと表示名の両方が一致する記録のうち、
// 最後に追記された1行だけを削除する。
// 同じ人が同じメッセージに複数回記録していても、取り消し1回につき1行
func DeleteLatestLogFor(logs store.Table, messageID, name string) (bool, error) {
	rows, err := logs.Rows()
	if err != nil {
		return false, err
	}

	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if len(row) < models.LogColMessageID {
			continue
		}
		if row[models.LogColMessageID-1] == messageID && row[models.LogColName-1] == name {
			if err := logs.DeleteRow(i + 2); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// DeleteLogsByMessage はメッセージtsに紐づく全記録を削除する（カスケード削除）。
// 行番号がずれないよう後ろから消す
func DeleteLogsByMessage(logs store.Table, messageID string) (int, error) {
	rowNums, err := logs.FindRows(models.LogColMessageID, messageID)
	if err != nil {
		return 0, err
	}

	for i := len(rowNums) - 1; i >= 0; i-- {
		if err := logs.DeleteRow(rowNums[i]); err != nil {
			return 0, err
		}
	}
	return len(rowNums), nil
}
