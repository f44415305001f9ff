package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"slack-worklog-notify/models"
	"slack-worklog-notify/store"
)

func TestFindScheduleByMessage(t *testing.T) {
	t.Run("登録済みの予定が引ける", func(t *testing.T) {
		schedules := &store.MemTable{}
		record := models.ScheduleRecord{MessageID: "100.1", Task: "会場設営", PlannedDate: "2025/05/10"}
		schedules.Append(record.Row())

		found, err := FindScheduleByMessage(schedules, "100.1")
		assert.NoError(t, err)
		assert.Equal(t, &record, found)
	})

	t.Run("未登録のtsはErrNotFound", func(t *testing.T) {
		_, err := FindScheduleByMessage(&store.MemTable{}, "999.9")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestFindSessionByMessage(t *testing.T) {
	t.Run("登録済みのグループ作業が引ける", func(t *testing.T) {
		sessions := &store.MemTable{}
		session := models.GroupSession{MessageID: "200.1", Task: "資料作成", DefaultMinutes: 120, AuthorName: "ありす"}
		sessions.Append(session.Row())

		found, err := FindSessionByMessage(sessions, "200.1")
		assert.NoError(t, err)
		assert.Equal(t, &session, found)
	})

	t.Run("時間セルが壊れている行はエラー", func(t *testing.T) {
		sessions := &store.MemTable{}
		sessions.Append([]string{"200.1", "資料作成", "たくさん", "ありす"})

		_, err := FindSessionByMessage(sessions, "200.1")
		assert.Error(t, err)
	})
}

func TestDeleteLatestLogFor(t *testing.T) {
	t.Run("同じ人の同じメッセージの記録は後ろから消える", func(t *testing.T) {
		logs := &store.MemTable{}
		first := models.LogEntry{Name: "ありす", Date: "2025/05/10", Task: "a", Minutes: 30, MessageID: "100.1"}
		second := models.LogEntry{Name: "ありす", Date: "2025/05/10", Task: "b", Minutes: 60, MessageID: "100.1"}
		logs.Append(first.Row())
		logs.Append(second.Row())

		deleted, err := DeleteLatestLogFor(logs, "100.1", "ありす")
		assert.NoError(t, err)
		assert.True(t, deleted)

		rows, _ := logs.Rows()
		assert.Len(t, rows, 1)
		entry, _ := models.ParseLogRow(rows[0])
		assert.Equal(t, "a", entry.Task)
	})

	t.Run("一致する記録がなければ何も消えない", func(t *testing.T) {
		logs := &store.MemTable{}
		entry := models.LogEntry{Name: "ぼぶ", Date: "2025/05/10", Task: "a", Minutes: 30, MessageID: "100.1"}
		logs.Append(entry.Row())

		deleted, err := DeleteLatestLogFor(logs, "100.1", "ありす")
		assert.NoError(t, err)
		assert.False(t, deleted)

		rows, _ := logs.Rows()
		assert.Len(t, rows, 1)
	})
}

func TestDeleteLogsByMessage(t *testing.T) {
	t.Run("tsが一致する全行が消えて件数が返る", func(t *testing.T) {
		logs := &store.MemTable{}
		for _, e := range []models.LogEntry{
			{Name: "ありす", Date: "2025/05/10", Task: "a", Minutes: 30, MessageID: "200.1"},
			{Name: "ぼぶ", Date: "2025/05/10", Task: "a", Minutes: 60, MessageID: "200.1"},
			{Name: "ありす", Date: "2025/05/10", Task: "b", Minutes: 90, MessageID: "300.1"},
		} {
			logs.Append(e.Row())
		}

		count, err := DeleteLogsByMessage(logs, "200.1")
		assert.NoError(t, err)
		assert.Equal(t, 2, count)

		rows, _ := logs.Rows()
		assert.Len(t, rows, 1)
		entry, _ := models.ParseLogRow(rows[0])
		assert.Equal(t, "300.1", entry.MessageID)
	})

	t.Run("一致しなければ0件", func(t *testing.T) {
		count, err := DeleteLogsByMessage(&store.MemTable{}, "999.9")
		assert.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}
