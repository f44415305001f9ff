package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"

	"slack-worklog-notify/models"
	"slack-worklog-notify/services"
	"slack-worklog-notify/store"
)

func setupCommandTest(t *testing.T) (*gin.Engine, *store.MemStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	services.IsTestMode = true
	t.Cleanup(func() { services.IsTestMode = false })

	st := store.NewMemStore()
	r := gin.New()
	r.POST("/slack/command", HandleSlackCommand(st))
	return r, st
}

func postCommand(r *gin.Engine, command, text string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("command", command)
	form.Set("text", text)
	form.Set("channel_id", "C12345")
	form.Set("user_id", "U12345")
	form.Set("user_name", "alice")

	req := httptest.NewRequest("POST", "/slack/command", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ephemeralText(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		ResponseType string `json:"response_type"`
		Text         string `json:"text"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ephemeral", resp.ResponseType)
	return resp.Text
}

func mockUsersInfo(displayName string) {
	gock.New("https://slack.com").
		Get("/api/users.info").
		Reply(200).
		JSON(map[string]interface{}{
			"ok": true,
			"user": map[string]interface{}{
				"id":   "U12345",
				"name": "alice",
				"profile": map[string]string{
					"display_name": displayName,
				},
			},
		})
}

func TestHandleScheduleCommand(t *testing.T) {
	t.Run("予定を登録して記録簿に行が増える", func(t *testing.T) {
		r, st := setupCommandTest(t)

		w := postCommand(r, "/schedule", "会場設営 2025/05/10")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, ephemeralText(t, w), "登録しました")

		// テストモードの投稿は固定のtsを返す
		rowNum, row, err := st.Schedules().FindRow(models.ScheduleColMessageID, "1234.5678")
		assert.NoError(t, err)
		assert.Equal(t, 2, rowNum)
		assert.Equal(t, []string{"1234.5678", "会場設営", "2025/05/10"}, row)
	})

	t.Run("スペースを含む作業内容も登録できる", func(t *testing.T) {
		r, st := setupCommandTest(t)

		postCommand(r, "/schedule", "会場 設営 準備 2025/05/10")

		_, row, err := st.Schedules().FindRow(models.ScheduleColMessageID, "1234.5678")
		assert.NoError(t, err)
		assert.Equal(t, "会場 設営 準備", row[models.ScheduleColTask-1])
	})

	t.Run("日付の形式が不正なら登録しない", func(t *testing.T) {
		r, st := setupCommandTest(t)

		w := postCommand(r, "/schedule", "会場設営 5月10日")
		assert.Contains(t, ephemeralText(t, w), "YYYY/MM/DD")

		rows, _ := st.Schedules().Rows()
		assert.Empty(t, rows)
	})

	t.Run("引数が足りなければ使い方を返す", func(t *testing.T) {
		r, _ := setupCommandTest(t)

		w := postCommand(r, "/schedule", "会場設営")
		assert.Contains(t, ephemeralText(t, w), "使い方")
	})
}

func TestHandleLogCommand(t *testing.T) {
	t.Run("グループ作業と報告者本人の記録を登録する", func(t *testing.T) {
		r, st := setupCommandTest(t)
		defer gock.Off()
		mockUsersInfo("ありす")

		w := postCommand(r, "/log", "資料作成 1h30m")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, ephemeralText(t, w), "記録しました")

		_, sessionRow, err := st.Sessions().FindRow(models.SessionColMessageID, "1234.5678")
		assert.NoError(t, err)
		assert.Equal(t, []string{"1234.5678", "資料作成", "90", "ありす"}, sessionRow)

		logRows, _ := st.Logs().Rows()
		assert.Len(t, logRows, 1)
		entry, ok := models.ParseLogRow(logRows[0])
		assert.True(t, ok)
		assert.Equal(t, "ありす", entry.Name)
		assert.Equal(t, 90, entry.Minutes)
		assert.Equal(t, "1234.5678", entry.MessageID)
	})

	t.Run("時間の後ろはメモとして記録する", func(t *testing.T) {
		r, st := setupCommandTest(t)
		defer gock.Off()
		mockUsersInfo("ありす")

		postCommand(r, "/log", "資料作成 2h 来週の分も含む")

		logRows, _ := st.Logs().Rows()
		assert.Len(t, logRows, 1)
		entry, _ := models.ParseLogRow(logRows[0])
		assert.Equal(t, 120, entry.Minutes)
		assert.Equal(t, "来週の分も含む", entry.Note)
	})

	t.Run("ユーザー情報が引けなければアカウント名で記録する", func(t *testing.T) {
		r, st := setupCommandTest(t)
		defer gock.Off()
		gock.New("https://slack.com").
			Get("/api/users.info").
			Reply(200).
			JSON(map[string]interface{}{"ok": false, "error": "user_not_found"})

		postCommand(r, "/log", "資料作成 2h")

		logRows, _ := st.Logs().Rows()
		assert.Len(t, logRows, 1)
		entry, _ := models.ParseLogRow(logRows[0])
		assert.Equal(t, "alice", entry.Name)
	})

	t.Run("時間が解釈できなければ何も登録しない", func(t *testing.T) {
		r, st := setupCommandTest(t)

		w := postCommand(r, "/log", "資料作成 たくさん")
		assert.Contains(t, ephemeralText(t, w), "時間は正しく入力してください")

		sessionRows, _ := st.Sessions().Rows()
		assert.Empty(t, sessionRows)
		logRows, _ := st.Logs().Rows()
		assert.Empty(t, logRows)
	})
}

func TestHandleNotifyCommand(t *testing.T) {
	t.Run("呼ぶたびにON/OFFが切り替わる", func(t *testing.T) {
		r, st := setupCommandTest(t)

		w := postCommand(r, "/notify", "")
		assert.Contains(t, ephemeralText(t, w), "ON")

		w = postCommand(r, "/notify", "")
		assert.Contains(t, ephemeralText(t, w), "OFF")

		_, row, err := st.Settings().FindRow(models.SettingColUserID, "U12345")
		assert.NoError(t, err)
		assert.Equal(t, models.NotifyDisabled, row[models.SettingColNotify-1])
	})
}

func TestHandleTotalHoursCommand(t *testing.T) {
	t.Run("全期間の合計を返す", func(t *testing.T) {
		r, st := setupCommandTest(t)
		entry := models.LogEntry{Name: "alice", Date: "2025/04/16", Task: "作業", Minutes: 150, MessageID: "1.1"}
		st.Logs().Append(entry.Row())

		w := postCommand(r, "/total_hours", "")
		assert.Contains(t, ephemeralText(t, w), "2時間30分")
	})

	t.Run("不明な期間指定には使い方を返す", func(t *testing.T) {
		r, _ := setupCommandTest(t)

		w := postCommand(r, "/total_hours", "yearly")
		assert.Contains(t, ephemeralText(t, w), "使い方")
	})
}

func TestHandleRankCommand(t *testing.T) {
	t.Run("上位と自分の順位を返す", func(t *testing.T) {
		r, st := setupCommandTest(t)
		defer gock.Off()
		mockUsersInfo("ありす")

		for _, e := range []models.LogEntry{
			{Name: "ぼぶ", Date: "2025/04/16", Task: "作業", Minutes: 300, MessageID: "1.1"},
			{Name: "ありす", Date: "2025/04/16", Task: "作業", Minutes: 120, MessageID: "1.2"},
		} {
			st.Logs().Append(e.Row())
		}

		w := postCommand(r, "/rank", "all_time")
		text := ephemeralText(t, w)
		assert.Contains(t, text, "1位: ぼぶ")
		assert.Contains(t, text, "2位: ありす")
		assert.Contains(t, text, "あなたの順位: 2位")
	})

	t.Run("記録がなければその旨を返す", func(t *testing.T) {
		r, _ := setupCommandTest(t)

		w := postCommand(r, "/rank", "weekly")
		assert.Contains(t, ephemeralText(t, w), "まだありません")
	})
}

func TestHandleSlackCommandAuth(t *testing.T) {
	t.Run("署名検証に失敗したら401", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		t.Setenv("SLACK_SIGNING_SECRET", "")

		r := gin.New()
		r.POST("/slack/command", HandleSlackCommand(store.NewMemStore()))

		w := postCommand(r, "/notify", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("未知のコマンドにはその旨を返す", func(t *testing.T) {
		r, _ := setupCommandTest(t)

		w := postCommand(r, "/unknown", "")
		assert.Contains(t, ephemeralText(t, w), "不明なコマンド")
	})
}
