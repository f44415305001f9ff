package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"slack-worklog-notify/models"
	"slack-worklog-notify/services"
	"slack-worklog-notify/store"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
)

// Slackのスラッシュコマンドを処理するハンドラ
func HandleSlackCommand(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			log.Printf("failed to read request body: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}

		// ボディを復元
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		// 署名を検証
		if !services.ValidateSlackRequest(c.Request, bodyBytes) {
			log.Println("invalid slack signature")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid slack signature"})
			return
		}

		cmd, err := slack.SlashCommandParse(c.Request)
		if err != nil {
			log.Printf("failed to parse slash command: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slash command"})
			return
		}

		log.Printf("slack command received: command=%s, text=%s, channel=%s, user=%s",
			cmd.Command, cmd.Text, cmd.ChannelID, cmd.UserID)

		switch cmd.Command {
		case "/schedule":
			handleSchedule(c, st, cmd)
		case "/log":
			handleLog(c, st, cmd)
		case "/notify":
			handleNotify(c, st, cmd)
		case "/total_hours":
			handleTotalHours(c, st, cmd)
		case "/rank":
			handleRank(c, st, cmd)
		default:
			ephemeral(c, "不明なコマンドです。")
		}
	}
}

// ephemeral はコマンドを打った本人にだけ見える返信を返す
func ephemeral(c *gin.Context, text string) {
	c.JSON(http.StatusOK, gin.H{
		"response_type": "ephemeral",
		"text":          text,
	})
}

// resolveDisplayName は記録簿に書く表示名を解決する。
// users.info が引けない場合はコマンドに乗っているアカウント名で代用する
func resolveDisplayName(cmd slack.SlashCommand) string {
	user, err := services.GetSlackUser(cmd.UserID)
	if err != nil {
		log.Printf("users.info failed (user: %s): %v", cmd.UserID, err)
		return cmd.UserName
	}
	if name := services.GetDisplayName(user); name != "" {
		return name
	}
	return cmd.UserName
}

// /schedule <作業内容> <日付> 作業予定を告知して記録簿に登録する
func handleSchedule(c *gin.Context, st store.Store, cmd slack.SlashCommand) {
	parts := strings.Fields(cmd.Text)
	if len(parts) < 2 {
		ephemeral(c, "使い方: /schedule 作業内容 日付(YYYY/MM/DD)")
		return
	}

	date := parts[len(parts)-1]
	task := strings.Join(parts[:len(parts)-1], " ")

	if _, err := time.ParseInLocation(services.DateLayout, date, services.JST); err != nil {
		ephemeral(c, "日付は YYYY/MM/DD 形式で入力してください。")
		return
	}

	ts, err := services.PostChannelMessage(cmd.ChannelID, services.ScheduleMessageBlocks(task, date))
	if err != nil {
		log.Printf("schedule post failed: %v", err)
		ephemeral(c, "メッセージの投稿に失敗しました。")
		return
	}

	record := models.ScheduleRecord{MessageID: ts, Task: task, PlannedDate: date}
	if err := st.Schedules().Append(record.Row()); err != nil {
		log.Printf("schedule append failed: %v", err)
		ephemeral(c, "予定の登録に失敗しました。")
		return
	}

	ephemeral(c, fmt.Sprintf("✅ 作業予定「%s」(%s) を登録しました。", task, date))
}

// /log <作業内容> <時間> [メモ] グループ作業を告知し、報告者本人の記録もつける
func handleLog(c *gin.Context, st store.Store, cmd slack.SlashCommand) {
	parts := strings.Fields(cmd.Text)
	if len(parts) < 2 {
		ephemeral(c, "使い方: /log 作業内容 時間(例: 1h30m) [メモ]")
		return
	}

	// 最初に時間として読めるトークンを境に、前を作業内容、後ろをメモとする
	timeIdx := -1
	minutes := 0
	for i := 1; i < len(parts); i++ {
		if m := services.ParseTimeToMinutes(parts[i]); m > 0 {
			timeIdx = i
			minutes = m
			break
		}
	}
	if timeIdx < 0 {
		ephemeral(c, "時間は正しく入力してください。例: 2h, 30m, 1h30m")
		return
	}

	task := strings.Join(parts[:timeIdx], " ")
	note := strings.Join(parts[timeIdx+1:], " ")

	author := resolveDisplayName(cmd)

	ts, err := services.PostChannelMessage(cmd.ChannelID,
		services.WorkLogMessageBlocks(task, services.FormatMinutesShort(minutes), author))
	if err != nil {
		log.Printf("work log post failed: %v", err)
		ephemeral(c, "メッセージの投稿に失敗しました。")
		return
	}

	session := models.GroupSession{
		MessageID:      ts,
		Task:           task,
		DefaultMinutes: minutes,
		AuthorName:     author,
	}
	if err := st.Sessions().Append(session.Row()); err != nil {
		log.Printf("group session append failed: %v", err)
		ephemeral(c, "グループ作業の登録に失敗しました。")
		return
	}

	// 報告者本人の記録はリアクションを待たずにつける
	entry := models.LogEntry{
		Name:       author,
		Date:       services.NowJST().Format(services.DateLayout),
		Task:       task,
		Minutes:    minutes,
		Note:       note,
		RecordedAt: services.NowJST().Format(time.RFC3339),
		MessageID:  ts,
	}
	if err := services.AppendLogEntry(st.Logs(), entry); err != nil {
		log.Printf("author log append failed: %v", err)
		ephemeral(c, "作業記録の追記に失敗しました。")
		return
	}

	if services.ShouldNotifyUser(st.Settings(), cmd.UserID) {
		text := fmt.Sprintf("✅ 作業を記録しました！\n*作業内容:* %s\n*記録時間:* %d分", task, minutes)
		if err := services.SendDirectMessage(cmd.UserID, text); err != nil {
			log.Printf("dm send failed (user: %s): %v", cmd.UserID, err)
		}
	}

	ephemeral(c, fmt.Sprintf("✅ 作業「%s」(%s) を記録しました。", task, services.FormatMinutesShort(minutes)))
}

// /notify DM通知のON/OFFを切り替える
func handleNotify(c *gin.Context, st store.Store, cmd slack.SlashCommand) {
	enabled, err := services.ToggleNotification(st.Settings(), cmd.UserID)
	if err != nil {
		log.Printf("notify toggle failed (user: %s): %v", cmd.UserID, err)
		ephemeral(c, "通知設定の変更に失敗しました。")
		return
	}

	if enabled {
		ephemeral(c, "✅ DM通知を *ON* にしました。")
	} else {
		ephemeral(c, "✅ DM通知を *OFF* にしました。")
	}
}

// parsePeriod は /total_hours と /rank の期間引数を解釈する。
// 省略時は全期間
func parsePeriod(text string) (services.Period, bool) {
	switch strings.TrimSpace(text) {
	case "", "all_time":
		return services.PeriodAllTime, true
	case "weekly":
		return services.PeriodWeekly, true
	case "monthly":
		return services.PeriodMonthly, true
	}
	return "", false
}

func periodLabel(period services.Period) string {
	switch period {
	case services.PeriodWeekly:
		return "今週"
	case services.PeriodMonthly:
		return "今月"
	}
	return "全期間"
}

// /total_hours [weekly|monthly|all_time] 全員分の合計時間を返す
func handleTotalHours(c *gin.Context, st store.Store, cmd slack.SlashCommand) {
	period, ok := parsePeriod(cmd.Text)
	if !ok {
		ephemeral(c, "使い方: /total_hours [weekly|monthly|all_time]")
		return
	}

	total, err := services.CalculateTotalMinutes(st.Logs(), period, services.NowJST())
	if err != nil {
		log.Printf("total aggregation failed: %v", err)
		ephemeral(c, "エラーが発生し、時間を集計できませんでした。")
		return
	}

	ephemeral(c, fmt.Sprintf("📊 %sの合計作業時間: *%s*", periodLabel(period), services.FormatMinutes(total)))
}

// /rank [weekly|monthly|all_time] 上位5人と自分の順位を返す
func handleRank(c *gin.Context, st store.Store, cmd slack.SlashCommand) {
	period, ok := parsePeriod(cmd.Text)
	if !ok {
		ephemeral(c, "使い方: /rank [weekly|monthly|all_time]")
		return
	}

	ranking, err := services.CalculateRanking(st.Logs(), period, services.NowJST())
	if err != nil {
		log.Printf("ranking aggregation failed: %v", err)
		ephemeral(c, "エラーが発生し、ランキングを集計できませんでした。")
		return
	}

	if len(ranking) == 0 {
		ephemeral(c, fmt.Sprintf("%sの作業記録はまだありません。", periodLabel(period)))
		return
	}

	name := resolveDisplayName(cmd)

	var b strings.Builder
	fmt.Fprintf(&b, "🏆 *%sの作業時間ランキング*\n", periodLabel(period))
	for i, entry := range ranking {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "%d位: %s (%s)\n", i+1, entry.Name, services.FormatMinutesShort(entry.Minutes))
	}

	for i, entry := range ranking {
		if entry.Name == name {
			fmt.Fprintf(&b, "\nあなたの順位: %d位 (%s)", i+1, services.FormatMinutesShort(entry.Minutes))
			break
		}
	}

	ephemeral(c, b.String())
}
