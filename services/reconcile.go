package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"slack-worklog-notify/models"
	"slack-worklog-notify/store"
)

// リアクションと作業記録の突き合わせ。
// 記録の有無はシートの行がすべてで、別の状態管理は持たない

// HandleReactionAdded はリアクション追加を作業記録に反映する。
// 活動予定→グループ作業の順でメッセージtsを照合し、最初に当たった方だけ処理する
func HandleReactionAdded(st store.Store, userID, userName, reaction, messageID string) error {
	reaction = NormalizeReaction(reaction)

	// パターン1: /schedule のメッセージへのリアクション
	schedule, err := FindScheduleByMessage(st.Schedules(), messageID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("schedule lookup failed: %w", err)
	}
	if schedule != nil {
		minutes, ok := ReactionMinutes(reaction)
		if !ok {
			// 時間絵文字以外は記録対象外（リアクション自体は放置）
			return nil
		}

		entry := models.LogEntry{
			Name:       userName,
			Date:       schedule.PlannedDate,
			Task:       schedule.Task,
			Minutes:    minutes,
			RecordedAt: NowJST().Format(time.RFC3339),
			MessageID:  messageID,
		}
		if err := AppendLogEntry(st.Logs(), entry); err != nil {
			return fmt.Errorf("log append failed: %w", err)
		}

		notifyRecorded(st, userID, schedule.Task, minutes,
			"✅ 予定作業への参加を記録しました！")
		log.Printf("schedule log recorded: %s - %s (%d min)", userName, schedule.Task, minutes)
		return nil
	}

	// パターン2: /log のメッセージへのリアクション
	session, err := FindSessionByMessage(st.Sessions(), messageID)
	if errors.Is(err, store.ErrNotFound) {
		// どちらの記録簿にもないメッセージは無関係
		return nil
	}
	if err != nil {
		return fmt.Errorf("group session lookup failed: %w", err)
	}

	var minutes int
	var note string
	switch {
	case reaction == GroupReactionEmoji:
		minutes = session.DefaultMinutes
		note = "(参加)"
	default:
		m, ok := ReactionMinutes(reaction)
		if !ok {
			return nil
		}
		minutes = m
		note = "(別時間で参加)"
	}

	entry := models.LogEntry{
		Name:       userName,
		Date:       NowJST().Format(DateLayout),
		Task:       session.Task,
		Minutes:    minutes,
		Note:       note,
		RecordedAt: NowJST().Format(time.RFC3339),
		MessageID:  messageID,
	}
	if err := AppendLogEntry(st.Logs(), entry); err != nil {
		return fmt.Errorf("log append failed: %w", err)
	}

	notifyRecorded(st, userID, session.Task, minutes,
		"✅ グループ作業への参加を記録しました！")
	log.Printf("group log recorded: %s - %s (%d min, %s)", userName, session.Task, minutes, note)
	return nil
}

// HandleReactionRemoved はリアクション取り消しに対応する記録を1行だけ削除する
func HandleReactionRemoved(st store.Store, userName, messageID string) error {
	deleted, err := DeleteLatestLogFor(st.Logs(), messageID, userName)
	if err != nil {
		return fmt.Errorf("log delete failed: %w", err)
	}
	if deleted {
		log.Printf("reaction removed: deleted log for %s (message: %s)", userName, messageID)
	}
	return nil
}

// HandleMessageDeleted は記録簿に登録されたメッセージの削除に対応する。
// グループ作業は関連する全記録ごと消し、活動予定は予定行だけ消す
// （予定への参加記録は実績なので残す）
func HandleMessageDeleted(st store.Store, messageID string) error {
	rowNum, _, err := st.Sessions().FindRow(models.SessionColMessageID, messageID)
	if err == nil {
		count, err := DeleteLogsByMessage(st.Logs(), messageID)
		if err != nil {
			return fmt.Errorf("cascade delete failed: %w", err)
		}
		if err := st.Sessions().DeleteRow(rowNum); err != nil {
			return fmt.Errorf("group session delete failed: %w", err)
		}
		log.Printf("group message deleted: removed %d logs and session row (message: %s)", count, messageID)
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("group session lookup failed: %w", err)
	}

	rowNum, _, err = st.Schedules().FindRow(models.ScheduleColMessageID, messageID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("schedule lookup failed: %w", err)
	}

	if err := st.Schedules().DeleteRow(rowNum); err != nil {
		return fmt.Errorf("schedule delete failed: %w", err)
	}
	log.Printf("schedule message deleted: removed schedule row (message: %s)", messageID)
	return nil
}

// notifyRecorded はDM通知設定がONのユーザーにだけ記録完了を知らせる。
// DMが送れなくても記録は成立しているのでログに残すだけ
func notifyRecorded(st store.Store, userID, task string, minutes int, header string) {
	if !ShouldNotifyUser(st.Settings(), userID) {
		return
	}

	text := fmt.Sprintf("%s\n*作業内容:* %s\n*記録時間:* %d分", header, task, minutes)
	if err := SendDirectMessage(userID, text); err != nil {
		log.Printf("dm send failed (user: %s): %v", userID, err)
	}
}
