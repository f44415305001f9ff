package services

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"slack-worklog-notify/models"
	"slack-worklog-notify/store"
)

// Period は集計対象の期間
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAllTime Period = "all_time"
)

// UserTotal はユーザー1人分の合計作業時間
type UserTotal struct {
	Name    string
	Minutes int
}

// CalculateTotalMinutes は期間内の全員分の合計作業時間（分）を返す。
// シートが読めなかった場合のみエラー。記録が1件もなければ0
func CalculateTotalMinutes(logs store.Table, period Period, now time.Time) (int, error) {
	entries, err := readPeriodEntries(logs, period, now)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, e := range entries {
		total += e.Minutes
	}
	return total, nil
}

// CalculateRanking は期間内の合計作業時間をユーザー別に集計し、
// 降順で返す。同点は先に登場した人が上（安定ソート）
func CalculateRanking(logs store.Table, period Period, now time.Time) ([]UserTotal, error) {
	entries, err := readPeriodEntries(logs, period, now)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int)
	var order []string
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		if _, seen := totals[e.Name]; !seen {
			order = append(order, e.Name)
		}
		totals[e.Name] += e.Minutes
	}

	ranking := make([]UserTotal, 0, len(order))
	for _, name := range order {
		ranking = append(ranking, UserTotal{Name: name, Minutes: totals[name]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Minutes > ranking[j].Minutes
	})
	return ranking, nil
}

// readPeriodEntries は集計シートを全件読み、期間でフィルタして返す。
// 日付や時間が読めない行は数えずにスキップする（スキップ件数はログにだけ出す）
func readPeriodEntries(logs store.Table, period Period, now time.Time) ([]models.LogEntry, error) {
	rows, err := logs.Rows()
	if err != nil {
		return nil, err
	}

	now = now.In(JST)
	weekStart := startOfWeek(now)
	today := truncateToDate(now)
	monthPrefix := now.Format("2006/01")

	var entries []models.LogEntry
	skipped := 0

	for _, row := range rows {
		entry, ok := models.ParseLogRow(row)
		if !ok || entry.Date == "" {
			skipped++
			continue
		}

		switch period {
		case PeriodWeekly:
			logDate, err := time.ParseInLocation(DateLayout, entry.Date, JST)
			if err != nil {
				skipped++
				continue
			}
			if logDate.Before(weekStart) || logDate.After(today) {
				continue
			}
		case PeriodMonthly:
			if !strings.HasPrefix(entry.Date, monthPrefix) {
				continue
			}
		}

		entries = append(entries, entry)
	}

	if skipped > 0 {
		log.Printf("aggregation skipped %d unreadable log rows (period: %s)", skipped, period)
	}
	return entries, nil
}

// startOfWeek は直近の月曜日の0時（JST）を返す
func startOfWeek(now time.Time) time.Time {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	return truncateToDate(now).AddDate(0, 0, -daysSinceMonday)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, JST)
}

// FormatMinutes は分数を「X時間Y分」表記にする
func FormatMinutes(totalMinutes int) string {
	return fmt.Sprintf("%d時間%d分", totalMinutes/60, totalMinutes%60)
}

// FormatMinutesShort は1時間未満なら「Y分」に省略する（ランキング表示用）
func FormatMinutesShort(totalMinutes int) string {
	hours := totalMinutes / 60
	minutes := totalMinutes % 60
	if hours > 0 {
		return fmt.Sprintf("%d時間%d分", hours, minutes)
	}
	return fmt.Sprintf("%d分", minutes)
}
