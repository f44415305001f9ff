package models

import "strconv"

// ScheduleRecord は活動予定シートの1行。
// /schedule で投稿したお知らせメッセージのtsをキーにする
type ScheduleRecord struct {
	MessageID   string
	Task        string
	PlannedDate string
}

const (
	ScheduleColMessageID = iota + 1
	ScheduleColTask
	ScheduleColDate
)

func (s ScheduleRecord) Row() []string {
	return []string{s.MessageID, s.Task, s.PlannedDate}
}

// GroupSession はグループ作業シートの1行。
// /log で投稿した「参加者募集」メッセージのtsをキーにする
type GroupSession struct {
	MessageID      string
	Task           string
	DefaultMinutes int
	AuthorName     string
}

const (
	SessionColMessageID = iota + 1
	SessionColTask
	SessionColMinutes
	SessionColAuthor
)

func (g GroupSession) Row() []string {
	return []string{g.MessageID, g.Task, strconv.Itoa(g.DefaultMinutes), g.AuthorName}
}
