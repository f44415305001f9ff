package models

// 設定シートの列。1列目がユーザーID（ユニーク）、2列目がDM通知のON/OFF
const (
	SettingColUserID = iota + 1
	SettingColNotify
)

// 通知フラグのセル値。gspread時代からの互換で大文字のTRUE/FALSE
const (
	NotifyEnabled  = "TRUE"
	NotifyDisabled = "FALSE"
)
