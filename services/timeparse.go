package services

import (
	"regexp"
	"strconv"
)

// "2h" "30m" "1.5h" "1h30m" のような時間表記にマッチさせる
var (
	hourPattern   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)h`)
	minutePattern = regexp.MustCompile(`(?i)(\d+)m`)
)

// ParseTimeToMinutes は時間文字列を分に変換する。
// どちらのトークンも見つからなければ0を返す（0以下の扱いは呼び出し側の責任）
func ParseTimeToMinutes(timeStr string) int {
	hours := 0.0
	minutes := 0

	if m := hourPattern.FindStringSubmatch(timeStr); m != nil {
		hours, _ = strconv.ParseFloat(m[1], 64)
	}
	if m := minutePattern.FindStringSubmatch(timeStr); m != nil {
		minutes, _ = strconv.Atoi(m[1])
	}

	return int(hours*60) + minutes
}
