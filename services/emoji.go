package services

import "strings"

// TimeReactionMap は時間絵文字（ワークスペースのカスタム絵文字）と分数の対応表。
// 0.5時間刻みで13時間まで
var TimeReactionMap = map[string]int{
	"0_5h":  30,
	"1_0h":  60,
	"1_5h":  90,
	"2_0h":  120,
	"2_5h":  150,
	"3_0h":  180,
	"3_5h":  210,
	"4_0h":  240,
	"4_5h":  270,
	"5_0h":  300,
	"5_5h":  330,
	"6_0h":  360,
	"6_5h":  390,
	"7_0h":  420,
	"7_5h":  450,
	"8_0h":  480,
	"8_5h":  510,
	"9_0h":  540,
	"9_5h":  570,
	"10_0h": 600,
	"10_5h": 630,
	"11_0h": 660,
	"11_5h": 690,
	"12_0h": 720,
	"12_5h": 750,
	"13_0h": 780,
}

// GroupReactionEmoji はグループ作業への参加（✋）を表すリアクション名
const GroupReactionEmoji = "hand"

// NormalizeReaction はイベントに乗ってくるリアクション名を対応表のキーに揃える
func NormalizeReaction(name string) string {
	return strings.Trim(name, ":")
}

// ReactionMinutes は時間絵文字なら分数を返す。対応表にない絵文字は ok=false
func ReactionMinutes(name string) (int, bool) {
	minutes, ok := TimeReactionMap[NormalizeReaction(name)]
	return minutes, ok
}
