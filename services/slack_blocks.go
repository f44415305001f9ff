package services

import "fmt"

// ScheduleMessageBlocks は /schedule が投稿する告知メッセージを組み立てる。
// このメッセージへの時間絵文字リアクションが参加記録になる
func ScheduleMessageBlocks(task, date string) []Block {
	return []Block{
		{
			Type: "section",
			Text: &TextObject{
				Type: "mrkdwn",
				Text: fmt.Sprintf("🗓️ *作業予定のお知らせ*\n*作業内容:* %s\n*予定日:* %s", task, date),
			},
		},
		{
			Type: "section",
			Fields: []TextObject{
				{
					Type: "mrkdwn",
					Text: "*記録方法:*\n作業したら時間の絵文字（:1_0h: など）でリアクションしてください",
				},
			},
		},
	}
}

// WorkLogMessageBlocks は /log が投稿するグループ作業の記録メッセージを組み立てる
func WorkLogMessageBlocks(task, timeStr, author string) []Block {
	return []Block{
		{
			Type: "section",
			Text: &TextObject{
				Type: "mrkdwn",
				Text: fmt.Sprintf("📝 *作業記録: %s*\n✋ でリアクションすると同じ時間で参加記録がつきます\n別の時間で参加した人は時間の絵文字でリアクションしてください", task),
			},
		},
		{
			Type: "section",
			Fields: []TextObject{
				{
					Type: "mrkdwn",
					Text: fmt.Sprintf("*報告者:*\n%s", author),
				},
				{
					Type: "mrkdwn",
					Text: fmt.Sprintf("*時間（一人あたり）:*\n%s", timeStr),
				},
			},
		},
	}
}
