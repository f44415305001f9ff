package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/slack-go/slack"
)

// IsTestMode がtrueの間は外向きのSlack呼び出しと署名検証をスキップする
var IsTestMode = false

type SlackMessage struct {
	Channel string  `json:"channel"`
	Blocks  []Block `json:"blocks,omitempty"`
	Text    string  `json:"text,omitempty"`
}

type Block struct {
	Type   string       `json:"type"`
	Text   *TextObject  `json:"text,omitempty"`
	Fields []TextObject `json:"fields,omitempty"`
}

type TextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type SlackPostResponse struct {
	OK      bool   `json:"ok"`
	Channel string `json:"channel"`
	Ts      string `json:"ts"`
	Error   string `json:"error,omitempty"`
}

// SlackUser は users.info のレスポンスに含まれるユーザー情報
type SlackUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsBot   bool   `json:"is_bot"`
	Profile struct {
		DisplayName string `json:"display_name"`
		RealName    string `json:"real_name"`
	} `json:"profile"`
}

// ValidateSlackRequest はSlackの署名シークレットでリクエストを検証する
func ValidateSlackRequest(r *http.Request, body []byte) bool {
	if IsTestMode {
		return true
	}

	secret := os.Getenv("SLACK_SIGNING_SECRET")
	if secret == "" {
		return false
	}

	verifier, err := slack.NewSecretsVerifier(r.Header, secret)
	if err != nil {
		return false
	}
	if _, err := verifier.Write(body); err != nil {
		return false
	}
	return verifier.Ensure() == nil
}

// PostChannelMessage はブロック付きメッセージをチャンネルに投稿し、
// 投稿されたメッセージのts（記録簿のキーになる）を返す
func PostChannelMessage(channel string, blocks []Block) (string, error) {
	if IsTestMode {
		return "1234.5678", nil
	}

	message := SlackMessage{
		Channel: channel,
		Blocks:  blocks,
	}

	resp, err := postSlackAPI("https://slack.com/api/chat.postMessage", message)
	if err != nil {
		return "", err
	}
	return resp.Ts, nil
}

// PostChannelText はテキスト1本のメッセージを投稿する（定期レポート用）
func PostChannelText(channel, text string) error {
	if IsTestMode {
		return nil
	}

	message := SlackMessage{
		Channel: channel,
		Blocks: []Block{
			{
				Type: "section",
				Text: &TextObject{Type: "mrkdwn", Text: text},
			},
		},
	}

	_, err := postSlackAPI("https://slack.com/api/chat.postMessage", message)
	return err
}

// SendDirectMessage はユーザーにDMを送る。
// 送れなくても作業記録自体は成立しているので、呼び出し側はログに残すだけでよい
func SendDirectMessage(userID, text string) error {
	if IsTestMode {
		return nil
	}

	// DMチャンネルを開いてから投稿する
	openResp, err := postSlackAPIRaw("https://slack.com/api/conversations.open",
		map[string]interface{}{"users": userID})
	if err != nil {
		return err
	}

	var open struct {
		OK      bool   `json:"ok"`
		Error   string `json:"error,omitempty"`
		Channel struct {
			ID string `json:"id"`
		} `json:"channel"`
	}
	if err := json.Unmarshal(openResp, &open); err != nil {
		return err
	}
	if !open.OK {
		return fmt.Errorf("slack error: %s", open.Error)
	}

	_, err = postSlackAPI("https://slack.com/api/chat.postMessage", SlackMessage{
		Channel: open.Channel.ID,
		Text:    text,
	})
	return err
}

// GetSlackUser はユーザー情報を取得する（表示名の解決とbot判定に使う）
func GetSlackUser(userID string) (*SlackUser, error) {
	req, err := http.NewRequest("GET",
		"https://slack.com/api/users.info?user="+url.QueryEscape(userID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+os.Getenv("SLACK_BOT_TOKEN"))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	var userResp struct {
		OK    bool      `json:"ok"`
		Error string    `json:"error,omitempty"`
		User  SlackUser `json:"user"`
	}
	if err := json.Unmarshal(bodyBytes, &userResp); err != nil {
		return nil, err
	}
	if !userResp.OK {
		return nil, fmt.Errorf("slack error: %s", userResp.Error)
	}

	return &userResp.User, nil
}

func postSlackAPI(apiURL string, body interface{}) (*SlackPostResponse, error) {
	bodyBytes, err := postSlackAPIRaw(apiURL, body)
	if err != nil {
		return nil, err
	}

	var slackResp SlackPostResponse
	if err := json.Unmarshal(bodyBytes, &slackResp); err != nil {
		return nil, err
	}
	if !slackResp.OK {
		return nil, fmt.Errorf("slack error: %s", slackResp.Error)
	}
	return &slackResp, nil
}

func postSlackAPIRaw(apiURL string, body interface{}) ([]byte, error) {
	jsonData, _ := json.Marshal(body)
	req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+os.Getenv("SLACK_BOT_TOKEN"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
