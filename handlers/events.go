package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"slack-worklog-notify/services"
	"slack-worklog-notify/store"

	"github.com/gin-gonic/gin"
)

// Slackイベントを処理するハンドラ
func HandleSlackEvents(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		if !services.ValidateSlackRequest(c.Request, body) {
			log.Println("invalid slack signature")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid slack signature"})
			return
		}

		var payload struct {
			Type      string `json:"type"`
			Challenge string `json:"challenge"`
			Event     struct {
				Type     string `json:"type"`
				SubType  string `json:"subtype"`
				User     string `json:"user"`
				Reaction string `json:"reaction"`
				Item     struct {
					Type    string `json:"type"`
					Channel string `json:"channel"`
					Ts      string `json:"ts"`
				} `json:"item"`
				DeletedTS string `json:"deleted_ts"`
			} `json:"event"`
		}

		if err := json.Unmarshal(body, &payload); err != nil {
			log.Printf("JSONパースエラー: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		// URL検証チャレンジへの応答
		if payload.Type == "url_verification" {
			c.String(http.StatusOK, payload.Challenge)
			return
		}

		// Slackは3秒以内の200を要求するが、この規模ならシート書き込み込みでも
		// 同期処理で間に合う。失敗はログに残すだけでリトライは受けない
		switch payload.Event.Type {
		case "reaction_added":
			if payload.Event.Item.Type != "message" {
				break
			}
			user, err := services.GetSlackUser(payload.Event.User)
			if err != nil {
				log.Printf("users.info failed (user: %s): %v", payload.Event.User, err)
				break
			}
			if user.IsBot {
				break
			}
			name := services.GetDisplayName(user)
			if err := services.HandleReactionAdded(st, payload.Event.User, name,
				payload.Event.Reaction, payload.Event.Item.Ts); err != nil {
				log.Printf("reaction_added handling failed: %v", err)
			}

		case "reaction_removed":
			if payload.Event.Item.Type != "message" {
				break
			}
			user, err := services.GetSlackUser(payload.Event.User)
			if err != nil {
				log.Printf("users.info failed (user: %s): %v", payload.Event.User, err)
				break
			}
			if user.IsBot {
				break
			}
			name := services.GetDisplayName(user)
			if err := services.HandleReactionRemoved(st, name, payload.Event.Item.Ts); err != nil {
				log.Printf("reaction_removed handling failed: %v", err)
			}

		case "message":
			if payload.Event.SubType != "message_deleted" {
				break
			}
			if err := services.HandleMessageDeleted(st, payload.Event.DeletedTS); err != nil {
				log.Printf("message_deleted handling failed: %v", err)
			}
		}

		c.Status(http.StatusOK)
	}
}
