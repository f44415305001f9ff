package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDisplayName(t *testing.T) {
	t.Run("表示名があれば表示名を使う", func(t *testing.T) {
		user := &SlackUser{Name: "account"}
		user.Profile.DisplayName = "ニックネーム"
		user.Profile.RealName = "本名"

		assert.Equal(t, "ニックネーム", GetDisplayName(user))
	})

	t.Run("表示名がなければ本名を使う", func(t *testing.T) {
		user := &SlackUser{Name: "account"}
		user.Profile.RealName = "本名"

		assert.Equal(t, "本名", GetDisplayName(user))
	})

	t.Run("どちらもなければアカウント名", func(t *testing.T) {
		user := &SlackUser{Name: "account"}

		assert.Equal(t, "account", GetDisplayName(user))
	})

	t.Run("nilなら空文字列", func(t *testing.T) {
		assert.Equal(t, "", GetDisplayName(nil))
	})
}
