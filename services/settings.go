package services

import (
	"errors"
	"log"

	"slack-worklog-notify/models"
	"slack-worklog-notify/store"
)

// ShouldNotifyUser はユーザーのDM通知設定がONかどうかを返す。
// 設定行がない・読めない場合は通知しない側に倒す
func ShouldNotifyUser(settings store.Table, userID string) bool {
	rowNum, _, err := settings.FindRow(models.SettingColUserID, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("dm setting lookup error (user: %s): %v", userID, err)
		}
		return false
	}

	value, err := settings.ReadCell(rowNum, models.SettingColNotify)
	if err != nil {
		log.Printf("dm setting read error (user: %s): %v", userID, err)
		return false
	}
	return value == models.NotifyEnabled
}

// ToggleNotification はDM通知設定を反転させ、新しい状態を返す。
// 初回は行を作成してONにする
func ToggleNotification(settings store.Table, userID string) (bool, error) {
	rowNum, _, err := settings.FindRow(models.SettingColUserID, userID)
	if errors.Is(err, store.ErrNotFound) {
		if err := settings.Append([]string{userID, models.NotifyEnabled}); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	current, err := settings.ReadCell(rowNum, models.SettingColNotify)
	if err != nil {
		return false, err
	}

	enabled := current != models.NotifyEnabled
	value := models.NotifyDisabled
	if enabled {
		value = models.NotifyEnabled
	}
	if err := settings.UpdateCell(rowNum, models.SettingColNotify, value); err != nil {
		return false, err
	}
	return enabled, nil
}
