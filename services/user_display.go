package services

// GetDisplayName は SlackUser から表示名を取得する。
// ワークスペースでの表示名があればそれを使い、
// なければ本名、どちらもなければアカウント名を返す
func GetDisplayName(user *SlackUser) string {
	if user == nil {
		return ""
	}

	if user.Profile.DisplayName != "" {
		return user.Profile.DisplayName
	}

	if user.Profile.RealName != "" {
		return user.Profile.RealName
	}

	return user.Name
}
