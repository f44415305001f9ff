package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeReactionMap(t *testing.T) {
	t.Run("30分から13時間まで30分刻みで登録されている", func(t *testing.T) {
		assert.Len(t, TimeReactionMap, 26)

		seen := make(map[int]bool)
		for name, minutes := range TimeReactionMap {
			assert.Equal(t, 0, minutes%30, "刻みが30分ではない: %s", name)
			assert.GreaterOrEqual(t, minutes, 30)
			assert.LessOrEqual(t, minutes, 780)
			assert.False(t, seen[minutes], "分数が重複している: %s", name)
			seen[minutes] = true
		}
	})

	t.Run("代表的な絵文字の分数", func(t *testing.T) {
		assert.Equal(t, 30, TimeReactionMap["0_5h"])
		assert.Equal(t, 60, TimeReactionMap["1_0h"])
		assert.Equal(t, 780, TimeReactionMap["13_0h"])
	})
}

func TestReactionMinutes(t *testing.T) {
	t.Run("コロン付きのリアクション名でも解決できる", func(t *testing.T) {
		minutes, ok := ReactionMinutes(":2_0h:")
		assert.True(t, ok)
		assert.Equal(t, 120, minutes)
	})

	t.Run("対応表にない絵文字はok=false", func(t *testing.T) {
		_, ok := ReactionMinutes("thumbsup")
		assert.False(t, ok)
	})

	t.Run("参加絵文字は時間絵文字ではない", func(t *testing.T) {
		_, ok := ReactionMinutes(GroupReactionEmoji)
		assert.False(t, ok)
	})
}
