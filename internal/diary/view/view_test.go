package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazoku-nikki/family-diary-backend/internal/diary/domain"
	"github.com/kazoku-nikki/family-diary-backend/internal/diary/view"
)

func TestSelectHomeAndDiaryCarryEntries(t *testing.T) {
	entries := []domain.DiaryEntry{{ID: "e1"}, {ID: "e2"}}
	user := &domain.User{ID: "u1"}

	for _, id := range []string{view.ViewHome, view.ViewDiary} {
		m := view.Select(id, entries, user)
		require.True(t, m.Found, id)
		assert.Equal(t, id, m.View)
		assert.Len(t, m.Entries, 2)
		assert.Equal(t, user, m.User)
		assert.NotEmpty(t, m.Title)
	}

	assert.Equal(t, "ホーム", view.Select(view.ViewHome, nil, nil).Title)
	assert.Equal(t, "日記一覧", view.Select(view.ViewDiary, nil, nil).Title)
}

func TestSelectFamilyAndSettingsCarryNoEntries(t *testing.T) {
	entries := []domain.DiaryEntry{{ID: "e1"}}

	for _, id := range []string{view.ViewFamily, view.ViewSettings} {
		m := view.Select(id, entries, nil)
		require.True(t, m.Found, id)
		assert.Empty(t, m.Entries, id)
	}
}

func TestSelectUnknownView(t *testing.T) {
	m := view.Select("albums", nil, &domain.User{ID: "u1"})
	assert.False(t, m.Found)
	assert.Equal(t, "albums", m.View)
	assert.Equal(t, "ページが見つかりません", m.Title)
	assert.Empty(t, m.Entries)
}
