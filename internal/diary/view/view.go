// Package view maps a selected view id to what should be rendered. Select is
// a pure function over the current entries and user; it does no I/O.
package view

import (
	"github.com/kazoku-nikki/family-diary-backend/internal/diary/domain"
)

const (
	ViewHome     = "home"
	ViewDiary    = "diary"
	ViewFamily   = "family"
	ViewSettings = "settings"
)

type Model struct {
	View     string              `json:"view"`
	Found    bool                `json:"found"`
	Title    string              `json:"title"`
	Subtitle string              `json:"subtitle,omitempty"`
	Entries  []domain.DiaryEntry `json:"entries,omitempty"`
	User     *domain.User        `json:"user,omitempty"`
}

// Select resolves a view id. Home and diary both render the full entry list;
// the app has never distinguished them and that is kept as-is. Unknown ids
// yield a not-found model.
func Select(viewID string, entries []domain.DiaryEntry, user *domain.User) Model {
	switch viewID {
	case ViewHome:
		return Model{View: viewID, Found: true, Title: "ホーム", Subtitle: "最新の家族の思い出", Entries: entries, User: user}
	case ViewDiary:
		return Model{View: viewID, Found: true, Title: "日記一覧", Subtitle: "家族みんなの日記", Entries: entries, User: user}
	case ViewFamily:
		return Model{View: viewID, Found: true, Title: "家族管理", Subtitle: "家族メンバーの管理", User: user}
	case ViewSettings:
		return Model{View: viewID, Found: true, Title: "設定", Subtitle: "アプリの設定", User: user}
	default:
		return Model{View: viewID, Title: "ページが見つかりません"}
	}
}
