package store

import (
	"time"

	"github.com/kazoku-nikki/family-diary-backend/internal/diary/domain"
)

// SeedEntries returns the two demo entries shown when the service runs
// without a Firebase project, e.g. local development behind the demo login.
func SeedEntries() []domain.DiaryEntry {
	dad := domain.User{ID: "seed-dad", Email: "dad@example.com", DisplayName: "お父さん"}
	mom := domain.User{ID: "seed-mom", Email: "mom@example.com", DisplayName: "お母さん"}

	return []domain.DiaryEntry{
		{
			ID:           "seed-entry-1",
			Title:        "公園でピクニック",
			Content:      "天気が良かったので、みんなで近所の公園へ。お弁当を広げて、午後はずっとバドミントンをしていました。",
			AuthorID:     dad.ID,
			Author:       &dad,
			PrivacyLevel: domain.PrivacyFamily,
			EventDate:    "2024-07-20",
			CreatedAt:    time.Date(2024, 7, 20, 18, 30, 0, 0, time.UTC),
			Images: []domain.EntryImage{
				{ID: "seed-img-1", ImageURL: "https://images.unsplash.com/photo-1506744038136-46273834b3fb", Caption: "公園の芝生にて"},
			},
			LikeCount:    2,
			CommentCount: 1,
			Category:     domain.CategoryByID("cat1"),
			Comments: []domain.Comment{
				{
					ID:        "seed-comment-1",
					Content:   "楽しかったね！また行こう",
					Author:    &mom,
					CreatedAt: time.Date(2024, 7, 20, 20, 15, 0, 0, time.UTC),
				},
			},
		},
		{
			ID:           "seed-entry-2",
			Title:        "初めての自転車",
			Content:      "太郎が補助輪なしで自転車に乗れるようになりました。何度も転んだけど最後まで諦めなかった。",
			AuthorID:     mom.ID,
			Author:       &mom,
			PrivacyLevel: domain.PrivacyFamily,
			EventDate:    "2024-07-15",
			CreatedAt:    time.Date(2024, 7, 15, 17, 0, 0, 0, time.UTC),
			LikeCount:    3,
			Category:     domain.CategoryByID("cat2"),
		},
	}
}
