package domain

import (
	"strings"
	"time"
)

// PrivacyLevel labels who an entry is intended for. The label is stored and
// displayed on every entry but no read path filters by it.
type PrivacyLevel string

const (
	PrivacyFamily      PrivacyLevel = "family"
	PrivacyParentsOnly PrivacyLevel = "parents_only"
	PrivacyPrivate     PrivacyLevel = "private"
)

func (p PrivacyLevel) Valid() bool {
	switch p {
	case PrivacyFamily, PrivacyParentsOnly, PrivacyPrivate:
		return true
	}
	return false
}

// User is the read-only projection of a Firebase identity. It is created on
// sign-in and cleared on sign-out; nothing in this service mutates it.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

type EntryImage struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption,omitempty"`
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Comment belongs to exactly one entry. Comments are appended, never edited
// or removed.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    *User     `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DiaryEntry is a single diary post with its engagement state.
//
// EventDate is the calendar day the entry is about ("2024-08-05"); CreatedAt
// is when it was written. CommentCount must equal len(Comments) whenever the
// comments are loaded, and LikeCount never goes below zero.
type DiaryEntry struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	AuthorID     string       `json:"author_id"`
	Author       *User        `json:"author,omitempty"`
	PrivacyLevel PrivacyLevel `json:"privacy_level"`
	EventDate    string       `json:"event_date"`
	CreatedAt    time.Time    `json:"created_at"`
	Images       []EntryImage `json:"images,omitempty"`
	LikeCount    int          `json:"like_count"`
	CommentCount int          `json:"comment_count"`
	IsLiked      bool         `json:"is_liked"`
	Category     *Category    `json:"category,omitempty"`
	Comments     []Comment    `json:"comments,omitempty"`
}

// CreateEntryInput is what the create form submits.
type CreateEntryInput struct {
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	CategoryID   string       `json:"category_id,omitempty"`
	PrivacyLevel PrivacyLevel `json:"privacy_level"`
	EventDate    string       `json:"event_date"`
}

// Validate rejects an input before any state is touched. An empty privacy
// level falls back to "family", matching the create form's default.
func (in *CreateEntryInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.Content) == "" {
		return &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if in.PrivacyLevel == "" {
		in.PrivacyLevel = PrivacyFamily
	}
	if !in.PrivacyLevel.Valid() {
		return &ValidationError{Field: "privacy_level", Reason: "must be family, parents_only or private"}
	}
	return nil
}
