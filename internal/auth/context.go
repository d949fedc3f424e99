package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kazoku-nikki/family-diary-backend/internal/diary/domain"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"
	CtxDisplayName = "display_name"
	CtxAvatarURL   = "avatar_url"
	CtxUserDBID    = "user_db_id"
)

// UserFirebaseUID extracts the Firebase UID set by the auth middleware.
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// UserDBID extracts the mirrored Postgres user id set by WithUser.
func UserDBID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserDBID))
}

// CurrentUser assembles the acting user's projection from the request
// context. The zero ID means the request is unauthenticated.
func CurrentUser(c *gin.Context) domain.User {
	return domain.User{
		ID:          UserFirebaseUID(c),
		Email:       c.GetString(CtxEmail),
		DisplayName: c.GetString(CtxDisplayName),
		AvatarURL:   c.GetString(CtxAvatarURL),
	}
}
