package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kazoku-nikki/family-diary-backend/internal/users"
)

// WithUser mirrors the authenticated identity into Postgres and attaches the
// database id to the request context. Runs after the token middleware.
func WithUser(userRepo *users.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		fuid := UserFirebaseUID(c)
		if fuid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
			c.Abort()
			return
		}

		uid, err := userRepo.EnsureUser(c.Request.Context(), users.UpsertUser{
			FirebaseUID: fuid,
			Email:       c.GetString(CtxEmail),
			DisplayName: c.GetString(CtxDisplayName),
			AvatarURL:   c.GetString(CtxAvatarURL),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "ensure user: " + err.Error()})
			c.Abort()
			return
		}

		c.Set(CtxUserDBID, uid)
		c.Next()
	}
}
