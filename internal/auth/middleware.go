package auth

import (
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// FirebaseAuthMiddleware validates Firebase ID tokens and stores the
// caller's identity in the request context.
func FirebaseAuthMiddleware(authClient *fbauth.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token"})
			c.Abort()
			return
		}

		decoded, err := authClient.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(CtxFirebaseUID, decoded.UID)
		if email, ok := decoded.Claims["email"].(string); ok {
			c.Set(CtxEmail, email)
		}
		if name, ok := decoded.Claims["name"].(string); ok {
			c.Set(CtxDisplayName, name)
		}
		if picture, ok := decoded.Claims["picture"].(string); ok {
			c.Set(CtxAvatarURL, picture)
		}

		c.Next()
	}
}

// OptionalUser sets a firebase uid in context without enforcing auth.
// Used only when the service runs disconnected; every request acts as the
// demo user unless X-User-Id says otherwise.
func OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid == "" {
			uid = "demo-user"
		}

		c.Set(CtxFirebaseUID, uid)
		if email := strings.TrimSpace(c.GetHeader("X-User-Email")); email != "" {
			c.Set(CtxEmail, email)
		}
		if name := strings.TrimSpace(c.GetHeader("X-User-Name")); name != "" {
			c.Set(CtxDisplayName, name)
		}

		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
