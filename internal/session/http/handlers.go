// Package http exposes the session gate over the API: login, logout and the
// current-user probe.
package http

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/kazoku-nikki/family-diary-backend/internal/session"
	"github.com/kazoku-nikki/family-diary-backend/internal/session/repository"
)

type Handler struct {
	gate     *session.Gate
	sessions *repository.SessionRepository // nil when Redis is not configured
	limiter  *rate.Limiter
}

func New(gate *session.Gate, sessions *repository.SessionRepository) *Handler {
	return &Handler{
		gate:     gate,
		sessions: sessions,
		// Password attempts are a brute-force target; one sustained attempt
		// per second with a small burst is plenty for a family.
		limiter: rate.NewLimiter(rate.Limit(1), 5),
	}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	if !h.limiter.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "too many login attempts"})
		return
	}

	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "email and password are required"})
		return
	}

	if err := h.gate.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		var aerr *session.AuthError
		if errors.As(err, &aerr) {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "login failed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "login failed"})
		return
	}

	sess := h.gate.Session()
	resp := gin.H{"ok": true, "user": sess.User, "id_token": sess.IDToken}

	if h.sessions != nil {
		rec := &repository.Record{
			UserID:       sess.User.ID,
			Email:        sess.User.Email,
			RefreshToken: sess.RefreshToken,
		}
		// The record lives as long as the provider says the token does;
		// without a reported lifetime the repository's default TTL applies.
		if sess.ExpiresIn > 0 {
			rec.CreatedAt = time.Now()
			rec.ExpiresAt = rec.CreatedAt.Add(sess.ExpiresIn)
		}
		if err := h.sessions.Create(c.Request.Context(), rec); err != nil {
			// The session store is bookkeeping, not the source of truth;
			// login still succeeds.
			log.Printf("[warn] operation=create_session error=%v", err)
		} else {
			resp["session_id"] = rec.SessionID
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) logout(c *gin.Context) {
	user := h.gate.Current()
	h.gate.Logout(c.Request.Context())

	if h.sessions != nil && user != nil {
		if err := h.sessions.DeleteByUser(c.Request.Context(), user.ID); err != nil {
			log.Printf("[warn] operation=delete_sessions error=%v", err)
		}
	}

	// Logout never fails the caller.
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// me reports the gate's session. The service holds one household session
// per process (the gate is the single session owner), so this is the shared
// login state, not the per-request token identity the entry routes verify.
func (h *Handler) me(c *gin.Context) {
	user := h.gate.Current()
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user, "state": h.gate.State().String()})
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.login)
	rg.POST("/auth/logout", h.logout)
	rg.GET("/auth/me", h.me)
}
