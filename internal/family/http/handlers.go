package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kazoku-nikki/family-diary-backend/internal/family"
)

type Handler struct {
	repo *family.Repo
}

func New(repo *family.Repo) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) list(c *gin.Context) {
	members, err := h.repo.ListMembers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "members": members})
}

type inviteReq struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *Handler) invite(c *gin.Context) {
	var req inviteReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if req.Role == "" {
		req.Role = family.RoleChild
	}
	if !family.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid role"})
		return
	}

	inv, err := h.repo.CreateInvite(c.Request.Context(), strings.TrimSpace(req.Email), req.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "invite": inv})
}

type acceptReq struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
}

func (h *Handler) accept(c *gin.Context) {
	var req acceptReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	m, err := h.repo.AcceptInvite(c.Request.Context(), strings.TrimSpace(req.Code), strings.TrimSpace(req.DisplayName))
	if err != nil {
		if err == family.ErrInviteNotFound {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "invite not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "member": m})
}

func (h *Handler) remove(c *gin.Context) {
	ok, err := h.repo.RemoveMember(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "member not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/family/members", h.list)
	rg.POST("/family/invites", h.invite)
	rg.POST("/family/invites/accept", h.accept)
	rg.DELETE("/family/members/:id", h.remove)
}
