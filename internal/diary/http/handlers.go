package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kazoku-nikki/family-diary-backend/internal/auth"
	"github.com/kazoku-nikki/family-diary-backend/internal/diary/domain"
	"github.com/kazoku-nikki/family-diary-backend/internal/diary/store"
	"github.com/kazoku-nikki/family-diary-backend/internal/diary/sync"
	"github.com/kazoku-nikki/family-diary-backend/internal/diary/view"
	"github.com/kazoku-nikki/family-diary-backend/internal/storage"
)

// Handler serves the diary API. Reads come from the entry store's current
// snapshot; writes go through the sync adapter and become visible when the
// next snapshot lands.
type Handler struct {
	store   *store.Store
	adapter *sync.Adapter
	images  *storage.ImageStore // nil when no bucket is configured
}

func New(st *store.Store, ad *sync.Adapter, images *storage.ImageStore) *Handler {
	return &Handler{store: st, adapter: ad, images: images}
}

func (h *Handler) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "entries": h.store.List()})
}

type createReq struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	CategoryID   string `json:"category_id"`
	PrivacyLevel string `json:"privacy_level"`
	EventDate    string `json:"event_date"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	user := auth.CurrentUser(c)
	if user.ID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": domain.ErrUnauthenticated.Error()})
		return
	}

	input := domain.CreateEntryInput{
		Title:        req.Title,
		Content:      req.Content,
		CategoryID:   req.CategoryID,
		PrivacyLevel: domain.PrivacyLevel(req.PrivacyLevel),
		EventDate:    req.EventDate,
	}

	id, err := h.adapter.Create(c.Request.Context(), input, user)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": verr.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "failed to save entry"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": id})
}

func (h *Handler) toggleLike(c *gin.Context) {
	entryID := c.Param("id")
	user := auth.CurrentUser(c)
	if user.ID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": domain.ErrUnauthenticated.Error()})
		return
	}

	if err := h.adapter.ToggleLike(c.Request.Context(), entryID, user.ID); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "entry not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "failed to save like"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type commentReq struct {
	Content string `json:"content"`
}

func (h *Handler) addComment(c *gin.Context) {
	entryID := c.Param("id")

	var req commentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	user := auth.CurrentUser(c)
	if user.ID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": domain.ErrUnauthenticated.Error()})
		return
	}

	comment, err := h.adapter.AddComment(c.Request.Context(), entryID, req.Content, user)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": verr.Error()})
		case errors.Is(err, domain.ErrEntryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "entry not found"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "failed to save comment"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "comment": comment})
}

func (h *Handler) selectView(c *gin.Context) {
	viewID := c.Param("view_id")
	user := auth.CurrentUser(c)

	var u *domain.User
	if user.ID != "" {
		u = &user
	}

	model := view.Select(viewID, h.store.List(), u)
	if !model.Found {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "view": model})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "view": model})
}

// uploadImage stores a multipart image in the bucket and attaches its URL to
// the entry.
func (h *Handler) uploadImage(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"ok": false, "error": "image storage not configured"})
		return
	}

	entryID := c.Param("id")
	if _, err := h.store.Get(entryID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "entry not found"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "image file is required"})
		return
	}
	defer file.Close()

	img, err := h.images.Upload(c.Request.Context(), entryID, header.Filename, file, header.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "failed to store image"})
		return
	}
	img.Caption = c.PostForm("caption")

	if err := h.adapter.AddImage(c.Request.Context(), entryID, img); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "failed to attach image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "image": img})
}
