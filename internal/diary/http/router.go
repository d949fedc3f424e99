package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/entries", h.list)
	rg.POST("/entries", h.create)
	rg.GET("/entries/stream", h.StreamEntries)
	rg.POST("/entries/:id/like", h.toggleLike)
	rg.POST("/entries/:id/comments", h.addComment)
	rg.POST("/entries/:id/images", h.uploadImage)
	rg.GET("/views/:view_id", h.selectView)
}
