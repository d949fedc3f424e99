package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StreamEntries streams entry-list updates over Server-Sent Events. It is
// the HTTP face of the document store's snapshot feed: the client gets the
// current list immediately and a fresh full list whenever the store changes.
func (h *Handler) StreamEntries(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "streaming unsupported"})
		return
	}

	// Send the current snapshot before entering the poll loop.
	initial, _ := json.Marshal(gin.H{"entries": h.store.List()})
	fmt.Fprintf(c.Writer, "event: initial\ndata: %s\n\n", initial)
	flusher.Flush()

	ctx := c.Request.Context()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	pollTicker := time.NewTicker(1 * time.Second)
	defer pollTicker.Stop()

	lastVersion := h.store.Version()

	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case <-pollTicker.C:
			version := h.store.Version()
			if version == lastVersion {
				continue
			}
			lastVersion = version

			data, _ := json.Marshal(gin.H{"entries": h.store.List()})
			fmt.Fprintf(c.Writer, "event: update\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
