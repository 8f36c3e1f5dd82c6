package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health reports liveness and whether the store answers a ping
func (h *APIHandler) Health(c *gin.Context) {
	store := "disconnected"
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			h.log.WithFields(requestFields(c)).WithError(err).Warn("Store ping failed")
			store = "unreachable"
		} else {
			store = "connected"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "finmentor",
		"store":   store,
	})
}
