package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/mygomeme/internal/catalog"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store *catalog.Store
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *catalog.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health returns the service status and the size of the current catalog
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"memes":  h.store.Current().Len(),
	})
}
