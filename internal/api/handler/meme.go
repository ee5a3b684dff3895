package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/mygomeme/internal/api/middleware"
	"github.com/timmy/mygomeme/internal/catalog"
	"github.com/timmy/mygomeme/internal/domain"
	"github.com/timmy/mygomeme/internal/metrics"
)

// MemeHandler handles the direct lookup endpoint.
type MemeHandler struct {
	store   *catalog.Store
	metrics *metrics.Metrics
}

// NewMemeHandler creates a new meme handler.
// Parameters:
//   - store: catalog holder.
//   - m: metrics sink; may be nil.
// Returns:
//   - *MemeHandler: initialized handler.
func NewMemeHandler(store *catalog.Store, m *metrics.Metrics) *MemeHandler {
	return &MemeHandler{store: store, metrics: m}
}

// Lookup handles GET /api/meme?q=.
// A miss is a normal outcome and yields an empty data list.
func (h *MemeHandler) Lookup(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": `Query parameter "q" is required`,
		})
		return
	}

	log := middleware.GetLogger(c)
	entry, ok := catalog.FindBestMatch(h.store.Current(), query)
	h.metrics.RecordLookup(ok)

	if !ok {
		log.Infof("Meme not found: %q", query)
		c.JSON(http.StatusOK, domain.LookupResult{Data: []domain.LookupImage{}})
		return
	}

	log.Infof("Meme found: %q -> %s", entry.Caption, entry.ImageURL)
	c.JSON(http.StatusOK, domain.LookupResult{
		Data: []domain.LookupImage{{URL: entry.ImageURL}},
	})
}
