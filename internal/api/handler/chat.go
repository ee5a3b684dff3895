package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/mygomeme/internal/api/middleware"
	"github.com/timmy/mygomeme/internal/catalog"
	"github.com/timmy/mygomeme/internal/domain"
	"github.com/timmy/mygomeme/internal/logger"
	"github.com/timmy/mygomeme/internal/metrics"
	"github.com/timmy/mygomeme/internal/service"
)

const (
	// APIKeyHeader carries the caller's language model credential.
	APIKeyHeader = "x-api-key"

	missingAPIKeyMessage = "Missing API Key. Please enter it in the frontend."
)

// MemeSelector picks a caption for a chat message.
type MemeSelector interface {
	SelectMeme(ctx context.Context, cat *catalog.Catalog, message string, history []domain.ConversationTurn, credential string) (string, error)
}

// ChatHandler handles the chat matching endpoint.
type ChatHandler struct {
	store    *catalog.Store
	selector MemeSelector
	metrics  *metrics.Metrics
}

// NewChatHandler creates a new chat handler.
// Parameters:
//   - store: catalog holder; a snapshot is taken per request.
//   - selector: meme selector, normally *service.ChatMatcher.
//   - m: metrics sink; may be nil.
// Returns:
//   - *ChatHandler: initialized handler.
func NewChatHandler(store *catalog.Store, selector MemeSelector, m *metrics.Metrics) *ChatHandler {
	return &ChatHandler{
		store:    store,
		selector: selector,
		metrics:  m,
	}
}

var _ MemeSelector = (*service.ChatMatcher)(nil)

// Chat handles POST /api/chat.
// The response body is the model's trimmed answer as plain text; the client
// resolves it to an image through the lookup endpoint.
func (h *ChatHandler) Chat(c *gin.Context) {
	log := middleware.GetLogger(c)

	apiKey := c.GetHeader(APIKeyHeader)
	if apiKey == "" {
		log.Warn("Missing API key in headers")
		c.JSON(http.StatusUnauthorized, gin.H{"error": missingAPIKeyMessage})
		return
	}

	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	history, ok := req.Turns()
	if !ok {
		log.Warnf("History is not an array of turns, ignoring it: %s", string(req.History))
	}
	log.Infof("Parsed user message: %q (%d history turns)", req.Message, len(history))

	cat := h.store.Current()
	text, err := h.selector.SelectMeme(c.Request.Context(), cat, req.Message, history, apiKey)
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredential) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": missingAPIKeyMessage})
			return
		}
		log.WithError(err).Error("Chat matching failed")
		c.String(http.StatusInternalServerError, "Error processing request: "+err.Error())
		return
	}

	if match, ok := catalog.Reconcile(cat, text); ok {
		h.metrics.RecordReconciliation(match.Strategy)
		log.WithFields(logger.Fields{
			logger.FieldStrategy: match.Strategy,
			logger.FieldCaption:  match.Entry.Caption,
			"url":                match.Entry.ImageURL,
		}).Info("Model answer matched the catalog")
	} else {
		h.metrics.RecordReconciliation("")
		log.WithField(logger.FieldCaption, text).Warn("Model answer is not in the catalog")
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
