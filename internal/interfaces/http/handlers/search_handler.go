package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/claimlens/claimlens/internal/infrastructure/search/opensearch"
	"github.com/claimlens/claimlens/pkg/errors"
)

// TextSearcher finds processed documents by their extracted text.
type TextSearcher interface {
	SearchText(ctx context.Context, query string, limit int) ([]opensearch.IndexedDocument, error)
}

// SearchHandler serves full-text document search.  The searcher may be nil
// when no search cluster is configured; requests then get a 503.
type SearchHandler struct {
	searcher TextSearcher
}

// NewSearchHandler constructs the handler.
func NewSearchHandler(searcher TextSearcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// SearchDocuments answers GET /documents/search?q=...&limit=...
func (h *SearchHandler) SearchDocuments(c *gin.Context) {
	if h.searcher == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    string(errors.ErrCodeServiceUnavailable),
			Message: "document search is not configured",
		})
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondError(c, errors.NewInvalidInputError("query parameter \"q\" is required"))
		return
	}

	limit, _ := parsePagination(c)
	hits, err := h.searcher.SearchText(c.Request.Context(), query, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if hits == nil {
		hits = []opensearch.IndexedDocument{}
	}
	c.JSON(http.StatusOK, gin.H{"results": hits, "limit": limit})
}
