package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quotevault/quotevault/internal/adapters/http/dto"
	"github.com/quotevault/quotevault/internal/app"
	"github.com/quotevault/quotevault/internal/domain"
)

// QuoteHandler handles quote collection HTTP endpoints.
type QuoteHandler struct {
	collection *app.CollectionService
	view       *app.ViewService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(collection *app.CollectionService, view *app.ViewService) *QuoteHandler {
	return &QuoteHandler{
		collection: collection,
		view:       view,
	}
}

// QuoteResponse is the HTTP response structure for a quote.
type QuoteResponse struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Category    string `json:"category"`
	Source      string `json:"source"`
	Version     int    `json:"version"`
	LastUpdated int64  `json:"lastUpdated"`
}

// toQuoteResponse converts a domain Quote to an HTTP response.
func toQuoteResponse(q domain.Quote) *QuoteResponse {
	return &QuoteResponse{
		ID:          q.ID,
		Text:        q.Text,
		Category:    q.Category,
		Source:      string(q.Source),
		Version:     q.Version,
		LastUpdated: q.LastUpdated,
	}
}

// RandomQuoteResponse is the response for a display pick. Quote is null
// when the candidate pool is empty; an empty pool is a valid state, not
// an error.
type RandomQuoteResponse struct {
	Quote    *QuoteResponse `json:"quote"`
	Category string         `json:"category"`
	Resumed  bool           `json:"resumed"`
}

// AddQuoteRequest is the request body for adding a quote.
type AddQuoteRequest struct {
	Text     string `json:"text"     validate:"required,notempty"`
	Category string `json:"category" validate:"required,notempty"`
}

// GetRandomQuote handles GET /api/v1/quotes/random
// Picks a uniformly random quote from the active category. A session
// that passes resume=true gets its last-viewed quote replayed when it
// is still eligible; without the flag every request is a fresh pick.
//
// @Summary Get a random quote
// @Description Picks a random quote from the active or given category
// @Tags quotes
// @Produce json
// @Param category query string false "Category filter (defaults to the active category)"
// @Param session query string false "Session identifier for resume behavior"
// @Param resume query boolean false "Replay the session's last-viewed quote when eligible"
// @Success 200 {object} RandomQuoteResponse
// @Router /api/v1/quotes/random [get]
func (h *QuoteHandler) GetRandomQuote(c *gin.Context) {
	sessionID := c.Query("session")
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	resume := c.Query("resume") == "true"

	if category != "" && category != domain.CategoryAll && !h.collection.HasCategory(category) {
		dto.HandleError(c, domain.NewNotFoundError("category", category))
		return
	}

	selection := h.view.Pick(c.Request.Context(), sessionID, category, resume)

	resp := RandomQuoteResponse{
		Category: selection.Category,
		Resumed:  selection.Resumed,
	}
	if !selection.Empty {
		resp.Quote = toQuoteResponse(selection.Quote)
	}

	c.JSON(http.StatusOK, resp)
}

// AddQuote handles POST /api/v1/quotes
// Appends a user-entered quote. A quote whose text and category match
// an existing one is rejected with 409.
//
// @Summary Add a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Success 201 {object} QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) AddQuote(c *gin.Context) {
	var req AddQuoteRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(
			dto.ErrorCodeValidation,
			"request validation failed",
			dto.ValidationErrors(err),
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	quote, err := h.collection.Add(c.Request.Context(), req.Text, req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toQuoteResponse(quote))
}

// ImportQuotes handles POST /api/v1/quotes/import
// Accepts an untrusted JSON array of quote records, normalizes it, and
// merges the survivors under the append-if-new policy. Malformed
// records and duplicates are counted, never reported individually.
//
// @Summary Import quotes
// @Tags quotes
// @Accept json
// @Produce json
// @Success 200 {object} app.ImportStats
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes/import [post]
func (h *QuoteHandler) ImportQuotes(c *gin.Context) {
	var raw []any

	err := c.ShouldBindJSON(&raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"request body must be a JSON array",
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	stats, err := h.collection.Import(c.Request.Context(), raw)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportQuotes handles GET /api/v1/quotes/export
// Serializes the full collection as an indented JSON array suitable for
// re-import.
//
// @Summary Export the collection
// @Tags quotes
// @Produce json
// @Success 200 {array} QuoteResponse
// @Router /api/v1/quotes/export [get]
func (h *QuoteHandler) ExportQuotes(c *gin.Context) {
	data, err := h.collection.Export()
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="quotes.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

// ListQuotes handles GET /api/v1/quotes
// Returns the collection in insertion order with cursor pagination and
// an optional category filter.
//
// @Summary List quotes
// @Tags quotes
// @Produce json
// @Param category query string false "Category filter"
// @Param cursor query string false "Pagination cursor"
// @Param limit query int false "Page size (1-100, default 20)"
// @Success 200 {object} dto.PaginatedResponse[QuoteResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var page dto.PaginationRequest

	err := dto.BindQueryAndValidate(c, &page)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(
			dto.ErrorCodeValidation,
			"request validation failed",
			dto.ValidationErrors(err),
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	pool := h.filteredQuotes(strings.ToLower(strings.TrimSpace(c.Query("category"))))

	pool, err = afterCursor(pool, &page)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"invalid pagination cursor",
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	limit := page.GetLimit()
	if len(pool) > limit+1 {
		pool = pool[:limit+1]
	}

	items := make([]*QuoteResponse, 0, len(pool))
	for _, q := range pool {
		items = append(items, toQuoteResponse(q))
	}

	resp := dto.NewPaginatedResponse(items, limit, func(item *QuoteResponse) *dto.CursorData {
		return dto.NewCursor("id", item.ID, item.ID)
	})

	c.JSON(http.StatusOK, resp)
}

// GetCategories handles GET /api/v1/categories
// Returns "all" followed by the distinct categories present in the
// collection, sorted alphabetically.
//
// @Summary List categories
// @Tags quotes
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/categories [get]
func (h *QuoteHandler) GetCategories(c *gin.Context) {
	categories := append([]string{domain.CategoryAll}, h.collection.Categories()...)
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// filteredQuotes returns the collection snapshot, restricted to one
// category when the filter names one.
func (h *QuoteHandler) filteredQuotes(category string) []domain.Quote {
	snapshot := h.collection.Snapshot()
	if category == "" || category == domain.CategoryAll {
		return snapshot
	}

	filtered := snapshot[:0]
	for _, q := range snapshot {
		if q.Category == category {
			filtered = append(filtered, q)
		}
	}

	return filtered
}

// afterCursor drops everything up to and including the cursor position.
// A cursor pointing at a quote that no longer exists restarts from the
// beginning rather than failing.
func afterCursor(pool []domain.Quote, page *dto.PaginationRequest) ([]domain.Quote, error) {
	cursor, err := page.DecodeCursor()
	if err != nil {
		if errors.Is(err, dto.ErrNoCursor) {
			return pool, nil
		}

		return nil, err
	}

	for i, q := range pool {
		if q.ID == cursor.ID {
			return pool[i+1:], nil
		}
	}

	return pool, nil
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.POST("", h.AddQuote)
	quotes.GET("/random", h.GetRandomQuote)
	quotes.POST("/import", h.ImportQuotes)
	quotes.GET("/export", h.ExportQuotes)

	rg.GET("/categories", h.GetCategories)
}
