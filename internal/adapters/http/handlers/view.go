package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quotevault/quotevault/internal/adapters/http/dto"
	"github.com/quotevault/quotevault/internal/app"
)

// ViewHandler handles view state HTTP endpoints.
type ViewHandler struct {
	view *app.ViewService
}

// NewViewHandler creates a new view state handler.
func NewViewHandler(view *app.ViewService) *ViewHandler {
	return &ViewHandler{view: view}
}

// CategoryResponse carries the active category filter.
type CategoryResponse struct {
	Category string `json:"category"`
}

// SelectCategoryRequest is the request body for changing the active category.
type SelectCategoryRequest struct {
	Category string `json:"category" validate:"required,notempty"`
}

// GetActiveCategory handles GET /api/v1/view/category
// Returns the durable active category. A stored category that no longer
// matches any quote reads as "all".
//
// @Summary Get the active category
// @Tags view
// @Produce json
// @Success 200 {object} CategoryResponse
// @Router /api/v1/view/category [get]
func (h *ViewHandler) GetActiveCategory(c *gin.Context) {
	c.JSON(http.StatusOK, CategoryResponse{
		Category: h.view.ActiveCategory(c.Request.Context()),
	})
}

// SelectCategory handles PUT /api/v1/view/category
// Durably selects the active category. The category must be "all" or
// one present in the collection.
//
// @Summary Select the active category
// @Tags view
// @Accept json
// @Produce json
// @Success 200 {object} CategoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/view/category [put]
func (h *ViewHandler) SelectCategory(c *gin.Context) {
	var req SelectCategoryRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(
			dto.ErrorCodeValidation,
			"request validation failed",
			dto.ValidationErrors(err),
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	category := strings.ToLower(strings.TrimSpace(req.Category))

	err = h.view.SelectCategory(c.Request.Context(), category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryResponse{Category: category})
}

// RegisterViewRoutes registers view state routes on the given router group.
func (h *ViewHandler) RegisterViewRoutes(rg *gin.RouterGroup) {
	view := rg.Group("/view")
	view.GET("/category", h.GetActiveCategory)
	view.PUT("/category", h.SelectCategory)
}
