package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quotevault/quotevault/internal/adapters/http/dto"
	"github.com/quotevault/quotevault/internal/app"
)

// SyncHandler handles on-demand feed synchronization.
type SyncHandler struct {
	sync *app.SyncService
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(sync *app.SyncService) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// TriggerSync handles POST /api/v1/sync
// Runs one fetch-and-merge cycle against the quote feed and reports
// what changed. A feed failure leaves the collection untouched.
//
// @Summary Sync with the quote feed
// @Tags sync
// @Produce json
// @Success 200 {object} app.SyncStats
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/sync [post]
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	stats, err := h.sync.RunOnce(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// RegisterSyncRoutes registers sync routes on the given router group.
func (h *SyncHandler) RegisterSyncRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync", h.TriggerSync)
}
