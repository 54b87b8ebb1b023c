package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/gagyebu-app/gagyebu/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler exposes the dashboard asset aggregates.
type reportingHandler struct {
	snapshotService portssvc.SnapshotSvcFacade
	assetService    portssvc.AssetSvcFacade
}

// registerReportingRoutes registers the reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, ss portssvc.SnapshotSvcFacade, as portssvc.AssetSvcFacade) {
	h := &reportingHandler{snapshotService: ss, assetService: as}

	reports := rg.Group("/reports")
	{
		reports.GET("/assets", h.getAssetSummary)
	}
}

// getAssetSummary godoc
// @Summary Get the asset summary
// @Description Aggregates cash assets across accounts (converted to KRW), upcoming card payments in their open windows, and per-currency holdings. Memoized per data revision and day.
// @Tags reports
// @Produce  json
// @Success 200 {object} domain.AssetSummary
// @Security BearerAuth
// @Router /reports/assets [get]
func (h *reportingHandler) getAssetSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	snap, err := h.snapshotService.Load(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to load snapshot", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute asset summary"})
		return
	}

	c.JSON(http.StatusOK, h.assetService.Summary(snap, time.Now()))
}
