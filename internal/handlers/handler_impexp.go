package handlers

import (
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/gagyebu-app/gagyebu/internal/dto"
	"github.com/gagyebu-app/gagyebu/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxImportBodyBytes caps import payload size.
const maxImportBodyBytes = 16 << 20

// impexpHandler handles full data set export and import.
type impexpHandler struct {
	impexpService portssvc.ImpexpSvcFacade
}

// registerImpexpRoutes registers the data import/export routes.
func registerImpexpRoutes(rg *gin.RouterGroup, is portssvc.ImpexpSvcFacade) {
	h := &impexpHandler{impexpService: is}

	data := rg.Group("/data")
	{
		data.GET("/export", h.exportJSON)
		data.POST("/import", h.importJSON)
		data.GET("/export.csv", h.exportCSV)
		data.POST("/import.csv", h.importCSV)
	}
}

// exportJSON godoc
// @Summary Export the full data set as JSON
// @Description Serializes every collection into one portable document. Internal ids are dropped; references travel by name, symbol or list index.
// @Tags data
// @Produce  json
// @Success 200 {object} dto.ExportPayload
// @Security BearerAuth
// @Router /data/export [get]
func (h *impexpHandler) exportJSON(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	payload, err := h.impexpService.ExportJSON(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to export data")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="gagyebu-export.json"`)
	c.JSON(http.StatusOK, payload)
}

// importJSON godoc
// @Summary Import a JSON export, replacing the data set
// @Description Destructively replaces every collection with the uploaded document. The payload is fully validated before anything is deleted; fresh ids are minted and references remapped.
// @Tags data
// @Accept  json
// @Produce  json
// @Param   payload body dto.ExportPayload true "Previously exported document"
// @Success 200 {object} dto.ImportResult
// @Failure 400 {object} ErrorResponse "Payload failed validation; nothing was changed"
// @Security BearerAuth
// @Router /data/import [post]
func (h *impexpHandler) importJSON(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBodyBytes)
	var payload dto.ExportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Warn("Failed to bind JSON for import", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.impexpService.ImportJSON(c.Request.Context(), userID, payload)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to import data")
		return
	}

	logger.Info("Data set imported",
		slog.Int("accounts", result.Accounts),
		slog.Int("transactions", result.Transactions))
	c.JSON(http.StatusOK, result)
}

// exportCSV godoc
// @Summary Export transactions as CSV
// @Description Writes the flat transaction list as CSV rows with name-based references. Payments are omitted; the JSON export is the full-fidelity format.
// @Tags data
// @Produce  text/csv
// @Success 200 {string} string "CSV data"
// @Security BearerAuth
// @Router /data/export.csv [get]
func (h *impexpHandler) exportCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	data, err := h.impexpService.ExportCSV(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to export CSV")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="gagyebu-transactions.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// importCSV godoc
// @Summary Import transactions from CSV
// @Description Additively appends transactions parsed from the uploaded CSV. Existing data is untouched; payment rows are rejected.
// @Tags data
// @Accept  text/csv
// @Produce  json
// @Success 200 {object} map[string]int "imported row count"
// @Failure 400 {object} ErrorResponse "A row failed validation; nothing was appended"
// @Security BearerAuth
// @Router /data/import.csv [post]
func (h *impexpHandler) importCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read request body"})
		return
	}

	count, err := h.impexpService.ImportCSV(c.Request.Context(), userID, body)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to import CSV")
		return
	}

	logger.Info("CSV transactions appended", slog.Int("count", count))
	c.JSON(http.StatusOK, gin.H{"imported": count})
}
