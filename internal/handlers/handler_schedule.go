package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/gagyebu-app/gagyebu/internal/dto"
	"github.com/gagyebu-app/gagyebu/internal/middleware"
	"github.com/gin-gonic/gin"
)

// scheduleHandler handles HTTP requests related to scheduled incomes.
type scheduleHandler struct {
	scheduleService portssvc.ScheduleSvcFacade
}

func newScheduleHandler(ss portssvc.ScheduleSvcFacade) *scheduleHandler {
	return &scheduleHandler{scheduleService: ss}
}

// registerScheduleRoutes registers routes related to schedules.
func registerScheduleRoutes(rg *gin.RouterGroup, ss portssvc.ScheduleSvcFacade) {
	h := newScheduleHandler(ss)

	schedules := rg.Group("/schedules")
	{
		schedules.POST("", h.createSchedule)
		schedules.GET("", h.listSchedules)
		schedules.PUT("/:scheduleID", h.updateSchedule)
		schedules.DELETE("/:scheduleID", h.deleteSchedule)
		schedules.POST("/:scheduleID/complete", h.completeSchedule)
	}
}

// createSchedule godoc
// @Summary Create a scheduled income
// @Description Registers a future-dated income that stays outside the ledger until completed
// @Tags schedules
// @Accept  json
// @Produce  json
// @Param   schedule body dto.CreateScheduleRequest true "Schedule details"
// @Success 201 {object} dto.ScheduleResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Target account not found"
// @Security BearerAuth
// @Router /schedules [post]
func (h *scheduleHandler) createSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createSchedule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	schedule, err := h.scheduleService.CreateSchedule(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create schedule")
		return
	}
	c.JSON(http.StatusCreated, dto.ToScheduleResponse(schedule))
}

// listSchedules godoc
// @Summary List schedules
// @Tags schedules
// @Produce  json
// @Success 200 {object} dto.ListSchedulesResponse
// @Security BearerAuth
// @Router /schedules [get]
func (h *scheduleHandler) listSchedules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	schedules, err := h.scheduleService.ListSchedules(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list schedules")
		return
	}

	resp := dto.ListSchedulesResponse{Schedules: make([]dto.ScheduleResponse, 0, len(schedules))}
	for i := range schedules {
		resp.Schedules = append(resp.Schedules, dto.ToScheduleResponse(&schedules[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// updateSchedule godoc
// @Summary Edit a pending schedule
// @Description Updates a schedule that has not yet been completed. Completed schedules are immutable.
// @Tags schedules
// @Accept  json
// @Produce  json
// @Param   scheduleID path string true "Schedule ID"
// @Param   schedule body dto.UpdateScheduleRequest true "Fields to update"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 400 {object} ErrorResponse "Schedule is already completed"
// @Failure 404 {object} ErrorResponse "Schedule not found"
// @Security BearerAuth
// @Router /schedules/{scheduleID} [put]
func (h *scheduleHandler) updateSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	schedule, err := h.scheduleService.UpdateSchedule(c.Request.Context(), userID, c.Param("scheduleID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update schedule")
		return
	}
	c.JSON(http.StatusOK, dto.ToScheduleResponse(schedule))
}

// deleteSchedule godoc
// @Summary Delete a schedule
// @Description Removes a schedule. An income already realized from it is left untouched.
// @Tags schedules
// @Produce  json
// @Param   scheduleID path string true "Schedule ID"
// @Success 204 "Deleted"
// @Failure 404 {object} ErrorResponse "Schedule not found"
// @Security BearerAuth
// @Router /schedules/{scheduleID} [delete]
func (h *scheduleHandler) deleteSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.scheduleService.DeleteSchedule(c.Request.Context(), userID, c.Param("scheduleID")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete schedule")
		return
	}
	c.Status(http.StatusNoContent)
}

// completeSchedule godoc
// @Summary Complete a schedule
// @Description Realizes the schedule as an income transaction and marks it completed in one atomic mutation. Completing twice is rejected.
// @Tags schedules
// @Produce  json
// @Param   scheduleID path string true "Schedule ID"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Schedule is already completed"
// @Failure 404 {object} ErrorResponse "Schedule not found"
// @Security BearerAuth
// @Router /schedules/{scheduleID}/complete [post]
func (h *scheduleHandler) completeSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	income, err := h.scheduleService.CompleteSchedule(c.Request.Context(), userID, c.Param("scheduleID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to complete schedule")
		return
	}

	logger.Info("Schedule completed", slog.String("income_id", income.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(income))
}
