package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/gagyebu-app/gagyebu/internal/dto"
	"github.com/gagyebu-app/gagyebu/internal/middleware"
	"github.com/gin-gonic/gin"
)

type categoryHandler struct {
	categoryService portssvc.CategorySvcFacade
}

// registerCategoryRoutes registers routes related to transaction categories.
func registerCategoryRoutes(rg *gin.RouterGroup, cs portssvc.CategorySvcFacade) {
	h := &categoryHandler{categoryService: cs}

	categories := rg.Group("/categories")
	{
		categories.POST("", h.createCategory)
		categories.GET("", h.listCategories)
		categories.DELETE("/:categoryID", h.deleteCategory)
	}
}

// createCategory godoc
// @Summary Create a category
// @Description Adds a transaction category label. Names are unique per user, case-insensitively.
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} dto.CategoryResponse
// @Failure 409 {object} ErrorResponse "Name already exists"
// @Security BearerAuth
// @Router /categories [post]
func (h *categoryHandler) createCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCategoryResponse(category))
}

// listCategories godoc
// @Summary List categories
// @Tags categories
// @Produce  json
// @Success 200 {array} dto.CategoryResponse
// @Security BearerAuth
// @Router /categories [get]
func (h *categoryHandler) listCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list categories")
		return
	}

	resp := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, dto.ToCategoryResponse(&categories[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// deleteCategory godoc
// @Summary Delete a category
// @Description Removes a category label. Transactions already carrying the label keep it.
// @Tags categories
// @Produce  json
// @Param   categoryID path string true "Category ID"
// @Success 204 "Deleted"
// @Failure 404 {object} ErrorResponse "Category not found"
// @Security BearerAuth
// @Router /categories/{categoryID} [delete]
func (h *categoryHandler) deleteCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), userID, c.Param("categoryID")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete category")
		return
	}
	c.Status(http.StatusNoContent)
}

type memoHandler struct {
	memoService portssvc.MemoSvcFacade
}

// registerMemoRoutes registers routes related to memos.
func registerMemoRoutes(rg *gin.RouterGroup, ms portssvc.MemoSvcFacade) {
	h := &memoHandler{memoService: ms}

	memos := rg.Group("/memos")
	{
		memos.POST("", h.createMemo)
		memos.GET("", h.listMemos)
		memos.PUT("/:memoID", h.updateMemo)
		memos.DELETE("/:memoID", h.deleteMemo)
	}
}

// createMemo godoc
// @Summary Create a memo
// @Tags memos
// @Accept  json
// @Produce  json
// @Param   memo body dto.CreateMemoRequest true "Memo details"
// @Success 201 {object} dto.MemoResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /memos [post]
func (h *memoHandler) createMemo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createMemo", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	memo, err := h.memoService.CreateMemo(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create memo")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMemoResponse(memo))
}

// listMemos godoc
// @Summary List memos
// @Tags memos
// @Produce  json
// @Success 200 {array} dto.MemoResponse
// @Security BearerAuth
// @Router /memos [get]
func (h *memoHandler) listMemos(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	memos, err := h.memoService.ListMemos(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list memos")
		return
	}

	resp := make([]dto.MemoResponse, 0, len(memos))
	for i := range memos {
		resp = append(resp, dto.ToMemoResponse(&memos[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// updateMemo godoc
// @Summary Edit a memo
// @Tags memos
// @Accept  json
// @Produce  json
// @Param   memoID path string true "Memo ID"
// @Param   memo body dto.UpdateMemoRequest true "Fields to update"
// @Success 200 {object} dto.MemoResponse
// @Failure 404 {object} ErrorResponse "Memo not found"
// @Security BearerAuth
// @Router /memos/{memoID} [put]
func (h *memoHandler) updateMemo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	memo, err := h.memoService.UpdateMemo(c.Request.Context(), userID, c.Param("memoID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update memo")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemoResponse(memo))
}

// deleteMemo godoc
// @Summary Delete a memo
// @Tags memos
// @Produce  json
// @Param   memoID path string true "Memo ID"
// @Success 204 "Deleted"
// @Failure 404 {object} ErrorResponse "Memo not found"
// @Security BearerAuth
// @Router /memos/{memoID} [delete]
func (h *memoHandler) deleteMemo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.memoService.DeleteMemo(c.Request.Context(), userID, c.Param("memoID")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete memo")
		return
	}
	c.Status(http.StatusNoContent)
}
