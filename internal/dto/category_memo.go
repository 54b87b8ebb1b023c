package dto

import (
	"time"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
)

// CreateCategoryRequest defines the payload for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CategoryResponse is the API representation of a category.
type CategoryResponse struct {
	CategoryID string `json:"categoryID"`
	Name       string `json:"name"`
}

// ToCategoryResponse maps a domain category to its response DTO.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{CategoryID: c.CategoryID, Name: c.Name}
}

// CreateMemoRequest defines the payload for creating a memo.
type CreateMemoRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

// UpdateMemoRequest defines the payload for editing a memo.
type UpdateMemoRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// MemoResponse is the API representation of a memo.
type MemoResponse struct {
	MemoID        string    `json:"memoID"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToMemoResponse maps a domain memo to its response DTO.
func ToMemoResponse(m *domain.Memo) MemoResponse {
	return MemoResponse{MemoID: m.MemoID, Title: m.Title, Content: m.Content, LastUpdatedAt: m.LastUpdatedAt}
}
