package dto

import (
	"time"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateScheduleRequest defines the payload for creating a scheduled income.
type CreateScheduleRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	DueDate     time.Time       `json:"dueDate" binding:"required"`
	AccountID   string          `json:"accountID" binding:"required"`
}

// UpdateScheduleRequest defines the payload for editing a pending schedule.
type UpdateScheduleRequest struct {
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
	AccountID   *string          `json:"accountID,omitempty"`
}

// ScheduleResponse is the API representation of a schedule.
type ScheduleResponse struct {
	ScheduleID  string          `json:"scheduleID"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"dueDate"`
	AccountID   string          `json:"accountID"`
	IsCompleted bool            `json:"isCompleted"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToScheduleResponse maps a domain schedule to its response DTO.
func ToScheduleResponse(s *domain.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ScheduleID:  s.ScheduleID,
		Description: s.Description,
		Amount:      s.Amount,
		DueDate:     s.DueDate,
		AccountID:   s.AccountID,
		IsCompleted: s.IsCompleted,
		CreatedAt:   s.CreatedAt,
	}
}

// ListSchedulesResponse wraps a list of schedules.
type ListSchedulesResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
}
