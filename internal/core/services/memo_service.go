package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gagyebu-app/gagyebu/internal/apperrors"
	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	portsrepo "github.com/gagyebu-app/gagyebu/internal/core/ports/repositories"
	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/gagyebu-app/gagyebu/internal/dto"
	"github.com/google/uuid"
)

// memoService manages free-form notes stored alongside the financial data.
type memoService struct {
	memoRepo portsrepo.MemoRepositoryFacade
	notifier portssvc.ChangeNotifier
	clock    portssvc.Clock
}

// NewMemoService creates a new MemoService.
func NewMemoService(
	memoRepo portsrepo.MemoRepositoryFacade,
	notifier portssvc.ChangeNotifier,
	clock portssvc.Clock,
) portssvc.MemoSvcFacade {
	return &memoService{memoRepo: memoRepo, notifier: notifier, clock: clock}
}

var _ portssvc.MemoSvcFacade = (*memoService)(nil)

// CreateMemo adds a memo.
func (s *memoService) CreateMemo(ctx context.Context, userID string, req dto.CreateMemoRequest) (*domain.Memo, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: memo title must not be empty", apperrors.ErrValidation)
	}

	now := s.clock.Now().UTC()
	memo := domain.Memo{
		MemoID:  uuid.NewString(),
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.memoRepo.SaveMemo(ctx, memo); err != nil {
		return nil, fmt.Errorf("failed to save memo: %w", err)
	}

	s.notifyChanged(ctx, userID)
	return &memo, nil
}

// ListMemos retrieves all memos owned by userID.
func (s *memoService) ListMemos(ctx context.Context, userID string) ([]domain.Memo, error) {
	memos, err := s.memoRepo.ListMemosByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memos: %w", err)
	}
	if memos == nil {
		memos = []domain.Memo{}
	}
	return memos, nil
}

// UpdateMemo edits a memo's title and content.
func (s *memoService) UpdateMemo(ctx context.Context, userID, memoID string, req dto.UpdateMemoRequest) (*domain.Memo, error) {
	memo, err := s.memoRepo.FindMemoByID(ctx, userID, memoID)
	if err != nil {
		return nil, fmt.Errorf("failed to find memo %s: %w", memoID, err)
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fmt.Errorf("%w: memo title must not be empty", apperrors.ErrValidation)
		}
		memo.Title = *req.Title
	}
	if req.Content != nil {
		memo.Content = *req.Content
	}
	memo.LastUpdatedAt = s.clock.Now().UTC()
	memo.LastUpdatedBy = userID

	if err := s.memoRepo.UpdateMemo(ctx, *memo); err != nil {
		return nil, fmt.Errorf("failed to update memo %s: %w", memoID, err)
	}

	s.notifyChanged(ctx, userID)
	return memo, nil
}

// DeleteMemo removes a memo.
func (s *memoService) DeleteMemo(ctx context.Context, userID, memoID string) error {
	if err := s.memoRepo.DeleteMemo(ctx, userID, memoID); err != nil {
		return fmt.Errorf("failed to delete memo %s: %w", memoID, err)
	}
	s.notifyChanged(ctx, userID)
	return nil
}

func (s *memoService) notifyChanged(ctx context.Context, userID string) {
	if s.notifier != nil {
		s.notifier.CollectionChanged(ctx, userID, portssvc.CollectionMemos)
	}
}
