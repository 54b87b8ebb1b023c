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

// categoryService manages transaction category labels. Transactions reference
// categories by name only, so deleting a category never touches the ledger.
type categoryService struct {
	categoryRepo portsrepo.CategoryRepositoryFacade
	notifier     portssvc.ChangeNotifier
	clock        portssvc.Clock
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(
	categoryRepo portsrepo.CategoryRepositoryFacade,
	notifier portssvc.ChangeNotifier,
	clock portssvc.Clock,
) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: categoryRepo, notifier: notifier, clock: clock}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

// CreateCategory adds a category label. Names are unique per user,
// case-insensitively.
func (s *categoryService) CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name must not be empty", apperrors.ErrValidation)
	}

	existing, err := s.categoryRepo.ListCategoriesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	for _, c := range existing {
		if strings.EqualFold(c.Name, name) {
			return nil, fmt.Errorf("%w: category %q already exists", apperrors.ErrDuplicate, name)
		}
	}

	now := s.clock.Now().UTC()
	category := domain.Category{
		CategoryID: uuid.NewString(),
		UserID:     userID,
		Name:       name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to save category: %w", err)
	}

	s.notifyChanged(ctx, userID)
	return &category, nil
}

// ListCategories retrieves all categories owned by userID.
func (s *categoryService) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategoriesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

// DeleteCategory removes a category. Transactions already labelled with its
// name keep the label.
func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	if err := s.categoryRepo.DeleteCategory(ctx, userID, categoryID); err != nil {
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}
	s.notifyChanged(ctx, userID)
	return nil
}

func (s *categoryService) notifyChanged(ctx context.Context, userID string) {
	if s.notifier != nil {
		s.notifier.CollectionChanged(ctx, userID, portssvc.CollectionCategories)
	}
}
