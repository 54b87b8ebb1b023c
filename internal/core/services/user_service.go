package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagyebu-app/gagyebu/internal/apperrors"
	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	portsrepo "github.com/gagyebu-app/gagyebu/internal/core/ports/repositories"
	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/gagyebu-app/gagyebu/internal/dto"
	"github.com/gagyebu-app/gagyebu/internal/middleware"
	"github.com/gagyebu-app/gagyebu/internal/utils"
	"github.com/google/uuid"
)

// userService manages user accounts and credential verification. Every new
// user gets the base KRW currency row seeded so the ledger can convert from
// the first transaction on.
type userService struct {
	userRepo    portsrepo.UserRepositoryFacade
	currencySvc portssvc.CurrencySvcFacade
	clock       portssvc.Clock
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, currencySvc portssvc.CurrencySvcFacade, clock portssvc.Clock) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, currencySvc: currencySvc, clock: clock}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterUser creates a local-password user.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username availability: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %q is taken", apperrors.ErrDuplicate, req.Username)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock.Now().UTC()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: passwordHash,
		AuthProvider: domain.ProviderLocal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.currencySvc.EnsureBaseCurrency(ctx, user.UserID); err != nil {
		logger.Error("Failed to seed base currency for new user",
			slog.String("user_id", user.UserID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to seed base currency: %w", err)
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

// GetUserByID retrieves a user by id.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return user, nil
}

// AuthenticateUser verifies a local username/password pair. A wrong username
// and a wrong password are indistinguishable to the caller.
func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	if user.AuthProvider != domain.ProviderLocal || user.PasswordHash == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// FindOrCreateGoogleUser resolves a verified Google identity to a local user,
// creating one on first sign-in.
func (s *userService) FindOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if info == nil || info.ID == "" {
		return nil, fmt.Errorf("%w: missing google user id", apperrors.ErrValidation)
	}
	user, err := s.userRepo.FindUserByProviderID(ctx, domain.ProviderGoogle, info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up google user: %w", err)
	}

	now := s.clock.Now().UTC()
	userID := uuid.NewString()
	newUser := domain.User{
		UserID:       userID,
		Username:     info.Email,
		Name:         info.Name,
		AuthProvider: domain.ProviderGoogle,
		ProviderID:   info.ID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		logger.Error("Failed to save google user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create google user: %w", err)
	}
	if err := s.currencySvc.EnsureBaseCurrency(ctx, newUser.UserID); err != nil {
		return nil, fmt.Errorf("failed to seed base currency: %w", err)
	}

	logger.Info("Google user created", slog.String("user_id", newUser.UserID))
	return &newUser, nil
}

// StoreRefreshTokenHash persists the hash and expiry of a refresh token.
func (s *userService) StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string, expiry time.Time) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, tokenHash, &expiry); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// ClearRefreshToken invalidates the stored refresh token on logout.
func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, "", nil); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}
