package services

import (
	"context"
	"time"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	"github.com/gagyebu-app/gagyebu/internal/dto"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// UserSvcFacade provides user management and credential verification.
type UserSvcFacade interface {
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error)

	// FindOrCreateGoogleUser resolves an external Google identity to a local
	// user, creating one on first sign-in.
	FindOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error)

	// StoreRefreshTokenHash persists the hash and expiry of a refresh token.
	StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string, expiry time.Time) error

	// ClearRefreshToken invalidates the stored refresh token on logout.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// TokenSvcFacade issues and validates access and refresh tokens.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshToken string) (*domain.User, error)
}

// GoogleOAuthHandlerSvcFacade drives the Google OAuth sign-in flow, the
// application's external identity provider.
type GoogleOAuthHandlerSvcFacade interface {
	GenerateStateString(ctx context.Context) (string, error)
	GetGoogleLoginURL(ctx context.Context, state string) string
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error)
	ValidateGoogleIDToken(ctx context.Context, idToken string) (*idtoken.Payload, error)
}
