package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"salescrm/internal/auth"
	"salescrm/internal/model"
)

var (
	// ErrInvalidRefreshToken is returned when refresh token is invalid, revoked or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// AuthService issues and revokes API tokens on top of credential checks.
type AuthService interface {
	// Register creates a customer account. Public registration cannot choose a role.
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	// Logout revokes the refresh token and blacklists the access token when one is given.
	Logout(ctx context.Context, refreshToken, accessToken string) error
}

type authService struct {
	credentials CredentialService
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
	logger      *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(credentials CredentialService, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, logger *slog.Logger) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		credentials: credentials,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
		logger:      logger,
	}
}

func (s *authService) Register(ctx context.Context, username, password string) (*model.User, error) {
	return s.credentials.Register(ctx, username, password, model.RoleCustomer)
}

// Login verifies credentials and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, username, password string) (accessToken, refreshToken string, user *model.User, err error) {
	user, err = s.credentials.VerifyCredentials(ctx, username, password)
	if err != nil {
		return "", "", nil, err
	}

	sub := auth.TokenSubject{UserID: user.ID, Username: user.Username, Role: user.Role}
	accessToken, err = s.jwtService.GenerateAccessToken(sub)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(sub)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, sub, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	s.logger.Info("user logged in", slog.Uint64("user_id", uint64(user.ID)), slog.String("role", string(user.Role)))
	return accessToken, refreshToken, user, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	stored, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if stored != claims.Identity() {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(stored)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	if accessToken == "" {
		return nil
	}
	access, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		// already unusable
		return nil
	}
	if err := s.tokenStore.BlacklistAccessToken(ctx, access.ID, s.jwtService.RemainingTTL(access)); err != nil {
		return fmt.Errorf("blacklist access token: %w", err)
	}

	s.logger.Info("user logged out", slog.Uint64("user_id", uint64(claims.UserID)))
	return nil
}
