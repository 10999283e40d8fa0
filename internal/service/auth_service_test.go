package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"salescrm/internal/auth"
	apperrors "salescrm/internal/errors"
	"salescrm/internal/model"
)

func TestAuthService_Register(t *testing.T) {
	mockCreds := new(MockCredentialService)
	mockCreds.On("Register", mock.Anything, "alice", "password123", model.RoleCustomer).
		Return(&model.User{ID: 1, Username: "alice", Role: model.RoleCustomer}, nil)

	svc := NewAuthService(mockCreds, auth.NewJWTService("test-secret"), new(MockTokenStore), testLogger)
	user, err := svc.Register(context.Background(), "alice", "password123")

	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, user.Role)
	mockCreds.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockCredentialService, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "alice",
			password: "password123",
			setupMock: func(mCreds *MockCredentialService, mToken *MockTokenStore) {
				mCreds.On("VerifyCredentials", mock.Anything, "alice", "password123").
					Return(&model.User{ID: 7, Username: "alice", Role: model.RoleCustomer}, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"),
					auth.TokenSubject{UserID: 7, Username: "alice", Role: model.RoleCustomer}, auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "invalid credentials",
			username: "alice",
			password: "wrong",
			setupMock: func(mCreds *MockCredentialService, mToken *MockTokenStore) {
				mCreds.On("VerifyCredentials", mock.Anything, "alice", "wrong").Return(nil, apperrors.ErrInvalidCredentials)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCreds := new(MockCredentialService)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockCreds, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			svc := NewAuthService(mockCreds, jwtService, mockTokenStore, testLogger)

			accessToken, refreshToken, user, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, refreshToken)
				assert.Equal(t, tt.username, user.Username)

				claims, err := jwtService.ValidateAccessToken(accessToken)
				require.NoError(t, err)
				assert.Equal(t, model.RoleCustomer, claims.Role)
			}

			mockCreds.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	sub := auth.TokenSubject{UserID: 3, Username: "bob", Role: model.RoleAdmin}
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(sub)
	require.NoError(t, err)

	t.Run("stored token issues new access token", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(sub, nil)

		svc := NewAuthService(new(MockCredentialService), jwtService, mockTokenStore, testLogger)
		accessToken, err := svc.RefreshToken(context.Background(), refreshToken)
		require.NoError(t, err)

		claims, err := jwtService.ValidateAccessToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, sub, claims.Identity())
	})

	t.Run("revoked token", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(auth.TokenSubject{}, auth.ErrRefreshTokenNotFound)

		svc := NewAuthService(new(MockCredentialService), jwtService, mockTokenStore, testLogger)
		_, err := svc.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("subject mismatch", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(auth.TokenSubject{UserID: 99, Username: "eve"}, nil)

		svc := NewAuthService(new(MockCredentialService), jwtService, mockTokenStore, testLogger)
		_, err := svc.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		accessToken, err := jwtService.GenerateAccessToken(sub)
		require.NoError(t, err)

		svc := NewAuthService(new(MockCredentialService), jwtService, new(MockTokenStore), testLogger)
		_, err = svc.RefreshToken(context.Background(), accessToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	sub := auth.TokenSubject{UserID: 3, Username: "bob", Role: model.RoleCustomer}
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(sub)
	require.NoError(t, err)
	accessToken, err := jwtService.GenerateAccessToken(sub)
	require.NoError(t, err)
	accessClaims, err := jwtService.ValidateAccessToken(accessToken)
	require.NoError(t, err)

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)
	mockTokenStore.On("BlacklistAccessToken", mock.Anything, accessClaims.ID, mock.AnythingOfType("time.Duration")).Return(nil)

	svc := NewAuthService(new(MockCredentialService), jwtService, mockTokenStore, testLogger)
	require.NoError(t, svc.Logout(context.Background(), refreshToken, accessToken))
	mockTokenStore.AssertExpectations(t)

	err = svc.Logout(context.Background(), "garbage", "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_LogoutStoreFailure(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(auth.TokenSubject{UserID: 1})
	require.NoError(t, err)

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(errors.New("redis down"))

	svc := NewAuthService(new(MockCredentialService), jwtService, mockTokenStore, testLogger)
	err = svc.Logout(context.Background(), refreshToken, "")
	assert.Error(t, err)
}
