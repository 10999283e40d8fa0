package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescrm/internal/model"
)

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	sub := TokenSubject{UserID: 7, Username: "alice", Role: model.RoleAdmin}

	token, err := svc.GenerateAccessToken(sub)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, sub, claims.Identity())
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, AccessTokenExpiry.Seconds(), svc.RemainingTTL(claims).Seconds(), 5)
}

func TestJWTService_RefreshTokenIsNotAnAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret")
	sub := TokenSubject{UserID: 1, Username: "bob", Role: model.RoleCustomer}

	tokenID, token, err := svc.GenerateRefreshToken(sub)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, tokenID, claims.ID)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	access, err := svc.GenerateAccessToken(sub)
	require.NoError(t, err)
	_, err = svc.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	token, err := NewJWTService("one").GenerateAccessToken(TokenSubject{UserID: 1, Username: "x", Role: model.RoleAdmin})
	require.NoError(t, err)

	_, err = NewJWTService("two").ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret")
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := svc.GenerateAccessToken(TokenSubject{UserID: 1, Username: "x", Role: model.RoleCustomer})
	require.NoError(t, err)

	_, err = NewJWTService("test-secret").ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTService_RemainingTTLNeverNegative(t *testing.T) {
	svc := NewJWTService("test-secret")

	expired := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}}
	assert.Zero(t, svc.RemainingTTL(expired))
	assert.Zero(t, svc.RemainingTTL(&Claims{}))
}

func TestTokenStore_WithoutRedisFailsSafe(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	require.NoError(t, store.StoreRefreshToken(ctx, "id", TokenSubject{UserID: 1}, time.Minute))

	_, err := store.GetRefreshToken(ctx, "id")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)

	blacklisted, err := store.IsAccessTokenBlacklisted(ctx, "id")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}
