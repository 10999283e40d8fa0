package auth

import (
	"context"
	"errors"
	"time"

	"salescrm/internal/cache"
	"salescrm/internal/model"
)

const (
	refreshTokenKeyPrefix = "refresh_token:"
	accessTokenKeyPrefix  = "blacklist:access_token:"
)

// ErrRefreshTokenNotFound is returned when a refresh token is unknown, revoked or expired.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// TokenSubject is the identity a token is issued to.
type TokenSubject struct {
	UserID   uint       `json:"user_id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// TokenStoreInterface defines the interface for token storage operations.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID string, sub TokenSubject, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (TokenSubject, error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
	BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore handles storage and retrieval of tokens in Redis.
type TokenStore struct {
	cache *cache.Client
}

var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// StoreRefreshToken stores a refresh token subject in Redis with TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, sub TokenSubject, ttl time.Duration) error {
	return s.cache.SetJSON(ctx, refreshTokenKeyPrefix+tokenID, sub, ttl)
}

// GetRefreshToken retrieves the subject a refresh token was issued to.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (TokenSubject, error) {
	var sub TokenSubject
	found, err := s.cache.GetJSON(ctx, refreshTokenKeyPrefix+tokenID, &sub)
	if err != nil {
		return TokenSubject{}, err
	}
	if !found {
		return TokenSubject{}, ErrRefreshTokenNotFound
	}
	return sub, nil
}

// DeleteRefreshToken removes a refresh token from Redis.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, refreshTokenKeyPrefix+tokenID)
}

// BlacklistAccessToken adds an access token to the blacklist until it expires.
func (s *TokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, accessTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsAccessTokenBlacklisted checks if an access token is blacklisted.
func (s *TokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, accessTokenKeyPrefix+tokenID)
	if err != nil {
		return false, nil // fail safe
	}
	return data != nil, nil
}
