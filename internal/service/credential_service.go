package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"salescrm/internal/auth"
	"salescrm/internal/db"
	apperrors "salescrm/internal/errors"
	"salescrm/internal/model"
	"salescrm/internal/repository"
)

// dummyPassword is hashed once and verified against when a username is unknown,
// so both failure causes cost one hash verification.
const dummyPassword = "dummy-password-for-unknown-users"

// CredentialService verifies, registers and looks up users.
type CredentialService interface {
	// VerifyCredentials returns ErrInvalidCredentials for an unknown username and
	// for a wrong password alike.
	VerifyCredentials(ctx context.Context, username, password string) (*model.User, error)
	// GetRole reports ok == false when the user does not exist.
	GetRole(ctx context.Context, username string) (role model.Role, ok bool, err error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	// Register creates a user. An empty role means customer. It never logs the user in.
	Register(ctx context.Context, username, password string, role model.Role) (*model.User, error)
}

type credentialService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	logger   *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewCredentialService creates a new credential service.
func NewCredentialService(userRepo repository.UserRepository, hasher auth.PasswordHasher, logger *slog.Logger) CredentialService {
	if logger == nil {
		logger = slog.Default()
	}
	return &credentialService{
		userRepo: userRepo,
		hasher:   hasher,
		logger:   logger,
	}
}

func (s *credentialService) VerifyCredentials(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.verifyDummy(password)
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperrors.NewStorageError("find user", err)
	}

	ok, legacy, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		s.logger.Warn("stored password hash could not be verified",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}
	if legacy {
		s.logger.Warn("user authenticated with a legacy password hash",
			slog.Uint64("user_id", uint64(user.ID)),
		)
	}
	return user, nil
}

func (s *credentialService) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Warn("dummy password hash unavailable", slog.String("error", err.Error()))
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_, _, _ = s.hasher.Verify(s.dummyHash, password)
	}
}

func (s *credentialService) GetRole(ctx context.Context, username string) (model.Role, bool, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperrors.NewStorageError("find user role", err)
	}
	return user.Role, true, nil
}

func (s *credentialService) UsernameExists(ctx context.Context, username string) (bool, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return false, apperrors.NewStorageError("check username", err)
	}
	return exists, nil
}

func (s *credentialService) Register(ctx context.Context, username, password string, role model.Role) (*model.User, error) {
	if role == "" {
		role = model.RoleCustomer
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, role)
	}
	if username == "" {
		return nil, apperrors.Validation("username is required")
	}
	if password == "" {
		return nil, apperrors.Validation("password is required")
	}

	exists, err := s.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDuplicateUsername
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if db.IsUniqueViolation(err) {
			return nil, apperrors.ErrDuplicateUsername
		}
		return nil, apperrors.NewStorageError("create user", err)
	}

	s.logger.Info("user registered",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("role", string(role)),
	)
	return user, nil
}
