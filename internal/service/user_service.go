package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cookonomics/internal/auth"
	"cookonomics/internal/cache"
	apperrors "cookonomics/internal/errors"
	"cookonomics/internal/model"
	"cookonomics/internal/repository"
	"cookonomics/internal/validation"
)

const defaultUserCacheTTL = 5 * time.Minute

// UserService exposes user store operations.
type UserService interface {
	Create(ctx context.Context, input model.NewUser) (*model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetOwned(ctx context.Context, id, callerID uint) (*model.User, error)
	Update(ctx context.Context, id uint, patch model.UserPatch) (*model.User, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	hasher    auth.PasswordHasher
	validator *validation.Validator
	cache     *cache.Client
	cacheTTL  time.Duration
}

// NewUserService builds a UserService. cache may be nil.
func NewUserService(
	repo repository.UserRepository,
	hasher auth.PasswordHasher,
	validator *validation.Validator,
	cache *cache.Client,
	cacheTTL time.Duration,
) UserService {
	if cacheTTL <= 0 {
		cacheTTL = defaultUserCacheTTL
	}
	return &userService{
		repo:      repo,
		hasher:    hasher,
		validator: validator,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// Create hashes the password and stores a new user. The email pre-check is a
// fast path only; the unique index decides under concurrency.
func (s *userService) Create(ctx context.Context, input model.NewUser) (*model.User, error) {
	if err := s.validator.Validate(&input); err != nil {
		return nil, err
	}

	if len(input.Password) > auth.MaxPasswordBytes {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes))
	}

	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:          input.Email,
		FullName:       input.FullName,
		HashedPassword: hashed,
		IsActive:       input.Active(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, s.cacheKey(id), user, s.cacheTTL)
	return user, nil
}

// GetByEmail returns the stored row including the password hash. It bypasses
// the cache, which never holds hashes.
func (s *userService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// GetOwned returns user id if it exists (ErrUserNotFound otherwise) and the
// caller is that user (ErrForbidden otherwise).
func (s *userService) GetOwned(ctx context.Context, id, callerID uint) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AssertOwner(user.ID, callerID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id uint, patch model.UserPatch) (*model.User, error) {
	if err := s.validator.Validate(&patch); err != nil {
		return nil, err
	}
	user, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.cache.Delete(ctx, s.cacheKey(id))
	if !deleted {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (s *userService) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	return s.repo.List(ctx, offset, limit)
}
