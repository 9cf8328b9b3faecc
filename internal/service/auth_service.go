package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"cookonomics/internal/auth"
	apperrors "cookonomics/internal/errors"
	"cookonomics/internal/metrics"
	"cookonomics/internal/model"
)

// MinPasswordLength is the minimum number of characters in a password.
const MinPasswordLength = 8

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, input model.NewUser) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.Token, error)
	CurrentUser(ctx context.Context, token string) (*model.User, error)
	Refresh(ctx context.Context, user *model.User) (*model.Token, error)
}

type authService struct {
	users     UserService
	hasher    auth.PasswordHasher
	tokens    auth.TokenService
	tokenTTL  time.Duration
	dummyHash string
	log       zerolog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users UserService,
	hasher auth.PasswordHasher,
	tokens auth.TokenService,
	tokenTTL time.Duration,
	log zerolog.Logger,
) (AuthService, error) {
	// Compared against when the email is unknown so both login failures cost
	// one bcrypt comparison.
	dummyHash, err := hasher.Hash("cookonomics-unknown-user")
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}
	return &authService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		tokenTTL:  tokenTTL,
		dummyHash: dummyHash,
		log:       log,
	}, nil
}

// Register validates the password length and creates the user.
func (s *authService) Register(ctx context.Context, input model.NewUser) (*model.User, error) {
	if utf8.RuneCountInString(input.Password) < MinPasswordLength {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(input.Password) > auth.MaxPasswordBytes {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes))
	}

	user, err := s.users.Create(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicateEmail):
			metrics.RegistrationsTotal.WithLabelValues("duplicate_email").Inc()
		case errors.Is(err, apperrors.ErrValidation):
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		default:
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.log.Info().Uint("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login checks the credentials and issues a token. Unknown email and wrong
// password fail identically with ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (*model.Token, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, apperrors.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.issue(user.ID)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Uint("user_id", user.ID).Msg("user logged in")
	return token, nil
}

// CurrentUser resolves the user a bearer token was issued to.
func (s *authService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}

	id, err := strconv.ParseUint(subject, 10, 0)
	if err != nil || id == 0 {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("resolve current user: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrInactiveAccount
	}
	return user, nil
}

// Refresh issues a new token for an already authenticated user. Earlier
// tokens stay valid until they expire.
func (s *authService) Refresh(_ context.Context, user *model.User) (*model.Token, error) {
	return s.issue(user.ID)
}

func (s *authService) issue(userID uint) (*model.Token, error) {
	accessToken, err := s.tokens.Issue(strconv.FormatUint(uint64(userID), 10), s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &model.Token{
		AccessToken: accessToken,
		TokenType:   model.TokenTypeBearer,
		ExpiresIn:   int64(s.tokenTTL / time.Second),
	}, nil
}
