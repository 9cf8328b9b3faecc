package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cookonomics/internal/auth"
	apperrors "cookonomics/internal/errors"
	"cookonomics/internal/model"
	"cookonomics/internal/validation"
)

const testTokenTTL = 30 * time.Minute

type authFixture struct {
	repo   *MockUserRepository
	hasher *auth.BcryptHasher
	jwt    *auth.JWTService
	svc    AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repo := new(MockUserRepository)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	jwtService, err := auth.NewJWTService("test-secret", "HS256")
	require.NoError(t, err)

	users := NewUserService(repo, hasher, validation.New(), nil, time.Minute)
	svc, err := NewAuthService(users, hasher, jwtService, testTokenTTL, zerolog.Nop())
	require.NoError(t, err)
	return &authFixture{repo: repo, hasher: hasher, jwt: jwtService, svc: svc}
}

func (f *authFixture) storedUser(t *testing.T, id uint, email, password string, active bool) *model.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	return &model.User{ID: id, Email: email, HashedPassword: hash, IsActive: active}
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         model.NewUser
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful registration",
			input: model.NewUser{Email: "test@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, apperrors.ErrUserNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
					Run(func(args mock.Arguments) { args.Get(1).(*model.User).ID = 1 }).
					Return(nil)
			},
		},
		{
			name:  "email already exists",
			input: model.NewUser{Email: "existing@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").
					Return(&model.User{ID: 2, Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
		{
			name:  "lost the race on the unique index",
			input: model.NewUser{Email: "race@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, apperrors.ErrUserNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrDuplicateEmail)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
		{
			name:          "password too short",
			input:         model.NewUser{Email: "short@example.com", Password: "1234567"},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:          "password longer than 72 bytes",
			input:         model.NewUser{Email: "long@example.com", Password: strings.Repeat("é", 40)},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:          "invalid email",
			input:         model.NewUser{Email: "not-an-email", Password: "password123"},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			tt.setupMock(f.repo)

			user, err := f.svc.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint(1), user.ID)
				assert.Equal(t, tt.input.Email, user.Email)
				assert.True(t, user.IsActive)
				assert.NotEqual(t, tt.input.Password, user.HashedPassword)
				assert.True(t, f.hasher.Verify(tt.input.Password, user.HashedPassword))
			}

			f.repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterInactive(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.On("FindByEmail", mock.Anything, "off@example.com").Return(nil, apperrors.ErrUserNotFound)
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool { return !u.IsActive })).Return(nil)

	inactive := false
	user, err := f.svc.Register(context.Background(), model.NewUser{
		Email: "off@example.com", Password: "password123", IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	f.repo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*authFixture)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(f *authFixture) {
				f.repo.On("FindByEmail", mock.Anything, "test@example.com").
					Return(f.storedUser(t, 5, "test@example.com", "password123", true), nil)
			},
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "password124",
			setupMock: func(f *authFixture) {
				f.repo.On("FindByEmail", mock.Anything, "test@example.com").
					Return(f.storedUser(t, 5, "test@example.com", "password123", true), nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(f *authFixture) {
				f.repo.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, apperrors.ErrUserNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "inactive users may still log in",
			email:    "off@example.com",
			password: "password123",
			setupMock: func(f *authFixture) {
				f.repo.On("FindByEmail", mock.Anything, "off@example.com").
					Return(f.storedUser(t, 6, "off@example.com", "password123", false), nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			tt.setupMock(f)

			token, err := f.svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, token)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token.AccessToken)
				assert.Equal(t, "bearer", token.TokenType)
				assert.Equal(t, int64(testTokenTTL/time.Second), token.ExpiresIn)

				subject, err := f.jwt.Verify(token.AccessToken)
				require.NoError(t, err)
				assert.NotEmpty(t, subject)
			}

			f.repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginStoreError(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, errors.New("connection refused"))

	_, err := f.svc.Login(context.Background(), "a@x.com", "password123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.False(t, apperrors.IsExpected(err))
}

func TestAuthService_CurrentUser(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		f := newAuthFixture(t)
		f.repo.On("FindByID", mock.Anything, uint(5)).Return(&model.User{ID: 5, Email: "a@x.com", IsActive: true}, nil)
		token, err := f.jwt.Issue("5", time.Minute)
		require.NoError(t, err)

		user, err := f.svc.CurrentUser(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, uint(5), user.ID)
	})

	t.Run("garbage token", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.CurrentUser(context.Background(), "garbage")
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newAuthFixture(t)
		past := f.jwt.WithClock(func() time.Time { return time.Now().Add(-time.Hour) })
		token, err := past.Issue("5", time.Minute)
		require.NoError(t, err)

		_, err = f.svc.CurrentUser(context.Background(), token)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("non numeric subject", func(t *testing.T) {
		f := newAuthFixture(t)
		token, err := f.jwt.Issue("alice", time.Minute)
		require.NoError(t, err)

		_, err = f.svc.CurrentUser(context.Background(), token)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("deleted user", func(t *testing.T) {
		f := newAuthFixture(t)
		f.repo.On("FindByID", mock.Anything, uint(9)).Return(nil, apperrors.ErrUserNotFound)
		token, err := f.jwt.Issue("9", time.Minute)
		require.NoError(t, err)

		_, err = f.svc.CurrentUser(context.Background(), token)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("inactive user", func(t *testing.T) {
		f := newAuthFixture(t)
		f.repo.On("FindByID", mock.Anything, uint(6)).Return(&model.User{ID: 6, IsActive: false}, nil)
		token, err := f.jwt.Issue("6", time.Minute)
		require.NoError(t, err)

		_, err = f.svc.CurrentUser(context.Background(), token)
		assert.ErrorIs(t, err, apperrors.ErrInactiveAccount)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	f := newAuthFixture(t)

	token, err := f.svc.Refresh(context.Background(), &model.User{ID: 12})
	require.NoError(t, err)

	subject, err := f.jwt.Verify(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(12), subject)
}
