package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "cookonomics/internal/errors"
)

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	Issue(subject string, ttl time.Duration) (string, error)
	Verify(tokenString string) (string, error)
}

// JWTService signs compact JWTs with a symmetric secret. It keeps no state
// besides its configuration, so there is no revocation: a token is valid
// until it expires.
type JWTService struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

var _ TokenService = (*JWTService)(nil)

// NewJWTService creates a JWT service for one of HS256, HS384 or HS512.
func NewJWTService(secret, algorithm string) (*JWTService, error) {
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if secret == "" {
		return nil, errors.New("empty signing secret")
	}
	return &JWTService{
		secret: []byte(secret),
		method: method,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of the service that reads time from now.
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	clone := *s
	clone.now = now
	return &clone
}

// Issue generates a token for subject that expires ttl from now.
func (s *JWTService) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("empty token subject")
	}
	if ttl <= 0 {
		return "", errors.New("token ttl must be positive")
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify validates signature, algorithm and expiry and returns the subject.
// All failures wrap errors.ErrInvalidToken.
func (s *JWTService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", apperrors.ErrInvalidToken
	}
	return claims.Subject, nil
}
