// Package jwt implements bearer-token authentication with signed JWTs.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akarpov/incident-desk/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Config contains JWT settings.
type Config struct {
	SecretKey     string
	Issuer        string
	TokenDuration time.Duration
}

// Authenticator issues and validates HS256-signed tokens.
type Authenticator struct {
	config Config
}

// NewAuthenticator creates a new JWT authenticator.
func NewAuthenticator(config Config) *Authenticator {
	return &Authenticator{config: config}
}

type claims struct {
	Username string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken issues a token for the user, valid for the configured
// duration (24h by default).
func (a *Authenticator) GenerateToken(_ context.Context, user *domain.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(a.config.TokenDuration)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    a.config.Issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString([]byte(a.config.SecretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a token and returns the subject user id.
func (a *Authenticator) ValidateToken(_ context.Context, tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(a.config.SecretKey), nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	tokenClaims, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return "", errors.New("invalid token")
	}
	if tokenClaims.Subject == "" {
		return "", errors.New("token has no subject")
	}

	return tokenClaims.Subject, nil
}
