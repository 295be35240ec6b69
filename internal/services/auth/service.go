// Package auth issues and validates the JWTs used by the storefront
// facing API. The storefront exchanges its API key (stored bcrypt-hashed
// in config) for a short-lived token.
package auth

import (
	"errors"
	"time"

	"qrisgate/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidAPIKey = errors.New("invalid API key")
	ErrInvalidToken  = errors.New("invalid token")
)

// DefaultTokenTTL is how long an issued storefront token stays valid.
const DefaultTokenTTL = 15 * time.Minute

type Service interface {
	IssueToken(apiKey string) (string, time.Time, error)
	ValidateToken(tokenString string) (*models.GatewayClaims, error)
}

type service struct {
	clientID   string
	apiKeyHash string
	jwtSecret  []byte
	tokenTTL   time.Duration
}

// NewService creates the auth service. apiKeyHash is the bcrypt hash of
// the storefront API key.
func NewService(clientID, apiKeyHash, jwtSecret string) Service {
	if apiKeyHash == "" {
		panic("api key hash is required")
	}
	if jwtSecret == "" {
		panic("jwt secret is required")
	}

	return &service{
		clientID:   clientID,
		apiKeyHash: apiKeyHash,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   DefaultTokenTTL,
	}
}

func (s *service) IssueToken(apiKey string) (string, time.Time, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(s.apiKeyHash), []byte(apiKey)); err != nil {
		return "", time.Time{}, ErrInvalidAPIKey
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	claims := &models.GatewayClaims{
		ClientID: s.clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *service) ValidateToken(tokenString string) (*models.GatewayClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.GatewayClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*models.GatewayClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
