package service

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"payment-webhook/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ScopeReconcile grants read access to recorded payments.
const ScopeReconcile = "payments:read"

var (
	ErrTokenSecretMissing = errors.New("jwt secret not configured")
	ErrTokenScope         = errors.New("token lacks reconciliation scope")
)

type adminClaims struct {
	Scopes []string `json:"scp"`
	jwt.RegisteredClaims
}

// JWTTokenService mints and checks HS256 admin tokens.
type JWTTokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
}

func NewJWTTokenService(secret string, expiry time.Duration, issuer string) *JWTTokenService {
	return &JWTTokenService{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
	}
}

// Generate creates a signed admin token for operator.
func (s *JWTTokenService) Generate(operator string) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, ErrTokenSecretMissing
	}
	if operator == "" {
		return "", time.Time{}, fmt.Errorf("operator is required")
	}

	now := time.Now()
	expiresAt := now.Add(s.expiry)
	claims := adminClaims{
		Scopes: []string{ScopeReconcile},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   operator,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate accepts only unexpired HS256 tokens from our issuer that carry
// the reconciliation scope.
func (s *JWTTokenService) Validate(tokenString string) (*ports.TokenClaims, error) {
	if len(s.secret) == 0 {
		return nil, ErrTokenSecretMissing
	}

	var claims adminClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("missing subject claim")
	}
	if !slices.Contains(claims.Scopes, ScopeReconcile) {
		return nil, ErrTokenScope
	}

	return &ports.TokenClaims{Operator: claims.Subject, TokenID: claims.ID}, nil
}
