package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-key-for-unit-tests"

func TestJWTTokenService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, 24*time.Hour, "test-issuer")

	tokenStr, expiresAt, err := svc.Generate("ops@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, tokenStr)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.Validate(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Operator)
	assert.NotEmpty(t, claims.TokenID)
}

func TestJWTTokenService_RequiresScope(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, time.Hour, "issuer")

	unscoped := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "ops",
		Issuer:    "issuer",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	tokenStr, err := unscoped.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	_, err = svc.Validate(tokenStr)
	assert.ErrorIs(t, err, ErrTokenScope)
}

func TestJWTTokenService_RejectsOtherAlgorithms(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, time.Hour, "issuer")

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, adminClaims{
		Scopes: []string{ScopeReconcile},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ops",
			Issuer:    "issuer",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenStr, err := hs512.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	_, err = svc.Validate(tokenStr)
	assert.Error(t, err)
}

func TestJWTTokenService_ExpiredToken(t *testing.T) {
	// Token with -1 hour expiry = already expired
	svc := NewJWTTokenService(testJWTSecret, -1*time.Hour, "test-issuer")

	tokenStr, _, err := svc.Generate("ops")
	require.NoError(t, err)

	_, err = svc.Validate(tokenStr)
	assert.Error(t, err, "expired token should fail validation")
}

func TestJWTTokenService_InvalidSignature(t *testing.T) {
	svc1 := NewJWTTokenService("secret-1", 24*time.Hour, "issuer")
	svc2 := NewJWTTokenService("secret-2", 24*time.Hour, "issuer")

	tokenStr, _, err := svc1.Generate("ops")
	require.NoError(t, err)

	_, err = svc2.Validate(tokenStr)
	assert.Error(t, err, "token signed with different secret should fail")
}

func TestJWTTokenService_WrongIssuer(t *testing.T) {
	svc1 := NewJWTTokenService(testJWTSecret, time.Hour, "someone-else")
	svc2 := NewJWTTokenService(testJWTSecret, time.Hour, "payment-webhook")

	tokenStr, _, err := svc1.Generate("ops")
	require.NoError(t, err)

	_, err = svc2.Validate(tokenStr)
	assert.Error(t, err)
}

func TestJWTTokenService_InvalidTokenString(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, 24*time.Hour, "issuer")

	_, err := svc.Validate("not.a.valid.jwt")
	assert.Error(t, err)

	_, err = svc.Validate("")
	assert.Error(t, err)
}

func TestJWTTokenService_EmptySecretRefuses(t *testing.T) {
	svc := NewJWTTokenService("", time.Hour, "issuer")

	_, _, err := svc.Generate("ops")
	assert.ErrorIs(t, err, ErrTokenSecretMissing)

	_, err = svc.Validate("a.b.c")
	assert.ErrorIs(t, err, ErrTokenSecretMissing)
}

func TestJWTTokenService_EmptyOperator(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, time.Hour, "issuer")

	_, _, err := svc.Generate("")
	assert.Error(t, err)
}
