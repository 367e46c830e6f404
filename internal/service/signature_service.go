package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"payment-webhook/internal/core/ports"
)

var (
	ErrSignatureMissing    = errors.New("signature header missing")
	ErrSignatureMismatch   = errors.New("signature mismatch")
	ErrSecretNotConfigured = errors.New("signing secret not configured")
)

// VerifiedBody is a request body whose signature has been checked.
// The zero value holds no bytes and is never produced by Verify.
type VerifiedBody struct {
	raw []byte
}

// Bytes returns the verified body exactly as it was received.
func (b VerifiedBody) Bytes() []byte {
	return b.raw
}

// HMACVerifier checks gateway webhook signatures using HMAC-SHA256.
type HMACVerifier struct {
	secrets ports.SecretSource
}

// NewHMACVerifier creates a verifier that resolves the signing secret from
// secrets on every call.
func NewHMACVerifier(secrets ports.SecretSource) *HMACVerifier {
	return &HMACVerifier{secrets: secrets}
}

// Sign computes HMAC-SHA256 of body with secret as lowercase hex.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks signature against the raw body. signature is nil when the
// header was absent.
func (v *HMACVerifier) Verify(body []byte, signature *string) (VerifiedBody, error) {
	if signature == nil || *signature == "" {
		return VerifiedBody{}, ErrSignatureMissing
	}

	secret, err := v.secrets.Secret()
	if err != nil {
		return VerifiedBody{}, fmt.Errorf("%w: %v", ErrSecretNotConfigured, err)
	}
	if len(secret) == 0 {
		return VerifiedBody{}, ErrSecretNotConfigured
	}

	expected := Sign(secret, body)
	if !constantTimeEqual(expected, *signature) {
		return VerifiedBody{}, ErrSignatureMismatch
	}

	return VerifiedBody{raw: body}, nil
}

func constantTimeEqual(a, b string) bool {
	ok, _ := compareWalk(a, b)
	return ok
}

// compareWalk reports whether a and b are equal and how many bytes were
// examined. Equal-length inputs are always examined in full.
func compareWalk(a, b string) (bool, int) {
	if len(a) != len(b) {
		return false, 0
	}
	var diff byte
	n := 0
	for i := 0; i < len(a); i++ {
		diff |= a[i] ^ b[i]
		n++
	}
	return diff == 0, n
}
