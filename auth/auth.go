// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidCSRFToken = errors.New("invalid csrf token")
	ErrInvalidToken     = errors.New("invalid token format")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewSessionID returns a random UUID for an assessment session
func NewSessionID() string {
	return uuid.NewString()
}

// csrfNonceBytes is the random part of a CSRF token
const csrfNonceBytes = 18

// GenerateCSRFToken creates a token of the form <nonce>.<mac>, where nonce is
// a GenerateID hex string and mac is its HMAC under salt. Tokens can be
// checked without storage.
func GenerateCSRFToken(salt string) (string, error) {
	nonce, err := GenerateID(csrfNonceBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate csrf nonce: %w", err)
	}
	return nonce + "." + sign(nonce, salt), nil
}

// ValidateCSRFToken checks that token was produced by GenerateCSRFToken with salt
func ValidateCSRFToken(token, salt string) error {
	nonce, mac, ok := strings.Cut(token, ".")
	if !ok || nonce == "" || mac == "" {
		return ErrInvalidToken
	}
	if !hmac.Equal([]byte(mac), []byte(sign(nonce, salt))) {
		return ErrInvalidCSRFToken
	}
	return nil
}

func sign(value, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(value))
	// URL-safe base64 without padding so the token is cookie-safe
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// First 16 hex chars (64 bits)
	return hex.EncodeToString(sum[:8])
}

// Double-submit CSRF: the token travels in both this header and this cookie
const (
	CSRFHeader     = "X-CSRFToken"
	CSRFCookieName = "csrftoken"
)
