// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestNewSessionID(t *testing.T) {
	id := NewSessionID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewSessionID() = %q is not a UUID: %v", id, err)
	}
	if id == NewSessionID() {
		t.Error("NewSessionID() produced duplicate IDs")
	}
}

func TestGenerateCSRFToken(t *testing.T) {
	token, err := GenerateCSRFToken("csrf-salt")
	if err != nil {
		t.Fatalf("GenerateCSRFToken() error = %v", err)
	}

	nonce, mac, ok := strings.Cut(token, ".")
	if !ok || nonce == "" || mac == "" {
		t.Fatalf("GenerateCSRFToken() = %q, want <nonce>.<mac>", token)
	}
	if len(nonce) != csrfNonceBytes*2 {
		t.Errorf("nonce length = %d, want %d hex characters", len(nonce), csrfNonceBytes*2)
	}
	if _, err := hex.DecodeString(nonce); err != nil {
		t.Errorf("nonce %q is not GenerateID hex: %v", nonce, err)
	}
	if strings.ContainsAny(token, "=+/;, ") {
		t.Errorf("GenerateCSRFToken() = %q contains cookie-unsafe characters", token)
	}

	other, _ := GenerateCSRFToken("csrf-salt")
	if token == other {
		t.Error("GenerateCSRFToken() produced duplicate tokens")
	}
}

func TestValidateCSRFToken(t *testing.T) {
	salt := "csrf-salt"
	valid, err := GenerateCSRFToken(salt)
	if err != nil {
		t.Fatalf("GenerateCSRFToken() error = %v", err)
	}
	nonce, _, _ := strings.Cut(valid, ".")

	tests := []struct {
		name    string
		token   string
		salt    string
		wantErr error
	}{
		{"valid token", valid, salt, nil},
		{"wrong salt", valid, "other-salt", ErrInvalidCSRFToken},
		{"tampered mac", nonce + ".AAAA", salt, ErrInvalidCSRFToken},
		{"tampered nonce", "x" + valid, salt, ErrInvalidCSRFToken},
		{"missing separator", "notatoken", salt, ErrInvalidToken},
		{"empty mac", nonce + ".", salt, ErrInvalidToken},
		{"empty token", "", salt, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCSRFToken(tt.token, tt.salt)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCSRFToken() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHashIP(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		salt string
	}{
		{"IPv4", "192.168.1.1", "ip-salt"},
		{"IPv6", "2001:0db8:85a3::8a2e:0370:7334", "ip-salt"},
		{"localhost", "127.0.0.1", "ip-salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := HashIP(tt.ip, tt.salt)

			// Should not be empty
			if hash == "" {
				t.Error("HashIP() returned empty string")
			}

			// Should be 16 hex characters (8 bytes * 2)
			if len(hash) != 16 {
				t.Errorf("HashIP() length = %d, want 16", len(hash))
			}

			// Should be valid hex
			for _, c := range hash {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("HashIP() contains invalid hex char: %c", c)
				}
			}

			// Should be deterministic
			hash2 := HashIP(tt.ip, tt.salt)
			if hash != hash2 {
				t.Error("HashIP() is not deterministic")
			}
		})
	}

	// Different IPs should produce different hashes
	hash1 := HashIP("192.168.1.1", "salt")
	hash2 := HashIP("192.168.1.2", "salt")
	if hash1 == hash2 {
		t.Error("HashIP() produced same hash for different IPs")
	}

	// Different salts should produce different hashes
	hash3 := HashIP("192.168.1.1", "salt1")
	hash4 := HashIP("192.168.1.1", "salt2")
	if hash3 == hash4 {
		t.Error("HashIP() produced same hash for different salts")
	}
}

// Benchmark tests
func BenchmarkGenerateID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateID(16)
	}
}

func BenchmarkValidateCSRFToken(b *testing.B) {
	token, _ := GenerateCSRFToken("bench-salt")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ValidateCSRFToken(token, "bench-salt")
	}
}
