// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token and identifier helpers.

# CSRF Tokens

The save endpoint uses the double-submit pattern: the same token travels in
the X-CSRFToken header and the csrftoken cookie. Tokens are a random nonce
plus its HMAC-SHA256 under a server salt, so a token can be validated
without storing it:

	token, err := auth.GenerateCSRFToken(salt)
	err = auth.ValidateCSRFToken(token, salt)

The nonce comes from GenerateID, so it is hex. The mac is URL-safe base64
without padding. Both are cookie-safe.

# Session IDs

Assessment sessions are keyed by random UUIDs:

	id := auth.NewSessionID()

# ID Generation

Random hex IDs, used as CSRF nonces:

	id, err := auth.GenerateID(18)  // 36 hex characters

# IP Hashing

Saved results record a privacy-preserving hash of the submitter's address:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
