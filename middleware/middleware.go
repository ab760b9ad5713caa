// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/assessment-path/auth"
	"github.com/danielhkuo/assessment-path/models"
)

// maxBodyBytes bounds request bodies; a saved assessment path is far smaller
const maxBodyBytes = 1 << 20

var (
	ErrCSRFMissing  = errors.New("CSRF token missing")
	ErrCSRFMismatch = errors.New("CSRF token mismatch")
	ErrCSRFInvalid  = errors.New("CSRF token invalid")
)

// Rejecter writes the response for a request refused by a middleware check.
// ErrorResponse and SaveErrorResponse both fit.
type Rejecter func(w http.ResponseWriter, statusCode int, message string)

// statusRecorder remembers the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// WithLogging wraps a handler with request logging. The completion line
// carries the response status so rejected saves and interactions stand out.
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		slog.Info("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)

		next(rec, r)

		level := slog.LevelInfo
		if rec.status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}
		slog.Log(r.Context(), level, "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// SaveErrorResponse writes a failure in the save envelope. Clients of the
// save endpoint read status, never the HTTP code alone.
func SaveErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.SaveResponse{
		Status:  models.SaveStatusError,
		Message: message,
	})
}

// ParseJSONBody decodes a bounded request body into v
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
}

// CORS lets the assessment frontend call the API, including the CSRF header
// on saves. Preflight requests end here with 204.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, "+auth.CSRFHeader)
		h.Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetClientIP extracts the client IP address.
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// CheckCSRF applies the double-submit check: the X-CSRFToken header must
// equal the csrftoken cookie and be a token signed with salt.
func CheckCSRF(r *http.Request, salt string) error {
	header := r.Header.Get(auth.CSRFHeader)
	cookie, err := r.Cookie(auth.CSRFCookieName)
	if header == "" || err != nil || cookie.Value == "" {
		return ErrCSRFMissing
	}
	if subtle.ConstantTimeCompare([]byte(header), []byte(cookie.Value)) != 1 {
		return ErrCSRFMismatch
	}
	if err := auth.ValidateCSRFToken(header, salt); err != nil {
		return errors.Join(ErrCSRFInvalid, err)
	}
	return nil
}

// RequireCSRF rejects requests failing CheckCSRF with a 403 ErrorResponse
func RequireCSRF(salt string, next http.HandlerFunc) http.HandlerFunc {
	return RequireCSRFWith(salt, ErrorResponse, next)
}

// RequireCSRFWith rejects requests failing CheckCSRF with a 403 written by
// reject, so each endpoint keeps its own error envelope.
func RequireCSRFWith(salt string, reject Rejecter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := CheckCSRF(r, salt); err != nil {
			slog.Warn("csrf check failed", "path", r.URL.Path, "error", err)
			message := err.Error()
			if errors.Is(err, ErrCSRFInvalid) {
				message = ErrCSRFInvalid.Error()
			}
			reject(w, http.StatusForbidden, message)
			return
		}
		next(w, r)
	}
}
