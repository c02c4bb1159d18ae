package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/smartflash/internal/api/shared"
	"github.com/phrazzld/smartflash/internal/platform/logger"
	"golang.org/x/crypto/bcrypt"
)

// TokenAuth guards routes with a single shared bearer token. Only the
// bcrypt hash of the token is configured.
type TokenAuth struct {
	hash []byte
}

// NewTokenAuth creates a TokenAuth from a bcrypt hash.
func NewTokenAuth(hash string) (*TokenAuth, error) {
	hash = strings.TrimSpace(hash)
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid api token hash: %w", err)
	}
	return &TokenAuth{hash: []byte(hash)}, nil
}

// HashToken returns the bcrypt hash to configure for token.
func HashToken(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", errors.New("token cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hash), nil
}

// Authenticate rejects requests that do not carry the configured token in
// an Authorization: Bearer header.
func (a *TokenAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		if err := bcrypt.CompareHashAndPassword(a.hash, []byte(strings.TrimSpace(token))); err != nil {
			logger.FromContextOrDefault(r.Context(), nil).Warn("rejected api token",
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr)
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
