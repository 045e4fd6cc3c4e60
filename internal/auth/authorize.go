// Package auth verifies the signed session token carried in a cookie and
// issues tokens for development use.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kculafic/bikeThing/internal/domain"
)

// DefaultCookieName is the cookie the client stores its token in.
const DefaultCookieName = "token"

type claimsKey struct{}

// ClaimsFromContext returns the claims Authorize attached to ctx.
func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	c, ok := ctx.Value(claimsKey{}).(jwt.MapClaims)
	return c, ok
}

// ErrorWriter answers a rejected request. err wraps domain.ErrUnauthorized.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Authorize returns a middleware that verifies the HS256 token in the named
// cookie against secret. Valid tokens have their claims attached to the
// request context; anything else goes to onError and the chain stops.
// A nil onError writes a bare 401 envelope.
// No session state is kept: every request is verified on its own.
func Authorize(secret []byte, cookieName string, onError ErrorWriter) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	if onError == nil {
		onError = writeUnauthorized
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := verify(r, secret, cookieName)
			if err != nil {
				onError(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func verify(r *http.Request, secret []byte, cookieName string) (jwt.MapClaims, error) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil, fmt.Errorf("%w: missing %s cookie", domain.ErrUnauthorized, cookieName)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: token invalid", domain.ErrUnauthorized)
	}
	return claims, nil
}

// writeUnauthorized answers with the same error envelope the handlers use.
func writeUnauthorized(w http.ResponseWriter, _ *http.Request, _ error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": "unauthorized", "message": "Unauthorized"},
	})
}
