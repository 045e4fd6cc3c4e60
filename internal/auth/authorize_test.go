package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kculafic/bikeThing/internal/auth"
	"github.com/kculafic/bikeThing/internal/domain"
)

var secret = []byte("test-secret-at-least-32-characters!!")

// protected wraps a handler that records whether it ran and which subject it saw.
func protected(t *testing.T, called *bool, subject *string) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		claims, ok := auth.ClaimsFromContext(r.Context())
		require.True(t, ok, "claims should be in context")
		*subject, _ = claims.GetSubject()
		w.WriteHeader(http.StatusOK)
	})
	return auth.Authorize(secret, "token", nil)(next)
}

func requestWithCookie(value string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/segments/1", nil)
	if value != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: value})
	}
	return req
}

func TestAuthorize_ValidToken(t *testing.T) {
	token, err := auth.NewSigner(secret, time.Hour).Sign("rider-1")
	require.NoError(t, err)

	var called bool
	var subject string
	rec := httptest.NewRecorder()
	protected(t, &called, &subject).ServeHTTP(rec, requestWithCookie(token))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, "rider-1", subject)
}

func TestAuthorize_Rejects(t *testing.T) {
	expired, err := auth.NewSigner(secret, -time.Minute).Sign("rider-1")
	require.NoError(t, err)

	wrongKey, err := auth.NewSigner([]byte("another-secret-entirely-different!!"), time.Hour).Sign("rider-1")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "rider-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		cookie string
	}{
		{"missing cookie", ""},
		{"garbage", "not-a-jwt"},
		{"expired", expired},
		{"wrong secret", wrongKey},
		{"alg none", unsigned},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var called bool
			var subject string
			rec := httptest.NewRecorder()
			protected(t, &called, &subject).ServeHTTP(rec, requestWithCookie(tc.cookie))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called, "handler must not run")
			assert.JSONEq(t, `{"error":{"code":"unauthorized","message":"Unauthorized"}}`, rec.Body.String())
		})
	}
}

// The token is only read from the cookie; a bearer header is not enough.
func TestAuthorize_IgnoresAuthorizationHeader(t *testing.T) {
	token, err := auth.NewSigner(secret, time.Hour).Sign("rider-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/segments/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	var called bool
	var subject string
	rec := httptest.NewRecorder()
	protected(t, &called, &subject).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuthorize_ErrorWriterReceivesUnauthorized(t *testing.T) {
	var got error
	onError := func(w http.ResponseWriter, _ *http.Request, err error) {
		got = err
		w.WriteHeader(http.StatusTeapot)
	}
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next must not run")
	})

	rec := httptest.NewRecorder()
	auth.Authorize(secret, "token", onError)(next).ServeHTTP(rec, requestWithCookie("garbage"))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.True(t, errors.Is(got, domain.ErrUnauthorized))
}
