package authn_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/authn"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	svc, err := authn.NewService("secret")
	require.NoError(t, err)
	userID := uuid.New()
	token, err := svc.Issue(userID)
	require.NoError(t, err)

	var seen uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = authn.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	var failure error
	mw := authn.Middleware(svc,
		authn.WithSkip(func(r *http.Request) bool { return r.URL.Path == "/healthz" }),
		authn.WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
			failure = err
			w.WriteHeader(http.StatusUnauthorized)
		}),
	)(next)

	t.Run("valid bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, userID, seen)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.ErrorIs(t, failure, authn.ErrMissingToken)
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.ErrorIs(t, failure, authn.ErrInvalidToken)
	})

	t.Run("skipped", func(t *testing.T) {
		seen = uuid.Nil
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, uuid.Nil, seen)
	})
}
