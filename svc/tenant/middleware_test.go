package tenant_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tenantkit/pkg/apperr"
	"github.com/dmitrymomot/tenantkit/pkg/authn"
	pkgtenant "github.com/dmitrymomot/tenantkit/pkg/tenant"
	"github.com/dmitrymomot/tenantkit/svc/tenant"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	extract := pkgtenant.First(
		pkgtenant.FromHeaderID(""),
		pkgtenant.FromHeaderSlug(""),
		pkgtenant.FromSubdomain("example.com"),
		pkgtenant.FromCookie(""),
	)

	var code apperr.Code
	mw := tenant.Middleware(tenant.NewResolver(f.store), extract, func(w http.ResponseWriter, _ *http.Request, err error) {
		code = apperr.CodeOf(err)
		w.WriteHeader(http.StatusPreconditionFailed)
	})

	var seen uuid.UUID
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = pkgtenant.OrgIDFromContext(r.Context())
	}))

	serve := func(userID uuid.UUID, prep func(*http.Request)) int {
		seen, code = uuid.Nil, ""
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = "example.com"
		if userID != uuid.Nil {
			req = req.WithContext(authn.WithUserID(req.Context(), userID))
		}
		if prep != nil {
			prep(req)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("unauthenticated", func(t *testing.T) {
		assert.Equal(t, http.StatusPreconditionFailed, serve(uuid.Nil, nil))
		assert.Equal(t, apperr.CodeUnauthenticated, code)
	})

	t.Run("subdomain", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(f.user.ID, func(r *http.Request) { r.Host = "acme.example.com" }))
		assert.Equal(t, f.acme.ID, seen)
	})

	t.Run("header id beats subdomain", func(t *testing.T) {
		serve(f.user.ID, func(r *http.Request) {
			r.Host = "acme.example.com"
			r.Header.Set(pkgtenant.DefaultIDHeader, f.globex.ID.String())
		})
		assert.Equal(t, f.globex.ID, seen)
	})

	t.Run("cookie", func(t *testing.T) {
		serve(f.user.ID, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: pkgtenant.DefaultCookieName, Value: f.acme.ID.String()})
		})
		assert.Equal(t, f.acme.ID, seen)
	})

	t.Run("active org fallback", func(t *testing.T) {
		serve(f.user.ID, nil)
		assert.Equal(t, f.globex.ID, seen)
	})

	t.Run("non-member", func(t *testing.T) {
		assert.Equal(t, http.StatusPreconditionFailed, serve(f.stranger.ID, func(r *http.Request) { r.Host = "acme.example.com" }))
		assert.Equal(t, apperr.CodeTenantNotSet, code)
		assert.Equal(t, uuid.Nil, seen)
	})
}
