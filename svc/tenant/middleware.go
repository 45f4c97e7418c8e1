package tenant

import (
	"net/http"

	"github.com/dmitrymomot/tenantkit/pkg/apperr"
	"github.com/dmitrymomot/tenantkit/pkg/authn"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// ErrorHandlerFunc renders a resolution failure.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// Middleware resolves the request's organization and stores it with
// tenant.WithOrgID. It must run after authentication.
func Middleware(res *Resolver, extract tenant.Extractor, onError ErrorHandlerFunc) func(http.Handler) http.Handler {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusPreconditionFailed), http.StatusPreconditionFailed)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID, ok := authn.UserIDFromContext(ctx)
			if !ok {
				onError(w, r, apperr.ErrUnauthenticated)
				return
			}

			var hint tenant.Hint
			if extract != nil {
				hint, _ = extract(r)
			}

			orgID, err := res.Resolve(ctx, userID, hint)
			if err != nil {
				onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(tenant.WithOrgID(ctx, orgID)))
		})
	}
}
