package authn

import (
	"net/http"
	"strings"
)

// TokenExtractorFunc pulls a raw token from a request.
type TokenExtractorFunc func(r *http.Request) (string, error)

// SkipFunc reports whether a request bypasses authentication.
type SkipFunc func(r *http.Request) bool

// ErrorHandlerFunc renders an authentication failure.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

type middlewareConfig struct {
	extractor    TokenExtractorFunc
	skip         SkipFunc
	errorHandler ErrorHandlerFunc
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

// WithExtractor replaces the default bearer extractor.
func WithExtractor(fn TokenExtractorFunc) MiddlewareOption {
	return func(c *middlewareConfig) {
		if fn != nil {
			c.extractor = fn
		}
	}
}

// WithSkip lets matching requests through unauthenticated.
func WithSkip(fn SkipFunc) MiddlewareOption {
	return func(c *middlewareConfig) { c.skip = fn }
}

// WithErrorHandler sets how failures are written.
func WithErrorHandler(fn ErrorHandlerFunc) MiddlewareOption {
	return func(c *middlewareConfig) {
		if fn != nil {
			c.errorHandler = fn
		}
	}
}

// Middleware verifies the caller's token and stores the user id in the
// request context.
func Middleware(svc *Service, opts ...MiddlewareOption) func(next http.Handler) http.Handler {
	cfg := middlewareConfig{
		extractor: BearerTokenExtractor,
		errorHandler: func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.skip != nil && cfg.skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			token, err := cfg.extractor(r)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}

			userID, err := svc.Verify(token)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// BearerTokenExtractor reads "Authorization: Bearer <token>".
func BearerTokenExtractor(r *http.Request) (string, error) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

// CookieTokenExtractor reads the token from a cookie.
func CookieTokenExtractor(name string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", ErrMissingToken
		}
		return c.Value, nil
	}
}
