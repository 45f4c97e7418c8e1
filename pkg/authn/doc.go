// Package authn authenticates API callers with HS256 JSON Web Tokens and
// places the caller's user id in the request context.
//
// Authentication is the only identity input the authorization core
// trusts. Tenant hints, permissions and memberships are all derived from
// the user id this package yields.
//
//	svc, err := authn.NewService(cfg.JWTSecret, authn.WithIssuer(cfg.JWTIssuer))
//	r.Use(authn.Middleware(svc, authn.WithErrorHandler(renderError)))
//
//	userID, ok := authn.UserIDFromContext(r.Context())
package authn
