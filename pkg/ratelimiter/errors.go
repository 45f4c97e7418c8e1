package ratelimiter

import (
	"errors"

	"github.com/dmitrymomot/tenantkit/pkg/apperr"
)

var (
	ErrInvalidConfig     = errors.New("ratelimiter: invalid configuration")
	ErrInvalidTokenCount = errors.New("ratelimiter: invalid token count")
	ErrStoreUnavailable  = errors.New("ratelimiter: store unavailable")

	// ErrLimited is reported to clients that ran out of tokens.
	ErrLimited = apperr.New(apperr.CodeRateLimited, "request.rate_limited")
)
