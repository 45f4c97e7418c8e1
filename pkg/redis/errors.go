package redis

import "errors"

var (
	ErrMissingURL = errors.New("redis: REDIS_URL is not set")
	ErrInvalidURL = errors.New("redis: invalid REDIS_URL")
	// ErrNotReady is returned once connect retries are exhausted.
	ErrNotReady          = errors.New("redis: server not reachable")
	ErrHealthcheckFailed = errors.New("redis: ping failed")
)
