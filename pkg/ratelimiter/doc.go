// Package ratelimiter provides token bucket rate limiting.
//
// A Bucket holds the policy and delegates state to a Store: MemoryStore for
// a single instance, RedisStore when several instances share the limit. The
// Redis store refills and debits in one Lua script.
//
//	store := ratelimiter.NewRedisStore(client, "tenantkit:ratelimit:")
//	bucket, err := ratelimiter.NewBucket(store, cfg)
//	r.With(ratelimiter.Middleware(bucket, ratelimiter.ByIP, onError)).Get("/invitations/{token}", h)
//
// Requests that do not fit receive ErrLimited, a RATE_LIMITED error.
package ratelimiter
