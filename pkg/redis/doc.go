// Package redis connects to Redis with go-redis/v9 and exposes a readiness
// probe. The tenant resolver uses the client for its shared slug cache.
package redis
