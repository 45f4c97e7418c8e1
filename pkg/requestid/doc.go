// Package requestid attaches a correlation id to every request.
//
// Middleware reuses a well-formed X-Request-ID header or generates a UUID,
// stores it in the request context and echoes it back in the response.
// LoggerExtractor plugs the id into pkg/logger so every record emitted while
// serving the request carries it.
package requestid
