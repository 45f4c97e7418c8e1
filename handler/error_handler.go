package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

// NewErrorHandler logs err and writes the JSON error envelope. Client errors
// are logged at warn level, everything else at error level.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = logger.Discard()
	}
	return func(ctx Context, err error) {
		r := ctx.Request()
		status, _ := Describe(err)

		level := slog.LevelError
		if status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		log.LogAttrs(r.Context(), level, "request failed",
			logger.Error(err),
			slog.Int("status", status),
			slog.String("method", r.Method),
			slog.String("route", routeOf(r)),
			logger.Component("http"),
		)

		if rerr := JSONError(err).Render(ctx.ResponseWriter(), r); rerr != nil {
			log.LogAttrs(r.Context(), slog.LevelError, "failed to write error response",
				logger.Error(rerr),
				logger.Component("http"),
			)
		}
	}
}

// routeOf returns the matched chi route pattern. Raw paths are never logged:
// they can carry credentials such as invitation tokens.
func routeOf(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// HTTPErrorFunc adapts h for middleware that reports failures with a plain
// (w, r, err) callback.
func HTTPErrorFunc(h ErrorHandler[Context]) func(w http.ResponseWriter, r *http.Request, err error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		h(NewContext(w, r), err)
	}
}
