package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

// Probe checks one dependency.
type Probe func(ctx context.Context) error

// Liveness always answers 200.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, map[string]any{"status": "alive"})
	}
}

// Readiness runs every probe with a shared timeout and answers 503 when any
// of them fails. The body names each probe with "ok" or "error".
func Readiness(log *slog.Logger, timeout time.Duration, probes map[string]Probe) http.HandlerFunc {
	names := make([]string, 0, len(probes))
	for name := range probes {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		status := http.StatusOK
		checks := make(map[string]string, len(names))
		for _, name := range names {
			if err := probes[name](ctx); err != nil {
				log.ErrorContext(ctx, "readiness probe failed", slog.String("probe", name), logger.Error(err))
				checks[name] = "error"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		body := map[string]any{"status": "ready", "checks": checks}
		if status != http.StatusOK {
			body["status"] = "not_ready"
		}
		writeStatus(w, status, body)
	}
}

func writeStatus(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
