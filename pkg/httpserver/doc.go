// Package httpserver runs an http.Handler with timeouts from Config and a
// graceful shutdown bound to a context, plus liveness and readiness
// handlers for orchestrators.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//	err := srv.Run(ctx, router)
package httpserver
