// Package httpserver runs an http.Handler with graceful shutdown driven by
// a context, plus a liveness/readiness handler.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	err := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log)).Run(ctx, router)
package httpserver
