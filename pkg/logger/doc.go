// Package logger builds *slog.Logger instances with functional options.
//
// New picks a JSON or text handler, attaches static attributes and wraps the
// handler so ContextExtractor callbacks can add request-scoped attributes
// (such as a request id) to every record:
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "bookstore"),
//		logger.WithContextValue("request_id", middleware.RequestIDKey),
//	)
//	log.Debug("validator compiled", logger.Type(t), logger.Field("Title"))
//
// Config can be loaded with package config; FromConfig turns it into
// options. Attribute helpers keep key names consistent across packages.
package logger
