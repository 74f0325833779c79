// Package logging is the logging facade used by prime and key generation.
//
// Logger wraps a subset of log/slog with context-aware methods. New binds
// it to an slog.Logger (slog.Default() when nil) and Discard drops
// everything, which is what the generators use when no logger is supplied:
//
//	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
//	gen := prime.NewGenerator(cfg, prime.WithLogger(logging.New(slog.New(handler))))
//
// # Secrets
//
// Private exponents, prime factors and CRT terms are never logged. Where a
// record refers to one, it carries Redacted instead:
//
//	logger.Info(ctx, "key generated", "bits", 2048, logging.Redacted("d"))
//	// bits=2048 d="[redacted]"
//
// Public values such as the modulus bit length may be logged freely.
package logging
