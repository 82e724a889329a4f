package middleware

import (
	"value-added-framework/pkg/log"
)

// Config tunes the shared middlewares.
type Config struct {
	// RequestsPerMin per client IP. Zero disables rate limiting.
	RequestsPerMin int
}

type Middleware struct {
	l       log.Logger
	limiter *rateLimiter
}

func New(l log.Logger, cfg Config) Middleware {
	mw := Middleware{l: l}
	if cfg.RequestsPerMin > 0 {
		mw.limiter = newRateLimiter(cfg.RequestsPerMin)
	}
	return mw
}
