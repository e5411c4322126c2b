package ratelimit

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"formgate/middleware/ratelimit/application"
	"formgate/middleware/ratelimit/infra"
)

type ConcurrencyOptions struct {
	Max            int
	RejectStatus   int
	AcquireTimeout time.Duration
}

// ConcurrencyMiddleware limita quantas requisições ficam em voo ao mesmo tempo.
// Max <= 0 desativa o limite.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}

	svc := application.ConcurrencyService{
		Pool:           infra.NewChanPool(opts.Max),
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, ok := svc.Acquire(r.Context())
			if !ok {
				slog.Warn("concurrency limit reached", "max", opts.Max, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(opts.RejectStatus)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": http.StatusText(opts.RejectStatus)})
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
