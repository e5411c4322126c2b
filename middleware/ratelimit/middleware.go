package ratelimit

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"formgate/middleware/ratelimit/application"
	"formgate/middleware/ratelimit/domain"
)

type KeyFunc func(r *http.Request) string

type Options struct {
	Store               domain.LimiterStore
	Stats               domain.StatsStore
	KeyFn               KeyFunc
	KeyHeader           string
	TrustXForwardedFor  bool
	RejectStatus        int
	RetryAfter          time.Duration
	AddRateLimitHeaders bool
	// Limit descreve a cota na resposta de bloqueio (ex: "5 per 1 minute").
	Limit string
}

type rateInfo interface {
	RPS() float64
	Burst() int
}

// DefaultKeyFunc identifica o cliente: header configurado, depois o primeiro
// IP do X-Forwarded-For (se confiável) e por fim o host de RemoteAddr.
func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.RetryAfter == 0 {
		opts.RetryAfter = 1 * time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}

	svc := application.Service{
		Store:      opts.Store,
		RetryAfter: opts.RetryAfter,
	}

	detail := "Rate limit exceeded"
	if opts.Limit != "" {
		detail += ": " + opts.Limit
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Key", key)
				if ri, ok := opts.Store.(rateInfo); ok {
					w.Header().Set("X-RateLimit-RPS", formatFloat(ri.RPS()))
					w.Header().Set("X-RateLimit-Burst", formatInt(ri.Burst()))
				}
			}

			dec := svc.Decide(domain.Key(key))
			if opts.Stats != nil {
				// estatística é best-effort: nunca derruba a requisição
				err := opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:     domain.Key(key),
					Allowed: dec.Allowed,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      time.Now(),
				})
				if err != nil {
					slog.Warn("ratelimit stats record failed", "error", err)
				}
			}
			if !dec.Allowed {
				slog.Info("rate limit exceeded", "key", key, "path", r.URL.Path)
				w.Header().Set("Retry-After", formatInt(retryAfterSeconds(dec.RetryAfter)))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(opts.RejectStatus)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// retryAfterSeconds trunca para segundos inteiros, mas nunca anuncia 0.
func retryAfterSeconds(d time.Duration) int {
	s := int(d.Seconds())
	if s < 1 {
		return 1
	}
	return s
}
