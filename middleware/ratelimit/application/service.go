package application

import (
	"time"

	"formgate/middleware/ratelimit/domain"
)

const defaultRetryAfter = 1 * time.Second

// Service decide se a chave pode seguir. Não conhece HTTP: a tradução para
// status e headers fica no middleware.
type Service struct {
	Store      domain.LimiterStore
	RetryAfter time.Duration
}

func (s Service) Decide(key domain.Key) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}

	lim := s.Store.Get(key)
	if lim == nil || lim.Allow() {
		return domain.Decision{Allowed: true}
	}

	retry := s.RetryAfter
	if retry <= 0 {
		retry = defaultRetryAfter
	}
	return domain.Decision{Allowed: false, RetryAfter: retry}
}
