package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import "time"

// Key identifica o cliente limitado (IP, valor de header, etc).
type Key string

// Limiter decide se uma ação é permitida agora. A implementação padrão é o
// token bucket de golang.org/x/time/rate.
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém um limiter por chave e cuida do cache/expiração.
type LimiterStore interface {
	Get(Key) Limiter
}

type Decision struct {
	Allowed bool
	// RetryAfter vai no header Retry-After quando a requisição é bloqueada.
	RetryAfter time.Duration
}
