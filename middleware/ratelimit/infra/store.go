package infra

import (
	"context"
	"sync"
	"time"

	"formgate/middleware/ratelimit/domain"

	"golang.org/x/time/rate"
)

const defaultIdleTTL = 15 * time.Minute

// Store é um token bucket (x/time/rate) por chave de cliente, com cache e
// limpeza periódica de chaves inativas.
type Store struct {
	mu           sync.Mutex
	entries      map[string]*storeEntry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type storeEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type StoreOption func(*Store)

func WithIdleTTL(d time.Duration) StoreOption {
	return func(s *Store) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) StoreOption {
	return func(s *Store) { s.cleanupEvery = d }
}

func NewStore(rps float64, burst int, opts ...StoreOption) *Store {
	s := &Store{
		entries:      make(map[string]*storeEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      defaultIdleTTL,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStoreForRate cria um Store a partir de uma cota. O TTL de inatividade
// nunca é menor que a janela da cota: remover a chave antes disso devolveria
// a cota cheia ao cliente.
func NewStoreForRate(r domain.Rate, opts ...StoreOption) *Store {
	ttl := defaultIdleTTL
	if r.Period > ttl {
		ttl = r.Period
	}
	all := append([]StoreOption{WithIdleTTL(ttl)}, opts...)
	return NewStore(r.RPS(), r.Burst(), all...)
}

func (s *Store) RPS() float64                { return float64(s.rps) }
func (s *Store) Burst() int                  { return s.burst }
func (s *Store) IdleTTL() time.Duration      { return s.idleTTL }
func (s *Store) CleanupEvery() time.Duration { return s.cleanupEvery }

// Get implementa domain.LimiterStore.
func (s *Store) Get(key domain.Key) domain.Limiter {
	return s.GetString(string(key))
}

func (s *Store) GetString(key string) *rate.Limiter {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &storeEntry{lim: lim, lastSeen: now}
	return lim
}

// Len devolve o número de chaves em cache.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) Cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa chaves inativas periodicamente.
// Para quando o contexto é cancelado.
func (s *Store) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
