package application

import (
	"context"
	"time"

	"formgate/middleware/ratelimit/domain"
)

// ConcurrencyService aplica a regra de espera por vaga no SlotPool.
type ConcurrencyService struct {
	Pool           domain.SlotPool
	AcquireTimeout time.Duration
}

// Acquire tenta obter uma vaga.
//   - AcquireTimeout <= 0: espera até o ctx encerrar
//   - AcquireTimeout > 0: espera no máximo o timeout
//
// Com ok=false nenhuma vaga foi obtida e release é nil.
func (s ConcurrencyService) Acquire(ctx context.Context) (release func(), ok bool) {
	if s.Pool == nil {
		return func() {}, true
	}
	if s.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.AcquireTimeout)
		defer cancel()
	}
	return s.Pool.Acquire(ctx)
}
