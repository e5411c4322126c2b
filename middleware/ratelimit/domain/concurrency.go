package domain

import "context"

// SlotPool é um recurso de capacidade finita (requisições em voo).
//
// Acquire bloqueia até obter uma vaga ou até o ctx encerrar. Com ok=true, a
// função release deve ser chamada exatamente uma vez.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}
