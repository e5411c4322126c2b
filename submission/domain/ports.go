package domain

import "context"

// Storage grava um registro por chamada, sem dedup nem transação.
type Storage interface {
	// Insert devolve o identificador atribuído pelo backend.
	Insert(ctx context.Context, rec Record) (string, error)
	Close(ctx context.Context) error
}

// Notifier entrega um aviso sobre a submissão a um canal externo.
type Notifier interface {
	Notify(ctx context.Context, rec Record) error
}
