package application

import (
	"context"
	"log/slog"
	"time"

	"formgate/submission/domain"
)

// Service executa o fluxo de uma submissão já validada.
type Service struct {
	storage    domain.Storage
	dispatcher Dispatcher
	now        func() time.Time
	log        *slog.Logger
}

type Option func(*Service)

// WithClock troca a fonte do timestamp (testes).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(storage domain.Storage, dispatcher Dispatcher, opts ...Option) *Service {
	s := &Service{
		storage:    storage,
		dispatcher: dispatcher,
		now:        time.Now,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dispatcher.Logger == nil {
		s.dispatcher.Logger = s.log
	}
	return s
}

// Submit notifica, carimba o timestamp e grava o registro. O registro
// devolvido é o que foi gravado, sem o identificador interno.
//
// Só a falha de gravação é devolvida, como *domain.StorageError.
func (s *Service) Submit(ctx context.Context, rec domain.Record) (domain.Record, error) {
	if rec == nil {
		rec = domain.Record{}
	}

	s.dispatcher.Dispatch(ctx, rec)

	rec[domain.TimestampField] = s.now().Format(domain.TimestampLayout)
	id, err := s.storage.Insert(ctx, rec)
	if err != nil {
		s.log.Error("storing submission failed", "error", err)
		return nil, &domain.StorageError{Err: err}
	}
	delete(rec, domain.InternalIDField)

	s.log.Info("submission stored", "id", id, "fields", len(rec))
	return rec, nil
}
