package application

import (
	"context"
	"log/slog"
	"time"

	"formgate/submission/domain"
)

const DefaultNotifyTimeout = 10 * time.Second

// Dispatcher entrega notificações sem nunca propagar falha ao chamador.
type Dispatcher struct {
	Notifier domain.Notifier
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Dispatch envia uma cópia do registro e espera no máximo Timeout. O contexto
// é desligado do cancelamento do cliente: a notificação não depende de quem
// fez a requisição continuar conectado.
func (d Dispatcher) Dispatch(ctx context.Context, rec domain.Record) {
	if d.Notifier == nil {
		return
	}
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	// Notify roda em goroutine própria: um canal que ignora o contexto não
	// segura a requisição além do prazo.
	done := make(chan error, 1)
	start := time.Now()
	go func() {
		defer func() {
			if p := recover(); p != nil {
				log.Error("notification panicked", "panic", p)
				done <- nil
			}
		}()
		done <- d.Notifier.Notify(nctx, rec.Clone())
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Warn("notification failed", "error", err, "elapsed", time.Since(start).Round(time.Millisecond))
			return
		}
		log.Debug("notification sent", "elapsed", time.Since(start).Round(time.Millisecond))
	case <-nctx.Done():
		log.Warn("notification timed out", "timeout", timeout)
	}
}
