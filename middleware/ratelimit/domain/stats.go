package domain

import (
	"context"
	"strings"
	"time"
)

// StatsEvent é uma decisão do limiter, registrada para observabilidade.
//
// Cuidado com cardinalidade: gravar Key sem controle pode gerar uma chave
// por cliente na base de estatísticas.
type StatsEvent struct {
	Key     Key
	Allowed bool

	Method string
	Path   string

	At time.Time
}

// Outcome devolve o nome do contador afetado pelo evento.
func (ev StatsEvent) Outcome() string {
	if ev.Allowed {
		return "allowed"
	}
	return "denied"
}

// Route devolve "METHOD /path", ou "" quando ambos estão vazios.
func (ev StatsEvent) Route() string {
	m, p := strings.TrimSpace(ev.Method), strings.TrimSpace(ev.Path)
	return strings.TrimSpace(m + " " + p)
}

// StatsStore persiste estatísticas de decisões. O middleware trata erros
// como best-effort: são logados e a requisição segue.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
