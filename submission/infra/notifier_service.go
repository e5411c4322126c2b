package infra

import (
	"context"
	"fmt"

	"formgate/submission/domain"
)

// sender é o subconjunto de *notify.Notify usado aqui.
type sender interface {
	Send(ctx context.Context, subject, message string) error
}

// ServiceNotifier envia o resumo da submissão por um serviço do nikoksr/notify.
type ServiceNotifier struct {
	name   string
	sender sender
}

func NewServiceNotifier(name string, s sender) *ServiceNotifier {
	return &ServiceNotifier{name: name, sender: s}
}

func (n *ServiceNotifier) Notify(ctx context.Context, rec domain.Record) error {
	if err := n.sender.Send(ctx, domain.SummaryBanner, rec.PrettyJSON()); err != nil {
		return fmt.Errorf("%s: %w", n.name, err)
	}
	return nil
}
