package infra

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"formgate/submission/domain"

	"github.com/nikoksr/notify"
	"github.com/nikoksr/notify/service/discord"
	"github.com/nikoksr/notify/service/slack"
	"github.com/nikoksr/notify/service/telegram"
)

const (
	ProviderNone     = "none"
	ProviderTelegram = "telegram"
	ProviderSlack    = "slack"
	ProviderDiscord  = "discord"
	ProviderWebhook  = "webhook"
)

var ErrUnknownProvider = errors.New("unknown notification provider")

type NotifierConfig struct {
	Provider string

	TelegramToken   string
	TelegramChatIDs []int64

	SlackToken    string
	SlackChannels []string

	DiscordToken    string
	DiscordChannels []string

	WebhookURL        string
	WebhookAuthHeader string
	WebhookAuthValue  string
	HTTPClient        *http.Client
}

// NewNotifier monta o canal configurado. ProviderNone devolve (nil, nil).
func NewNotifier(cfg NotifierConfig) (domain.Notifier, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case ProviderNone, "":
		return nil, nil

	case ProviderTelegram:
		if cfg.TelegramToken == "" {
			return nil, errors.New("telegram: bot token is required")
		}
		tg, err := telegram.New(cfg.TelegramToken)
		if err != nil {
			return nil, fmt.Errorf("telegram: %w", err)
		}
		tg.AddReceivers(cfg.TelegramChatIDs...)
		return NewServiceNotifier(provider, notify.NewWithServices(tg)), nil

	case ProviderSlack:
		if cfg.SlackToken == "" {
			return nil, errors.New("slack: token is required")
		}
		sl := slack.New(cfg.SlackToken)
		sl.AddReceivers(cfg.SlackChannels...)
		return NewServiceNotifier(provider, notify.NewWithServices(sl)), nil

	case ProviderDiscord:
		if cfg.DiscordToken == "" {
			return nil, errors.New("discord: bot token is required")
		}
		dc := discord.New()
		if err := dc.AuthenticateWithBotToken(cfg.DiscordToken); err != nil {
			return nil, fmt.Errorf("discord: %w", err)
		}
		dc.AddReceivers(cfg.DiscordChannels...)
		return NewServiceNotifier(provider, notify.NewWithServices(dc)), nil

	case ProviderWebhook:
		if cfg.WebhookURL == "" {
			return nil, errors.New("webhook: url is required")
		}
		opts := []WebhookOption{WithAuthHeader(cfg.WebhookAuthHeader, cfg.WebhookAuthValue)}
		if cfg.HTTPClient != nil {
			opts = append(opts, WithHTTPClient(cfg.HTTPClient))
		}
		return NewWebhookNotifier(cfg.WebhookURL, opts...), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// FailingNotifier falha sempre com Err. Substitui um canal que não pôde ser
// montado, para que cada submissão registre a falha no log.
type FailingNotifier struct {
	Err error
}

func (n FailingNotifier) Notify(context.Context, domain.Record) error { return n.Err }
