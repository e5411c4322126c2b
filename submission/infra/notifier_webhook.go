package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"formgate/submission/domain"
)

const defaultWebhookTimeout = 10 * time.Second

// HTTPStatusError é uma resposta não-2xx do webhook.
type HTTPStatusError struct {
	StatusCode int
	Body       string // primeiros 512 bytes
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("webhook: HTTP %d: %s", e.StatusCode, e.Body)
}

type WebhookOption func(*WebhookNotifier)

// WithAuthHeader define o único header de autenticação. Nome vazio não envia nada.
func WithAuthHeader(name, value string) WebhookOption {
	return func(w *WebhookNotifier) {
		w.authHeader = name
		w.authValue = value
	}
}

func WithHTTPClient(c *http.Client) WebhookOption {
	return func(w *WebhookNotifier) { w.client = c }
}

// WebhookNotifier faz um POST do registro cru em JSON. Uma tentativa só.
type WebhookNotifier struct {
	client     *http.Client
	url        string
	authHeader string
	authValue  string
}

func NewWebhookNotifier(url string, opts ...WebhookOption) *WebhookNotifier {
	w := &WebhookNotifier{
		client: &http.Client{Timeout: defaultWebhookTimeout},
		url:    url,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *WebhookNotifier) Notify(ctx context.Context, rec domain.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("webhook: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.authHeader != "" {
		req.Header.Set(w.authHeader, w.authValue)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
}
