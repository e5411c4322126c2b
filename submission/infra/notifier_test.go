package infra

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"formgate/submission/domain"

	"github.com/nikoksr/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	subject, message string
	err              error
}

func (f *fakeService) Send(_ context.Context, subject, message string) error {
	f.subject, f.message = subject, message
	return f.err
}

func TestServiceNotifier_SendsBannerAndPrettyJSON(t *testing.T) {
	svc := &fakeService{}
	n := NewServiceNotifier("telegram", notify.NewWithServices(svc))

	require.NoError(t, n.Notify(context.Background(), domain.Record{"name": "Ana"}))
	assert.Equal(t, "New submission received:", svc.subject)
	assert.Equal(t, "{\n  \"name\": \"Ana\"\n}", svc.message)
}

func TestServiceNotifier_WrapsErrorWithProvider(t *testing.T) {
	n := NewServiceNotifier("slack", &fakeService{err: errors.New("channel_not_found")})

	err := n.Notify(context.Background(), domain.Record{})
	assert.EqualError(t, err, "slack: channel_not_found")
}

func TestWebhookNotifier_PostsRawRecordWithAuthHeader(t *testing.T) {
	var gotBody map[string]any
	var gotAuth, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("X-Webhook-Token")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, WithAuthHeader("X-Webhook-Token", "s3cret"))
	require.NoError(t, n.Notify(context.Background(), domain.Record{"email": "a@b.com", "age": int64(30)}))

	assert.Equal(t, "s3cret", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, map[string]any{"email": "a@b.com", "age": float64(30)}, gotBody)
}

func TestWebhookNotifier_NonSuccessIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewWebhookNotifier(srv.URL).Notify(context.Background(), domain.Record{})

	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "upstream exploded")
}

func TestWebhookNotifier_RespectsContextDeadline(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(done)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := NewWebhookNotifier(srv.URL).Notify(ctx, domain.Record{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewNotifier(t *testing.T) {
	n, err := NewNotifier(NotifierConfig{Provider: "none"})
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = NewNotifier(NotifierConfig{Provider: "Webhook", WebhookURL: "http://hooks.local/x", HTTPClient: http.DefaultClient})
	require.NoError(t, err)
	assert.IsType(t, &WebhookNotifier{}, n)

	_, err = NewNotifier(NotifierConfig{Provider: "pigeon"})
	assert.ErrorIs(t, err, ErrUnknownProvider)

	for _, p := range []string{ProviderTelegram, ProviderSlack, ProviderDiscord, ProviderWebhook} {
		_, err := NewNotifier(NotifierConfig{Provider: p})
		assert.Error(t, err, "%s without credentials", p)
	}
}

func TestNewNotifier_SlackBuildsServiceNotifier(t *testing.T) {
	n, err := NewNotifier(NotifierConfig{Provider: "slack", SlackToken: "xoxb-test", SlackChannels: []string{"C123"}})
	require.NoError(t, err)
	assert.IsType(t, &ServiceNotifier{}, n)
}

func TestFailingNotifier(t *testing.T) {
	cause := errors.New("telegram: bot token is required")
	assert.ErrorIs(t, FailingNotifier{Err: cause}.Notify(context.Background(), domain.Record{}), cause)
}
