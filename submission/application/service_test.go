package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"formgate/submission/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type memStorage struct {
	mu   sync.Mutex
	rows []domain.Record
	err  error
	// setID imita drivers que gravam o _id no próprio documento
	setID bool
}

func (m *memStorage) Insert(_ context.Context, rec domain.Record) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row := rec.Clone()
	m.rows = append(m.rows, row)
	if m.setID {
		rec[domain.InternalIDField] = "65f0c0ffee"
	}
	return "1", nil
}

func (m *memStorage) Close(context.Context) error { return nil }

type recordingNotifier struct {
	mu   sync.Mutex
	got  []domain.Record
	err  error
	wait time.Duration
}

func (n *recordingNotifier) Notify(ctx context.Context, rec domain.Record) error {
	if n.wait > 0 {
		select {
		case <-time.After(n.wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	n.mu.Lock()
	n.got = append(n.got, rec)
	n.mu.Unlock()
	return n.err
}

var fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 123456000, time.Local)

func newService(st domain.Storage, n domain.Notifier) *Service {
	return NewService(st, Dispatcher{Notifier: n, Timeout: time.Second},
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(discard),
	)
}

func TestService_Submit_StoresWithTimestamp(t *testing.T) {
	st := &memStorage{setID: true}
	n := &recordingNotifier{}

	out, err := newService(st, n).Submit(context.Background(), domain.Record{"email": "a@b.com"})
	require.NoError(t, err)

	assert.Equal(t, domain.Record{"email": "a@b.com", "timestamp": "2026-10-15T09:30:00.123456"}, out)
	require.Len(t, st.rows, 1)
	assert.Equal(t, out, st.rows[0])
	assert.NotContains(t, out, domain.InternalIDField)
}

func TestService_Submit_NotifiesBeforeTimestamp(t *testing.T) {
	n := &recordingNotifier{}
	_, err := newService(&memStorage{}, n).Submit(context.Background(), domain.Record{"a": "b"})
	require.NoError(t, err)

	require.Len(t, n.got, 1)
	assert.Equal(t, domain.Record{"a": "b"}, n.got[0])
}

func TestService_Submit_OverwritesClientTimestampAndStripsClientID(t *testing.T) {
	out, err := newService(&memStorage{}, nil).Submit(context.Background(), domain.Record{
		"timestamp": "yesterday",
		"_id":       "client-chosen",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Record{"timestamp": "2026-10-15T09:30:00.123456"}, out)
}

func TestService_Submit_NotificationFailureIsIsolated(t *testing.T) {
	st := &memStorage{}
	n := &recordingNotifier{err: errors.New("telegram: 401 unauthorized")}

	out, err := newService(st, n).Submit(context.Background(), domain.Record{"a": "b"})
	require.NoError(t, err)
	assert.Equal(t, "b", out["a"])
	assert.Len(t, st.rows, 1)
}

func TestService_Submit_StorageFailure(t *testing.T) {
	st := &memStorage{err: errors.New("disk full")}

	_, err := newService(st, nil).Submit(context.Background(), domain.Record{"a": "b"})
	require.Error(t, err)

	var se *domain.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "disk full", err.Error())
}

func TestService_Submit_NilRecord(t *testing.T) {
	out, err := newService(&memStorage{}, nil).Submit(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Record{"timestamp": "2026-10-15T09:30:00.123456"}, out)
}

func TestService_Submit_TwoInsertsTwoRows(t *testing.T) {
	st := &memStorage{}
	svc := newService(st, nil)
	for i := 0; i < 2; i++ {
		_, err := svc.Submit(context.Background(), domain.Record{"a": "b"})
		require.NoError(t, err)
	}
	assert.Len(t, st.rows, 2)
}
