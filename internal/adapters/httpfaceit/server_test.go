package httpfaceit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type matchEvent struct {
	matchID string
	status  string
}

func TestWebhookDespachaMatchEvent(t *testing.T) {
	got := make(chan matchEvent, 1)
	srv := New("secreto", func(_ context.Context, matchID, status string) {
		got <- matchEvent{matchID, status}
	}, nil)

	body := `{"event": "match_status_finished", "payload": {"id": "1-abc"}}`
	req := httptest.NewRequest(http.MethodPost, "/faceit/webhook", strings.NewReader(body))
	req.Header.Set("X-FACEIT-WH", "secreto")
	rec := httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	select {
	case evt := <-got:
		assert.Equal(t, "1-abc", evt.matchID)
		assert.Equal(t, "finished", evt.status)
	case <-time.After(2 * time.Second):
		t.Fatal("el evento nunca llegó al callback")
	}
}

func TestWebhookRechazaSecretoIncorrecto(t *testing.T) {
	called := false
	srv := New("secreto", func(_ context.Context, _, _ string) { called = true }, nil)

	req := httptest.NewRequest(http.MethodPost, "/faceit/webhook", strings.NewReader(`{}`))
	req.Header.Set("X-FACEIT-WH", "otro")
	rec := httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestWebhookSoloPOST(t *testing.T) {
	srv := New("secreto", nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/faceit/webhook", nil)
	rec := httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWebhookIgnoraEventosSinMatchID(t *testing.T) {
	called := make(chan struct{}, 1)
	srv := New("secreto", func(_ context.Context, _, _ string) { called <- struct{}{} }, nil)

	body := `{"event": "match_status_ready", "payload": {}}`
	req := httptest.NewRequest(http.MethodPost, "/faceit/webhook", strings.NewReader(body))
	req.Header.Set("X-FACEIT-WH", "secreto")
	rec := httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	select {
	case <-called:
		t.Fatal("no tendría que despachar sin match id")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestResyncDispara(t *testing.T) {
	done := make(chan struct{}, 1)
	srv := New("secreto", nil, func(_ context.Context) error {
		done <- struct{}{}
		return nil
	})

	req := httptest.NewRequest(http.MethodPost, "/faceit/resync", nil)
	req.Header.Set("X-FACEIT-WH", "secreto")
	rec := httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("el resync nunca corrió")
	}
}
