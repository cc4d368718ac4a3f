package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIdempotency_ReplaysFirstSuccess(t *testing.T) {
	store := NewMemoryReplayStore(time.Minute)
	defer store.Stop()

	calls := 0
	handler := Idempotency(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", nil)
		req.Header.Set(IdempotencyHeader, "retry-key-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d", i, rec.Code)
		}
		if rec.Body.String() != `{"id":"abc"}` {
			t.Fatalf("request %d: unexpected body %q", i, rec.Body.String())
		}
	}
	if calls != 1 {
		t.Errorf("expected the handler to run once, ran %d times", calls)
	}
}

func TestIdempotency_FailuresAreNotReplayed(t *testing.T) {
	store := NewMemoryReplayStore(time.Minute)
	defer store.Stop()

	calls := 0
	handler := Idempotency(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusConflict)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", nil)
		req.Header.Set(IdempotencyHeader, "retry-key-2")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}
	if calls != 2 {
		t.Errorf("a failed booking must be retryable, handler ran %d times", calls)
	}
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	store := NewMemoryReplayStore(time.Minute)
	defer store.Stop()

	calls := 0
	handler := Idempotency(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}
	if calls != 2 {
		t.Errorf("requests without a key must not be deduplicated, handler ran %d times", calls)
	}
}
