package middleware

import (
	"bytes"
	"net/http"
	"sync"
	"time"
)

// IdempotencyHeader is the header whose value keys replayed responses.
// Presentation-layer retries of POST /reservations carry the same key and
// receive the first successful response instead of booking twice.
const IdempotencyHeader = "Idempotency-Key"

// replaySweepDivisor sets the janitor interval to a fraction of the TTL,
// capped at one hour.
const replaySweepDivisor = 4

type ReplayStore interface {
	Get(key string) (*BookedResponse, bool)
	Set(key string, response *BookedResponse)
	Stop()
}

// BookedResponse is a successful response held for replay. Only 2xx
// outcomes are stored; a failed booking may legitimately be retried.
type BookedResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	storedAt   time.Time
}

type MemoryReplayStore struct {
	mu      sync.RWMutex
	entries map[string]*BookedResponse
	ttl     time.Duration
	stopCh  chan struct{}
}

func NewMemoryReplayStore(ttl time.Duration) *MemoryReplayStore {
	s := &MemoryReplayStore{
		entries: make(map[string]*BookedResponse),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go s.sweep()

	return s
}

func (s *MemoryReplayStore) Get(key string) (*BookedResponse, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Since(entry.storedAt) > s.ttl {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	return entry, true
}

func (s *MemoryReplayStore) Set(key string, response *BookedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	response.storedAt = time.Now()
	s.entries[key] = response
}

func (s *MemoryReplayStore) sweep() {
	interval := s.ttl / replaySweepDivisor
	if interval < time.Second {
		interval = time.Second
	}
	if interval > time.Hour {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for key, entry := range s.entries {
				if time.Since(entry.storedAt) > s.ttl {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemoryReplayStore) Stop() {
	close(s.stopCh)
}

// replyRecorder tees the response so a success can be stored for replay.
type replyRecorder struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rr *replyRecorder) WriteHeader(statusCode int) {
	rr.statusCode = statusCode
	rr.ResponseWriter.WriteHeader(statusCode)
}

func (rr *replyRecorder) Write(b []byte) (int, error) {
	rr.body.Write(b)
	return rr.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated IdempotencyHeader
// key. Requests without the header pass through untouched.
func Idempotency(store ReplayStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if cached, ok := store.Get(key); ok {
				for name, values := range cached.Headers {
					for _, value := range values {
						w.Header().Add(name, value)
					}
				}
				w.WriteHeader(cached.StatusCode)
				_, _ = w.Write(cached.Body)
				return
			}

			recorder := &replyRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(recorder, r)

			if recorder.statusCode >= 200 && recorder.statusCode < 300 {
				store.Set(key, &BookedResponse{
					StatusCode: recorder.statusCode,
					Headers:    w.Header().Clone(),
					Body:       recorder.body.Bytes(),
				})
			}
		})
	}
}
