package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"
)

// IdempotencyStore caches responses to mutating requests keyed by the
// Idempotency-Key header. Board clients retry moves and invites on flaky
// connections; replaying the cached response keeps a retried POST from
// moving a task twice or inviting a member twice.
type IdempotencyStore struct {
	mu       sync.RWMutex
	entries  map[string]*replayEntry
	ttl      time.Duration
	stopChan chan struct{}
}

// replayEntry is a captured response. While inFlight is set the original
// request is still being processed and done is open.
type replayEntry struct {
	status    int
	headers   http.Header
	body      []byte
	expiresAt time.Time
	inFlight  bool
	done      chan struct{}
}

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	TTL     time.Duration // how long replays stay available (default 24h)
	Cleanup time.Duration // eviction sweep interval (default 1h)
}

// NewIdempotencyStore creates a store and starts its eviction loop.
// Call Stop on shutdown.
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = time.Hour
	}

	store := &IdempotencyStore{
		entries:  make(map[string]*replayEntry),
		ttl:      cfg.TTL,
		stopChan: make(chan struct{}),
	}

	go store.evictLoop(cfg.Cleanup)

	return store
}

// Stop stops the eviction goroutine
func (s *IdempotencyStore) Stop() {
	close(s.stopChan)
}

func (s *IdempotencyStore) evictLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.stopChan:
			return
		}
	}
}

func (s *IdempotencyStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, entry := range s.entries {
		if entry.expiresAt.Before(now) && !entry.inFlight {
			delete(s.entries, key)
		}
	}
}

// requestFingerprint keys the cache on caller identity plus the full
// request shape, so the same Idempotency-Key sent to a different route or
// with a different body is treated as a new request.
func requestFingerprint(userID, idempotencyKey, method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(userID))
	h.Write([]byte(idempotencyKey))
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// replayWriter tees the response into a buffer so it can be replayed
type replayWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *replayWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *replayWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// writeReplay sends a previously captured response, flagged so clients
// can tell a replay from fresh processing.
func writeReplay(w http.ResponseWriter, entry *replayEntry) {
	for k, v := range entry.headers {
		for _, val := range v {
			w.Header().Add(k, val)
		}
	}
	w.Header().Set("X-Idempotency-Replayed", "true")
	w.WriteHeader(entry.status)
	_, _ = w.Write(entry.body)
}

// Idempotency returns middleware that replays cached responses for
// repeated POST/PATCH requests carrying the same Idempotency-Key.
// Requests without the header pass through untouched.
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := r.Header.Get("Idempotency-Key")
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Auth runs earlier in the chain, so mutating routes always
			// have a user id; the public auth endpoints fall back to the
			// caller's address.
			userID := GetUserID(r.Context())
			if userID == "" {
				userID = r.RemoteAddr
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := requestFingerprint(userID, idempotencyKey, r.Method, r.URL.Path, body)

			store.mu.Lock()
			entry, exists := store.entries[key]

			if exists {
				if entry.inFlight {
					// Concurrent duplicate: wait for the original to
					// finish, then replay its response.
					store.mu.Unlock()
					<-entry.done

					store.mu.RLock()
					entry = store.entries[key]
					store.mu.RUnlock()

					if entry != nil && !entry.inFlight {
						writeReplay(w, entry)
						return
					}
				} else if entry.expiresAt.After(time.Now()) {
					store.mu.Unlock()
					writeReplay(w, entry)
					return
				}
			}

			// First sighting (or expired): mark in-flight so concurrent
			// duplicates block instead of double-processing.
			entry = &replayEntry{
				inFlight: true,
				done:     make(chan struct{}),
			}
			store.entries[key] = entry
			store.mu.Unlock()

			rw := &replayWriter{
				ResponseWriter: w,
				status:         http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			store.mu.Lock()
			entry.status = rw.status
			entry.headers = rw.Header().Clone()
			entry.body = rw.body.Bytes()
			entry.expiresAt = time.Now().Add(store.ttl)
			entry.inFlight = false
			close(entry.done)
			store.mu.Unlock()
		})
	}
}
