package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goloan/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
)

// IdempotencyMiddleware replays the stored response of a mutating request
// that carries an already used Idempotency-Key.
type IdempotencyMiddleware struct {
	store  usecase.IdempotencyStore
	ttl    time.Duration
	logger zerolog.Logger
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A zero ttl
// keeps keys for a day.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, logger zerolog.Logger) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl, logger: logger}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		// Keys are scoped to the route so one key cannot replay another
		// endpoint's response.
		key = r.Method + " " + r.URL.Path + " " + key

		exists, cachedResponse, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}

		if exists && cachedResponse != nil {
			if string(cachedResponse) == usecase.IdempotencyProcessing {
				http.Error(w, "request with this idempotency key is in progress", http.StatusConflict)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replay", "true")
			w.Write(cachedResponse)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(recorder, r)

		// Failed requests release the key so the client can retry them.
		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			if err := m.store.Update(r.Context(), key, recorder.body.Bytes(), m.ttl); err != nil {
				m.logger.Error().Err(err).Str("key", key).Msg("failed to store idempotent response")
			}
			return
		}
		if err := m.store.Release(r.Context(), key); err != nil {
			m.logger.Error().Err(err).Str("key", key).Msg("failed to release idempotency key")
		}
	})
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
