package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeIdempotencyStore struct {
	checkAndSetFn func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	updateFn      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	released      []string
}

func (f *fakeIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if f.checkAndSetFn != nil {
		return f.checkAndSetFn(ctx, key, response, ttl)
	}
	return false, nil, nil
}

func (f *fakeIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, key, response, ttl)
	}
	return nil
}

func (f *fakeIdempotencyStore) Release(ctx context.Context, key string) error {
	f.released = append(f.released, key)
	return nil
}

func newIdempotency(store *fakeIdempotencyStore) *IdempotencyMiddleware {
	return NewIdempotencyMiddleware(store, time.Hour, zerolog.Nop())
}

func paymentRequest(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans/loan-1/payments", bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, key)
	return req
}

func TestIdempotencyMiddleware_FailsOnStoreErrors(t *testing.T) {
	var called bool
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return false, nil, context.DeadlineExceeded
		},
	}

	rr := httptest.NewRecorder()
	newIdempotency(store).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, paymentRequest("key-err"))

	if called {
		t.Fatalf("handler should not be called when store errors")
	}
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_ReleasesFailedResponses(t *testing.T) {
	var updated bool
	store := &fakeIdempotencyStore{
		updateFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			updated = true
			return nil
		},
	}

	rr := httptest.NewRecorder()
	newIdempotency(store).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})).ServeHTTP(rr, paymentRequest("key-fail"))

	if updated {
		t.Fatalf("expected error responses not to be cached")
	}
	if len(store.released) != 1 || !strings.HasSuffix(store.released[0], "key-fail") {
		t.Fatalf("expected key to be released, got %v", store.released)
	}
}

func TestIdempotencyMiddleware_SkipsNonMutatingRequests(t *testing.T) {
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			t.Fatal("store should not be consulted for GET")
			return false, nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/loans", nil)
	req.Header.Set(IdempotencyKeyHeader, "key-get")
	rr := httptest.NewRecorder()
	called := false

	newIdempotency(store).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, req)

	if !called {
		t.Fatalf("expected next handler to be called")
	}
}

func TestIdempotencyMiddleware_ReturnsCachedResponse(t *testing.T) {
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return true, []byte(`{"cached":true}`), nil
		},
	}

	rr := httptest.NewRecorder()
	newIdempotency(store).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not be called when cached response exists")
	})).ServeHTTP(rr, paymentRequest("key-123"))

	if rr.Header().Get("X-Idempotency-Replay") != "true" {
		t.Fatalf("expected X-Idempotency-Replay header to be set")
	}
	if got := rr.Body.String(); got != `{"cached":true}` {
		t.Fatalf("unexpected cached body: %s", got)
	}
}

func TestIdempotencyMiddleware_RejectsInFlightDuplicate(t *testing.T) {
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return true, []byte("processing"), nil
		},
	}

	rr := httptest.NewRecorder()
	newIdempotency(store).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run while the first request is in flight")
	})).ServeHTTP(rr, paymentRequest("key-busy"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
	if len(store.released) != 0 {
		t.Fatalf("in-flight key must not be released by the duplicate")
	}
}

func TestIdempotencyMiddleware_StoresSuccessfulResponse(t *testing.T) {
	var updatedBody []byte
	var storedKey string
	var storedTTL time.Duration
	store := &fakeIdempotencyStore{
		updateFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			updatedBody = append([]byte(nil), response...)
			storedKey = key
			storedTTL = ttl
			return nil
		},
	}

	rr := httptest.NewRecorder()
	newIdempotency(store).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})).ServeHTTP(rr, paymentRequest("key-456"))

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", rr.Code)
	}
	if string(updatedBody) != `{"ok":true}` {
		t.Fatalf("expected cached body to be stored, got %s", string(updatedBody))
	}
	if storedKey != "POST /api/v1/loans/loan-1/payments key-456" {
		t.Fatalf("expected route-scoped key, got %q", storedKey)
	}
	if storedTTL != time.Hour {
		t.Fatalf("expected configured ttl, got %s", storedTTL)
	}
}
