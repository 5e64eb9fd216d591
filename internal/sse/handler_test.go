package sse_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/openshelf/openshelf-server/internal/broker"
	"github.com/openshelf/openshelf-server/internal/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncRecorder serializes access to a response recorder so the test can
// poll the body while the handler goroutine is still writing.
type syncRecorder struct {
	mu  sync.Mutex
	rec *httptest.ResponseRecorder
}

func newSyncRecorder() *syncRecorder {
	return &syncRecorder{rec: httptest.NewRecorder()}
}

func (r *syncRecorder) Header() http.Header {
	return r.rec.Header()
}

func (r *syncRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.Write(p)
}

func (r *syncRecorder) WriteHeader(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec.WriteHeader(code)
}

func (r *syncRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec.Flush()
}

func (r *syncRecorder) BodyString() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.Body.String()
}

func TestHandler_StreamsEvents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := broker.New(logger)
	h := sse.NewHandler(b, logger)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/api/v1/subscriptions/books", nil).WithContext(ctx)
	rec := newSyncRecorder()

	done := make(chan struct{})
	go func() {
		h.ServeTopic(rec, req, broker.TopicBookAdded)
		close(done)
	}()

	// Wait for the subscription to register before publishing.
	require.Eventually(t, func() bool {
		return b.SubscriberCount(broker.TopicBookAdded) == 1
	}, time.Second, 5*time.Millisecond)

	b.Publish(broker.TopicBookAdded, map[string]string{"title": "Clean Code"})

	require.Eventually(t, func() bool {
		return strings.Contains(rec.BodyString(), "event: book.added")
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not return after client disconnect")
	}

	body := rec.BodyString()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: connected")
	assert.Contains(t, body, `"subscription_id"`)
	assert.Contains(t, body, `"title":"Clean Code"`)

	// The subscription must be released after disconnect.
	assert.Equal(t, 0, b.SubscriberCount(broker.TopicBookAdded))
}

func TestHandler_BrokerShutdownEndsStream(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := broker.New(logger)
	h := sse.NewHandler(b, logger)

	req := httptest.NewRequest("GET", "/api/v1/subscriptions/authors", nil)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.ServeTopic(rec, req, broker.TopicAuthorAdded)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return b.SubscriberCount(broker.TopicAuthorAdded) == 1
	}, time.Second, 5*time.Millisecond)

	b.Shutdown()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not return after broker shutdown")
	}
}
