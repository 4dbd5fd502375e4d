package jobs

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkstashapp/linkstash-server/internal/domain"
	"github.com/linkstashapp/linkstash-server/internal/enrich"
)

type stubFetcher struct {
	meta *enrich.Metadata
	err  error
}

func (f *stubFetcher) Fetch(_ context.Context, _ string) (*enrich.Metadata, error) {
	return f.meta, f.err
}

type recordingBookmarks struct {
	mu      sync.Mutex
	applied map[string]*enrich.Metadata
	done    chan string
}

func newRecordingBookmarks() *recordingBookmarks {
	return &recordingBookmarks{
		applied: make(map[string]*enrich.Metadata),
		done:    make(chan string, 16),
	}
}

func (r *recordingBookmarks) ApplyEnrichment(_ context.Context, bookmarkID, title, thumbnail string) error {
	r.mu.Lock()
	r.applied[bookmarkID] = &enrich.Metadata{Title: title, Thumbnail: thumbnail}
	r.mu.Unlock()
	r.done <- bookmarkID
	return nil
}

func (r *recordingBookmarks) get(bookmarkID string) *enrich.Metadata {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applied[bookmarkID]
}

func newPoolTestQueue(t *testing.T) *Queue {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	q, err := Open(filepath.Join(t.TempDir(), "queue"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })
	return q
}

func TestPool_ProcessesJob(t *testing.T) {
	q := newPoolTestQueue(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	fetcher := &stubFetcher{meta: &enrich.Metadata{
		Title:     "Fetched Title",
		Thumbnail: "https://example.com/t.png",
	}}
	bookmarks := newRecordingBookmarks()

	pool := NewPool(q, fetcher, bookmarks, 2, logger)
	pool.Start()
	defer pool.Stop()

	require.NoError(t, q.Enqueue("bm-1", "https://example.com/a"))

	select {
	case id := <-bookmarks.done:
		assert.Equal(t, "bm-1", id)
	case <-time.After(5 * time.Second):
		t.Fatal("enrichment was never applied")
	}

	got := bookmarks.get("bm-1")
	require.NotNil(t, got)
	assert.Equal(t, "Fetched Title", got.Title)
	assert.Equal(t, "https://example.com/t.png", got.Thumbnail)

	// The queue drains completely once processed.
	require.Eventually(t, func() bool {
		pending, err := q.CountByStatus(domain.EnrichStatusPending)
		if err != nil {
			return false
		}
		running, err := q.CountByStatus(domain.EnrichStatusRunning)
		return err == nil && pending == 0 && running == 0
	}, 5*time.Second, 50*time.Millisecond)
}

func TestPool_FailedFetchExhaustsRetries(t *testing.T) {
	q := newPoolTestQueue(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	fetcher := &stubFetcher{err: errors.New("connection refused")}
	bookmarks := newRecordingBookmarks()

	pool := NewPool(q, fetcher, bookmarks, 1, logger)
	pool.Start()
	defer pool.Stop()

	require.NoError(t, q.Enqueue("bm-1", "https://unreachable.example"))

	// Retries wait for poll ticks, so exhausting the attempt limit
	// takes a couple of intervals.
	require.Eventually(t, func() bool {
		failed, err := q.CountByStatus(domain.EnrichStatusFailed)
		return err == nil && failed == 1
	}, 3*pollInterval+5*time.Second, 50*time.Millisecond)

	assert.Nil(t, bookmarks.get("bm-1"))
}
