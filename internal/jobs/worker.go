package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/linkstashapp/linkstash-server/internal/domain"
	"github.com/linkstashapp/linkstash-server/internal/enrich"
)

// pollInterval is the fallback cadence for checking pending work in case
// a notify signal was missed.
const pollInterval = 5 * time.Second

// Bookmarks is the slice of the bookmark service the workers need.
type Bookmarks interface {
	ApplyEnrichment(ctx context.Context, bookmarkID, title, thumbnail string) error
}

// Fetcher retrieves page metadata for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*enrich.Metadata, error)
}

// Pool runs enrichment workers against the queue.
type Pool struct {
	queue     *Queue
	fetcher   Fetcher
	bookmarks Bookmarks
	logger    *slog.Logger
	workers   int

	ctx    context.Context //nolint:containedctx // Context needed for worker lifecycle management
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool creates a worker pool of the given size.
func NewPool(queue *Queue, fetcher Fetcher, bookmarks Bookmarks, workers int, logger *slog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		queue:     queue,
		fetcher:   fetcher,
		bookmarks: bookmarks,
		logger:    logger,
		workers:   workers,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start recovers jobs stranded by a previous shutdown and launches the
// workers.
func (p *Pool) Start() {
	recovered, err := p.queue.Recover()
	if err != nil {
		p.logger.Error("failed to recover stranded jobs", "error", err)
	} else if recovered > 0 {
		p.logger.Info("recovered stranded enrichment jobs", "count", recovered)
	}

	p.logger.Info("starting enrichment workers", "workers", p.workers)
	for i := range p.workers {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop shuts the pool down and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("enrichment workers stopped")
}

func (p *Pool) worker(workerID int) {
	defer p.wg.Done()

	p.logger.Debug("enrichment worker started", "worker_id", workerID)

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("enrichment worker stopping", "worker_id", workerID)
			return
		case <-p.queue.Notify():
			p.drain(workerID)
		case <-time.After(pollInterval):
			p.drain(workerID)
		}
	}
}

// drain processes pending jobs until the queue is empty or the pool stops.
func (p *Pool) drain(workerID int) {
	for p.ctx.Err() == nil {
		job, err := p.queue.Claim()
		if errors.Is(err, ErrNoJobs) {
			return
		}
		if err != nil {
			p.logger.Error("failed to claim enrichment job", "error", err)
			return
		}
		p.process(workerID, job)
	}
}

func (p *Pool) process(workerID int, job *domain.EnrichJob) {
	meta, err := p.fetcher.Fetch(p.ctx, job.URL)
	if err == nil {
		err = p.bookmarks.ApplyEnrichment(p.ctx, job.BookmarkID, meta.Title, meta.Thumbnail)
	}

	if err != nil {
		retry, failErr := p.queue.Fail(job, err)
		if failErr != nil {
			p.logger.Error("failed to record job failure", "job_id", job.ID, "error", failErr)
			return
		}
		p.logger.Warn("enrichment attempt failed",
			"worker_id", workerID,
			"job_id", job.ID,
			"bookmark_id", job.BookmarkID,
			"attempt", job.Attempts,
			"retrying", retry,
			"error", err,
		)
		return
	}

	if err := p.queue.Complete(job); err != nil {
		p.logger.Error("failed to complete job", "job_id", job.ID, "error", err)
		return
	}

	p.logger.Info("bookmark enriched",
		"worker_id", workerID,
		"job_id", job.ID,
		"bookmark_id", job.BookmarkID,
	)
}
