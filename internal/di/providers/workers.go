package providers

import (
	"github.com/samber/do/v2"

	"github.com/linkstashapp/linkstash-server/internal/config"
	"github.com/linkstashapp/linkstash-server/internal/enrich"
	"github.com/linkstashapp/linkstash-server/internal/jobs"
	"github.com/linkstashapp/linkstash-server/internal/logger"
	"github.com/linkstashapp/linkstash-server/internal/service"
)

// QueueHandle wraps the enrichment queue with shutdown capability.
type QueueHandle struct {
	*jobs.Queue
}

// Shutdown implements do.Shutdownable.
func (h *QueueHandle) Shutdown() error {
	return h.Close()
}

// ProvideQueue provides the durable enrichment job queue.
func ProvideQueue(i do.Injector) (*QueueHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	queue, err := jobs.Open(cfg.Data.QueuePath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Enrichment queue opened", "path", cfg.Data.QueuePath)

	return &QueueHandle{Queue: queue}, nil
}

// ProvideFetcher provides the page metadata fetcher.
func ProvideFetcher(i do.Injector) (*enrich.Fetcher, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return enrich.NewFetcher(cfg.Enrich.FetchTimeout, cfg.Enrich.UserAgent), nil
}

// EnrichPoolHandle wraps the enrichment worker pool with shutdown capability.
// The pool is nil when enrichment is disabled.
type EnrichPoolHandle struct {
	*jobs.Pool
	started bool
}

// Shutdown implements do.Shutdownable.
func (h *EnrichPoolHandle) Shutdown() error {
	if h.started {
		h.Stop()
	}
	return nil
}

// ProvideEnrichPool provides the background enrichment worker pool.
func ProvideEnrichPool(i do.Injector) (*EnrichPoolHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Enrich.Enabled {
		log.Info("Bookmark enrichment disabled by configuration")
		return &EnrichPoolHandle{}, nil
	}

	queueHandle := do.MustInvoke[*QueueHandle](i)
	fetcher := do.MustInvoke[*enrich.Fetcher](i)
	bookmarks := do.MustInvoke[*service.BookmarkService](i)

	pool := jobs.NewPool(queueHandle.Queue, fetcher, bookmarks, cfg.Enrich.Workers, log.Logger)
	pool.Start()

	log.Info("Enrichment workers started", "workers", cfg.Enrich.Workers)

	return &EnrichPoolHandle{Pool: pool, started: true}, nil
}
