// Package jobs is the durable background queue for bookmark enrichment.
//
// Jobs survive restarts: they live in a Badger database next to the
// primary store, indexed by status so workers can claim pending work
// in FIFO order.
package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/linkstashapp/linkstash-server/internal/domain"
	"github.com/linkstashapp/linkstash-server/internal/id"
)

const (
	jobPrefix         = "enrich:"
	statusIndexPrefix = jobPrefix + "idx:status:"

	// maxAttempts is how many times a job runs before it is parked as
	// failed for good.
	maxAttempts = 3

	// keepFailedJobs caps how many failed jobs are retained for
	// inspection; older failures are pruned as new ones arrive.
	keepFailedJobs = 100
)

// ErrNoJobs is returned by Claim when nothing is pending.
var ErrNoJobs = errors.New("jobs: no pending jobs")

// Queue is a durable enrichment job queue backed by Badger.
type Queue struct {
	db     *badger.DB
	logger *slog.Logger
	notify chan struct{}
}

// Open opens (or creates) the queue database at path.
func Open(path string, logger *slog.Logger) (*Queue, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open job queue: %w", err)
	}

	return &Queue{
		db:     db,
		logger: logger,
		notify: make(chan struct{}, 1),
	}, nil
}

// Close closes the queue database.
func (q *Queue) Close() error {
	return q.db.Close()
}

// Notify returns the channel workers watch for new-job signals.
func (q *Queue) Notify() <-chan struct{} {
	return q.notify
}

func (q *Queue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
		// Already signaled.
	}
}

// Enqueue adds a pending enrichment job for a bookmark.
func (q *Queue) Enqueue(bookmarkID, url string) error {
	job := &domain.EnrichJob{
		ID:         id.New(),
		BookmarkID: bookmarkID,
		URL:        url,
		Status:     domain.EnrichStatusPending,
		CreatedAt:  time.Now(),
	}

	if err := q.put(job, ""); err != nil {
		return err
	}

	q.logger.Debug("enrichment job queued", "job_id", job.ID, "bookmark_id", bookmarkID)
	q.signal()
	return nil
}

// Claim atomically takes the oldest pending job and marks it running.
// Returns ErrNoJobs when the queue is empty.
func (q *Queue) Claim() (*domain.EnrichJob, error) {
	var job domain.EnrichJob

	err := q.db.Update(func(txn *badger.Txn) error {
		prefix := []byte(statusIndexPrefix + string(domain.EnrichStatusPending) + ":")

		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(prefix)
		if !it.ValidForPrefix(prefix) {
			return ErrNoJobs
		}

		var jobID string
		if err := it.Item().Value(func(val []byte) error {
			jobID = string(val)
			return nil
		}); err != nil {
			return err
		}

		item, err := txn.Get([]byte(jobPrefix + jobID))
		if err != nil {
			return fmt.Errorf("get job: %w", err)
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &job)
		}); err != nil {
			return fmt.Errorf("unmarshal job: %w", err)
		}

		oldStatus := job.Status
		job.MarkRunning()
		return q.writeJob(txn, &job, oldStatus)
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Complete marks a running job as done and removes it from the queue.
// Completed jobs are not retained.
func (q *Queue) Complete(job *domain.EnrichJob) error {
	return q.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(q.indexKey(job.Status, job)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete status index: %w", err)
		}
		return txn.Delete([]byte(jobPrefix + job.ID))
	})
}

// Fail records a failed attempt. Jobs under the attempt limit go back to
// pending for a retry; exhausted jobs are parked as failed, and the
// failed set is pruned to its retention cap.
//
// Returns true when the job will be retried.
func (q *Queue) Fail(job *domain.EnrichJob, cause error) (bool, error) {
	oldStatus := job.Status
	retry := job.Attempts < maxAttempts

	if retry {
		job.MarkPending(cause.Error())
	} else {
		job.MarkFailed(cause.Error())
	}

	err := q.db.Update(func(txn *badger.Txn) error {
		if err := q.writeJob(txn, job, oldStatus); err != nil {
			return err
		}
		if !retry {
			return q.pruneFailed(txn)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	// No signal on retry: the next poll tick picks the job up, which
	// spaces repeated attempts against a flaky host.
	return retry, nil
}

// Recover resets jobs left running by a previous process back to pending
// so they get picked up again. Returns how many were reset.
func (q *Queue) Recover() (int, error) {
	jobs, err := q.listByStatus(domain.EnrichStatusRunning)
	if err != nil {
		return 0, err
	}

	for _, job := range jobs {
		oldStatus := job.Status
		job.MarkPending("interrupted by shutdown")
		// A recovered attempt shouldn't count against the limit.
		job.Attempts--

		err := q.db.Update(func(txn *badger.Txn) error {
			return q.writeJob(txn, job, oldStatus)
		})
		if err != nil {
			return 0, err
		}
	}

	if len(jobs) > 0 {
		q.signal()
	}
	return len(jobs), nil
}

// CountByStatus returns the number of jobs in the given status.
func (q *Queue) CountByStatus(status domain.EnrichStatus) (int, error) {
	jobs, err := q.listByStatus(status)
	if err != nil {
		return 0, err
	}
	return len(jobs), nil
}

// put stores a new or updated job outside an existing transaction.
func (q *Queue) put(job *domain.EnrichJob, oldStatus domain.EnrichStatus) error {
	return q.db.Update(func(txn *badger.Txn) error {
		return q.writeJob(txn, job, oldStatus)
	})
}

// writeJob writes the job row and moves its status index entry.
func (q *Queue) writeJob(txn *badger.Txn, job *domain.EnrichJob, oldStatus domain.EnrichStatus) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	if err := txn.Set([]byte(jobPrefix+job.ID), data); err != nil {
		return fmt.Errorf("set job: %w", err)
	}

	if oldStatus != "" && oldStatus != job.Status {
		if err := txn.Delete(q.indexKey(oldStatus, job)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete old status index: %w", err)
		}
	}
	if err := txn.Set(q.indexKey(job.Status, job), []byte(job.ID)); err != nil {
		return fmt.Errorf("set status index: %w", err)
	}
	return nil
}

// indexKey builds a status index key. The creation timestamp leads the
// job id so lexicographic iteration yields FIFO order.
func (q *Queue) indexKey(status domain.EnrichStatus, job *domain.EnrichJob) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d:%s", statusIndexPrefix, status, job.CreatedAt.UnixNano(), job.ID))
}

// listByStatus returns jobs in the given status in index (FIFO) order.
func (q *Queue) listByStatus(status domain.EnrichStatus) ([]*domain.EnrichJob, error) {
	prefix := []byte(statusIndexPrefix + string(status) + ":")
	var jobs []*domain.EnrichJob

	err := q.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var jobID string
			if err := it.Item().Value(func(val []byte) error {
				jobID = string(val)
				return nil
			}); err != nil {
				return err
			}

			item, err := txn.Get([]byte(jobPrefix + jobID))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			var job domain.EnrichJob
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &job)
			}); err != nil {
				return err
			}
			jobs = append(jobs, &job)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// pruneFailed deletes the oldest failed jobs beyond the retention cap.
func (q *Queue) pruneFailed(txn *badger.Txn) error {
	prefix := []byte(statusIndexPrefix + string(domain.EnrichStatusFailed) + ":")

	type entry struct {
		indexKey []byte
		jobID    string
	}
	var entries []entry

	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = true
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var jobID string
		if err := it.Item().Value(func(val []byte) error {
			jobID = string(val)
			return nil
		}); err != nil {
			return err
		}
		entries = append(entries, entry{indexKey: it.Item().KeyCopy(nil), jobID: jobID})
	}

	if len(entries) <= keepFailedJobs {
		return nil
	}

	for _, e := range entries[:len(entries)-keepFailedJobs] {
		if err := txn.Delete(e.indexKey); err != nil {
			return fmt.Errorf("prune failed index: %w", err)
		}
		if err := txn.Delete([]byte(jobPrefix + e.jobID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("prune failed job: %w", err)
		}
	}
	return nil
}
