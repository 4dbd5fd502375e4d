package domain

import "time"

// EnrichStatus represents the state of an enrichment job.
type EnrichStatus string

const (
	EnrichStatusPending   EnrichStatus = "pending"
	EnrichStatusRunning   EnrichStatus = "running"
	EnrichStatusCompleted EnrichStatus = "completed"
	EnrichStatusFailed    EnrichStatus = "failed"
)

// EnrichJob represents a metadata fetch for one bookmark. Jobs are
// created when a bookmark arrives without a title or thumbnail and are
// processed in the background so saving stays fast.
type EnrichJob struct {
	ID         string `json:"id"`
	BookmarkID string `json:"bookmark_id"`
	URL        string `json:"url"`

	Status   EnrichStatus `json:"status"`
	Attempts int          `json:"attempts"`
	Error    string       `json:"error,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// MarkRunning transitions the job to running state and counts the attempt.
func (j *EnrichJob) MarkRunning() {
	j.Status = EnrichStatusRunning
	j.Attempts++
	now := time.Now()
	j.StartedAt = &now
}

// MarkCompleted transitions the job to completed state.
func (j *EnrichJob) MarkCompleted() {
	j.Status = EnrichStatusCompleted
	now := time.Now()
	j.CompletedAt = &now
}

// MarkFailed transitions the job to failed state with an error message.
func (j *EnrichJob) MarkFailed(err string) {
	j.Status = EnrichStatusFailed
	j.Error = err
	now := time.Now()
	j.CompletedAt = &now
}

// MarkPending puts the job back in line for another attempt.
func (j *EnrichJob) MarkPending(err string) {
	j.Status = EnrichStatusPending
	j.Error = err
	j.StartedAt = nil
}
