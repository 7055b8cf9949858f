package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of an extraction job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusScanning  JobStatus = "scanning"
	StatusStoring   JobStatus = "storing"
	StatusCompleted JobStatus = "completed"
	StatusPartial   JobStatus = "partial"
	StatusFailed    JobStatus = "failed"
)

// Job tracks the state of one extraction run over a document tree.
type Job struct {
	mu sync.Mutex

	ID         string   `json:"job_id"`
	Root       string   `json:"root"`
	AllowPaths []string `json:"allow_paths,omitempty"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`
	RunID  string    `json:"run_id,omitempty"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	errors []string
}

// Progress tracks extraction progress.
type Progress struct {
	FilesMatched    int      `json:"files_matched"`
	BlocksExtracted int      `json:"blocks_extracted"`
	NodesBuilt      int      `json:"nodes_built"`
	Errors          []string `json:"errors"`
}

// NewJob creates a queued job for root, optionally restricted to allow.
func NewJob(root string, allow []string) *Job {
	now := time.Now()
	return &Job{
		ID:         jobID(root, now),
		Root:       root,
		AllowPaths: allow,
		Status:     StatusQueued,
		Phase:      "queued",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func jobID(root string, now time.Time) string {
	return ContentHashHex(fmt.Appendf(nil, "%s-%d", root, now.UnixNano()))[:20]
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// SetRunID records the stored run id for a finished job.
func (j *Job) SetRunID(id string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.RunID = id
	j.UpdatedAt = time.Now()
}

// AddError records a per-file or per-block error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetCounts records the extraction totals.
func (j *Job) SetCounts(files, blocks, nodes int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.FilesMatched = files
	j.Progress.BlocksExtracted = blocks
	j.Progress.NodesBuilt = nodes
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Root     string    `json:"root"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	RunID    string    `json:"run_id,omitempty"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:     j.ID,
		Root:   j.Root,
		Status: j.Status,
		Phase:  j.Phase,
		RunID:  j.RunID,
		Progress: Progress{
			FilesMatched:    j.Progress.FilesMatched,
			BlocksExtracted: j.Progress.BlocksExtracted,
			NodesBuilt:      j.Progress.NodesBuilt,
			Errors:          errs,
		},
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
