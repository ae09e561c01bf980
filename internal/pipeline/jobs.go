package pipeline

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/RioCoderBrazil/MetaSynthesizer/internal/chunker"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/segment"
)

// JobStatus represents the state of an ingestion job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusSegmenting JobStatus = "segmenting"
	StatusChunking   JobStatus = "chunking"
	StatusIndexing   JobStatus = "indexing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
	StatusDupSkipped JobStatus = "duplicate_skipped"
)

// Job tracks the state of a single document ingestion.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	DocID string `json:"doc_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Force skips the content-hash dedup check. Set before submission.
	Force bool `json:"-"`

	// ChunkCfg overrides the service-wide token budgets for this job.
	// Nil means use the defaults. Set before submission.
	ChunkCfg *chunker.Config `json:"-"`

	// Internal: not serialized.
	fileData []byte
	sections []SectionSummary
	chunks   []chunker.Chunk
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	Sections      int      `json:"sections"`
	TotalChunks   int      `json:"total_chunks"`
	ChunksIndexed int      `json:"chunks_indexed"`
	Errors        []string `json:"errors"`
}

// SectionSummary is the read-only view of one validated section exposed by
// the API; the full text travels only inside its chunks.
type SectionSummary struct {
	Label      string  `json:"label"`
	StartPage  int     `json:"start_page"`
	EndPage    int     `json:"end_page"`
	Confidence float64 `json:"confidence"`
	Chars      int     `json:"chars"`
	Chunks     int     `json:"chunks"`
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

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetSections records the validated sections' summaries.
func (j *Job) SetSections(sections []segment.Section) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sections = make([]SectionSummary, 0, len(sections))
	for _, s := range sections {
		j.sections = append(j.sections, SectionSummary{
			Label:      s.Label,
			StartPage:  s.StartPage,
			EndPage:    s.EndPage,
			Confidence: s.Confidence,
			Chars:      len(s.Text),
		})
	}
	j.Progress.Sections = len(sections)
	j.UpdatedAt = time.Now()
}

// Sections returns a copy of the recorded section summaries.
func (j *Job) Sections() []SectionSummary {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]SectionSummary, len(j.sections))
	copy(out, j.sections)
	return out
}

// SetChunks records the final chunk list and per-section chunk counts.
func (j *Job) SetChunks(chunks []chunker.Chunk) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.chunks = chunks
	j.Progress.TotalChunks = len(chunks)
	counts := make(map[int]int)
	for _, c := range chunks {
		suffix, ok := strings.CutPrefix(c.ChunkID, j.DocID)
		if !ok {
			continue
		}
		var sec, idx int
		if _, err := fmt.Sscanf(suffix, "_s%d_c%d", &sec, &idx); err == nil {
			counts[sec]++
		}
	}
	for i := range j.sections {
		j.sections[i].Chunks = counts[i]
	}
	j.UpdatedAt = time.Now()
}

// Chunks returns a copy of the emitted chunks.
func (j *Job) Chunks() []chunker.Chunk {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]chunker.Chunk, len(j.chunks))
	copy(out, j.chunks)
	return out
}

// AddChunksIndexed atomically advances the indexing counter.
func (j *Job) AddChunksIndexed(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksIndexed += n
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	DocID    string    `json:"doc_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`
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
		ID:       j.ID,
		DocID:    j.DocID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Title:    j.Title,
		Progress: Progress{
			Sections:      j.Progress.Sections,
			TotalChunks:   j.Progress.TotalChunks,
			ChunksIndexed: j.Progress.ChunksIndexed,
			Errors:        errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
