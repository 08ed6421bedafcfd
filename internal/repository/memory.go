package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/octobees/lead-enricher/internal/entity"
)

// MemoryStore keeps everything in process memory. It backs local runs and
// tests; nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	jobs    map[uuid.UUID]entity.SearchJob
	leads   []entity.Lead
	nowFunc func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[uuid.UUID]entity.SearchJob), nowFunc: time.Now}
}

// WithClock overrides the time source.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.nowFunc = now
	return s
}

// Migrate is a no-op; there is no schema.
func (s *MemoryStore) Migrate(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// CreateJob stores a pending job.
func (s *MemoryStore) CreateJob(_ context.Context, in NewJob) (*entity.SearchJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := newJob(in, s.nowFunc().UTC())
	s.jobs[job.ID] = job
	return &job, nil
}

// UpdateJobStatus moves a job to status under the store lock when its current status allows it.
func (s *MemoryStore) UpdateJobStatus(_ context.Context, id uuid.UUID, status entity.JobStatus, patch JobPatch) (*entity.SearchJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	if !entity.CanTransition(job.Status, status) {
		return nil, eris.Wrapf(ErrInvalidTransition, "memory: search job %s is %q, cannot become %q", id, job.Status, status)
	}
	applyPatch(&job, status, patch, s.nowFunc().UTC())
	s.jobs[id] = job
	return &job, nil
}

// GetJobByID returns a copy of one job.
func (s *MemoryStore) GetJobByID(_ context.Context, id uuid.UUID) (*entity.SearchJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return &job, nil
}

// ListJobs returns a user's jobs, newest first.
func (s *MemoryStore) ListJobs(_ context.Context, userID uuid.UUID) ([]entity.SearchJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jobs := []entity.SearchJob{}
	for _, job := range s.jobs {
		if job.UserID == userID {
			jobs = append(jobs, job)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	return jobs, nil
}

// ListActiveJobsBefore returns pending or running jobs created before cutoff, oldest first.
func (s *MemoryStore) ListActiveJobsBefore(_ context.Context, cutoff time.Time) ([]entity.SearchJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jobs := []entity.SearchJob{}
	for _, job := range s.jobs {
		if !job.Status.Terminal() && job.CreatedAt.Before(cutoff) {
			jobs = append(jobs, job)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.Before(jobs[j].CreatedAt) })
	return jobs, nil
}

// InsertLeads appends leads after assigning ids and timestamps.
func (s *MemoryStore) InsertLeads(_ context.Context, leads []entity.Lead) ([]entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prepared := prepareLeads(leads, s.nowFunc().UTC())
	s.leads = append(s.leads, prepared...)
	return prepared, nil
}

// LeadsForJob returns the stored leads of one search job.
func (s *MemoryStore) LeadsForJob(jobID uuid.UUID) []entity.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Lead
	for _, lead := range s.leads {
		if lead.SearchJobID != nil && *lead.SearchJobID == jobID {
			out = append(out, lead)
		}
	}
	return out
}
