package repository

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	supabase "github.com/nedpals/supabase-go"
	"github.com/rotisserie/eris"

	"github.com/octobees/lead-enricher/internal/entity"
)

const (
	tableSearchJobs = "search_jobs"
	tableLeads      = "leads"
)

// SupabaseStore persists through the Supabase REST interface.
type SupabaseStore struct {
	client  *supabase.Client
	nowFunc func() time.Time
}

// NewSupabaseStore creates a store for the project at url.
func NewSupabaseStore(url, key string) (*SupabaseStore, error) {
	if url == "" || key == "" {
		return nil, eris.New("supabase: SUPABASE_URL and SUPABASE_KEY are required")
	}
	return &SupabaseStore{client: supabase.CreateClient(url, key), nowFunc: time.Now}, nil
}

// Migrate is a no-op; the hosted project owns the schema.
func (s *SupabaseStore) Migrate(context.Context) error { return nil }

// Close is a no-op; the REST client holds no connection.
func (s *SupabaseStore) Close() error { return nil }

// CreateJob inserts a pending job.
func (s *SupabaseStore) CreateJob(_ context.Context, in NewJob) (*entity.SearchJob, error) {
	job := newJob(in, s.nowFunc().UTC())
	var created []entity.SearchJob
	if err := s.client.DB.From(tableSearchJobs).Insert(job).Execute(&created); err != nil {
		return nil, eris.Wrap(err, "supabase: insert search job")
	}
	if len(created) > 0 {
		return &created[0], nil
	}
	return &job, nil
}

// UpdateJobStatus reads the current status and writes with it as a
// precondition, so a concurrent writer makes the update match no rows.
func (s *SupabaseStore) UpdateJobStatus(ctx context.Context, id uuid.UUID, status entity.JobStatus, patch JobPatch) (*entity.SearchJob, error) {
	current, err := s.GetJobByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(current.Status, status) {
		return nil, eris.Wrapf(ErrInvalidTransition, "supabase: search job %s is %q, cannot become %q", id, current.Status, status)
	}

	values := map[string]any{
		"status":     string(status),
		"updated_at": s.nowFunc().UTC(),
	}
	if patch.ResultsCount != nil {
		values["results_count"] = *patch.ResultsCount
	}
	if patch.ErrorMessage != nil {
		values["error_message"] = *patch.ErrorMessage
	}
	if patch.StartedAt != nil {
		values["started_at"] = patch.StartedAt.UTC()
	}
	if patch.CompletedAt != nil {
		values["completed_at"] = patch.CompletedAt.UTC()
	}

	var updated []entity.SearchJob
	err = s.client.DB.From(tableSearchJobs).
		Update(values).
		Eq("id", id.String()).
		Eq("status", string(current.Status)).
		Execute(&updated)
	if err != nil {
		return nil, eris.Wrapf(err, "supabase: update search job %s", id)
	}
	if len(updated) == 0 {
		return nil, eris.Wrapf(ErrInvalidTransition, "supabase: search job %s changed concurrently", id)
	}
	return &updated[0], nil
}

// GetJobByID fetches one job.
func (s *SupabaseStore) GetJobByID(_ context.Context, id uuid.UUID) (*entity.SearchJob, error) {
	var jobs []entity.SearchJob
	if err := s.client.DB.From(tableSearchJobs).Select("*").Eq("id", id.String()).Execute(&jobs); err != nil {
		return nil, eris.Wrapf(err, "supabase: get search job %s", id)
	}
	if len(jobs) == 0 {
		return nil, ErrJobNotFound
	}
	return &jobs[0], nil
}

// ListJobs returns a user's jobs, newest first.
func (s *SupabaseStore) ListJobs(_ context.Context, userID uuid.UUID) ([]entity.SearchJob, error) {
	jobs := []entity.SearchJob{}
	if err := s.client.DB.From(tableSearchJobs).Select("*").Eq("user_id", userID.String()).Execute(&jobs); err != nil {
		return nil, eris.Wrap(err, "supabase: list search jobs")
	}
	sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	return jobs, nil
}

// ListActiveJobsBefore returns pending or running jobs created before cutoff.
func (s *SupabaseStore) ListActiveJobsBefore(_ context.Context, cutoff time.Time) ([]entity.SearchJob, error) {
	active := []entity.SearchJob{}
	for _, status := range []entity.JobStatus{entity.JobStatusPending, entity.JobStatusRunning} {
		var jobs []entity.SearchJob
		if err := s.client.DB.From(tableSearchJobs).Select("*").Eq("status", string(status)).Execute(&jobs); err != nil {
			return nil, eris.Wrapf(err, "supabase: list %s search jobs", status)
		}
		for _, job := range jobs {
			if job.CreatedAt.Before(cutoff) {
				active = append(active, job)
			}
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].CreatedAt.Before(active[j].CreatedAt) })
	return active, nil
}

// InsertLeads stores all leads in one bulk insert.
func (s *SupabaseStore) InsertLeads(_ context.Context, leads []entity.Lead) ([]entity.Lead, error) {
	if len(leads) == 0 {
		return []entity.Lead{}, nil
	}
	prepared := prepareLeads(leads, s.nowFunc().UTC())
	var inserted []entity.Lead
	if err := s.client.DB.From(tableLeads).Insert(prepared).Execute(&inserted); err != nil {
		return nil, eris.Wrap(err, "supabase: insert leads")
	}
	if len(inserted) == len(prepared) {
		return inserted, nil
	}
	return prepared, nil
}
