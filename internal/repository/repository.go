// Package repository persists search jobs and leads.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/octobees/lead-enricher/internal/entity"
)

var (
	// ErrJobNotFound is returned when no search job matches the id.
	ErrJobNotFound = eris.New("search job not found")
	// ErrInvalidTransition is returned when a job cannot move to the requested status.
	ErrInvalidTransition = eris.New("invalid search job status transition")
)

// NewJob holds the caller-supplied fields of a search job.
type NewJob struct {
	UserID      uuid.UUID
	Query       string
	Location    string
	Country     string
	CompanyType string
}

// JobPatch lists the optional fields written together with a status change.
// Nil fields keep their stored value.
type JobPatch struct {
	ResultsCount *int
	ErrorMessage *string
	StartedAt    *time.Time
	CompletedAt  *time.Time
}

// SearchJobs persists search jobs.
type SearchJobs interface {
	CreateJob(ctx context.Context, in NewJob) (*entity.SearchJob, error)
	// UpdateJobStatus applies the transition atomically: it fails with
	// ErrInvalidTransition when the stored status does not allow it.
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status entity.JobStatus, patch JobPatch) (*entity.SearchJob, error)
	GetJobByID(ctx context.Context, id uuid.UUID) (*entity.SearchJob, error)
	ListJobs(ctx context.Context, userID uuid.UUID) ([]entity.SearchJob, error)
	ListActiveJobsBefore(ctx context.Context, cutoff time.Time) ([]entity.SearchJob, error)
}

// Leads persists enriched leads.
type Leads interface {
	// InsertLeads stores leads, assigning ids and timestamps, and returns them.
	InsertLeads(ctx context.Context, leads []entity.Lead) ([]entity.Lead, error)
}

// Store combines every persistence capability of one backend.
type Store interface {
	SearchJobs
	Leads
	Migrate(ctx context.Context) error
	Close() error
}

func newJob(in NewJob, now time.Time) entity.SearchJob {
	return entity.SearchJob{
		ID:          uuid.New(),
		UserID:      in.UserID,
		Query:       in.Query,
		Location:    in.Location,
		Country:     in.Country,
		CompanyType: in.CompanyType,
		Status:      entity.JobStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func applyPatch(job *entity.SearchJob, status entity.JobStatus, patch JobPatch, now time.Time) {
	job.Status = status
	job.UpdatedAt = now
	if patch.ResultsCount != nil {
		job.ResultsCount = *patch.ResultsCount
	}
	if patch.ErrorMessage != nil {
		msg := *patch.ErrorMessage
		job.ErrorMessage = &msg
	}
	if patch.StartedAt != nil {
		ts := *patch.StartedAt
		job.StartedAt = &ts
	}
	if patch.CompletedAt != nil {
		ts := *patch.CompletedAt
		job.CompletedAt = &ts
	}
}

func prepareLeads(leads []entity.Lead, now time.Time) []entity.Lead {
	out := make([]entity.Lead, len(leads))
	for i, lead := range leads {
		if lead.ID == uuid.Nil {
			lead.ID = uuid.New()
		}
		if lead.Status == "" {
			lead.Status = entity.LeadStatusNew
		}
		if lead.RawData == nil {
			lead.RawData = map[string]any{}
		}
		lead.CreatedAt = now
		lead.UpdatedAt = now
		out[i] = lead
	}
	return out
}

func statusStrings(statuses []entity.JobStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
