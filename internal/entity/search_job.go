package entity

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a search job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// SearchJob tracks one asynchronous discovery and enrichment run.
type SearchJob struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Query        string     `json:"query"`
	Location     string     `json:"location"`
	Country      string     `json:"country"`
	CompanyType  string     `json:"company_type"`
	Status       JobStatus  `json:"status"`
	ResultsCount int        `json:"results_count"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

var transitions = map[JobStatus][]JobStatus{
	JobStatusPending: {JobStatusRunning, JobStatusCompleted, JobStatusFailed},
	JobStatusRunning: {JobStatusCompleted, JobStatusFailed},
}

// CanTransition reports whether a job may move from one status to another.
func CanTransition(from, to JobStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedSources lists the statuses a job may be in to move to target.
func AllowedSources(target JobStatus) []JobStatus {
	var sources []JobStatus
	for _, from := range []JobStatus{JobStatusPending, JobStatusRunning} {
		if CanTransition(from, target) {
			sources = append(sources, from)
		}
	}
	return sources
}

// IsStale reports whether a non-terminal job has outlived the given age.
func (j SearchJob) IsStale(now time.Time, maxAge time.Duration) bool {
	if j.Status.Terminal() || maxAge <= 0 {
		return false
	}
	return now.Sub(j.CreatedAt) > maxAge
}
