package entity

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	cases := map[string]struct {
		from, to JobStatus
		want     bool
	}{
		"pending to running":   {JobStatusPending, JobStatusRunning, true},
		"pending to failed":    {JobStatusPending, JobStatusFailed, true},
		"pending to completed": {JobStatusPending, JobStatusCompleted, true},
		"running to completed": {JobStatusRunning, JobStatusCompleted, true},
		"running to failed":    {JobStatusRunning, JobStatusFailed, true},
		"running to pending":   {JobStatusRunning, JobStatusPending, false},
		"running to running":   {JobStatusRunning, JobStatusRunning, false},
		"completed to failed":  {JobStatusCompleted, JobStatusFailed, false},
		"completed to running": {JobStatusCompleted, JobStatusRunning, false},
		"failed to completed":  {JobStatusFailed, JobStatusCompleted, false},
		"failed to failed":     {JobStatusFailed, JobStatusFailed, false},
		"unknown source":       {JobStatus("paused"), JobStatusRunning, false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to); got != tc.want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestAllowedSources(t *testing.T) {
	if got := AllowedSources(JobStatusRunning); len(got) != 1 || got[0] != JobStatusPending {
		t.Fatalf("unexpected sources for running: %v", got)
	}
	if got := AllowedSources(JobStatusFailed); len(got) != 2 {
		t.Fatalf("expected pending and running as sources for failed, got %v", got)
	}
	if got := AllowedSources(JobStatusPending); len(got) != 0 {
		t.Fatalf("nothing may move back to pending, got %v", got)
	}
}

func TestJobStatusPredicates(t *testing.T) {
	if !JobStatusCompleted.Terminal() || !JobStatusFailed.Terminal() {
		t.Fatalf("completed and failed must be terminal")
	}
	if JobStatusPending.Terminal() || JobStatusRunning.Terminal() {
		t.Fatalf("pending and running must not be terminal")
	}
	if JobStatus("done").Valid() {
		t.Fatalf("unexpected valid status")
	}
}

func TestSearchJobIsStale(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	job := SearchJob{Status: JobStatusRunning, CreatedAt: now.Add(-11 * time.Minute)}

	if !job.IsStale(now, 10*time.Minute) {
		t.Fatalf("expected running job older than threshold to be stale")
	}
	if job.IsStale(now, 15*time.Minute) {
		t.Fatalf("job within threshold must not be stale")
	}
	if job.IsStale(now, 0) {
		t.Fatalf("disabled threshold must never report stale")
	}

	job.Status = JobStatusCompleted
	if job.IsStale(now, 10*time.Minute) {
		t.Fatalf("terminal jobs are never stale")
	}
}
