package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/octobees/lead-enricher/internal/database"
	"github.com/octobees/lead-enricher/internal/entity"
)

// pgxPool is the subset of *pgxpool.Pool the repository needs.
type pgxPool interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// PostgresStore implements Store on PostgreSQL through pgx.
type PostgresStore struct {
	pool    pgxPool
	raw     *pgxpool.Pool
	nowFunc func() time.Time
}

// NewPostgresStore wraps an open pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, raw: pool, nowFunc: time.Now}
}

var insertLeadPostgres = insertLeadSQL(func(n int) string { return fmt.Sprintf("$%d", n) })

// Migrate applies the embedded schema migrations.
func (s *PostgresStore) Migrate(context.Context) error {
	if s.raw == nil {
		return eris.New("postgres: migrate needs a live pool")
	}
	return database.Migrate(s.raw)
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	if s.raw != nil {
		s.raw.Close()
	}
	return nil
}

// CreateJob inserts a pending job.
func (s *PostgresStore) CreateJob(ctx context.Context, in NewJob) (*entity.SearchJob, error) {
	job := newJob(in, s.nowFunc().UTC())
	_, err := s.pool.Exec(ctx, `
        INSERT INTO search_jobs (id, user_id, query, location, country, company_type, status, results_count, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9)
    `, job.ID, job.UserID, job.Query, job.Location, job.Country, job.CompanyType, string(job.Status), job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert search job")
	}
	return &job, nil
}

// UpdateJobStatus moves a job to status when its current status allows it.
func (s *PostgresStore) UpdateJobStatus(ctx context.Context, id uuid.UUID, status entity.JobStatus, patch JobPatch) (*entity.SearchJob, error) {
	sources := entity.AllowedSources(status)
	if len(sources) == 0 {
		return nil, eris.Wrapf(ErrInvalidTransition, "postgres: no transition leads to %q", status)
	}

	row := s.pool.QueryRow(ctx, `
        UPDATE search_jobs SET
            status = $2,
            results_count = COALESCE($3, results_count),
            error_message = COALESCE($4, error_message),
            started_at = COALESCE($5, started_at),
            completed_at = COALESCE($6, completed_at),
            updated_at = $7
        WHERE id = $1 AND status = ANY($8)
        RETURNING `+jobColumns,
		id, string(status), patch.ResultsCount, patch.ErrorMessage, patch.StartedAt, patch.CompletedAt,
		s.nowFunc().UTC(), statusStrings(sources),
	)

	job, err := scanJob(row)
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(err, "postgres: update search job %s", id)
	}

	if _, err := s.GetJobByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, eris.Wrapf(ErrInvalidTransition, "postgres: search job %s cannot become %q", id, status)
}

// GetJobByID fetches one job.
func (s *PostgresStore) GetJobByID(ctx context.Context, id uuid.UUID) (*entity.SearchJob, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM search_jobs WHERE id = $1`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, eris.Wrapf(err, "postgres: get search job %s", id)
	}
	return job, nil
}

// ListJobs returns a user's jobs, newest first.
func (s *PostgresStore) ListJobs(ctx context.Context, userID uuid.UUID) ([]entity.SearchJob, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+jobColumns+` FROM search_jobs WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list search jobs")
	}
	return collectJobs(rows)
}

// ListActiveJobsBefore returns pending or running jobs created before cutoff.
func (s *PostgresStore) ListActiveJobsBefore(ctx context.Context, cutoff time.Time) ([]entity.SearchJob, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT `+jobColumns+` FROM search_jobs
        WHERE status IN ('pending', 'running') AND created_at < $1
        ORDER BY created_at ASC
    `, cutoff.UTC())
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list active search jobs")
	}
	return collectJobs(rows)
}

// InsertLeads stores all leads in one transaction.
func (s *PostgresStore) InsertLeads(ctx context.Context, leads []entity.Lead) ([]entity.Lead, error) {
	if len(leads) == 0 {
		return []entity.Lead{}, nil
	}
	prepared := prepareLeads(leads, s.nowFunc().UTC())

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, eris.Wrap(err, "postgres: begin lead insert")
	}
	if err := insertLeadRows(ctx, tx, prepared); err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, eris.Wrap(err, "postgres: commit lead insert")
	}
	return prepared, nil
}

func insertLeadRows(ctx context.Context, tx pgx.Tx, leads []entity.Lead) error {
	for _, lead := range leads {
		args, err := leadArgs(lead)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, insertLeadPostgres, args...); err != nil {
			return eris.Wrapf(err, "postgres: insert lead %q", lead.Company)
		}
	}
	return nil
}

func collectJobs(rows pgx.Rows) ([]entity.SearchJob, error) {
	defer rows.Close()
	jobs := []entity.SearchJob{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan search job")
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate search jobs")
	}
	return jobs, nil
}
