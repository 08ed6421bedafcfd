package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/octobees/lead-enricher/internal/entity"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db      *sql.DB
	nowFunc func() time.Time
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, nowFunc: time.Now}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS search_jobs (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	query         TEXT NOT NULL,
	location      TEXT NOT NULL,
	country       TEXT NOT NULL DEFAULT 'AT',
	company_type  TEXT NOT NULL DEFAULT 'all',
	status        TEXT NOT NULL DEFAULT 'pending',
	results_count INTEGER NOT NULL DEFAULT 0,
	error_message TEXT,
	started_at    DATETIME,
	completed_at  DATETIME,
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS leads (
	id                   TEXT PRIMARY KEY,
	user_id              TEXT NOT NULL,
	search_job_id        TEXT REFERENCES search_jobs(id),
	company              TEXT NOT NULL,
	legal_form           TEXT,
	industry             TEXT,
	address              TEXT,
	street               TEXT,
	postal_code          TEXT,
	city                 TEXT,
	country              TEXT,
	phone                TEXT,
	email                TEXT,
	website              TEXT,
	ceo_name             TEXT,
	ceo_first_name       TEXT,
	ceo_last_name        TEXT,
	ceo_title            TEXT,
	ceo_gender           TEXT,
	ceo_source           TEXT,
	google_place_id      TEXT,
	google_rating        REAL,
	google_reviews_count INTEGER,
	social_linkedin      TEXT,
	social_facebook      TEXT,
	social_instagram     TEXT,
	social_xing          TEXT,
	social_twitter       TEXT,
	social_youtube       TEXT,
	social_tiktok        TEXT,
	status               TEXT NOT NULL DEFAULT 'new',
	search_query         TEXT,
	search_location      TEXT,
	raw_data             TEXT NOT NULL DEFAULT '{}',
	created_at           DATETIME NOT NULL,
	updated_at           DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_search_jobs_user ON search_jobs(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_search_jobs_status ON search_jobs(status, created_at);
CREATE INDEX IF NOT EXISTS idx_leads_search_job ON leads(search_job_id);
`

var insertLeadSQLite = insertLeadSQL(func(int) string { return "?" })

// Migrate creates the tables and indexes if they are missing.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateJob inserts a pending job.
func (s *SQLiteStore) CreateJob(ctx context.Context, in NewJob) (*entity.SearchJob, error) {
	job := newJob(in, s.nowFunc().UTC())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_jobs (id, user_id, query, location, country, company_type, status, results_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		job.ID, job.UserID, job.Query, job.Location, job.Country, job.CompanyType, string(job.Status), job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert search job")
	}
	return &job, nil
}

// UpdateJobStatus moves a job to status when its current status allows it.
func (s *SQLiteStore) UpdateJobStatus(ctx context.Context, id uuid.UUID, status entity.JobStatus, patch JobPatch) (*entity.SearchJob, error) {
	sources := entity.AllowedSources(status)
	if len(sources) == 0 {
		return nil, eris.Wrapf(ErrInvalidTransition, "sqlite: no transition leads to %q", status)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(sources)), ", ")
	args := []any{string(status), patch.ResultsCount, patch.ErrorMessage, patch.StartedAt, patch.CompletedAt, s.nowFunc().UTC(), id}
	for _, src := range sources {
		args = append(args, string(src))
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE search_jobs SET
			status = ?,
			results_count = COALESCE(?, results_count),
			error_message = COALESCE(?, error_message),
			started_at = COALESCE(?, started_at),
			completed_at = COALESCE(?, completed_at),
			updated_at = ?
		 WHERE id = ? AND status IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: update search job %s", id)
	}

	if err := checkRowsAffected(res, "search job", id.String()); err != nil {
		if _, getErr := s.GetJobByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, eris.Wrapf(ErrInvalidTransition, "sqlite: search job %s cannot become %q", id, status)
	}
	return s.GetJobByID(ctx, id)
}

// GetJobByID fetches one job.
func (s *SQLiteStore) GetJobByID(ctx context.Context, id uuid.UUID) (*entity.SearchJob, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM search_jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, eris.Wrapf(err, "sqlite: get search job %s", id)
	}
	return job, nil
}

// ListJobs returns a user's jobs, newest first.
func (s *SQLiteStore) ListJobs(ctx context.Context, userID uuid.UUID) ([]entity.SearchJob, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM search_jobs WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list search jobs")
	}
	return collectSQLJobs(rows)
}

// ListActiveJobsBefore returns pending or running jobs created before cutoff.
func (s *SQLiteStore) ListActiveJobsBefore(ctx context.Context, cutoff time.Time) ([]entity.SearchJob, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM search_jobs
		 WHERE status IN ('pending', 'running') AND created_at < ?
		 ORDER BY created_at ASC`, cutoff.UTC())
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list active search jobs")
	}
	return collectSQLJobs(rows)
}

// InsertLeads stores all leads in one transaction.
func (s *SQLiteStore) InsertLeads(ctx context.Context, leads []entity.Lead) ([]entity.Lead, error) {
	if len(leads) == 0 {
		return []entity.Lead{}, nil
	}
	prepared := prepareLeads(leads, s.nowFunc().UTC())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin lead insert")
	}
	defer func() { _ = tx.Rollback() }()

	for _, lead := range prepared {
		args, err := leadArgs(lead)
		if err != nil {
			return nil, err
		}
		// raw_data is a TEXT column here.
		args[len(args)-3] = string(args[len(args)-3].([]byte))
		if _, err := tx.ExecContext(ctx, insertLeadSQLite, args...); err != nil {
			return nil, eris.Wrapf(err, "sqlite: insert lead %q", lead.Company)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit lead insert")
	}
	return prepared, nil
}

// CountLeads returns how many leads belong to a search job.
func (s *SQLiteStore) CountLeads(ctx context.Context, jobID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE search_job_id = ?`, jobID).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count leads")
}

func collectSQLJobs(rows *sql.Rows) ([]entity.SearchJob, error) {
	defer rows.Close()
	jobs := []entity.SearchJob{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan search job")
		}
		jobs = append(jobs, *job)
	}
	return jobs, eris.Wrap(rows.Err(), "sqlite: iterate search jobs")
}

func checkRowsAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not updated: %s", kind, id)
	}
	return nil
}
