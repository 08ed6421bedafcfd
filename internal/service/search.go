package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/octobees/lead-enricher/internal/discovery"
	"github.com/octobees/lead-enricher/internal/enrich"
	"github.com/octobees/lead-enricher/internal/entity"
	"github.com/octobees/lead-enricher/internal/repository"
	"github.com/octobees/lead-enricher/internal/worker"
)

const (
	defaultCountry    = "AT"
	defaultStaleAfter = 10 * time.Minute
)

var countryPattern = regexp.MustCompile(`^[A-Z]{2}$`)

var (
	// ErrForbidden is returned when a caller asks for someone else's search.
	ErrForbidden = eris.New("search job belongs to another user")
	// ErrJobSuperseded is returned when a job was resolved or reaped while
	// its pipeline was still running. Its leads are discarded.
	ErrJobSuperseded = eris.New("search job finished before its leads were stored")
)

// ValidationError indicates that the search request is invalid.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}

// LeadPipeline discovers and enriches leads for one search.
type LeadPipeline interface {
	Run(ctx context.Context, params enrich.Params) ([]entity.Lead, error)
}

// TaskSubmitter queues background work.
type TaskSubmitter interface {
	Submit(task worker.Task) error
}

// SubmitInput is a search request as received from a client.
type SubmitInput struct {
	Query       string
	Location    string
	Country     string
	CompanyType string
	RequestID   string
}

// SearchService owns the search job lifecycle.
type SearchService struct {
	store          repository.Store
	pipeline       LeadPipeline
	pool           TaskSubmitter
	webhook        worker.WebhookPoster
	defaultCountry string
	staleAfter     time.Duration
	now            func() time.Time
	logger         *zap.Logger
}

// SearchOption configures optional SearchService behaviour.
type SearchOption func(*SearchService)

// WithWebhook hands jobs to an external workflow before the local pool.
func WithWebhook(poster worker.WebhookPoster) SearchOption {
	return func(s *SearchService) {
		s.webhook = poster
	}
}

// WithDefaultCountry sets the country used when a request omits it.
func WithDefaultCountry(country string) SearchOption {
	return func(s *SearchService) {
		if c := strings.ToUpper(strings.TrimSpace(country)); c != "" {
			s.defaultCountry = c
		}
	}
}

// WithStaleAfter sets how old an unfinished job may get before ReapStale fails it.
func WithStaleAfter(d time.Duration) SearchOption {
	return func(s *SearchService) {
		if d > 0 {
			s.staleAfter = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) SearchOption {
	return func(s *SearchService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSearchLogger overrides the logger.
func WithSearchLogger(logger *zap.Logger) SearchOption {
	return func(s *SearchService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSearchService creates a SearchService. pool may be nil for callers that
// only run searches inline.
func NewSearchService(store repository.Store, pipeline LeadPipeline, pool TaskSubmitter, opts ...SearchOption) *SearchService {
	s := &SearchService{
		store:          store,
		pipeline:       pipeline,
		pool:           pool,
		defaultCountry: defaultCountry,
		staleAfter:     defaultStaleAfter,
		now:            time.Now,
		logger:         zap.L(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("component", "search_service"))
	return s
}

// Submit validates the request, stores a pending job and dispatches it. The
// returned job reflects the state after dispatch, which is failed when no
// worker could accept it.
func (s *SearchService) Submit(ctx context.Context, owner uuid.UUID, in SubmitInput) (*entity.SearchJob, error) {
	job, err := s.create(ctx, owner, in)
	if err != nil {
		return nil, err
	}
	if failed := s.dispatch(ctx, *job, in.RequestID); failed != nil {
		return failed, nil
	}
	return job, nil
}

// RunNow stores a job and executes it on the calling goroutine.
func (s *SearchService) RunNow(ctx context.Context, owner uuid.UUID, in SubmitInput) (*entity.SearchJob, []entity.Lead, error) {
	job, err := s.create(ctx, owner, in)
	if err != nil {
		return nil, nil, err
	}
	leads, runErr := s.execute(ctx, *job)
	final, err := s.store.GetJobByID(context.WithoutCancel(ctx), job.ID)
	if err != nil {
		return nil, nil, err
	}
	return final, leads, runErr
}

// Execute runs one job to a terminal state.
func (s *SearchService) Execute(ctx context.Context, job entity.SearchJob) error {
	_, err := s.execute(ctx, job)
	return err
}

func (s *SearchService) create(ctx context.Context, owner uuid.UUID, in SubmitInput) (*entity.SearchJob, error) {
	normalized, err := s.validate(in)
	if err != nil {
		return nil, err
	}
	job, err := s.store.CreateJob(ctx, repository.NewJob{
		UserID:      owner,
		Query:       normalized.Query,
		Location:    normalized.Location,
		Country:     normalized.Country,
		CompanyType: normalized.CompanyType,
	})
	if err != nil {
		return nil, eris.Wrap(err, "search: create job")
	}
	s.logger.Info("search job created",
		zap.String("job_id", job.ID.String()),
		zap.String("query", job.Query),
		zap.String("location", job.Location),
	)
	return job, nil
}

func (s *SearchService) validate(in SubmitInput) (SubmitInput, error) {
	in.Query = strings.TrimSpace(in.Query)
	in.Location = strings.TrimSpace(in.Location)
	if in.Query == "" {
		return in, ValidationError{Message: "query is required"}
	}
	if in.Location == "" {
		return in, ValidationError{Message: "location is required"}
	}

	in.Country = strings.ToUpper(strings.TrimSpace(in.Country))
	if in.Country == "" {
		in.Country = s.defaultCountry
	}
	if !countryPattern.MatchString(in.Country) {
		return in, ValidationError{Message: "country must be a two-letter code"}
	}

	in.CompanyType = strings.ToLower(strings.TrimSpace(in.CompanyType))
	if in.CompanyType == "" {
		in.CompanyType = discovery.CompanyTypeAll
	}
	if !discovery.ValidCompanyType(in.CompanyType) {
		return in, ValidationError{Message: fmt.Sprintf("unknown company_type %q", in.CompanyType)}
	}
	return in, nil
}

// dispatch hands the job to the webhook or the local pool. It returns the
// failed job when neither accepted it.
func (s *SearchService) dispatch(ctx context.Context, job entity.SearchJob, requestID string) *entity.SearchJob {
	logger := s.logger.With(zap.String("job_id", job.ID.String()))

	if s.webhook != nil {
		err := s.webhook.Post(ctx, worker.PayloadFor(job), requestID)
		if err == nil {
			logger.Info("search job handed to workflow")
			return nil
		}
		var statusErr *worker.StatusError
		if errors.As(err, &statusErr) {
			logger.Warn("workflow rejected search job", zap.Int("status", statusErr.StatusCode))
			return s.fail(ctx, job.ID, statusErr.Error())
		}
		logger.Warn("workflow unreachable, running search locally", zap.Error(err))
	}

	if s.pool == nil {
		return s.fail(ctx, job.ID, "no worker available to run the search")
	}
	err := s.pool.Submit(func(taskCtx context.Context) {
		_ = s.Execute(taskCtx, job)
	})
	if err != nil {
		logger.Warn("search job not queued", zap.Error(err))
		return s.fail(ctx, job.ID, err.Error())
	}
	return nil
}

func (s *SearchService) execute(ctx context.Context, job entity.SearchJob) (leads []entity.Lead, err error) {
	logger := s.logger.With(zap.String("job_id", job.ID.String()))

	started := s.now().UTC()
	if _, err := s.store.UpdateJobStatus(ctx, job.ID, entity.JobStatusRunning, repository.JobPatch{StartedAt: &started}); err != nil {
		logger.Warn("search job could not start", zap.Error(err))
		return nil, eris.Wrap(err, "search: start job")
	}

	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("search: panic: %v", r)
			logger.Error("search job panicked", zap.Any("panic", r))
			s.fail(ctx, job.ID, err.Error())
			leads = nil
		}
	}()

	params := enrich.Params{
		Query:       job.Query,
		Location:    job.Location,
		Country:     job.Country,
		CompanyType: job.CompanyType,
	}
	found, err := s.pipeline.Run(ctx, params)
	if err != nil {
		logger.Error("search pipeline failed", zap.Error(err))
		s.fail(ctx, job.ID, err.Error())
		return nil, err
	}

	jobID := job.ID
	for i := range found {
		found[i].UserID = job.UserID
		found[i].SearchJobID = &jobID
		found[i].Status = entity.LeadStatusNew
	}

	current, err := s.store.GetJobByID(context.WithoutCancel(ctx), job.ID)
	if err != nil {
		logger.Error("search job vanished before storing leads", zap.Error(err))
		return nil, eris.Wrap(err, "search: reload job")
	}
	if current.Status != entity.JobStatusRunning {
		logger.Warn("search job finished elsewhere, discarding leads",
			zap.String("status", string(current.Status)),
			zap.Int("leads", len(found)),
		)
		return nil, ErrJobSuperseded
	}

	stored, err := s.store.InsertLeads(context.WithoutCancel(ctx), found)
	if err != nil {
		logger.Error("storing leads failed", zap.Error(err))
		s.fail(ctx, job.ID, err.Error())
		return nil, eris.Wrap(err, "search: store leads")
	}

	count := len(stored)
	completed := s.now().UTC()
	if _, err := s.store.UpdateJobStatus(context.WithoutCancel(ctx), job.ID, entity.JobStatusCompleted, repository.JobPatch{
		ResultsCount: &count,
		CompletedAt:  &completed,
	}); err != nil {
		logger.Warn("search job could not complete", zap.Error(err))
		return stored, eris.Wrap(err, "search: complete job")
	}

	logger.Info("search job completed", zap.Int("results", count))
	return stored, nil
}

// fail marks a job failed. A job that already reached a terminal state is
// left alone.
func (s *SearchService) fail(ctx context.Context, id uuid.UUID, message string) *entity.SearchJob {
	completed := s.now().UTC()
	job, err := s.store.UpdateJobStatus(context.WithoutCancel(ctx), id, entity.JobStatusFailed, repository.JobPatch{
		ErrorMessage: &message,
		CompletedAt:  &completed,
	})
	if err != nil {
		s.logger.Warn("search job could not be marked failed",
			zap.String("job_id", id.String()),
			zap.Error(err),
		)
		return nil
	}
	return job
}

// Get returns a job owned by owner.
func (s *SearchService) Get(ctx context.Context, owner, id uuid.UUID) (*entity.SearchJob, error) {
	job, err := s.store.GetJobByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.UserID != owner {
		return nil, ErrForbidden
	}
	return job, nil
}

// List returns owner's jobs, newest first.
func (s *SearchService) List(ctx context.Context, owner uuid.UUID) ([]entity.SearchJob, error) {
	return s.store.ListJobs(ctx, owner)
}

// Resolve force-moves an unfinished job to failed or completed on behalf of
// its owner.
func (s *SearchService) Resolve(ctx context.Context, owner, id uuid.UUID, status entity.JobStatus, message string) (*entity.SearchJob, error) {
	if status != entity.JobStatusFailed && status != entity.JobStatusCompleted {
		return nil, ValidationError{Message: "status must be failed or completed"}
	}
	job, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if job.Status.Terminal() {
		return nil, eris.Wrapf(repository.ErrInvalidTransition, "search: job %s is already %s", id, job.Status)
	}

	completed := s.now().UTC()
	patch := repository.JobPatch{CompletedAt: &completed}
	if status == entity.JobStatusFailed {
		message = strings.TrimSpace(message)
		if message == "" {
			message = "search marked as failed"
		}
		patch.ErrorMessage = &message
	}
	return s.store.UpdateJobStatus(ctx, id, status, patch)
}

// ReapStale fails every unfinished job older than the staleness threshold and
// returns how many it failed.
func (s *SearchService) ReapStale(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().Add(-s.staleAfter)
	jobs, err := s.store.ListActiveJobsBefore(ctx, cutoff)
	if err != nil {
		return 0, eris.Wrap(err, "search: list stale jobs")
	}

	message := fmt.Sprintf("search timed out after %s without finishing", s.staleAfter)
	reaped := 0
	for _, job := range jobs {
		if s.fail(ctx, job.ID, message) != nil {
			reaped++
		}
	}
	if reaped > 0 {
		s.logger.Info("stale search jobs failed", zap.Int("count", reaped))
	}
	return reaped, nil
}

// RunReaper calls ReapStale every interval until ctx is done.
func (s *SearchService) RunReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ReapStale(ctx); err != nil {
				s.logger.Error("stale job sweep failed", zap.Error(err))
			}
		}
	}
}
