package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/lead-enricher/internal/dto"
	"github.com/octobees/lead-enricher/internal/entity"
	middlewarepkg "github.com/octobees/lead-enricher/internal/middleware"
	"github.com/octobees/lead-enricher/internal/repository"
	"github.com/octobees/lead-enricher/internal/service"
)

// SearchService is the subset of the search service the handler calls.
type SearchService interface {
	Submit(ctx context.Context, owner uuid.UUID, in service.SubmitInput) (*entity.SearchJob, error)
	List(ctx context.Context, owner uuid.UUID) ([]entity.SearchJob, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*entity.SearchJob, error)
	Resolve(ctx context.Context, owner, id uuid.UUID, status entity.JobStatus, message string) (*entity.SearchJob, error)
	ReapStale(ctx context.Context) (int, error)
}

// SearchHandler exposes lead searches over HTTP.
type SearchHandler struct {
	service SearchService
}

// NewSearchHandler constructs a SearchHandler.
func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{service: svc}
}

// Create starts a search and returns the job while it runs in the background.
func (h *SearchHandler) Create(c echo.Context) error {
	owner, ok := middlewarepkg.OwnerFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	var req dto.SearchRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	job, err := h.service.Submit(c.Request().Context(), owner, service.SubmitInput{
		Query:       req.Query,
		Location:    req.Location,
		Country:     req.Country,
		CompanyType: req.CompanyType,
		RequestID:   middlewarepkg.RequestIDFromContext(c),
	})
	if err != nil {
		return h.fail(c, err, "failed to start search")
	}
	return Success(c, http.StatusCreated, "search started", job)
}

// List returns the caller's searches, newest first.
func (h *SearchHandler) List(c echo.Context) error {
	owner, ok := middlewarepkg.OwnerFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	jobs, err := h.service.List(c.Request().Context(), owner)
	if err != nil {
		return h.fail(c, err, "failed to list searches")
	}
	return Success(c, http.StatusOK, "", jobs)
}

// Get returns one search for status polling.
func (h *SearchHandler) Get(c echo.Context) error {
	owner, ok := middlewarepkg.OwnerFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid search id")
	}

	job, err := h.service.Get(c.Request().Context(), owner, id)
	if err != nil {
		return h.fail(c, err, "failed to load search")
	}
	return Success(c, http.StatusOK, "", job)
}

// Resolve lets a polling client force a stuck search to a final state.
func (h *SearchHandler) Resolve(c echo.Context) error {
	owner, ok := middlewarepkg.OwnerFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid search id")
	}

	var req dto.ResolveSearchRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	status := entity.JobStatus(strings.ToLower(strings.TrimSpace(req.Status)))

	job, err := h.service.Resolve(c.Request().Context(), owner, id, status, req.ErrorMessage)
	if err != nil {
		return h.fail(c, err, "failed to update search")
	}
	return Success(c, http.StatusOK, "search updated", job)
}

// Reap runs one stale-job sweep.
func (h *SearchHandler) Reap(c echo.Context) error {
	n, err := h.service.ReapStale(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "failed to reap searches")
	}
	return Success(c, http.StatusOK, "stale searches failed", map[string]int{"reaped": n})
}

func (h *SearchHandler) fail(c echo.Context, err error, fallback string) error {
	var valErr service.ValidationError
	switch {
	case errors.As(err, &valErr):
		return Error(c, http.StatusBadRequest, valErr.Message)
	case errors.Is(err, repository.ErrJobNotFound):
		return Error(c, http.StatusNotFound, "search not found")
	case errors.Is(err, service.ErrForbidden):
		return Error(c, http.StatusForbidden, "search belongs to another user")
	case errors.Is(err, repository.ErrInvalidTransition):
		return Error(c, http.StatusConflict, "search already finished")
	}
	middlewarepkg.LoggerFromContext(c).Error(fallback, zap.Error(err))
	return Error(c, http.StatusInternalServerError, fallback)
}
