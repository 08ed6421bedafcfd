package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"google.golang.org/api/idtoken"

	"github.com/octobees/lead-enricher/internal/entity"
)

// JobPayload is the body posted to the external workflow.
type JobPayload struct {
	JobID       uuid.UUID `json:"job_id"`
	UserID      uuid.UUID `json:"user_id"`
	Query       string    `json:"query"`
	Location    string    `json:"location"`
	Country     string    `json:"country"`
	CompanyType string    `json:"company_type"`
}

// PayloadFor builds the webhook body of a job.
func PayloadFor(job entity.SearchJob) JobPayload {
	return JobPayload{
		JobID:       job.ID,
		UserID:      job.UserID,
		Query:       job.Query,
		Location:    job.Location,
		Country:     job.Country,
		CompanyType: job.CompanyType,
	}
}

// StatusError reports a non-2xx answer from the workflow.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("workflow webhook returned status %d", e.StatusCode)
}

// WebhookPoster hands a job to an external workflow.
type WebhookPoster interface {
	Post(ctx context.Context, payload JobPayload, requestID string) error
}

// WebhookClient posts jobs to a workflow URL. Transport failures are returned
// as plain errors; rejected deliveries as *StatusError.
type WebhookClient struct {
	client *http.Client
	url    string
}

// NewWebhookClient builds a client for url, using a Google ID token client
// when one can be configured and no client is given.
func NewWebhookClient(client *http.Client, url string) (*WebhookClient, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, eris.New("webhook: url must not be empty")
	}
	if client == nil {
		idc, err := idtoken.NewClient(context.Background(), url)
		if err != nil {
			client = &http.Client{Timeout: 10 * time.Second}
		} else {
			client = idc
		}
	}
	return &WebhookClient{client: client, url: url}, nil
}

// Post delivers payload.
func (c *WebhookClient) Post(ctx context.Context, payload JobPayload, requestID string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "webhook: marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "webhook: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "webhook: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

var _ WebhookPoster = (*WebhookClient)(nil)
