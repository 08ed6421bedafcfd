// Package langsearch is a client for the LangSearch web search API.
package langsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.langsearch.com"

// Client performs web searches.
type Client interface {
	WebSearch(ctx context.Context, req Request) ([]Result, error)
}

// Request is the body of a web-search call.
type Request struct {
	Query     string `json:"query"`
	Freshness string `json:"freshness,omitempty"`
	Summary   bool   `json:"summary"`
	Count     int    `json:"count,omitempty"`
}

// Result is one web page hit.
type Result struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Summary string `json:"summary"`
}

type webPages struct {
	Value []Result `json:"value"`
}

// response accepts both the bare and the enveloped payload shapes.
type response struct {
	WebPages *webPages `json:"webPages"`
	Data     *struct {
		WebPages *webPages `json:"webPages"`
	} `json:"data"`
}

func (r response) results() []Result {
	if r.WebPages != nil {
		return r.WebPages.Value
	}
	if r.Data != nil && r.Data.WebPages != nil {
		return r.Data.WebPages.Value
	}
	return nil
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("langsearch: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit throttles outgoing searches to n per interval.
func WithRateLimit(n int, interval time.Duration) Option {
	return func(c *httpClient) {
		if n <= 0 || interval <= 0 {
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(interval/time.Duration(n)), n)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a LangSearch client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) WebSearch(ctx context.Context, in Request) ([]Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "langsearch: rate limit wait")
		}
	}

	body, err := json.Marshal(in)
	if err != nil {
		return nil, eris.Wrap(err, "langsearch: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/web-search", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "langsearch: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "langsearch: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "langsearch: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	var out response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, eris.Wrap(err, "langsearch: unmarshal response")
	}
	return out.results(), nil
}
