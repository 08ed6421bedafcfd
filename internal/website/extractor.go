// Package website fetches a handful of pages from a company website and
// pulls contact details and social profiles out of them.
package website

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	userAgent        = "Mozilla/5.0 (compatible; LeadBot/1.0)"
	defaultTimeout   = 8 * time.Second
	maxBodyBytes     = 1 << 20
	maxPageTextRunes = 2000
	maxTextRunes     = 8000
)

// Signal is everything gathered from one website.
type Signal struct {
	Emails      []string
	Phones      []string
	Text        string
	PagesLoaded []string
	Socials     map[Platform]string
}

func newSignal() *Signal {
	return &Signal{Socials: make(map[Platform]string)}
}

// AddPage folds one fetched page into the signal. Social links already found
// on an earlier page are never overwritten.
func (s *Signal) AddPage(category, document string) {
	s.Emails = appendUnique(s.Emails, ExtractEmails(document)...)
	s.Phones = appendUnique(s.Phones, ExtractPhones(document)...)
	for platform, link := range ExtractSocials(document) {
		if _, exists := s.Socials[platform]; !exists {
			s.Socials[platform] = link
		}
	}

	text := truncateRunes(VisibleText(document), maxPageTextRunes)
	s.Text = truncateRunes(s.Text+"\n\n=== "+strings.ToUpper(category)+" ===\n"+text+"\n", maxTextRunes)
	s.PagesLoaded = appendUnique(s.PagesLoaded, category)
}

// Social returns the link for platform, or nil when none was found.
func (s *Signal) Social(platform Platform) *string {
	if s == nil {
		return nil
	}
	link, ok := s.Socials[platform]
	if !ok {
		return nil
	}
	return &link
}

// HasPage reports whether a page of the given category was loaded.
func (s *Signal) HasPage(category string) bool {
	if s == nil {
		return false
	}
	for _, loaded := range s.PagesLoaded {
		if loaded == category {
			return true
		}
	}
	return false
}

// Extractor fetches website pages over HTTP.
type Extractor struct {
	client  *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithHTTPClient overrides the HTTP client used for page fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Extractor) {
		if client != nil {
			e.client = client
		}
	}
}

// WithPageTimeout bounds each individual page fetch.
func WithPageTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger used for skipped pages.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor builds an Extractor with an 8 second per-page timeout.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		client:  &http.Client{},
		timeout: defaultTimeout,
		logger:  zap.L(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract visits the homepage and the well-known sub pages of baseURL. Pages
// that fail, return a non-2xx status or are not HTML are skipped. The boolean
// is false when baseURL is empty and nothing was attempted.
func (e *Extractor) Extract(ctx context.Context, baseURL string) (*Signal, bool) {
	pages := PageURLs(baseURL)
	if len(pages) == 0 {
		return nil, false
	}

	signal := newSignal()
	for _, page := range pages {
		if ctx.Err() != nil {
			break
		}
		document, err := e.fetch(ctx, page.URL)
		if err != nil {
			e.logger.Debug("website page skipped", zap.String("url", page.URL), zap.Error(err))
			continue
		}
		signal.AddPage(page.Category, document)
	}
	return signal, true
}

func (e *Extractor) fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &statusError{code: resp.StatusCode}
	}
	if !strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "text/html") {
		return "", errNotHTML
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		dup := false
		for _, existing := range dst {
			if existing == v {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, v)
		}
	}
	return dst
}
