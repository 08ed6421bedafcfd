package website

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func htmlHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}
}

func TestExtractor_Extract(t *testing.T) {
	var userAgents atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
		userAgents.Store(r.Header.Get("User-Agent"))
		htmlHandler(`<html><body><h1>Steuerberatung Huber</h1>
			<a href="mailto:office@huber-steuer.at">Mail</a>
			<a href="https://www.linkedin.com/company/huber-steuer">in</a></body></html>`)(w, r)
	})
	mux.HandleFunc("/impressum", htmlHandler(`<html><body><nav>Start</nav>
		<p>Geschäftsführer: Maria Huber</p><p>E-Mail: m.huber@huber-steuer.at</p>
		<a href="https://www.linkedin.com/company/other">in</a>
		<a href="https://www.facebook.com/hubersteuer">fb</a></body></html>`))
	mux.HandleFunc("/imprint", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	mux.HandleFunc("/ueber-uns", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"json@huber-steuer.at"}`))
	})
	mux.HandleFunc("/kontakt", htmlHandler(`<html><body><p>Tel: +43 316 123456<br></p></body></html>`))

	srv := httptest.NewServer(mux)
	defer srv.Close()

	extractor := NewExtractor(WithHTTPClient(srv.Client()))
	signal, ok := extractor.Extract(context.Background(), srv.URL+"/")
	require.True(t, ok)
	require.NotNil(t, signal)

	assert.Equal(t, []string{"office@huber-steuer.at", "m.huber@huber-steuer.at"}, signal.Emails)
	assert.Equal(t, []string{"+43316123456"}, signal.Phones)
	assert.Equal(t, []string{CategoryHomepage, CategoryImpressum, CategoryContact}, signal.PagesLoaded)
	assert.Equal(t, "https://www.linkedin.com/company/huber-steuer", signal.Socials[LinkedIn])
	assert.Equal(t, "https://www.facebook.com/hubersteuer", signal.Socials[Facebook])
	assert.Contains(t, signal.Text, "=== IMPRESSUM ===")
	assert.Contains(t, signal.Text, "Geschäftsführer: Maria Huber")
	assert.NotContains(t, signal.Text, "Start")
	assert.NotContains(t, signal.Emails, "json@huber-steuer.at")
	assert.Equal(t, userAgent, userAgents.Load())
}

func TestExtractor_EmptyBaseURL(t *testing.T) {
	signal, ok := NewExtractor().Extract(context.Background(), "")
	assert.False(t, ok)
	assert.Nil(t, signal)
}

func TestExtractor_UnreachableSiteYieldsEmptySignal(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	signal, ok := NewExtractor().Extract(context.Background(), url)
	require.True(t, ok)
	assert.Empty(t, signal.Emails)
	assert.Empty(t, signal.PagesLoaded)
	assert.Empty(t, signal.Socials)
}

func TestExtractor_SlowPageSkipped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", htmlHandler(`<p>office@fast.at</p>`))
	mux.HandleFunc("/team", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
			return
		}
		htmlHandler(`<p>slow@fast.at</p>`)(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	extractor := NewExtractor(WithHTTPClient(srv.Client()), WithPageTimeout(50*time.Millisecond))
	signal, ok := extractor.Extract(context.Background(), srv.URL)
	require.True(t, ok)
	assert.Equal(t, []string{"office@fast.at"}, signal.Emails)
	assert.False(t, signal.HasPage(CategoryTeam))
	assert.True(t, signal.HasPage(CategoryHomepage))
}
