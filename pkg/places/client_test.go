package places

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextSearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/places:searchText", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.Contains(t, r.Header.Get("X-Goog-FieldMask"), "places.websiteUri")
		assert.Contains(t, r.Header.Get("X-Goog-FieldMask"), "places.businessStatus")

		var body TextSearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Steuerberater in Wien", body.TextQuery)
		assert.Equal(t, "de", body.LanguageCode)
		assert.Equal(t, 20, body.MaxResultCount)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"places":[{
			"id":"ChIJ123",
			"displayName":{"text":"Huber Steuerberatung GmbH","languageCode":"de"},
			"formattedAddress":"Stephansplatz 1, 1010 Wien, Österreich",
			"internationalPhoneNumber":"+43 1 234567",
			"nationalPhoneNumber":"01 234567",
			"websiteUri":"https://huber-steuer.at/",
			"rating":4.7,
			"userRatingCount":58,
			"googleMapsUri":"https://maps.google.com/?cid=1",
			"businessStatus":"OPERATIONAL",
			"types":["accounting","point_of_interest"]
		}]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL+"/"))
	got, err := client.TextSearch(context.Background(), TextSearchRequest{
		TextQuery:      "Steuerberater in Wien",
		LanguageCode:   "de",
		MaxResultCount: 20,
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	place := got[0]
	assert.Equal(t, "ChIJ123", place.ID)
	assert.Equal(t, "Huber Steuerberatung GmbH", place.DisplayName.Text)
	assert.Equal(t, "https://huber-steuer.at/", place.WebsiteURI)
	require.NotNil(t, place.Rating)
	assert.InDelta(t, 4.7, *place.Rating, 0.001)
	require.NotNil(t, place.UserRatingCount)
	assert.Equal(t, 58, *place.UserRatingCount)
	assert.Equal(t, BusinessStatusOperational, place.BusinessStatus)
	assert.Equal(t, []string{"accounting", "point_of_interest"}, place.Types)
}

func TestTextSearch_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	got, err := NewClient("test-key", WithBaseURL(srv.URL)).TextSearch(context.Background(), TextSearchRequest{TextQuery: "nothing"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTextSearch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "backend unavailable"}`))
	}))
	defer srv.Close()

	got, err := NewClient("key", WithBaseURL(srv.URL)).TextSearch(context.Background(), TextSearchRequest{TextQuery: "x"})
	require.Error(t, err)
	assert.Nil(t, got)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "backend unavailable")
}

func TestTextSearch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient("key", WithBaseURL(srv.URL)).TextSearch(ctx, TextSearchRequest{TextQuery: "x"})
	assert.Error(t, err)
}
