package repository

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/octobees/lead-enricher/internal/entity"
)

const jobColumns = `id, user_id, query, location, country, company_type, status, results_count, error_message, started_at, completed_at, created_at, updated_at`

var leadColumns = []string{
	"id", "user_id", "search_job_id", "company", "legal_form", "industry",
	"address", "street", "postal_code", "city", "country",
	"phone", "email", "website",
	"ceo_name", "ceo_first_name", "ceo_last_name", "ceo_title", "ceo_gender", "ceo_source",
	"google_place_id", "google_rating", "google_reviews_count",
	"social_linkedin", "social_facebook", "social_instagram", "social_xing",
	"social_twitter", "social_youtube", "social_tiktok",
	"status", "search_query", "search_location", "raw_data",
	"created_at", "updated_at",
}

// insertLeadSQL builds an INSERT for one lead; placeholder renders the
// n-th (1-based) bind parameter.
func insertLeadSQL(placeholder func(n int) string) string {
	params := make([]string, len(leadColumns))
	for i := range leadColumns {
		params[i] = placeholder(i + 1)
	}
	return "INSERT INTO leads (" + strings.Join(leadColumns, ", ") + ") VALUES (" + strings.Join(params, ", ") + ")"
}

// leadArgs returns the bind values in leadColumns order.
func leadArgs(lead entity.Lead) ([]any, error) {
	raw, err := json.Marshal(lead.RawData)
	if err != nil {
		return nil, eris.Wrapf(err, "repository: marshal raw_data for %q", lead.Company)
	}
	return []any{
		lead.ID, lead.UserID, lead.SearchJobID, lead.Company, lead.LegalForm, lead.Industry,
		lead.Address, lead.Street, lead.PostalCode, lead.City, lead.Country,
		lead.Phone, lead.Email, lead.Website,
		lead.CEOName, lead.CEOFirstName, lead.CEOLastName, lead.CEOTitle, lead.CEOGender, lead.CEOSource,
		lead.GooglePlaceID, lead.GoogleRating, lead.GoogleReviewsCount,
		lead.SocialLinkedIn, lead.SocialFacebook, lead.SocialInstagram, lead.SocialXing,
		lead.SocialTwitter, lead.SocialYouTube, lead.SocialTikTok,
		string(lead.Status), lead.SearchQuery, lead.SearchLocation, raw,
		lead.CreatedAt, lead.UpdatedAt,
	}, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanJob(row scannable) (*entity.SearchJob, error) {
	var (
		job    entity.SearchJob
		status string
	)
	if err := row.Scan(
		&job.ID, &job.UserID, &job.Query, &job.Location, &job.Country, &job.CompanyType,
		&status, &job.ResultsCount, &job.ErrorMessage, &job.StartedAt, &job.CompletedAt,
		&job.CreatedAt, &job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	job.Status = entity.JobStatus(status)
	return &job, nil
}
