package entity

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus tracks a lead through the sales workflow.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusEnriched  LeadStatus = "enriched"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusClosed    LeadStatus = "closed"
)

// Lead is one discovered business with its best-known contact and decision maker.
// Company is always set; everything else is best effort.
type Lead struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	SearchJobID *uuid.UUID `json:"search_job_id,omitempty"`

	Company   string  `json:"company"`
	LegalForm *string `json:"legal_form,omitempty"`
	Industry  *string `json:"industry,omitempty"`

	Address    *string `json:"address,omitempty"`
	Street     *string `json:"street,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	City       *string `json:"city,omitempty"`
	Country    *string `json:"country,omitempty"`

	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Website *string `json:"website,omitempty"`

	CEOName      *string `json:"ceo_name,omitempty"`
	CEOFirstName *string `json:"ceo_first_name,omitempty"`
	CEOLastName  *string `json:"ceo_last_name,omitempty"`
	CEOTitle     *string `json:"ceo_title,omitempty"`
	CEOGender    *string `json:"ceo_gender,omitempty"`
	CEOSource    *string `json:"ceo_source,omitempty"`

	GooglePlaceID      *string  `json:"google_place_id,omitempty"`
	GoogleRating       *float64 `json:"google_rating,omitempty"`
	GoogleReviewsCount *int     `json:"google_reviews_count,omitempty"`

	SocialLinkedIn  *string `json:"social_linkedin,omitempty"`
	SocialFacebook  *string `json:"social_facebook,omitempty"`
	SocialInstagram *string `json:"social_instagram,omitempty"`
	SocialXing      *string `json:"social_xing,omitempty"`
	SocialTwitter   *string `json:"social_twitter,omitempty"`
	SocialYouTube   *string `json:"social_youtube,omitempty"`
	SocialTikTok    *string `json:"social_tiktok,omitempty"`

	Status         LeadStatus     `json:"status"`
	SearchQuery    *string        `json:"search_query,omitempty"`
	SearchLocation *string        `json:"search_location,omitempty"`
	RawData        map[string]any `json:"raw_data,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
