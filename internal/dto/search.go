package dto

// SearchRequest is the payload used to start a lead search.
type SearchRequest struct {
	Query       string `json:"query"`
	Location    string `json:"location"`
	Country     string `json:"country,omitempty"`
	CompanyType string `json:"company_type,omitempty"`
}

// ResolveSearchRequest force-finishes a search that is stuck.
type ResolveSearchRequest struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}
