package discovery

import (
	"regexp"
	"strings"
)

// Company types accepted by a search. CompanyTypeAll disables filtering.
const (
	CompanyTypeAll      = "all"
	CompanyTypeGmbH     = "gmbh"
	CompanyTypeEU       = "eu"
	CompanyTypeAG       = "ag"
	CompanyTypeOG       = "og"
	CompanyTypeKG       = "kg"
	CompanyTypeGmbHCoKG = "gmbh_cokg"
)

// Order matters: "GmbH & Co KG" must be tried before GmbH and KG.
var legalForms = []struct {
	companyType string
	form        string
	pattern     *regexp.Regexp
}{
	{CompanyTypeGmbHCoKG, "GmbH & Co KG", regexp.MustCompile(`(?i)\bGmbH\s*(?:&|und)\s*Co\.?\s*KG\b`)},
	{CompanyTypeGmbH, "GmbH", regexp.MustCompile(`(?i)\bGmbH\b|\bGes\.?\s*m\.?\s*b\.?\s*H\b`)},
	{CompanyTypeAG, "AG", regexp.MustCompile(`\bAG\b`)},
	{CompanyTypeOG, "OG", regexp.MustCompile(`\bOG\b`)},
	{CompanyTypeKG, "KG", regexp.MustCompile(`\bKG\b`)},
	{CompanyTypeEU, "e.U.", regexp.MustCompile(`\be\.\s?U\.?(?:\s|$)`)},
}

// ValidCompanyType reports whether companyType is a known filter value.
func ValidCompanyType(companyType string) bool {
	if companyType == CompanyTypeAll {
		return true
	}
	for _, lf := range legalForms {
		if lf.companyType == companyType {
			return true
		}
	}
	return false
}

// LegalForm returns the display form and company type detected in a company
// name, or empty strings when none is recognised.
func LegalForm(name string) (form, companyType string) {
	for _, lf := range legalForms {
		if lf.pattern.MatchString(name) {
			return lf.form, lf.companyType
		}
	}
	return "", ""
}

// FilterByCompanyType keeps candidates whose name carries the requested legal
// form. An empty type or CompanyTypeAll keeps everything.
func FilterByCompanyType(candidates []Candidate, companyType string) []Candidate {
	companyType = strings.ToLower(strings.TrimSpace(companyType))
	if companyType == "" || companyType == CompanyTypeAll {
		return candidates
	}
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ct := LegalForm(c.Name); ct == companyType {
			kept = append(kept, c)
		}
	}
	return kept
}
