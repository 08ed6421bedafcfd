// Package address splits Central-European formatted addresses into parts.
package address

import (
	"regexp"
	"strings"
)

// Parts is the result of parsing one formatted address.
type Parts struct {
	Street     *string
	PostalCode *string
	City       *string
	Country    string
}

var countryTokens = []struct {
	token string
	code  string
}{
	{"österreich", "AT"},
	{"austria", "AT"},
	{"deutschland", "DE"},
	{"germany", "DE"},
	{"schweiz", "CH"},
	{"switzerland", "CH"},
	{"suisse", "CH"},
	{"svizzera", "CH"},
	{"liechtenstein", "LI"},
}

var postalCityPattern = regexp.MustCompile(`^(\d{4,5})\s+(.+)$`)

// Parse extracts street, postal code, city and country from a formatted address
// such as "Stephansplatz 1, 1010 Wien, Österreich". The country falls back to
// defaultCountry when no known country name appears in the address.
func Parse(formatted, defaultCountry string) Parts {
	parts := Parts{Country: detectCountry(formatted, defaultCountry)}

	segments := strings.Split(formatted, ",")
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	if street := segments[0]; street != "" {
		parts.Street = &street
	}

	for _, segment := range segments[1:] {
		m := postalCityPattern.FindStringSubmatch(segment)
		if m == nil {
			continue
		}
		postal, city := m[1], strings.TrimSpace(m[2])
		parts.PostalCode = &postal
		parts.City = &city
		break
	}

	return parts
}

func detectCountry(formatted, fallback string) string {
	lowered := strings.ToLower(formatted)
	for _, c := range countryTokens {
		if strings.Contains(lowered, c.token) {
			return c.code
		}
	}
	fallback = strings.ToUpper(strings.TrimSpace(fallback))
	if fallback == "" {
		return "AT"
	}
	return fallback
}
