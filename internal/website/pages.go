package website

import "strings"

// Page categories fetched for every website.
const (
	CategoryHomepage  = "homepage"
	CategoryImpressum = "impressum"
	CategoryAbout     = "about"
	CategoryTeam      = "team"
	CategoryContact   = "contact"
)

const maxPagesPerCategory = 2

// Page is one URL scheduled for fetching.
type Page struct {
	Category string
	URL      string
}

var categoryPaths = []struct {
	category string
	paths    []string
}{
	{CategoryImpressum, []string{"/impressum", "/imprint"}},
	{CategoryAbout, []string{"/ueber-uns", "/about", "/about-us", "/unternehmen"}},
	{CategoryTeam, []string{"/team", "/unser-team", "/partner", "/geschaeftsfuehrung", "/management"}},
	{CategoryContact, []string{"/kontakt", "/contact"}},
}

// PageURLs returns the homepage plus at most two candidate URLs per category.
func PageURLs(base string) []Page {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil
	}

	pages := []Page{{Category: CategoryHomepage, URL: base}}
	for _, cp := range categoryPaths {
		for i, path := range cp.paths {
			if i == maxPagesPerCategory {
				break
			}
			pages = append(pages, Page{Category: cp.category, URL: base + path})
		}
	}
	return pages
}
