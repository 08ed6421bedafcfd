package discovery

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

var firmPrefixes = map[string][]string{
	"steuerberater": {"Steuerberatung", "Wirtschaftstreuhand", "Tax Consulting", "Steuer & Recht", "Finanz & Steuer"},
	"rechtsanwalt":  {"Rechtsanwälte", "Kanzlei", "Law Office", "Anwaltskanzlei", "Rechtsberatung"},
	"zahnarzt":      {"Zahnarztpraxis", "Dental Center", "Zahnmedizin", "Zahnarzt", "Dentalklinik"},
	"handwerker":    {"Handwerksbetrieb", "Meisterbetrieb", "Bau & Handwerk", "Werkstatt", "Service GmbH"},
	"restaurant":    {"Gasthaus", "Restaurant", "Wirtshaus", "Bistro", "Trattoria"},
	"default":       {"GmbH", "OG", "KG", "e.U.", "AG"},
}

var lastNames = []string{
	"Müller", "Gruber", "Wagner", "Huber", "Pichler", "Steiner",
	"Moser", "Mayer", "Hofer", "Berger", "Fuchs", "Eder",
	"Fischer", "Schmid", "Winkler", "Weber", "Schwarz", "Maier",
	"Bauer", "Wolf",
}

var streets = map[string][]string{
	"wien":     {"Kärntner Straße", "Mariahilfer Straße", "Stephansplatz", "Ringstraße", "Wollzeile", "Tuchlauben", "Graben", "Gonzagagasse", "Seilerstätte", "Singerstraße"},
	"graz":     {"Herrengasse", "Hauptplatz", "Sporgasse", "Murgasse", "Jakominiplatz", "Annenstraße", "Leonhardstraße", "Glacisstraße"},
	"linz":     {"Landstraße", "Hauptplatz", "Klosterstraße", "Herrenstraße", "Domgasse", "Bethlehemstraße", "Mozartstraße"},
	"salzburg": {"Getreidegasse", "Linzer Gasse", "Kaigasse", "Sigmund-Haffner-Gasse", "Mirabellplatz", "Rainerstraße"},
	"münchen":  {"Maximilianstraße", "Leopoldstraße", "Sendlinger Straße", "Kaufingerstraße", "Sonnenstraße", "Schillerstraße"},
	"berlin":   {"Friedrichstraße", "Kurfürstendamm", "Unter den Linden", "Kantstraße", "Torstraße", "Potsdamer Straße"},
	"default":  {"Hauptstraße", "Bahnhofstraße", "Kirchengasse", "Marktplatz", "Schulstraße", "Gartenweg", "Industriestraße", "Parkgasse"},
}

var postalCodes = map[string][]string{
	"wien":     {"1010", "1020", "1030", "1040", "1050", "1060", "1070", "1080", "1090"},
	"graz":     {"8010", "8020", "8036", "8042", "8045"},
	"linz":     {"4020", "4030", "4040"},
	"salzburg": {"5020", "5023", "5026"},
	"münchen":  {"80331", "80333", "80335", "80339", "80469"},
	"berlin":   {"10115", "10117", "10178", "10179", "10435"},
	"default":  {"1000", "2000", "3000", "4000", "5000"},
}

var industryKeywords = []struct {
	industry string
	keywords []string
}{
	{"steuerberater", []string{"steuer", "wirtschaftstreuhand"}},
	{"rechtsanwalt", []string{"anwalt", "kanzlei"}},
	{"zahnarzt", []string{"zahn", "dental"}},
	{"handwerker", []string{"handwerker", "installateur", "elektriker"}},
	{"restaurant", []string{"restaurant", "gasthaus", "lokal"}},
}

// MockProvider generates plausible candidates without any network access.
// Candidates carry no website so enrichment stays offline.
type MockProvider struct {
	mu    sync.Mutex
	rng   *rand.Rand
	delay time.Duration
}

// NewMockProvider creates a generator seeded with seed. A positive delay is
// waited before every search to mimic upstream latency.
func NewMockProvider(seed uint64, delay time.Duration) *MockProvider {
	return &MockProvider{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		delay: delay,
	}
}

func (m *MockProvider) Search(ctx context.Context, query, location, country string) ([]Candidate, error) {
	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	industry := detectIndustry(query)
	locKey := strings.Join(strings.Fields(strings.ToLower(location)), "")
	prefixes := firmPrefixes[industry]
	streetList := lookup(streets, locKey)
	codes := lookup(postalCodes, locKey)
	country = strings.ToUpper(country)

	m.mu.Lock()
	defer m.mu.Unlock()

	count := m.between(5, 10)
	out := make([]Candidate, 0, count)
	for range count {
		lastName := m.pick(lastNames)
		prefix := m.pick(prefixes)
		name := prefix + " " + lastName
		if industry == "default" {
			name = lastName + " " + prefix
		}

		street := fmt.Sprintf("%s %d", m.pick(streetList), m.between(1, 120))
		postal := m.pick(codes)

		var phone string
		if country == "AT" {
			phone = fmt.Sprintf("+43 %d%d %d", m.between(1, 6), m.between(60, 99), m.between(1000000, 9999999))
		} else {
			phone = fmt.Sprintf("+49 %d %d", m.between(30, 89), m.between(1000000, 9999999))
		}

		rating := float64(m.between(30, 50)) / 10
		reviews := m.between(3, 250)

		out = append(out, Candidate{
			PlaceID:            fmt.Sprintf("ChIJ%d", m.between(100000000, 999999999)),
			Name:               name,
			FormattedAddress:   fmt.Sprintf("%s, %s %s", street, postal, location),
			InternationalPhone: phone,
			Rating:             &rating,
			ReviewCount:        &reviews,
			Types:              []string{industry},
			BusinessStatus:     "OPERATIONAL",
			Source:             SourceMock,
		})
	}
	return out, nil
}

func (m *MockProvider) pick(values []string) string {
	return values[m.rng.IntN(len(values))]
}

// between returns a value in [lo, hi].
func (m *MockProvider) between(lo, hi int) int {
	return lo + m.rng.IntN(hi-lo+1)
}

func detectIndustry(query string) string {
	q := strings.ToLower(query)
	for _, entry := range industryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(q, kw) {
				return entry.industry
			}
		}
	}
	return "default"
}

func lookup(table map[string][]string, key string) []string {
	if values, ok := table[key]; ok {
		return values
	}
	return table["default"]
}
