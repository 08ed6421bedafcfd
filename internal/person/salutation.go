package person

import "strings"

// Salutations stored with a decision maker.
const (
	SalutationHerr      = "herr"
	SalutationFrau      = "frau"
	SalutationUnbekannt = "unbekannt"
)

var femaleFirstNames = map[string]struct{}{
	"anna": {}, "maria": {}, "elisabeth": {}, "katharina": {}, "sandra": {},
	"claudia": {}, "sabine": {}, "monika": {}, "eva": {}, "julia": {},
	"barbara": {}, "birgit": {}, "christina": {}, "petra": {}, "andrea": {},
	"susanne": {}, "karin": {}, "martina": {}, "nicole": {}, "lisa": {},
	"sarah": {}, "theresa": {}, "johanna": {}, "verena": {}, "gabriele": {},
}

var maleFirstNames = map[string]struct{}{
	"thomas": {}, "michael": {}, "andreas": {}, "christian": {}, "stefan": {},
	"wolfgang": {}, "markus": {}, "peter": {}, "martin": {}, "daniel": {},
	"johann": {}, "josef": {}, "franz": {}, "gerhard": {}, "alexander": {},
	"florian": {}, "georg": {}, "manfred": {}, "robert": {}, "herbert": {},
	"klaus": {}, "lukas": {}, "david": {}, "matthias": {}, "bernhard": {},
}

// Salutation guesses the form of address from a first name. Feminine role
// titles ("Geschäftsführerin") in the evidence take precedence.
func Salutation(firstName, evidence string) string {
	lower := strings.ToLower(evidence)
	if strings.Contains(lower, "geschäftsführerin") || strings.Contains(lower, "geschaeftsfuehrerin") || strings.Contains(lower, "inhaberin") {
		return SalutationFrau
	}
	name := strings.ToLower(strings.TrimSpace(firstName))
	if _, ok := femaleFirstNames[name]; ok {
		return SalutationFrau
	}
	if _, ok := maleFirstNames[name]; ok {
		return SalutationHerr
	}
	return SalutationUnbekannt
}
