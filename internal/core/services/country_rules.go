package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/SscSPs/company_register_app/internal/utils/fuzzy"
	"github.com/biter777/countries"
)

// countryRule holds the postcode, phone and region conventions of one country.
type countryRule struct {
	name            string
	postcodePattern *regexp.Regexp
	postcodeMin     int
	postcodeMax     int
	phonePatterns   []*regexp.Regexp
	regions         []string
}

var nzRegions = []string{
	"Northland", "Auckland", "Waikato", "Bay of Plenty", "Gisborne", "Hawke's Bay",
	"Taranaki", "Manawatū-Whanganui", "Wellington", "Tasman", "Nelson", "Marlborough",
	"West Coast", "Canterbury", "Otago", "Southland",
}

var auStates = []string{"NSW", "VIC", "QLD", "SA", "WA", "TAS", "NT", "ACT"}

var countryRules = map[string]countryRule{
	"NZ": {
		name:            "New Zealand",
		postcodePattern: regexp.MustCompile(`^\d{4}$`),
		postcodeMin:     1000,
		postcodeMax:     9999,
		phonePatterns: []*regexp.Regexp{
			regexp.MustCompile(`^(\+64|0)[3-79]\d{7}$`),   // landline
			regexp.MustCompile(`^(\+64|0)2[0-9]\d{6,8}$`), // mobile
			regexp.MustCompile(`^0(800|508)\d{6}$`),       // freephone
		},
		regions: nzRegions,
	},
	"AU": {
		name:            "Australia",
		postcodePattern: regexp.MustCompile(`^\d{4}$`),
		postcodeMin:     200,
		postcodeMax:     9999,
		phonePatterns: []*regexp.Regexp{
			regexp.MustCompile(`^(\+61|0)[2378]\d{8}$`), // landline
			regexp.MustCompile(`^(\+61|0)4\d{8}$`),      // mobile
			regexp.MustCompile(`^1[38]00\d{6}$`),        // 1300 / 1800
			regexp.MustCompile(`^13\d{4}$`),             // 13 numbers
		},
		regions: auStates,
	},
}

var (
	genericPhonePattern = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)
	phoneNoise          = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
	poBoxPattern        = regexp.MustCompile(`(?i)\b(p\s*\.?\s*o\s*\.?\s*box|post\s+office\s+box|private\s+bag|locked\s+bag)\s*(?:no\.?\s*|#\s*)?\d`)
)

// personalEmailProviders are matched against the first label of the email domain.
var personalEmailProviders = []string{"gmail", "yahoo", "hotmail", "outlook"}

func normalizePhone(phone string) string {
	return phoneNoise.Replace(strings.TrimSpace(phone))
}

func (r countryRule) postcodeValid(postcode string) bool {
	if !r.postcodePattern.MatchString(postcode) {
		return false
	}
	n, err := strconv.Atoi(postcode)
	if err != nil {
		return false
	}
	return n >= r.postcodeMin && n <= r.postcodeMax
}

func (r countryRule) phoneValid(phone string) bool {
	normalized := normalizePhone(phone)
	for _, p := range r.phonePatterns {
		if p.MatchString(normalized) {
			return true
		}
	}
	return false
}

// canonicalRegion returns the canonical spelling of region, if it is one.
func (r countryRule) canonicalRegion(region string) (string, bool) {
	folded := fuzzy.Fold(region)
	for _, candidate := range r.regions {
		if fuzzy.Fold(candidate) == folded {
			return candidate, true
		}
	}
	return "", false
}

// regionSuggestions returns the closest canonical regions, or all of them when nothing is close.
func (r countryRule) regionSuggestions(region string) []string {
	if near := fuzzy.Closest(region, r.regions, 3, 3); len(near) > 0 {
		return near
	}
	return r.regions
}

// isoCountry resolves a two-letter code against ISO 3166-1.
func isoCountry(code string) (countries.CountryCode, bool) {
	c := countries.ByName(code)
	if !c.IsValid() || c.Alpha2() != strings.ToUpper(code) {
		return countries.Unknown, false
	}
	return c, true
}

// phoneMatchesCountry reports whether an international number starts with one of the country's calling codes.
// Numbers in national format cannot be attributed and always match.
func phoneMatchesCountry(phone string, country countries.CountryCode) bool {
	normalized := normalizePhone(phone)
	if !strings.HasPrefix(normalized, "+") {
		return true
	}
	codes := country.CallCodes()
	if len(codes) == 0 {
		return true
	}
	for _, cc := range codes {
		if strings.HasPrefix(normalized, "+"+strconv.Itoa(int(cc))) {
			return true
		}
	}
	return false
}

func isPersonalEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	label, _, _ := strings.Cut(domain, ".")
	for _, provider := range personalEmailProviders {
		if label == provider {
			return true
		}
	}
	return false
}

func looksLikePOBox(lines ...string) bool {
	for _, l := range lines {
		if poBoxPattern.MatchString(l) {
			return true
		}
	}
	return false
}
