// Package postal cross-checks city and postcode pairs against an embedded locality reference.
package postal

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/SscSPs/company_register_app/internal/core/domain"
	"github.com/SscSPs/company_register_app/internal/utils/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed localities.csv
var localitiesCSV []byte

const (
	maxCityDistance = 3
	maxSuggestions  = 3
)

type locality struct {
	Country  string
	Postcode string
	Name     string
}

// Reference answers postal lookups from an in-memory locality table.
type Reference struct {
	byPostcode map[string][]locality
	byName     map[string][]locality
	names      []string
}

// NewReference loads the embedded NZ and AU locality table.
func NewReference() (*Reference, error) {
	return LoadReference(bytes.NewReader(localitiesCSV))
}

// LoadReference reads a country,postcode,locality CSV with a header row.
func LoadReference(r io.Reader) (*Reference, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read locality reference: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("locality reference is empty")
	}

	ref := &Reference{
		byPostcode: make(map[string][]locality),
		byName:     make(map[string][]locality),
	}
	for _, row := range rows[1:] {
		l := locality{Country: strings.TrimSpace(row[0]), Postcode: strings.TrimSpace(row[1]), Name: strings.TrimSpace(row[2])}
		ref.byPostcode[l.Postcode] = append(ref.byPostcode[l.Postcode], l)
		key := fuzzy.Fold(l.Name)
		if _, seen := ref.byName[key]; !seen {
			ref.names = append(ref.names, l.Name)
		}
		ref.byName[key] = append(ref.byName[key], l)
	}
	return ref, nil
}

// Validate reports whether city and postcode belong together. Unknown pairs come back with
// the closest known localities as suggestions. It never fails on bad input.
func (r *Reference) Validate(ctx context.Context, line1, line2, city, postcode string) (domain.PostalLookupResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.PostalLookupResult{}, err
	}
	postcode = strings.TrimSpace(postcode)
	folded := fuzzy.Fold(city)

	for _, l := range r.byPostcode[postcode] {
		if fuzzy.Fold(l.Name) == folded {
			return domain.PostalLookupResult{
				IsValid:          true,
				StandardizedForm: r.standardize(line1, line2, l),
				Suggestions:      []string{},
			}, nil
		}
	}

	return domain.PostalLookupResult{IsValid: false, Suggestions: r.suggest(city, postcode)}, nil
}

// suggest prefers localities sharing the postcode, then postcodes of the named city,
// then localities whose name is close to the city.
func (r *Reference) suggest(city, postcode string) []string {
	out := []string{}
	add := func(l locality) {
		s := l.Name + " " + l.Postcode
		for _, existing := range out {
			if existing == s {
				return
			}
		}
		if len(out) < maxSuggestions {
			out = append(out, s)
		}
	}

	for _, l := range r.byPostcode[postcode] {
		add(l)
	}
	for _, l := range r.byName[fuzzy.Fold(city)] {
		add(l)
	}
	for _, name := range fuzzy.Closest(city, r.names, maxCityDistance, maxSuggestions) {
		for _, l := range r.byName[fuzzy.Fold(name)] {
			add(l)
		}
	}
	return out
}

func (r *Reference) standardize(line1, line2 string, l locality) string {
	// A Caser keeps state, so each call gets its own.
	title := cases.Title(language.English)
	parts := make([]string, 0, 4)
	for _, line := range []string{line1, line2} {
		if s := strings.Join(strings.Fields(line), " "); s != "" {
			parts = append(parts, title.String(s))
		}
	}
	parts = append(parts, l.Name+" "+l.Postcode, l.Country)
	return strings.Join(parts, ", ")
}
