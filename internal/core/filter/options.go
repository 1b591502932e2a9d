package filter

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
)

// Options lists the distinct values each facet can be set to, derived from a
// fetched record set.
type Options struct {
	Locations    []string         `json:"locations"`
	Religions    []string         `json:"religions"`
	Institutions []string         `json:"institutions"`
	WorkedIn     []string         `json:"worked_in"`
	Professions  []string         `json:"professions"`
	Names        []string         `json:"names"`
	BirthYears   *model.YearRange `json:"birth_years,omitempty"`
}

// CollectOptions gathers trimmed, distinct values per facet in collation
// order, so "Élie" sorts next to "Elie" rather than after "Zorn".
func CollectOptions(records []model.Record) Options {
	var (
		locations    = newValueSet()
		religions    = newValueSet()
		institutions = newValueSet()
		workedIn     = newValueSet()
		professions  = newValueSet()
		names        = newValueSet()
		years        *model.YearRange
	)

	for _, r := range records {
		locations.add(r.Locations()...)
		religions.add(r.Religions...)
		institutions.add(r.InstitutionAffiliation...)
		workedIn.add(r.WorkedIn...)
		professions.add(r.Profession...)
		names.add(r.Name)

		if !r.Born.HasYear() {
			continue
		}
		y := *r.Born.Year
		if years == nil {
			years = &model.YearRange{Min: y, Max: y}
			continue
		}
		years.Min = min(years.Min, y)
		years.Max = max(years.Max, y)
	}

	col := collate.New(language.English)
	return Options{
		Locations:    locations.sorted(col),
		Religions:    religions.sorted(col),
		Institutions: institutions.sorted(col),
		WorkedIn:     workedIn.sorted(col),
		Professions:  professions.sorted(col),
		Names:        names.sorted(col),
		BirthYears:   years,
	}
}

type valueSet map[string]struct{}

func newValueSet() valueSet { return valueSet{} }

func (s valueSet) add(values ...string) {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			s[v] = struct{}{}
		}
	}
}

func (s valueSet) sorted(col *collate.Collator) []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b string) int {
		if c := col.CompareString(a, b); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return out
}
