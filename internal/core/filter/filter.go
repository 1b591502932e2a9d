// Package filter decides which records are visible under the committed
// filters. Every facet is an independent predicate; a record is included
// only when it passes all of them.
package filter

import (
	"strings"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/location"
	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
)

// AverageLifespan is subtracted from a known death year to estimate an
// unknown birth year.
const AverageLifespan = 50

// Facet is a single predicate over a record.
type Facet func(r model.Record) bool

// YearFacet passes records born within yr. Without a birth year the birth is
// estimated from the death year; with neither, includeUnknown decides.
func YearFacet(yr model.YearRange, includeUnknown bool) Facet {
	return func(r model.Record) bool {
		switch {
		case r.Born.HasYear():
			return yr.Contains(*r.Born.Year)
		case r.Died.HasYear():
			return yr.Contains(*r.Died.Year - AverageLifespan)
		default:
			return includeUnknown
		}
	}
}

// LocationFacet passes records with any place matching any selected path.
func LocationFacet(selected []string) Facet {
	if len(selected) == 0 {
		return pass
	}
	return func(r model.Record) bool {
		return location.MatchAny(r.Locations(), selected)
	}
}

func ReligionFacet(selected []string) Facet {
	return intersectFacet(selected, func(r model.Record) []string { return r.Religions })
}

func InstitutionFacet(selected []string) Facet {
	return intersectFacet(selected, func(r model.Record) []string { return r.InstitutionAffiliation })
}

func WorkplaceFacet(selected []string) Facet {
	return intersectFacet(selected, func(r model.Record) []string { return r.WorkedIn })
}

func ProfessionFacet(selected []string) Facet {
	return intersectFacet(selected, func(r model.Record) []string { return r.Profession })
}

// Facets returns the predicates for every facet of f, in a fixed order.
func Facets(f model.Filters) []Facet {
	return []Facet{
		YearFacet(f.YearRange, f.IncludeUnknown),
		LocationFacet(f.Locations),
		ReligionFacet(f.Religions),
		InstitutionFacet(f.Institutions),
		WorkplaceFacet(f.WorkedIn),
		ProfessionFacet(f.Professions),
	}
}

// Include reports whether r passes every facet of f.
func Include(r model.Record, f model.Filters) bool {
	return includeAll(r, Facets(f))
}

// Apply returns the records passing f, in input order.
func Apply(records []model.Record, f model.Filters) []model.Record {
	facets := Facets(f)
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if includeAll(r, facets) {
			out = append(out, r)
		}
	}
	return out
}

// CoarseRange is the window asked from the record source for f. It extends
// past the upper bound so records only datable by death year are fetched too.
func CoarseRange(f model.Filters) model.YearRange {
	return model.YearRange{Min: f.YearRange.Min, Max: f.YearRange.Max + AverageLifespan}
}

func includeAll(r model.Record, facets []Facet) bool {
	for _, facet := range facets {
		if !facet(r) {
			return false
		}
	}
	return true
}

func pass(model.Record) bool { return true }

// intersectFacet passes records sharing a value with selected. Values are
// compared trimmed, the same way CollectOptions offers them.
func intersectFacet(selected []string, field func(model.Record) []string) Facet {
	if len(selected) == 0 {
		return pass
	}
	want := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		want[strings.TrimSpace(s)] = struct{}{}
	}
	return func(r model.Record) bool {
		for _, v := range field(r) {
			if _, ok := want[strings.TrimSpace(v)]; ok {
				return true
			}
		}
		return false
	}
}
