package model

import "slices"

// YearRange is an inclusive range of signed years (negative years are BC).
type YearRange struct {
	Min int `json:"min" toml:"min" yaml:"min" validate:"ltefield=Max"`
	Max int `json:"max" toml:"max" yaml:"max"`
}

// Contains reports whether year lies within the range, bounds included.
func (y YearRange) Contains(year int) bool {
	return year >= y.Min && year <= y.Max
}

// Covers reports whether other lies entirely within y.
func (y YearRange) Covers(other YearRange) bool {
	return other.Min >= y.Min && other.Max <= y.Max
}

// Union returns the smallest range covering both y and other.
func (y YearRange) Union(other YearRange) YearRange {
	return YearRange{Min: min(y.Min, other.Min), Max: max(y.Max, other.Max)}
}

// Filters is the committed state of every facet. It is replaced wholesale on
// each commit; the With* helpers return modified copies.
type Filters struct {
	YearRange      YearRange `json:"year_range"`
	Locations      []string  `json:"locations"`
	Religions      []string  `json:"religions"`
	Institutions   []string  `json:"institutions"`
	WorkedIn       []string  `json:"worked_in"`
	Professions    []string  `json:"professions"`
	IncludeUnknown bool      `json:"include_unknown"`
}

func DefaultFilters(yearRange YearRange) Filters {
	return Filters{
		YearRange:    yearRange,
		Locations:    []string{},
		Religions:    []string{},
		Institutions: []string{},
		WorkedIn:     []string{},
		Professions:  []string{},
	}
}

// Clone returns a deep copy.
func (f Filters) Clone() Filters {
	return Filters{
		YearRange:      f.YearRange,
		Locations:      slices.Clone(f.Locations),
		Religions:      slices.Clone(f.Religions),
		Institutions:   slices.Clone(f.Institutions),
		WorkedIn:       slices.Clone(f.WorkedIn),
		Professions:    slices.Clone(f.Professions),
		IncludeUnknown: f.IncludeUnknown,
	}
}

func (f Filters) WithYearRange(r YearRange) Filters {
	c := f.Clone()
	c.YearRange = r
	return c
}

func (f Filters) WithLocations(paths []string) Filters {
	c := f.Clone()
	c.Locations = slices.Clone(paths)
	return c
}

func (f Filters) WithReligions(values []string) Filters {
	c := f.Clone()
	c.Religions = slices.Clone(values)
	return c
}

func (f Filters) WithInstitutions(values []string) Filters {
	c := f.Clone()
	c.Institutions = slices.Clone(values)
	return c
}

func (f Filters) WithWorkedIn(values []string) Filters {
	c := f.Clone()
	c.WorkedIn = slices.Clone(values)
	return c
}

func (f Filters) WithProfessions(values []string) Filters {
	c := f.Clone()
	c.Professions = slices.Clone(values)
	return c
}

func (f Filters) WithIncludeUnknown(include bool) Filters {
	c := f.Clone()
	c.IncludeUnknown = include
	return c
}
