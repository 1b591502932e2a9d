package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
)

func wide() model.Filters {
	return model.DefaultFilters(model.YearRange{Min: -1000, Max: 3000})
}

func euler() model.Record {
	return model.Record{
		ID:                     "Euler",
		Name:                   "Leonhard Euler",
		Born:                   model.DateInfo{Year: model.Year(1707), Place: "Basel, Switzerland"},
		Died:                   model.DateInfo{Year: model.Year(1783), Place: "St Petersburg, Russia"},
		LivedIn:                []string{"Berlin, Germany"},
		WorkedIn:               []string{"St Petersburg Academy"},
		Religions:              []string{"Protestant"},
		Profession:             []string{"Mathematician", "Physicist"},
		InstitutionAffiliation: []string{"Berlin Academy"},
	}
}

func TestYearFacet(t *testing.T) {
	yr := model.YearRange{Min: 1620, Max: 1670}

	tests := []struct {
		name           string
		born, died     *int
		includeUnknown bool
		want           bool
	}{
		{"born inside", model.Year(1650), nil, false, true},
		{"born on lower bound", model.Year(1620), nil, false, true},
		{"born on upper bound", model.Year(1670), nil, false, true},
		{"born outside", model.Year(1700), model.Year(1660), false, false},
		{"estimated from death", nil, model.Year(1700), false, true},
		{"estimate outside", nil, model.Year(1730), false, false},
		{"both unknown excluded", nil, nil, false, false},
		{"both unknown included", nil, nil, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := model.Record{Born: model.DateInfo{Year: tt.born}, Died: model.DateInfo{Year: tt.died}}
			assert.Equal(t, tt.want, YearFacet(yr, tt.includeUnknown)(r))
		})
	}
}

func TestInclude_BirthEstimatedFromDeath(t *testing.T) {
	r := model.Record{ID: "x", Died: model.DateInfo{Year: model.Year(1700)}}
	f := model.DefaultFilters(model.YearRange{Min: 1620, Max: 1670})
	assert.True(t, Include(r, f))
}

func TestInclude_UnknownYearsExcludedRegardlessOfRange(t *testing.T) {
	r := model.Record{ID: "x"}
	for _, yr := range []model.YearRange{{Min: 1620, Max: 1670}, {Min: -5000, Max: 5000}} {
		assert.False(t, Include(r, model.DefaultFilters(yr)))
		assert.True(t, Include(r, model.DefaultFilters(yr).WithIncludeUnknown(true)))
	}
}

func TestInclude_Locations(t *testing.T) {
	r := euler()
	assert.True(t, Include(r, wide().WithLocations([]string{"Switzerland"})))
	assert.True(t, Include(r, wide().WithLocations([]string{"Russia", "Italy"})))
	assert.True(t, Include(r, wide().WithLocations([]string{"Berlin, Germany"})))
	assert.False(t, Include(r, wide().WithLocations([]string{"France"})))

	bare := model.Record{ID: "y", Born: model.DateInfo{Year: model.Year(1700)}}
	assert.False(t, Include(bare, wide().WithLocations([]string{"France"})))
	assert.True(t, Include(bare, wide()))
}

func TestInclude_ExactListFacets(t *testing.T) {
	r := euler()

	assert.True(t, Include(r, wide().WithReligions([]string{"Protestant", "Catholic"})))
	assert.False(t, Include(r, wide().WithReligions([]string{"protestant"})))

	assert.True(t, Include(r, wide().WithInstitutions([]string{"Berlin Academy"})))
	assert.False(t, Include(r, wide().WithInstitutions([]string{"Paris Academy"})))

	assert.True(t, Include(r, wide().WithWorkedIn([]string{"St Petersburg Academy"})))
	assert.False(t, Include(r, wide().WithWorkedIn([]string{"Berlin Academy"})))

	assert.True(t, Include(r, wide().WithProfessions([]string{"Physicist"})))
	assert.False(t, Include(r, wide().WithProfessions([]string{"Astronomer"})))

	missing := model.Record{ID: "z", Born: model.DateInfo{Year: model.Year(1700)}}
	assert.False(t, Include(missing, wide().WithReligions([]string{"Protestant"})))
}

func TestInclude_IsConjunctionOfFacets(t *testing.T) {
	records := []model.Record{
		euler(),
		{ID: "a", Born: model.DateInfo{Year: model.Year(1750)}, Religions: []string{"Catholic"}, LivedIn: []string{"Paris, France"}},
		{ID: "b", Died: model.DateInfo{Year: model.Year(1790)}, Religions: []string{"Protestant"}, LivedIn: []string{"Lyon, France"}},
		{ID: "c", Religions: []string{"Protestant"}},
		{ID: "d", Born: model.DateInfo{Year: model.Year(1720)}, Profession: []string{"Physicist"}},
	}

	yr := model.YearRange{Min: 1700, Max: 1760}
	first := []model.Filters{
		model.DefaultFilters(yr).WithLocations([]string{"France"}),
		model.DefaultFilters(yr).WithLocations([]string{"Russia"}),
		model.DefaultFilters(yr),
	}
	second := []model.Filters{
		model.DefaultFilters(yr).WithReligions([]string{"Protestant"}),
		model.DefaultFilters(yr).WithProfessions([]string{"Physicist"}),
		model.DefaultFilters(yr).WithInstitutions([]string{"Berlin Academy"}),
	}

	for _, f1 := range first {
		for _, f2 := range second {
			merged := f1.WithReligions(f2.Religions).WithProfessions(f2.Professions).WithInstitutions(f2.Institutions)
			for _, r := range records {
				assert.Equal(t, Include(r, f1) && Include(r, f2), Include(r, merged), "record %s", r.ID)
			}
		}
	}
}

func TestApply_PreservesOrder(t *testing.T) {
	records := []model.Record{
		{ID: "c", Born: model.DateInfo{Year: model.Year(1760)}},
		{ID: "a", Born: model.DateInfo{Year: model.Year(1900)}},
		{ID: "b", Born: model.DateInfo{Year: model.Year(1755)}},
	}
	got := Apply(records, model.DefaultFilters(model.YearRange{Min: 1750, Max: 1800}))
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Len(t, records, 3)

	assert.Empty(t, Apply(nil, wide()))
}

func TestApply_Deterministic(t *testing.T) {
	records := []model.Record{euler(), {ID: "x"}}
	f := wide().WithLocations([]string{"Russia"})
	assert.Equal(t, Apply(records, f), Apply(records, f))
}

func TestCoarseRange(t *testing.T) {
	f := model.DefaultFilters(model.YearRange{Min: 1750, Max: 1800})
	assert.Equal(t, model.YearRange{Min: 1750, Max: 1850}, CoarseRange(f))
}
