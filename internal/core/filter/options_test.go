package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
)

func TestCollectOptions(t *testing.T) {
	records := []model.Record{
		euler(),
		{
			ID:        "Lagrange",
			Name:      "Joseph-Louis Lagrange",
			Born:      model.DateInfo{Year: model.Year(1736), Place: "Turin, Italy"},
			Died:      model.DateInfo{Place: "Paris, France"},
			LivedIn:   []string{"Berlin, Germany", "  "},
			Religions: []string{"Catholic", "Protestant"},
		},
		{ID: "Elie", Name: "Élie Cartan", Profession: []string{"mathematician"}},
		{ID: "Zorn", Name: "Max Zorn", Born: model.DateInfo{Year: model.Year(1906)}},
	}

	opts := CollectOptions(records)

	assert.Equal(t, []string{
		"Basel, Switzerland",
		"Berlin, Germany",
		"Paris, France",
		"St Petersburg, Russia",
		"Turin, Italy",
	}, opts.Locations)
	assert.Equal(t, []string{"Catholic", "Protestant"}, opts.Religions)
	assert.Equal(t, []string{"Berlin Academy"}, opts.Institutions)
	assert.Equal(t, []string{"St Petersburg Academy"}, opts.WorkedIn)
	assert.Equal(t, []string{"mathematician", "Mathematician", "Physicist"}, opts.Professions)
	assert.Equal(t, []string{"Élie Cartan", "Joseph-Louis Lagrange", "Leonhard Euler", "Max Zorn"}, opts.Names)

	require.NotNil(t, opts.BirthYears)
	assert.Equal(t, model.YearRange{Min: 1707, Max: 1906}, *opts.BirthYears)
}

func TestCollectOptions_Empty(t *testing.T) {
	opts := CollectOptions(nil)
	assert.Empty(t, opts.Locations)
	assert.NotNil(t, opts.Locations)
	assert.Nil(t, opts.BirthYears)
}

func TestCollectOptions_SelectingOwnOptionIncludesRecord(t *testing.T) {
	r := model.Record{
		ID:                     "Mersenne",
		Name:                   "Marin Mersenne",
		Born:                   model.DateInfo{Year: model.Year(1588), Place: " Oizé, France "},
		LivedIn:                []string{"Paris, France"},
		WorkedIn:               []string{" Minim convent"},
		Religions:              []string{" Catholic "},
		Profession:             []string{"Theologian "},
		InstitutionAffiliation: []string{"\tCollège de La Flèche"},
	}
	opts := CollectOptions([]model.Record{r})
	base := wide().WithIncludeUnknown(true)

	for _, loc := range opts.Locations {
		assert.True(t, Include(r, base.WithLocations([]string{loc})), "location %q", loc)
	}
	for _, v := range opts.Religions {
		assert.True(t, Include(r, base.WithReligions([]string{v})), "religion %q", v)
	}
	for _, v := range opts.Institutions {
		assert.True(t, Include(r, base.WithInstitutions([]string{v})), "institution %q", v)
	}
	for _, v := range opts.WorkedIn {
		assert.True(t, Include(r, base.WithWorkedIn([]string{v})), "workplace %q", v)
	}
	for _, v := range opts.Professions {
		assert.True(t, Include(r, base.WithProfessions([]string{v})), "profession %q", v)
	}
	assert.Equal(t, []string{"Catholic"}, opts.Religions)
}
