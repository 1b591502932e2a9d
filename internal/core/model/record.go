package model

// DateInfo describes a birth or death event. Year is nil when unknown.
type DateInfo struct {
	Year   *int   `json:"year"`
	Approx bool   `json:"approx"`
	Place  string `json:"place"`
	Link   string `json:"link,omitempty"`
}

// HasYear reports whether the year is known.
func (d DateInfo) HasYear() bool {
	return d.Year != nil
}

// Connection is an outgoing relationship. Key always equals Person.
type Connection struct {
	Person         string `json:"person"`
	ConnectionType string `json:"connection_type"`
	Key            string `json:"key"`
}

// Record matches the document shape of the external store field for field.
type Record struct {
	ID                     string       `json:"id"`
	Name                   string       `json:"name"`
	Summary                string       `json:"summary"`
	Born                   DateInfo     `json:"born"`
	Died                   DateInfo     `json:"died"`
	Picture                string       `json:"picture,omitempty"`
	Connections            []Connection `json:"connections"`
	LivedIn                []string     `json:"lived_in"`
	WorkedIn               []string     `json:"worked_in"`
	Religions              []string     `json:"religions"`
	Profession             []string     `json:"profession"`
	InstitutionAffiliation []string     `json:"institution_affiliation"`
}

// Locations returns every place string attached to the record:
// lived in, worked in, birth place and death place. Empty strings are skipped.
func (r Record) Locations() []string {
	out := make([]string, 0, len(r.LivedIn)+len(r.WorkedIn)+2)
	for _, groups := range [][]string{r.LivedIn, r.WorkedIn} {
		for _, place := range groups {
			if place != "" {
				out = append(out, place)
			}
		}
	}
	if r.Born.Place != "" {
		out = append(out, r.Born.Place)
	}
	if r.Died.Place != "" {
		out = append(out, r.Died.Place)
	}
	return out
}

// Year returns a pointer to y, for building DateInfo literals.
func Year(y int) *int {
	return &y
}
