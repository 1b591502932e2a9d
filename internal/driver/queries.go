package driver

// Person nodes carry the full record document as JSON in doc, with the
// birth and death years lifted out for filtering.
const (
	// FetchPersonsQuery over-fetches: persons without a birth year are always
	// returned so the caller can estimate it from the death year.
	FetchPersonsQuery = `
		MATCH (p:Person)
		WHERE p.born_year IS NULL OR (p.born_year >= $min_year AND p.born_year <= $max_year)
		RETURN p.id AS id, p.doc AS doc
		ORDER BY p.id
	`

	GetPersonByIDQuery = `
		MATCH (p:Person {id: $id})
		RETURN p.id AS id, p.doc AS doc
		LIMIT 1
	`
)

var IndexQueries = []string{
	"CREATE INDEX ON :Person(id);",
	"CREATE INDEX ON :Person(born_year);",
}
