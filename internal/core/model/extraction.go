package model

// L1Record is a biography parsed from its page without the LLM: connections
// are only the ids of linked biographies.
type L1Record struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Summary     string   `json:"summary"`
	Born        DateInfo `json:"born"`
	Died        DateInfo `json:"died"`
	Picture     string   `json:"picture,omitempty"`
	Connections []string `json:"connections"`
}

// ExtractedAttributes is the LLM reply for the descriptive facets.
type ExtractedAttributes struct {
	LivedIn                []string `json:"lived_in" jsonschema:"description=Places they lived at"`
	WorkedIn               []string `json:"worked_in" jsonschema:"description=Places they worked at"`
	Religions              []string `json:"religions" jsonschema:"description=Religions mentioned, empty if none"`
	Profession             []string `json:"profession" jsonschema:"description=Professions"`
	InstitutionAffiliation []string `json:"institution_affiliation" jsonschema:"description=Institution affiliations"`
}

type ExtractedConnection struct {
	Person         string `json:"person" jsonschema:"description=The connection exactly as listed"`
	ConnectionType string `json:"connection_type" jsonschema:"description=Relationship such as student of or influenced by"`
}

// ExtractedConnections is the LLM reply typing each linked biography.
type ExtractedConnections struct {
	Connections []ExtractedConnection `json:"connections"`
}
