package config

const defaultAttributesPrompt = `Given the markdown-formatted biography text, extract the following structured JSON fields:
- lived_in: list of places they lived at (array of strings)
- worked_in: list of places they worked at (array of strings)
- religions: specify any religions mentioned (array of strings, empty if none)
- profession: list of professions (array of strings)
- institution_affiliation: list of affiliations (array of strings)

Return ONLY a JSON object with those fields, ensure it's valid JSON without comments.`

// defaultConnectionsPrompt is a fmt template taking the comma-joined list of
// connected biography ids.
const defaultConnectionsPrompt = `Given the markdown-formatted biography text, and the following connections:
[%s]
find for each connection the relationship type (e.g., "student of", "influenced by", "collaborated with").

Extract the following structured JSON fields:
- connections: list of objects with fields:
    - person: the connection exactly as listed above
    - connection_type: relationship (e.g., "student of", "influenced by", "collaborated with")

Return ONLY a valid JSON object with those fields, ensure it's proper JSON format.`
