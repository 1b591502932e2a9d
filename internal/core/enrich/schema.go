package enrich

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
)

// schemaOf reflects the JSON schema of v's type for structured replies.
func schemaOf(v any) json.RawMessage {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	data, err := json.Marshal(reflector.ReflectFromType(t))
	if err != nil {
		return nil
	}
	return data
}
