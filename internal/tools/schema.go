package tools

import "github.com/invopop/jsonschema"

// GenerateSchema derives the JSON Schema for a tool's argument struct.
// Descriptions come from jsonschema_description tags; fields without
// omitempty are required.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}
