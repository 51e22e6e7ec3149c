package types

import "encoding/json"

// SchemaResult is the output of opentargets_get_schema.
type SchemaResult struct {
	Status string     `json:"status"`
	Data   any        `json:"data,omitempty" jsonschema:"Introspection data, when format is introspection"`
	SDL    string     `json:"sdl,omitempty" jsonschema:"Schema definition language, when format is sdl"`
	Error  *ToolError `json:"error,omitempty"`

	raw json.RawMessage
}

// NewSchemaResult copies the status, data and error of r.
func NewSchemaResult(r QueryResult) SchemaResult {
	return SchemaResult{Status: r.Status, Data: r.Data, Error: r.Error, raw: r.raw}
}

func (r SchemaResult) MarshalJSON() ([]byte, error) {
	data, err := payload(r.raw, r.Data)
	if err != nil {
		return nil, err
	}
	return EncodeJSON(struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data,omitempty"`
		SDL    string          `json:"sdl,omitempty"`
		Error  *ToolError      `json:"error,omitempty"`
	}{r.Status, data, r.SDL, r.Error})
}

// TypeDependenciesResult is the output of opentargets_type_dependencies.
type TypeDependenciesResult struct {
	Status string     `json:"status"`
	Error  *ToolError `json:"error,omitempty"`

	// TypeSpecific maps each requested type to the SDL of the types only it
	// reaches.
	TypeSpecific map[string]string `json:"type_specific,omitempty"`
	// Shared is the SDL of types reached from more than one requested type.
	Shared string `json:"shared,omitempty"`

	SpecificTypes map[string][]string `json:"specific_types,omitempty" jsonschema:"Names of the types behind each type_specific entry"`
	SharedTypes   []string            `json:"shared_types,omitempty"`
}
