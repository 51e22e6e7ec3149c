package types

import (
	"bytes"
	"encoding/json"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

// Failure kinds reported in ToolError.Kind.
const (
	KindInvalidInput = "invalid_input"
	KindTransport    = "transport"
	KindGraphQL      = "graphql"
	KindNotFound     = "not_found"
	KindInternal     = "internal"
)

// QueryResult is the outcome of a single GraphQL call made by a tool.
type QueryResult struct {
	Status  string     `json:"status" jsonschema:"success, warning or error"`
	Data    any        `json:"data,omitempty" jsonschema:"GraphQL data payload, or the jq filter output when jq_filter was given"`
	Warning string     `json:"warning,omitempty" jsonschema:"Set when status is warning, e.g. a jq filter failed at runtime"`
	Error   *ToolError `json:"error,omitempty" jsonschema:"Set when status is error"`

	// raw is the upstream text Data was decoded from
	raw json.RawMessage
}

// ToolError describes why a call failed.
type ToolError struct {
	Kind       string        `json:"kind" jsonschema:"invalid_input, transport, graphql, not_found or internal"`
	Message    string        `json:"message"`
	StatusCode int           `json:"status_code,omitempty" jsonschema:"HTTP status of the upstream response, when one was received"`
	Details    []ErrorDetail `json:"details,omitempty" jsonschema:"Every GraphQL error returned by the service, verbatim"`
}

// ErrorDetail is one GraphQL error.
type ErrorDetail struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Locations  []Location     `json:"locations,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Location is a position in the query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Success returns a successful result carrying data.
func Success(data any) QueryResult {
	return QueryResult{Status: StatusSuccess, Data: data}
}

// Warning returns a result that carries data along with a warning message.
func Warning(data any, message string) QueryResult {
	return QueryResult{Status: StatusWarning, Data: data, Warning: message}
}

// Failure returns an error result.
func Failure(e *ToolError) QueryResult {
	return QueryResult{Status: StatusError, Error: e}
}

// InvalidInput returns an error result of kind invalid_input.
func InvalidInput(message string) QueryResult {
	return Failure(&ToolError{Kind: KindInvalidInput, Message: message})
}

// WithRaw returns r carrying raw, the upstream JSON its Data was decoded
// from. MarshalJSON writes raw in place of Data so that key order and number
// text reach the client unchanged.
func (r QueryResult) WithRaw(raw json.RawMessage) QueryResult {
	r.raw = raw
	return r
}

func (r QueryResult) MarshalJSON() ([]byte, error) {
	data, err := payload(r.raw, r.Data)
	if err != nil {
		return nil, err
	}
	return EncodeJSON(struct {
		Status  string          `json:"status"`
		Data    json.RawMessage `json:"data,omitempty"`
		Warning string          `json:"warning,omitempty"`
		Error   *ToolError      `json:"error,omitempty"`
	}{r.Status, data, r.Warning, r.Error})
}

// IsError reports whether r describes a failure.
func (r QueryResult) IsError() bool {
	return r.Status == StatusError
}

// EncodeJSON marshals v without HTML escaping and without a trailing newline.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func payload(raw json.RawMessage, data any) (json.RawMessage, error) {
	if raw != nil || data == nil {
		return raw, nil
	}
	return EncodeJSON(data)
}
