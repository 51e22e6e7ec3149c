package graphql

import (
	"bytes"
	"encoding/json"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Request is a single GraphQL operation sent to the endpoint.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Response holds the data payload of a successful GraphQL call.
type Response struct {
	// Data is the raw "data" member of the response body.
	Data json.RawMessage
	// StatusCode is the HTTP status of the response.
	StatusCode int
}

// Decode unmarshals the data payload into v. Numbers are kept as
// json.Number when v is an *any so that large identifiers survive unchanged.
func (r *Response) Decode(v any) error {
	return decodeJSON(r.Data, v)
}

// envelope is the wire format of a GraphQL response body.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors gqlerror.List   `json:"errors"`
}

// hasData reports whether the envelope carried a non-null data member.
func (e *envelope) hasData() bool {
	return len(e.Data) > 0 && !bytes.Equal(bytes.TrimSpace(e.Data), []byte("null"))
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
