package graphql

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

// ErrEmptyQuery is returned when Execute is called without query text.
var ErrEmptyQuery = errors.New("graphql: query must not be empty")

// Kind classifies a TransportError.
type Kind string

// Transport error kinds.
const (
	KindConnection Kind = "connection" // endpoint unreachable, DNS, TLS, reset
	KindTimeout    Kind = "timeout"    // configured timeout exceeded
	KindCanceled   Kind = "canceled"   // caller canceled the call
	KindStatus     Kind = "status"     // non-2xx without a GraphQL error body
	KindDecode     Kind = "decode"     // body unreadable or not a GraphQL response
	KindEncode     Kind = "encode"     // request variables not serializable
)

// TransportError reports that no application-level response was obtained.
type TransportError struct {
	Kind       Kind
	StatusCode int    // HTTP status, 0 if no response was received
	Body       string // excerpt of the response body for KindStatus/KindDecode
	Cause      error
}

func (e *TransportError) Error() string {
	var sb strings.Builder
	sb.WriteString("graphql transport error (")
	sb.WriteString(string(e.Kind))
	sb.WriteString(")")
	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, ": HTTP %d", e.StatusCode)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	if e.Body != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Body)
	}
	return sb.String()
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the call was abandoned because the timeout expired.
func (e *TransportError) Timeout() bool {
	return e.Kind == KindTimeout
}

// ApplicationError reports GraphQL errors returned by the service. The error
// list is kept exactly as received.
type ApplicationError struct {
	Errors     gqlerror.List
	StatusCode int
	// Data holds partial data when the service returned both data and errors.
	Data json.RawMessage
}

func (e *ApplicationError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "graphql: request rejected"
	case 1:
		return "graphql: " + e.Errors[0].Message
	default:
		return fmt.Sprintf("graphql: %s (and %d more errors)", e.Errors[0].Message, len(e.Errors)-1)
	}
}

// IsApplication reports whether err is (or wraps) an ApplicationError.
func IsApplication(err error) bool {
	var ae *ApplicationError
	return errors.As(err, &ae)
}
