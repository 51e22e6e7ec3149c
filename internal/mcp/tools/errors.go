package tools

import (
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/usestring/opentargets-mcp/pkg/graphql"
	"github.com/usestring/opentargets-mcp/pkg/types"
)

// Error codes for resource handlers and middleware rejections. Tool
// failures are reported in types.ToolError instead.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}

// toolError converts an Execute error into the failure reported by tools.
func toolError(err error) *types.ToolError {
	var terr *graphql.TransportError
	var aerr *graphql.ApplicationError
	switch {
	case errors.As(err, &aerr):
		return &types.ToolError{
			Kind:       types.KindGraphQL,
			Message:    aerr.Error(),
			StatusCode: aerr.StatusCode,
			Details:    errorDetails(aerr.Errors),
		}
	case errors.As(err, &terr):
		return &types.ToolError{
			Kind:       types.KindTransport,
			Message:    terr.Error(),
			StatusCode: terr.StatusCode,
		}
	case errors.Is(err, graphql.ErrEmptyQuery):
		return &types.ToolError{Kind: types.KindInvalidInput, Message: err.Error()}
	default:
		return &types.ToolError{Kind: types.KindInternal, Message: err.Error()}
	}
}

func errorDetails(list gqlerror.List) []types.ErrorDetail {
	details := make([]types.ErrorDetail, 0, len(list))
	for _, ge := range list {
		if ge == nil {
			continue
		}
		d := types.ErrorDetail{
			Message:    ge.Message,
			Extensions: ge.Extensions,
		}
		for _, el := range ge.Path {
			switch el := el.(type) {
			case ast.PathIndex:
				d.Path = append(d.Path, int(el))
			case ast.PathName:
				d.Path = append(d.Path, string(el))
			}
		}
		for _, loc := range ge.Locations {
			d.Locations = append(d.Locations, types.Location{Line: loc.Line, Column: loc.Column})
		}
		details = append(details, d)
	}
	return details
}
