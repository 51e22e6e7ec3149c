// Package query provides jq filtering of GraphQL response data.
package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/usestring/opentargets-mcp/internal/cache"
)

// EmptyFilterTip is appended to runtime failures so callers can retry with a
// filter that tolerates missing paths.
const EmptyFilterTip = `Tip: append "// empty" to a path (for example ".data.target.id // empty") to skip missing values.`

// ExpressionError reports a jq expression that does not parse or compile.
type ExpressionError struct {
	Expression string
	Offset     int // byte offset of a parse error, -1 when unknown
	Err        error
}

func (e *ExpressionError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("invalid jq expression at position %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("invalid jq expression: %v", e.Err)
}

func (e *ExpressionError) Unwrap() error {
	return e.Err
}

// RuntimeError reports that a valid expression failed on the given data.
type RuntimeError struct {
	Messages []string
}

func (e *RuntimeError) Error() string {
	return "jq filter failed: " + strings.Join(e.Messages, "; ")
}

// Engine executes jq filters against GraphQL data payloads.
type Engine struct {
	programs *cache.ProgramCache
}

// NewEngine creates a new query engine. programs may be nil, in which case
// every expression is compiled on use.
func NewEngine(programs *cache.ProgramCache) *Engine {
	return &Engine{programs: programs}
}

// Compile parses and compiles expression, returning a cached program when
// one exists. Failures are *ExpressionError.
func (e *Engine) Compile(expression string) (*gojq.Code, error) {
	if e.programs != nil {
		if code, ok := e.programs.Get(expression); ok {
			return code, nil
		}
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		exprErr := &ExpressionError{Expression: expression, Offset: -1, Err: err}
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			exprErr.Offset = parseErr.Offset
		}
		return nil, exprErr
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, &ExpressionError{Expression: expression, Offset: -1, Err: err}
	}

	if e.programs != nil {
		e.programs.Put(expression, code)
	}
	return code, nil
}

// Apply runs expression against the envelope {"data": data}, so filters
// address the payload as ".data...". Numbers are decoded as json.Number and
// keep their text through the filter. A single output is returned as-is,
// several outputs as an array, none as nil. Runtime failures are
// *RuntimeError.
func (e *Engine) Apply(data json.RawMessage, expression string) (any, error) {
	code, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}

	var payload any
	if len(data) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&payload); err != nil {
			return nil, fmt.Errorf("invalid JSON data: %w", err)
		}
	}

	return Run(code, map[string]any{"data": payload})
}

// Run executes a compiled program against input and collects its outputs.
func Run(code *gojq.Code, input any) (any, error) {
	var values []any
	var runtimeErr *RuntimeError

	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			if runtimeErr == nil {
				runtimeErr = &RuntimeError{}
			}
			runtimeErr.Messages = append(runtimeErr.Messages, formatJQError(err))
			continue
		}
		values = append(values, v)
	}

	if runtimeErr != nil {
		return nil, runtimeErr
	}

	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		return values[0], nil
	default:
		return values, nil
	}
}

// formatJQError creates a helpful error message for jq execution errors.
//
// Runtime errors such as "cannot iterate over: null" are plain errors without
// typed wrappers in gojq, so hints are chosen by string matching. They only
// decorate the message.
func formatJQError(err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return "query halted"
		}
		return fmt.Sprintf("query halted with: %v", haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this response)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return errStr + hint
}

// ValidateExpression checks if a jq expression is valid without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	_, err := e.Compile(expression)
	return err
}
