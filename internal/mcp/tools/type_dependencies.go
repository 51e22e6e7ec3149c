package tools

import (
	"context"
	"errors"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/opentargets-mcp/internal/typegraph"
	"github.com/usestring/opentargets-mcp/pkg/types"
)

// TypeDependenciesInput is the input for opentargets_type_dependencies.
type TypeDependenciesInput struct {
	TypeNames []string `json:"type_names" jsonschema:"GraphQL type names, e.g. [\"Target\", \"Drug\"]"`
	MaxDepth  int      `json:"max_depth,omitempty" jsonschema:"Levels of references to follow; 0 or omitted follows every reference"`
}

// ToolTypeDependencies returns the part of the schema reachable from the
// given types, split into SDL only one type reaches and SDL several reach.
func ToolTypeDependencies(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input TypeDependenciesInput) (*sdkmcp.CallToolResult, types.TypeDependenciesResult, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input TypeDependenciesInput) (*sdkmcp.CallToolResult, types.TypeDependenciesResult, error) {
		fail := func(e *types.ToolError) (*sdkmcp.CallToolResult, types.TypeDependenciesResult, error) {
			return callResult(true), types.TypeDependenciesResult{Status: types.StatusError, Error: e}, nil
		}

		names := make([]string, 0, len(input.TypeNames))
		for _, n := range input.TypeNames {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		if len(names) == 0 {
			return fail(&types.ToolError{Kind: types.KindInvalidInput, Message: "type_names must contain at least one type name"})
		}
		if input.MaxDepth < 0 {
			return fail(&types.ToolError{Kind: types.KindInvalidInput, Message: "max_depth must not be negative"})
		}

		resp, err := d.Introspect(ctx)
		if err != nil {
			return fail(toolError(err))
		}
		graph, terr := buildGraph(resp)
		if terr != nil {
			return fail(terr)
		}

		split, err := graph.Dependencies(names, input.MaxDepth)
		if err != nil {
			var nf *typegraph.NotFoundError
			if errors.As(err, &nf) {
				return fail(&types.ToolError{Kind: types.KindNotFound, Message: nf.Error()})
			}
			return fail(&types.ToolError{Kind: types.KindInternal, Message: err.Error()})
		}

		out := types.TypeDependenciesResult{
			Status:        types.StatusSuccess,
			TypeSpecific:  make(map[string]string, len(split.Specific)),
			SpecificTypes: split.Specific,
			Shared:        graph.SDL(split.Shared),
			SharedTypes:   split.Shared,
		}
		for name, specific := range split.Specific {
			if len(specific) > 0 {
				out.TypeSpecific[name] = graph.SDL(specific)
			}
		}
		return nil, out, nil
	}
}
