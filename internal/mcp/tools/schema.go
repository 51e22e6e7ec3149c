package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/opentargets-mcp/internal/typegraph"
	"github.com/usestring/opentargets-mcp/pkg/graphql"
	"github.com/usestring/opentargets-mcp/pkg/types"
)

// Schema output formats.
const (
	SchemaFormatIntrospection = "introspection"
	SchemaFormatSDL           = "sdl"
)

// GetSchemaInput is the input for opentargets_get_schema.
type GetSchemaInput struct {
	Format string `json:"format,omitempty" jsonschema:"introspection (default) returns the raw introspection data; sdl returns the schema definition language"`
}

// ToolGetSchema fetches the schema of the API. Introspection runs on every
// call; nothing is cached.
func ToolGetSchema(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetSchemaInput) (*sdkmcp.CallToolResult, types.SchemaResult, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetSchemaInput) (*sdkmcp.CallToolResult, types.SchemaResult, error) {
		format := input.Format
		if format == "" {
			format = SchemaFormatIntrospection
		}
		if format != SchemaFormatIntrospection && format != SchemaFormatSDL {
			out := types.NewSchemaResult(types.InvalidInput(
				fmt.Sprintf("format must be %q or %q", SchemaFormatIntrospection, SchemaFormatSDL)))
			return jsonResult(true, out), out, nil
		}

		resp, err := d.Introspect(ctx)
		if err != nil {
			out := types.NewSchemaResult(types.Failure(toolError(err)))
			return jsonResult(true, out), out, nil
		}

		if format == SchemaFormatIntrospection {
			out := types.NewSchemaResult(decodeData(resp))
			return jsonResult(out.Status == types.StatusError, out), out, nil
		}

		graph, terr := buildGraph(resp)
		if terr != nil {
			out := types.NewSchemaResult(types.Failure(terr))
			return jsonResult(true, out), out, nil
		}
		out := types.SchemaResult{Status: types.StatusSuccess, SDL: graph.SchemaSDL()}
		return jsonResult(false, out), out, nil
	}
}

// buildGraph decodes an introspection response into a type graph.
func buildGraph(resp *graphql.Response) (*typegraph.Graph, *types.ToolError) {
	introspection, err := graphql.DecodeIntrospection(resp.Data)
	if err != nil {
		return nil, &types.ToolError{
			Kind:       types.KindTransport,
			Message:    "decoding introspection result: " + err.Error(),
			StatusCode: resp.StatusCode,
		}
	}
	return typegraph.Build(&introspection.Schema), nil
}
