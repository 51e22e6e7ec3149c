package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/opentargets-mcp/pkg/types"
)

// QueryInput is the input for opentargets_query.
type QueryInput struct {
	Query     string         `json:"query" jsonschema:"GraphQL query text. Use opentargets_query_examples and opentargets_get_schema to build it"`
	Variables map[string]any `json:"variables,omitempty" jsonschema:"Values for the variables declared by the query"`
	JQFilter  string         `json:"jq_filter,omitempty" jsonschema:"Optional jq filter applied to {\"data\": <response data>}, e.g. '.data.target.approvedSymbol'"`
}

// ToolQuery runs a caller-supplied GraphQL query against the Open Targets
// Platform and returns the data payload unmodified or filtered with jq.
func ToolQuery(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryInput) (*sdkmcp.CallToolResult, types.QueryResult, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryInput) (*sdkmcp.CallToolResult, types.QueryResult, error) {
		result := runQuery(ctx, d, input.Query, input.Variables, input.JQFilter)
		return jsonResult(result.IsError(), result), result, nil
	}
}
