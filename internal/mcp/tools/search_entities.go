package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/opentargets-mcp/pkg/types"
)

const (
	searchEntityVariable = "queryString"
	searchEntityFilter   = ".data.search.hits[:3] | map({id, entity})"
	searchEntityQuery    = `query searchEntity($queryString: String!) {
  search(queryString: $queryString) {
    total
    hits {
      id
      entity
      description
    }
  }
}`
)

// SearchEntitiesInput is the input for opentargets_search_entities.
type SearchEntitiesInput struct {
	QueryStrings []string `json:"query_strings" jsonschema:"Search strings, e.g. [\"BRCA1\", \"breast cancer\", \"aspirin\"]"`
}

// ToolSearchEntities resolves free-text names to Open Targets identifiers.
// Each search string yields its top hits as {id, entity} pairs, keyed by the
// search string.
func ToolSearchEntities(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchEntitiesInput) (*sdkmcp.CallToolResult, types.BatchResult, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchEntitiesInput) (*sdkmcp.CallToolResult, types.BatchResult, error) {
		vars := make([]map[string]any, 0, len(input.QueryStrings))
		for _, s := range input.QueryStrings {
			vars = append(vars, map[string]any{searchEntityVariable: s})
		}

		out := runBatch(ctx, d, BatchQueryInput{
			Query:         searchEntityQuery,
			VariablesList: vars,
			KeyField:      searchEntityVariable,
			JQFilter:      searchEntityFilter,
		})
		return jsonResult(out.Error != nil, out), out, nil
	}
}
