package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/opentargets-mcp/internal/catalog"
	"github.com/usestring/opentargets-mcp/pkg/types"
)

// Resource URIs of the example catalog.
const (
	ExampleURIPrefix = "opentargets://examples/"
	CategoriesURI    = "opentargets://categories"
)

// ExampleURI returns the resource URI of one example.
func ExampleURI(category, name string) string {
	return ExampleURIPrefix + category + "/" + name
}

// QueryExamplesInput is the input for opentargets_query_examples.
type QueryExamplesInput struct {
	Category string `json:"category,omitempty" jsonschema:"Only return examples of this category (see categories in the output)"`
	Search   string `json:"search,omitempty" jsonschema:"Keywords matched against example names, descriptions, entity types and query text (all must match)"`
}

// ToolQueryExamples lists canned queries from the embedded catalog. Lookups
// never fail: an unknown category yields no examples.
func ToolQueryExamples(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryExamplesInput) (*sdkmcp.CallToolResult, types.QueryExamplesResult, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryExamplesInput) (*sdkmcp.CallToolResult, types.QueryExamplesResult, error) {
		category := strings.TrimSpace(input.Category)

		var examples []catalog.Example
		if strings.TrimSpace(input.Search) != "" {
			examples = d.Catalog.Search(category, input.Search)
		} else {
			examples = d.Catalog.List(category)
		}

		out := types.QueryExamplesResult{
			Status:     types.StatusSuccess,
			Examples:   make([]types.QueryExample, 0, len(examples)),
			Categories: ExampleCategories(d.Catalog),
			Total:      len(examples),
		}
		for _, ex := range examples {
			out.Examples = append(out.Examples, ToQueryExample(ex))
		}

		switch {
		case category != "" && !d.Catalog.HasCategory(category):
			out.Hint = fmt.Sprintf("Unknown category %q. Pick one of the listed categories.", category)
		case out.Total == 0:
			out.Hint = "No examples matched. Try fewer keywords or omit the category."
		default:
			out.Hint = "Run an example with opentargets_query using its query and variables."
		}

		return nil, out, nil
	}
}

// ExampleCategories returns the catalog categories in manifest order.
func ExampleCategories(c *catalog.Catalog) []types.ExampleCategory {
	cats := c.Categories()
	out := make([]types.ExampleCategory, 0, len(cats))
	for _, cat := range cats {
		out = append(out, types.ExampleCategory{
			Name:        cat.Name,
			Description: cat.Description,
			Count:       cat.Count,
		})
	}
	return out
}

// ToQueryExample converts a catalog example to its tool representation.
func ToQueryExample(ex catalog.Example) types.QueryExample {
	return types.QueryExample{
		Name:        ex.Name,
		Category:    ex.Category,
		Title:       ex.Title,
		EntityType:  ex.EntityType,
		Description: ex.Description,
		Variables:   ex.Variables,
		VariableDoc: ex.VariableDoc,
		Pagination:  ex.Pagination,
		Query:       ex.Query,
		ResourceURI: ExampleURI(ex.Category, ex.Name),
	}
}
