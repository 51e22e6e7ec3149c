package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleExplore implements the explore_opentargets workflow prompt.
func HandleExplore(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var question, entity string
		if args := req.Params.Arguments; args != nil {
			question = strings.TrimSpace(args["question"])
			entity = strings.TrimSpace(args["entity"])
		}

		var sb strings.Builder

		sb.WriteString("# Explore the Open Targets Platform\n\n")
		sb.WriteString("You answer questions about drug targets, diseases, drugs and their associations ")
		sb.WriteString("using the Open Targets Platform GraphQL API. Ground every answer in data returned by the tools.\n\n")

		if question != "" {
			sb.WriteString("## Question\n\n")
			sb.WriteString(question)
			sb.WriteString("\n\n")
		}

		sb.WriteString("## Context Usage Guide\n\n")
		sb.WriteString("- **opentargets_query_examples**: Low cost, no network. Curated queries with sample variables.\n")
		sb.WriteString("- **opentargets_search_entities**: Low cost. Turns names into ids (ensemblId, efoId, chemblId).\n")
		sb.WriteString("- **opentargets_type_dependencies**: Medium cost. SDL around the types you need.\n")
		sb.WriteString("- **opentargets_get_schema**: High cost. The full schema; use only if type_dependencies is not enough.\n")
		sb.WriteString("- **opentargets_query** / **opentargets_batch_query**: Cost depends on the selection set; trim it with jq_filter.\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		step := 1
		if entity != "" {
			fmt.Fprintf(&sb, "%d. **Resolve identifiers** - Call opentargets_search_entities with query_strings=[%q]\n", step, entity)
		} else {
			fmt.Fprintf(&sb, "%d. **Resolve identifiers** - Call opentargets_search_entities with the genes, diseases or drugs named in the question\n", step)
		}
		sb.WriteString("   - Each search string returns up to 3 hits as {id, entity}; pick the hit whose entity matches\n\n")
		step++

		fmt.Fprintf(&sb, "%d. **Find a starting query** - Call opentargets_query_examples with search keywords or a category\n", step)
		sb.WriteString("   - Reuse the example query and swap in your ids as variables\n\n")
		step++

		fmt.Fprintf(&sb, "%d. **Check fields** - If the example lacks a field, call opentargets_type_dependencies\n", step)
		sb.WriteString("   - Pass the return types of the query root fields, e.g. type_names=[\"Target\"], with max_depth=1 or 2\n")
		sb.WriteString("   - Deprecated fields carry @deprecated(reason); follow the reason\n\n")
		step++

		fmt.Fprintf(&sb, "%d. **Run the query** - Call opentargets_query\n", step)
		sb.WriteString("   - Add a jq_filter starting at .data to keep the answer small\n")
		sb.WriteString("   - GraphQL errors come back verbatim under error.details; fix the query, do not retry unchanged\n\n")
		step++

		fmt.Fprintf(&sb, "%d. **Fan out** - For several ids use opentargets_batch_query", step)
		if cfg != nil && cfg.BatchMaxItems > 0 {
			fmt.Fprintf(&sb, " (at most %d variable sets per call)", cfg.BatchMaxItems)
		}
		sb.WriteString(" with key_field naming the id variable\n\n")

		sb.WriteString("## Rules\n\n")
		sb.WriteString("- Paginated fields take page: {index, size}; start small (size 10) and page only when needed\n")
		sb.WriteString("- Association scores range from 0 to 1; report them with the datasource that produced them\n")
		sb.WriteString("- Say so when the platform has no data instead of guessing\n")

		return &sdkmcp.GetPromptResult{
			Description: "Workflow for answering questions with the Open Targets Platform",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
