package prompts

import (
	"context"
	"strconv"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleJQGuide serves the jq_filter reference for the query tools.
func HandleJQGuide(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var sb strings.Builder

		sb.WriteString("# jq_filter Guide\n\n")
		sb.WriteString("opentargets_query and opentargets_batch_query accept a jq expression. It runs on ")
		sb.WriteString("`{\"data\": <GraphQL data>}`, so every path starts with `.data`.\n\n")

		sb.WriteString("## Patterns\n\n")
		sb.WriteString("| Goal | Filter |\n")
		sb.WriteString("|------|--------|\n")
		sb.WriteString("| One scalar | `.data.target.approvedSymbol` |\n")
		sb.WriteString("| Project list items | `.data.disease.associatedTargets.rows \\| map({id: .target.id, score})` |\n")
		sb.WriteString("| Top N | `.data.search.hits[:5]` |\n")
		sb.WriteString("| Filter rows | `[.data.disease.associatedTargets.rows[] \\| select(.score > 0.5)]` |\n")
		sb.WriteString("| Count | `.data.target.knownDrugs.rows \\| length` |\n")
		sb.WriteString("| Optional path | `.data.target.tractability // empty` |\n")

		sb.WriteString("\n**Key rules**:\n")
		sb.WriteString("- A filter that does not parse is rejected before the API is called\n")
		sb.WriteString("- A filter that fails on the data returns status warning with the unfiltered data; append `// empty` to paths that may be missing\n")
		sb.WriteString("- Several outputs are returned as an array, no output as null\n")
		sb.WriteString("- In batch calls the filter runs on each item separately")
		if cfg != nil && cfg.BatchMaxItems > 0 {
			sb.WriteString(" (")
			sb.WriteString(strconv.Itoa(cfg.BatchMaxItems))
			sb.WriteString(" items at most)")
		}
		sb.WriteString("\n")

		return &sdkmcp.GetPromptResult{
			Description: "Reference for jq_filter in Open Targets query tools",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
