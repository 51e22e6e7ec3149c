package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Prompt names.
const (
	NameExplore = "explore_opentargets"
	NameJQGuide = "opentargets_jq_guide"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Question answering workflow
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        NameExplore,
		Description: "RECOMMENDED: Workflow for answering a question with the Open Targets Platform tools (resolve ids, find an example, check the schema, query). Start here.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "question",
				Description: "The question to answer, e.g. 'Which drugs target BRAF in melanoma?'",
				Required:    false,
			},
			{
				Name:        "entity",
				Description: "A gene, disease or drug name to resolve first",
				Required:    false,
			},
		},
	}, HandleExplore(cfg))

	// Prompt 2: jq filter reference
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        NameJQGuide,
		Description: "Reference for the jq_filter argument of opentargets_query and opentargets_batch_query.",
	}, HandleJQGuide(cfg))
}
