package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	NameGetSchema        = "opentargets_get_schema"
	NameQuery            = "opentargets_query"
	NameQueryExamples    = "opentargets_query_examples"
	NameBatchQuery       = "opentargets_batch_query"
	NameSearchEntities   = "opentargets_search_entities"
	NameTypeDependencies = "opentargets_type_dependencies"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	readOnly := &sdkmcp.ToolAnnotations{ReadOnlyHint: true}

	// Tool 1: opentargets_query_examples
	AddTool(srv, &sdkmcp.Tool{
		Name:        NameQueryExamples,
		Description: "List curated example GraphQL queries for the Open Targets Platform, grouped by category (entity search, target and disease information, associations, drug mechanisms). Returns {examples: [{name, category, description, entity_type, variables, query, resource_uri}], categories, total, hint}. Filter with category and/or search keywords. Start here before writing a query.",
		Annotations: readOnly,
	}, ToolQueryExamples(d))

	// Tool 2: opentargets_get_schema
	AddTool(srv, &sdkmcp.Tool{
		Name:        NameGetSchema,
		Description: "Fetch the Open Targets Platform GraphQL schema. Returns the introspection result by default or SDL with format=\"sdl\". The full schema is large; prefer opentargets_type_dependencies to look at the types around a few entry points.",
		Annotations: readOnly,
	}, ToolGetSchema(d))

	// Tool 3: opentargets_type_dependencies
	AddTool(srv, &sdkmcp.Tool{
		Name:        NameTypeDependencies,
		Description: "Return the SDL of every type reachable from the given GraphQL types. Returns {type_specific: {Type: SDL}, shared: SDL, specific_types, shared_types}; types reachable from several inputs appear once under shared. Use max_depth to limit the walk. Unknown names report similar type names.",
		Annotations: readOnly,
	}, ToolTypeDependencies(d))

	// Tool 4: opentargets_search_entities
	AddTool(srv, &sdkmcp.Tool{
		Name:        NameSearchEntities,
		Description: "Resolve names to Open Targets identifiers. For each search string (gene symbol, disease name, drug name...) returns up to 3 hits as {id, entity}, where entity is target, disease, drug, variant or study. Use the ids as query variables (ensemblId, efoId, chemblId).",
		Annotations: readOnly,
	}, ToolSearchEntities(d))

	// Tool 5: opentargets_query
	AddTool(srv, &sdkmcp.Tool{
		Name:        NameQuery,
		Description: "Execute a GraphQL query against the Open Targets Platform API. Returns {status, data} with the data payload unmodified, or the jq_filter output when given. GraphQL errors are returned verbatim under error.details. The jq filter sees {\"data\": ...}, so paths start with .data.",
		Annotations: readOnly,
	}, ToolQuery(d))

	// Tool 6: opentargets_batch_query
	AddTool(srv, &sdkmcp.Tool{
		Name:        NameBatchQuery,
		Description: "Run one GraphQL query once per variables object in variables_list, concurrently. Returns {status, results: [{index, key, result}], summary: {total, successful, warning, failed}}. Set key_field to label each result with one of its variables. Prefer this over repeated opentargets_query calls.",
		Annotations: readOnly,
	}, ToolBatchQuery(d))
}
