package types

// QueryExample is one canned query of the example catalog.
type QueryExample struct {
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Title       string         `json:"title,omitempty"`
	EntityType  string         `json:"entity_type,omitempty"`
	Description string         `json:"description,omitempty"`
	Variables   map[string]any `json:"variables,omitempty" jsonschema:"Sample variables to run the query with"`
	VariableDoc string         `json:"variable_doc,omitempty" jsonschema:"Declared variables and their GraphQL types"`
	Pagination  string         `json:"pagination,omitempty"`
	Query       string         `json:"query"`
	ResourceURI string         `json:"resource_uri"`
}

// ExampleCategory describes a catalog category.
type ExampleCategory struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// QueryExamplesResult is the output of opentargets_query_examples.
type QueryExamplesResult struct {
	Status     string            `json:"status"`
	Examples   []QueryExample    `json:"examples,omitzero"`
	Categories []ExampleCategory `json:"categories,omitzero"`
	Total      int               `json:"total"`
	Hint       string            `json:"hint,omitempty"`
}
