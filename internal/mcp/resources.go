package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/opentargets-mcp/internal/mcp/tools"
)

// Resource URI scheme: opentargets://
// Supported URIs:
//   opentargets://examples/{category}/{name}
//   opentargets://categories

// registerResources registers the example catalog resources.
func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: tools.ExampleURIPrefix + "{category}/{name}",
		Name:        "Query Example",
		Description: "One curated example query with its sample variables. opentargets_query_examples already returns the same data for whole categories.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceExample)

	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         tools.CategoriesURI,
		Name:        "Example Categories",
		Description: "Categories of the example catalog with their descriptions and example counts.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.6,
		},
	}, s.handleResourceCategories)
}

func (s *Server) handleResourceExample(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	category, name, err := parseExampleURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	ex, ok := s.deps.Catalog.Get(category, name)
	if !ok {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}
	return toResourceResult(req.Params.URI, tools.ToQueryExample(ex))
}

func (s *Server) handleResourceCategories(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	content := map[string]any{
		"categories": tools.ExampleCategories(s.deps.Catalog),
		"total":      s.deps.Catalog.Len(),
	}
	return toResourceResult(req.Params.URI, content)
}

// parseExampleURI extracts category and name from an example URI.
func parseExampleURI(uri string) (category, name string, err error) {
	path, ok := strings.CutPrefix(uri, tools.ExampleURIPrefix)
	if !ok {
		return "", "", tools.ErrInvalidInput("invalid URI: expected " + tools.ExampleURIPrefix + "{category}/{name}")
	}

	category, name, ok = strings.Cut(path, "/")
	if !ok || category == "" || name == "" || strings.Contains(name, "/") {
		return "", "", tools.ErrInvalidInput(fmt.Sprintf("example URI requires category and name: %s", uri))
	}
	return category, name, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
