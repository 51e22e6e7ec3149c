// Package mcpsrv provides an extensible MCP server for the Open Targets
// Platform GraphQL API.
//
// This package exposes a high-level API for creating and running an MCP server
// with all builtin Open Targets tools, prompts, and resources. Users can extend
// the server with custom tools, prompts, and resources using functional options.
//
// # Basic Usage
//
// Create a server configured from the environment and serve it over stdio:
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// Or over streamable HTTP:
//
//	server.ListenAndServe(ctx, "127.0.0.1:8000")
//
// # Extension
//
// Add custom tools using MCP SDK types directly. Outputs carry a status field
// like the builtin tools:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
//
//	type MyInput struct {
//	    EnsemblID string `json:"ensembl_id"`
//	}
//
//	type MyOutput struct {
//	    Status string `json:"status"`
//	    Symbol string `json:"symbol,omitempty"`
//	}
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithDepsTool(&mcp.Tool{Name: "target_symbol"}, func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	        return func(ctx context.Context, req *mcp.CallToolRequest, in MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	            resp, err := d.Client.Execute(ctx, &graphql.Request{
//	                Query:     `query($id: String!) { target(ensemblId: $id) { approvedSymbol } }`,
//	                Variables: map[string]any{"id": in.EnsemblID},
//	            })
//	            ...
//	        }
//	    }),
//	)
//
// # Configuration
//
// Settings come from the environment (see internal/config); options override
// some of them:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithEndpoint("http://localhost:8080/api/v4/graphql"),
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/opentargets-mcp.log"),
//	)
package mcpsrv
