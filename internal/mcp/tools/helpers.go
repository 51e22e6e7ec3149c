// Package tools contains the MCP tool implementations for the Open Targets
// Platform GraphQL API.
package tools

import (
	"context"
	"errors"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/opentargets-mcp/internal/query"
	"github.com/usestring/opentargets-mcp/pkg/graphql"
	"github.com/usestring/opentargets-mcp/pkg/types"
)

// MIME type constant.
const MimeJSON = "application/json"

// callResult marks the call as failed when failed is set. The SDK fills in
// the structured and text content from the typed output either way.
func callResult(failed bool) *sdkmcp.CallToolResult {
	if failed {
		return &sdkmcp.CallToolResult{IsError: true}
	}
	return nil
}

// jsonResult renders out as the text content of the call. Tools that carry
// upstream data use it so the payload text reaches the client as received;
// the SDK only sets the structured content, which it re-encodes.
func jsonResult(failed bool, out any) *sdkmcp.CallToolResult {
	text, err := types.EncodeJSON(out)
	if err != nil {
		return callResult(failed)
	}
	return &sdkmcp.CallToolResult{
		IsError: failed,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(text)}},
	}
}

// runQuery executes one GraphQL operation and applies the optional jq
// filter. An invalid filter is rejected before any network call. A filter
// that fails at runtime yields a warning carrying the unfiltered data.
func runQuery(ctx context.Context, d *Deps, q string, variables map[string]any, jqFilter string) types.QueryResult {
	if strings.TrimSpace(q) == "" {
		return types.InvalidInput("query is required")
	}

	if jqFilter != "" {
		if err := d.Query.ValidateExpression(jqFilter); err != nil {
			return types.InvalidInput(err.Error())
		}
	}

	resp, err := d.Execute(ctx, &graphql.Request{Query: q, Variables: variables})
	if err != nil {
		return types.Failure(toolError(err))
	}

	if jqFilter == "" {
		return decodeData(resp)
	}

	filtered, err := d.Query.Apply(resp.Data, jqFilter)
	if err != nil {
		var rtErr *query.RuntimeError
		if !errors.As(err, &rtErr) {
			return types.Failure(&types.ToolError{Kind: types.KindInternal, Message: err.Error()})
		}
		unfiltered := decodeData(resp)
		if unfiltered.IsError() {
			return unfiltered
		}
		return types.Warning(unfiltered.Data, err.Error()+". Returning unfiltered data. "+query.EmptyFilterTip).WithRaw(resp.Data)
	}
	return types.Success(filtered)
}

// decodeData returns the data payload with numbers kept as json.Number. The
// result also keeps the payload text for jsonResult.
func decodeData(resp *graphql.Response) types.QueryResult {
	var data any
	if err := resp.Decode(&data); err != nil {
		return types.Failure(&types.ToolError{
			Kind:       types.KindTransport,
			Message:    "decoding data payload: " + err.Error(),
			StatusCode: resp.StatusCode,
		})
	}
	return types.Success(data).WithRaw(resp.Data)
}
