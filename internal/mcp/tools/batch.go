package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/usestring/opentargets-mcp/pkg/types"
)

// BatchQueryInput is the input for opentargets_batch_query.
type BatchQueryInput struct {
	Query         string           `json:"query" jsonschema:"GraphQL query text run once per variable set"`
	VariablesList []map[string]any `json:"variables_list" jsonschema:"One variables object per execution"`
	KeyField      string           `json:"key_field,omitempty" jsonschema:"Variable whose value labels each result, e.g. ensemblId"`
	JQFilter      string           `json:"jq_filter,omitempty" jsonschema:"Optional jq filter applied to each result's {\"data\": ...} envelope"`
}

// ToolBatchQuery runs one query for many variable sets concurrently.
func ToolBatchQuery(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input BatchQueryInput) (*sdkmcp.CallToolResult, types.BatchResult, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input BatchQueryInput) (*sdkmcp.CallToolResult, types.BatchResult, error) {
		out := runBatch(ctx, d, input)
		return jsonResult(out.Error != nil, out), out, nil
	}
}

// runBatch validates the batch as a whole, then executes every item with at
// most BATCH_WORKERS calls in flight. Item failures are reported per item;
// only a rejected batch sets the top-level error.
func runBatch(ctx context.Context, d *Deps, input BatchQueryInput) types.BatchResult {
	reject := func(msg string) types.BatchResult {
		r := types.InvalidInput(msg)
		return types.BatchResult{Status: r.Status, Error: r.Error}
	}

	if strings.TrimSpace(input.Query) == "" {
		return reject("query is required")
	}
	if len(input.VariablesList) == 0 {
		return reject("variables_list must contain at least one variables object")
	}
	if limit := d.batchMaxItems(); len(input.VariablesList) > limit {
		return reject(fmt.Sprintf("variables_list has %d items, the limit is %d", len(input.VariablesList), limit))
	}
	if input.JQFilter != "" {
		if err := d.Query.ValidateExpression(input.JQFilter); err != nil {
			return reject(err.Error())
		}
	}

	items := make([]types.BatchItem, len(input.VariablesList))

	var g errgroup.Group
	g.SetLimit(d.batchWorkers())
	for i, vars := range input.VariablesList {
		g.Go(func() error {
			items[i] = types.BatchItem{
				Index:  i,
				Key:    batchKey(vars, input.KeyField),
				Result: runQuery(ctx, d, input.Query, vars, input.JQFilter),
			}
			return nil
		})
	}
	_ = g.Wait() // items never return errors

	out := types.BatchResult{Results: items}
	for _, item := range items {
		out.Summary.Add(item.Result)
	}
	switch {
	case out.Summary.Failed == out.Summary.Total:
		out.Status = types.StatusError
	case out.Summary.Successful == out.Summary.Total:
		out.Status = types.StatusSuccess
	default:
		out.Status = types.StatusWarning
	}
	return out
}

func batchKey(vars map[string]any, field string) string {
	if field == "" {
		return ""
	}
	v, ok := vars[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
