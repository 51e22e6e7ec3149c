package tools

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/opentargets-mcp/pkg/types"
)

func TestCheckOutputSchema_ToolOutputs(t *testing.T) {
	assert.NoError(t, CheckOutputSchema[types.QueryResult]())
	assert.NoError(t, CheckOutputSchema[types.BatchResult]())
	assert.NoError(t, CheckOutputSchema[types.SchemaResult]())
	assert.NoError(t, CheckOutputSchema[types.TypeDependenciesResult]())
	assert.NoError(t, CheckOutputSchema[types.QueryExamplesResult]())
	assert.NoError(t, CheckOutputSchema[*types.QueryResult]())
}

func TestCheckOutputSchema_Rejects(t *testing.T) {
	type nilSlice struct {
		Status string   `json:"status"`
		Items  []string `json:"items"`
	}
	type noStatus struct {
		Items []string `json:"items,omitzero"`
	}
	type rawMessage struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data,omitempty"`
	}
	type inner struct {
		Payload []byte `json:"payload,omitempty"`
	}
	type nestedBytes struct {
		Status string           `json:"status"`
		Items  map[string]inner `json:"items,omitempty"`
	}

	tests := []struct {
		name  string
		check func() error
		want  string
	}{
		{"nil slice", CheckOutputSchema[nilSlice], "add omitzero"},
		{"missing status", CheckOutputSchema[noStatus], `json:"status"`},
		{"raw message", CheckOutputSchema[rawMessage], "at Data"},
		{"nested bytes", CheckOutputSchema[nestedBytes], "at Items.[value].Payload"},
		{"not a struct", CheckOutputSchema[[]string], "is not a struct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCheckOutputSchema_Accepts(t *testing.T) {
	type withAny struct {
		Status string `json:"status"`
		Data   any    `json:"data,omitempty"`
		Items  []any  `json:"items,omitzero"`
	}
	type withPointerSlice struct {
		Status string    `json:"status"`
		Items  *[]string `json:"items"`
	}

	assert.NoError(t, CheckOutputSchema[withAny]())
	assert.NoError(t, CheckOutputSchema[withPointerSlice]())
}

func TestAddTool_PanicsOnBadOutput(t *testing.T) {
	type bad struct {
		Data json.RawMessage `json:"data"`
	}
	srv := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "test", Version: "test"}, nil)

	assert.PanicsWithValue(t, `tool "bad_tool": output type tools.bad has no string field tagged json:"status"`+"\n"+
		"output type tools.bad has byte-typed fields at Data; use any", func() {
		AddTool(srv, &sdkmcp.Tool{Name: "bad_tool"}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in struct{}) (*sdkmcp.CallToolResult, bad, error) {
			return nil, bad{}, nil
		})
	})
}
