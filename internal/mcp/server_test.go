package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/opentargets-mcp/internal/catalog"
	"github.com/usestring/opentargets-mcp/internal/config"
	"github.com/usestring/opentargets-mcp/internal/mcp/prompts"
	"github.com/usestring/opentargets-mcp/internal/mcp/tools"
	"github.com/usestring/opentargets-mcp/internal/metrics"
	"github.com/usestring/opentargets-mcp/internal/query"
	"github.com/usestring/opentargets-mcp/pkg/graphql"
	"github.com/usestring/opentargets-mcp/pkg/types"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerName:    "Open Targets Test",
		BatchWorkers:  2,
		BatchMaxItems: 5,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	client, err := graphql.New("http://127.0.0.1:1/graphql", 5*time.Second)
	require.NoError(t, err)

	s, err := NewServer(&tools.Deps{
		Client:  client,
		Catalog: cat,
		Query:   query.NewEngine(nil),
		Config:  cfg,
		Metrics: metrics.New(),
	}, WithBuiltinTools(), WithBuiltinPrompts(), WithVersion("1.2.3"))
	require.NoError(t, err)
	return s
}

func connect(t *testing.T, s *Server) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	ss, err := s.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

// counterValue returns the value of the counter family name whose labels
// include every pair in labels.
func counterValue(t *testing.T, m *metrics.Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	series:
		for _, metric := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range metric.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue series
				}
			}
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func TestNewServer_RequiresDeps(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)

	_, err = NewServer(&tools.Deps{})
	assert.Error(t, err)
}

func TestServer_ListsCapabilities(t *testing.T) {
	s := newTestServer(t, testConfig())
	cs := connect(t, s)
	ctx := context.Background()

	init := cs.InitializeResult()
	require.NotNil(t, init)
	assert.Equal(t, "Open Targets Test", init.ServerInfo.Name)
	assert.Equal(t, "1.2.3", init.ServerInfo.Version)

	toolList, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range toolList.Tools {
		names = append(names, tool.Name)
		require.NotNil(t, tool.Annotations, tool.Name)
		assert.True(t, tool.Annotations.ReadOnlyHint, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		tools.NameGetSchema, tools.NameQuery, tools.NameQueryExamples,
		tools.NameBatchQuery, tools.NameSearchEntities, tools.NameTypeDependencies,
	}, names)

	promptList, err := cs.ListPrompts(ctx, nil)
	require.NoError(t, err)
	var promptNames []string
	for _, p := range promptList.Prompts {
		promptNames = append(promptNames, p.Name)
	}
	assert.ElementsMatch(t, []string{prompts.NameExplore, prompts.NameJQGuide}, promptNames)

	prompt, err := cs.GetPrompt(ctx, &sdkmcp.GetPromptParams{Name: prompts.NameExplore, Arguments: map[string]string{"entity": "BRAF"}})
	require.NoError(t, err)
	require.NotEmpty(t, prompt.Messages)
	assert.Contains(t, prompt.Messages[0].Content.(*sdkmcp.TextContent).Text, "at most 5 variable sets")
}

func TestServer_Resources(t *testing.T) {
	s := newTestServer(t, testConfig())
	cs := connect(t, s)
	ctx := context.Background()

	t.Run("example", func(t *testing.T) {
		uri := tools.ExampleURI("target-information", "target-overview")
		res, err := cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: uri})
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, tools.MimeJSON, res.Contents[0].MIMEType)

		var ex types.QueryExample
		require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &ex))
		assert.Equal(t, "target-overview", ex.Name)
		assert.Equal(t, "target-information", ex.Category)
		assert.Equal(t, uri, ex.ResourceURI)
		assert.Equal(t, "ENSG00000157764", ex.Variables["ensemblId"])
	})

	t.Run("unknown example", func(t *testing.T) {
		_, err := cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: tools.ExampleURI("target-information", "nope")})
		assert.Error(t, err)
	})

	t.Run("categories", func(t *testing.T) {
		res, err := cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: tools.CategoriesURI})
		require.NoError(t, err)

		var out struct {
			Categories []types.ExampleCategory `json:"categories"`
			Total      int                     `json:"total"`
		}
		require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &out))
		assert.Equal(t, s.deps.Catalog.Len(), out.Total)
		require.NotEmpty(t, out.Categories)
		assert.Equal(t, "entity-search", out.Categories[0].Name)
	})
}

func TestParseExampleURI(t *testing.T) {
	tests := []struct {
		uri          string
		wantCategory string
		wantName     string
		wantErr      bool
	}{
		{uri: "opentargets://examples/drug-mechanisms/drug-indications", wantCategory: "drug-mechanisms", wantName: "drug-indications"},
		{uri: "opentargets://examples/drug-mechanisms", wantErr: true},
		{uri: "opentargets://examples//name", wantErr: true},
		{uri: "opentargets://examples/a/b/c", wantErr: true},
		{uri: "https://example.org/examples/a/b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			category, name, err := parseExampleURI(tt.uri)
			if tt.wantErr {
				var coded *tools.CodedError
				require.ErrorAs(t, err, &coded)
				assert.Equal(t, tools.ErrCodeInvalidInput, coded.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCategory, category)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestServer_RateLimitAndMetrics(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitGlobalRPS = 0.001
	cfg.RateLimitGlobalBurst = 3
	cfg.RateLimitSessionRPS = 0.001
	cfg.RateLimitSessionBurst = 3
	cfg.RateLimitMaxSessions = 8

	s := newTestServer(t, cfg)
	cs := connect(t, s)
	ctx := context.Background()
	call := func() error {
		_, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{Name: tools.NameQueryExamples, Arguments: map[string]any{}})
		return err
	}

	require.NoError(t, call(), "initialize and one call fit in the burst")

	var limited error
	for range 4 {
		if err := call(); err != nil {
			limited = err
			break
		}
	}
	require.Error(t, limited)
	assert.Contains(t, limited.Error(), "Rate limit exceeded")

	m := s.deps.Metrics
	assert.GreaterOrEqual(t, counterValue(t, m, "opentargets_mcp_tool_calls_total", map[string]string{
		"tool": tools.NameQueryExamples, "status": metrics.StatusSuccess,
	}), 1.0)
	assert.GreaterOrEqual(t, counterValue(t, m, "opentargets_mcp_tool_calls_total", map[string]string{
		"status": metrics.StatusLimited,
	}), 1.0)
}

func TestServer_HTTPHandler(t *testing.T) {
	s := newTestServer(t, testConfig())
	srv := httptest.NewServer(s.HTTPHandler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestServer_HTTPTransport(t *testing.T) {
	s := newTestServer(t, testConfig())
	srv := httptest.NewServer(s.HTTPHandler())
	t.Cleanup(srv.Close)
	ctx := context.Background()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "http-client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{Endpoint: srv.URL + "/mcp"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      tools.NameQueryExamples,
		Arguments: map[string]any{"category": "drug-mechanisms"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var out types.QueryExamplesResult
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(*sdkmcp.TextContent).Text), &out))
	assert.Equal(t, types.StatusSuccess, out.Status)
	assert.NotZero(t, out.Total)
}
