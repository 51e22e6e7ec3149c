package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/usestring/opentargets-mcp/internal/cache"
	"github.com/usestring/opentargets-mcp/internal/catalog"
	"github.com/usestring/opentargets-mcp/internal/config"
	"github.com/usestring/opentargets-mcp/internal/metrics"
	"github.com/usestring/opentargets-mcp/internal/query"
	"github.com/usestring/opentargets-mcp/pkg/graphql"
)

// gqlCall is a request received by the fake API.
type gqlCall struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// fakeAPI is an httptest GraphQL endpoint answering with respond.
type fakeAPI struct {
	*httptest.Server
	calls atomic.Int32
}

func newFakeAPI(t *testing.T, respond func(call gqlCall) (int, string)) *fakeAPI {
	t.Helper()
	api := &fakeAPI{}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.calls.Add(1)
		var call gqlCall
		if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		status, body := respond(call)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(api.Close)
	return api
}

// introspectionBody returns the introspection fixture wrapped as a response.
func introspectionBody(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("../../typegraph/testdata/schema.json")
	require.NoError(t, err)
	return `{"data":` + string(data) + `}`
}

func newTestDeps(t *testing.T, endpoint string) *Deps {
	t.Helper()
	programs, err := cache.NewProgramCache(16)
	require.NoError(t, err)
	cat, err := catalog.Default()
	require.NoError(t, err)

	client, err := graphql.New(endpoint, 5*time.Second)
	require.NoError(t, err)

	return &Deps{
		Client:  client,
		Catalog: cat,
		Query:   query.NewEngine(programs),
		Config:  &config.Config{BatchWorkers: 4, BatchMaxItems: 10},
		Metrics: metrics.New(),
	}
}

// connect registers every tool on a fresh server and returns a client
// session talking to it over in-memory transports.
func connect(t *testing.T, d *Deps) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	srv := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "opentargets-test", Version: "test"}, nil)
	Register(srv, d)

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	ss, err := srv.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

// callToolText calls name and returns its text content as sent.
func callToolText(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text, res.IsError
}

// callTool calls name and decodes the JSON text content into T. Numbers
// decode as json.Number.
func callTool[T any](t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) (T, bool) {
	t.Helper()
	text, isErr := callToolText(t, cs, name, args)

	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&out), text)
	return out, isErr
}
