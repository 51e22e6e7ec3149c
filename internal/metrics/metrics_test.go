package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/opentargets-mcp/pkg/graphql"
)

func TestObserveTool(t *testing.T) {
	m := New()

	m.ObserveTool("opentargets_query", StatusSuccess, 120*time.Millisecond)
	m.ObserveTool("opentargets_query", StatusSuccess, 80*time.Millisecond)
	m.ObserveTool("opentargets_query", StatusError, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("opentargets_query", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("opentargets_query", StatusError)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.toolDuration))
}

func TestObserveGraphQL(t *testing.T) {
	m := New()

	m.ObserveGraphQL(nil)
	m.ObserveGraphQL(&graphql.TransportError{Kind: graphql.KindTimeout})
	m.ObserveGraphQL(&graphql.ApplicationError{})
	m.ObserveGraphQL(graphql.ErrEmptyQuery)

	for _, outcome := range []string{OutcomeSuccess, "timeout", OutcomeGraphQLError, OutcomeInvalid} {
		assert.Equal(t, 1.0, testutil.ToFloat64(m.graphqlRequests.WithLabelValues(outcome)), outcome)
	}
}

func TestOutcome_Wrapped(t *testing.T) {
	err := errors.Join(errors.New("context"), &graphql.TransportError{Kind: graphql.KindConnection})
	assert.Equal(t, "connection", Outcome(err))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTool("x", StatusSuccess, time.Millisecond)
		m.ObserveGraphQL(nil)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveTool("opentargets_get_schema", StatusSuccess, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `opentargets_mcp_tool_calls_total{status="success",tool="opentargets_get_schema"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}
