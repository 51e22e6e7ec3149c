package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"OPENTARGETS_API_ENDPOINT", "OPENTARGETS_TIMEOUT", "MCP_SERVER_NAME",
		"MCP_TRANSPORT", "MCP_HTTP_HOST", "MCP_HTTP_PORT", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "Open Targets MCP", cfg.ServerName)
	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, "127.0.0.1:8000", cfg.HTTPAddr())
	assert.Equal(t, "http://127.0.0.1:8000/mcp", cfg.MCPURL())
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("OPENTARGETS_API_ENDPOINT", "http://localhost:8080/api/v4/graphql")
	t.Setenv("OPENTARGETS_TIMEOUT", "2.5")
	t.Setenv("MCP_SERVER_NAME", "Targets")
	t.Setenv("MCP_TRANSPORT", "HTTP")
	t.Setenv("MCP_HTTP_PORT", "9000")
	t.Setenv("BATCH_WORKERS", "3")
	t.Setenv("RATE_LIMIT_ENABLED", "off")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://localhost:8080/api/v4/graphql", cfg.Endpoint)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "Targets", cfg.ServerName)
	assert.Equal(t, TransportHTTP, cfg.Transport)
	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, 3, cfg.BatchWorkers)
	assert.False(t, cfg.RateLimitEnabled)
}

func TestValidate_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"relative endpoint", "OPENTARGETS_API_ENDPOINT", "/graphql", "OPENTARGETS_API_ENDPOINT"},
		{"ftp endpoint", "OPENTARGETS_API_ENDPOINT", "ftp://example.org/graphql", "not an http(s) URL"},
		{"zero timeout", "OPENTARGETS_TIMEOUT", "0", "OPENTARGETS_TIMEOUT"},
		{"negative timeout", "OPENTARGETS_TIMEOUT", "-1", "must be positive"},
		{"malformed timeout", "OPENTARGETS_TIMEOUT", "soon", "not a number"},
		{"malformed port", "MCP_HTTP_PORT", "eighty", "not an integer"},
		{"port out of range", "MCP_HTTP_PORT", "70000", "out of range"},
		{"unknown transport", "MCP_TRANSPORT", "websocket", "unknown transport"},
		{"unknown log format", "LOG_FORMAT", "xml", "unknown format"},
		{"no batch workers", "BATCH_WORKERS", "0", "BATCH_WORKERS"},
		{"zero global burst", "RATE_LIMIT_GLOBAL_BURST", "0", "RATE_LIMIT_GLOBAL_BURST: must be at least 1"},
		{"zero session burst", "RATE_LIMIT_SESSION_BURST", "0", "RATE_LIMIT_SESSION_BURST: must be at least 1"},
		{"no session slots", "RATE_LIMIT_MAX_SESSIONS", "0", "RATE_LIMIT_MAX_SESSIONS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			err := Load().Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_BurstOnlyMattersForActiveBuckets(t *testing.T) {
	t.Run("zero rate", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_SESSION_RPS", "0")
		t.Setenv("RATE_LIMIT_SESSION_BURST", "0")
		assert.NoError(t, Load().Validate())
	})

	t.Run("limiting disabled", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "false")
		t.Setenv("RATE_LIMIT_GLOBAL_BURST", "0")
		assert.NoError(t, Load().Validate())
	})
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	t.Setenv("OPENTARGETS_TIMEOUT", "0")
	t.Setenv("MCP_TRANSPORT", "carrier-pigeon")

	err := Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENTARGETS_TIMEOUT")
	assert.Contains(t, err.Error(), "MCP_TRANSPORT")
}
