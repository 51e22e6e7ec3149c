package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/opentargets-mcp/internal/config"
)

func TestApplyFlags(t *testing.T) {
	t.Setenv("MCP_HTTP_HOST", "0.0.0.0")
	t.Setenv("LOG_FORMAT", "json")

	cmd := &cobra.Command{Use: "serve"}
	flags := &serveFlags{}
	addServeFlags(cmd, flags)
	require.NoError(t, cmd.Flags().Parse([]string{"--transport", "http", "--port", "9100", "--log-level", "debug"}))

	cfg := config.Load()
	applyFlags(cmd, flags, cfg)

	assert.Equal(t, config.TransportHTTP, cfg.Transport)
	assert.Equal(t, 9100, cfg.HTTPPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "0.0.0.0", cfg.HTTPHost, "unset flags keep the environment value")
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "0.0.0.0:9100", cfg.HTTPAddr())
	assert.NoError(t, cfg.Validate())
}

func TestVersionCmd(t *testing.T) {
	cmd := versionCmd()
	var out strings.Builder
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)
	assert.Equal(t, version+"\n", out.String())
}
