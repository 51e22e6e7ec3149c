package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/usestring/opentargets-mcp/internal/config"
	"github.com/usestring/opentargets-mcp/pkg/mcpsrv"
)

type serveFlags struct {
	transport string
	host      string
	port      int
	endpoint  string
	logLevel  string
	logFormat string
}

func addServeFlags(cmd *cobra.Command, f *serveFlags) {
	fs := cmd.Flags()
	fs.StringVar(&f.transport, "transport", "", "transport to serve: stdio or http (env MCP_TRANSPORT)")
	fs.StringVar(&f.host, "host", "", "HTTP listen host (env MCP_HTTP_HOST)")
	fs.IntVar(&f.port, "port", 0, "HTTP listen port (env MCP_HTTP_PORT)")
	fs.StringVar(&f.endpoint, "endpoint", "", "Open Targets GraphQL endpoint (env OPENTARGETS_API_ENDPOINT)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error (env LOG_LEVEL)")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text, json or pretty (env LOG_FORMAT)")
}

func serveCmd() *cobra.Command {
	flags := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio or streamable HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}
	addServeFlags(cmd, flags)
	return cmd
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(cmd *cobra.Command, f *serveFlags, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("transport") {
		cfg.Transport = f.transport
	}
	if fs.Changed("host") {
		cfg.HTTPHost = f.host
	}
	if fs.Changed("port") {
		cfg.HTTPPort = f.port
	}
	if fs.Changed("endpoint") {
		cfg.Endpoint = f.endpoint
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
}

func runServe(cmd *cobra.Command, f *serveFlags) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	applyFlags(cmd, f, cfg)

	server, err := mcpsrv.NewServer(mcpsrv.WithConfig(cfg), mcpsrv.WithVersion(version))
	if err != nil {
		return err
	}
	defer server.Close()

	switch cfg.Transport {
	case config.TransportHTTP:
		err = server.ListenAndServe(ctx, cfg.HTTPAddr())
	default:
		slog.Info("starting Open Targets MCP server on stdio", slog.String("endpoint", cfg.Endpoint))
		err = server.Run(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", slog.String("error", err.Error()))
		return err
	}

	slog.Info("server stopped")
	return nil
}
