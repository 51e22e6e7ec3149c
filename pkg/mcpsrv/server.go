package mcpsrv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/opentargets-mcp/internal/cache"
	"github.com/usestring/opentargets-mcp/internal/catalog"
	"github.com/usestring/opentargets-mcp/internal/config"
	"github.com/usestring/opentargets-mcp/internal/logging"
	"github.com/usestring/opentargets-mcp/internal/mcp"
	"github.com/usestring/opentargets-mcp/internal/mcp/tools"
	"github.com/usestring/opentargets-mcp/internal/metrics"
	"github.com/usestring/opentargets-mcp/internal/query"
	"github.com/usestring/opentargets-mcp/pkg/graphql"
)

// ShutdownTimeout bounds the graceful shutdown of the HTTP transport.
const ShutdownTimeout = 10 * time.Second

// Server is the Open Targets MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with builtin Open Targets tools.
//
// Configuration is loaded from the environment unless WithConfig is given.
// Use functional options to configure logging, add custom tools, etc.
func NewServer(opts ...Option) (*Server, error) {
	cfg := &serverConfig{version: "dev"}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.config == nil {
		cfg.config = config.Load()
	}
	if cfg.endpoint != "" {
		cfg.config.Endpoint = cfg.endpoint
	}
	if err := cfg.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Setup logging
	logCfg := logging.FromConfig(cfg.config)
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFormat != "" {
		logCfg.Format = cfg.logFormat
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	// Create infrastructure
	programs, err := cache.NewProgramCache(cfg.config.JQCacheMaxItems)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create jq program cache: %w", err)
	}
	cat, err := catalog.Default()
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to load example catalog: %w", err)
	}

	clientOpts := []graphql.Option{
		graphql.WithMaxResponseBytes(int64(cfg.config.MaxResponseBytes)),
		graphql.WithUserAgent("opentargets-mcp/" + cfg.version),
	}
	if cfg.httpClient != nil {
		clientOpts = append(clientOpts, graphql.WithHTTPClient(cfg.httpClient))
	}

	client, err := graphql.New(cfg.config.Endpoint, cfg.config.Timeout, clientOpts...)
	if err != nil {
		_ = logCleanup()
		return nil, err
	}

	deps := &Deps{
		Client:  client,
		Catalog: cat,
		Query:   query.NewEngine(programs),
		Config:  cfg.config,
		Metrics: metrics.New(),
	}
	toolDeps := &tools.Deps{
		Client:  deps.Client,
		Catalog: deps.Catalog,
		Query:   deps.Query,
		Config:  deps.Config,
		Metrics: deps.Metrics,
	}

	// Build internal server options
	internalOpts := []mcp.ServerOption{mcp.WithVersion(cfg.version)}
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !cfg.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}

	// Add custom extension registration callbacks
	for _, fn := range cfg.toolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.promptRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.resourceRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}

	// Add deferred tool registrations (tools that need Deps access)
	for _, fn := range cfg.deferredToolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	slog.Debug("server configured",
		slog.String("endpoint", cfg.config.Endpoint),
		slog.Duration("timeout", cfg.config.Timeout),
		slog.Int("examples", cat.Len()),
		slog.Bool("rate_limit", cfg.config.RateLimitEnabled),
	)

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// Run serves MCP over stdio until the context is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Handler returns the HTTP handler serving /mcp, /healthz and /metrics.
func (s *Server) Handler() http.Handler {
	return s.internal.HTTPHandler()
}

// ListenAndServe serves streamable HTTP on addr until ctx is cancelled, then
// shuts down gracefully within ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving MCP over HTTP", slog.String("url", "http://"+ln.Addr().String()+"/mcp"))
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}
