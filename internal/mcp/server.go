package mcp

import (
	"context"
	"fmt"
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/opentargets-mcp/internal/config"
	"github.com/usestring/opentargets-mcp/internal/mcp/prompts"
	"github.com/usestring/opentargets-mcp/internal/mcp/tools"
)

// Server wraps the MCP server with Open Targets components.
type Server struct {
	mcpServer *sdkmcp.Server
	deps      *tools.Deps
	version   string

	// Extension toggles
	enableBuiltinTools   bool
	enableBuiltinPrompts bool

	// Custom extension registration callbacks
	customRegistrations []func(*sdkmcp.Server)
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithBuiltinTools enables the builtin Open Targets tools and resources.
func WithBuiltinTools() ServerOption {
	return func(s *Server) {
		s.enableBuiltinTools = true
	}
}

// WithBuiltinPrompts enables the builtin Open Targets prompts.
func WithBuiltinPrompts() ServerOption {
	return func(s *Server) {
		s.enableBuiltinPrompts = true
	}
}

// WithVersion sets the version reported to clients.
func WithVersion(v string) ServerOption {
	return func(s *Server) {
		s.version = v
	}
}

// WithCustomRegistration adds a custom registration callback.
// The callback receives the underlying MCP server and can register
// tools, prompts, or resources directly.
func WithCustomRegistration(fn func(*sdkmcp.Server)) ServerOption {
	return func(s *Server) {
		s.customRegistrations = append(s.customRegistrations, fn)
	}
}

// NewServer creates a new MCP server with the provided dependencies and options.
func NewServer(deps *tools.Deps, opts ...ServerOption) (*Server, error) {
	if deps == nil {
		return nil, fmt.Errorf("deps is required")
	}
	if deps.Config == nil {
		return nil, fmt.Errorf("deps.Config is required")
	}

	s := &Server{deps: deps, version: "dev"}
	for _, opt := range opts {
		opt(s)
	}

	name := deps.Config.ServerName
	if name == "" {
		name = config.DefaultServerName
	}
	s.mcpServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{
			Name:    name,
			Version: s.version,
		},
		nil,
	)

	// Outermost first: logging sees rate-limited calls, metrics counts them.
	middleware := []sdkmcp.Middleware{LoggingMiddleware(), MetricsMiddleware(deps.Metrics)}
	if deps.Config.RateLimitEnabled {
		limiter, err := NewRateLimiter(deps.Config)
		if err != nil {
			return nil, fmt.Errorf("creating rate limiter: %w", err)
		}
		middleware = append(middleware, limiter.Middleware())
	}
	s.mcpServer.AddReceivingMiddleware(middleware...)

	if s.enableBuiltinTools {
		tools.Register(s.mcpServer, deps)
		s.registerResources()
	}
	if s.enableBuiltinPrompts {
		prompts.Register(s.mcpServer, &prompts.Config{BatchMaxItems: deps.Config.BatchMaxItems})
	}

	for _, fn := range s.customRegistrations {
		fn(s.mcpServer)
	}

	return s, nil
}

// Run starts the MCP server with stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// HTTPHandler returns the HTTP mux of the streamable HTTP transport:
// /mcp for MCP sessions, /healthz for liveness and /metrics when metrics
// are configured.
func (s *Server) HTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mcp", sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return s.mcpServer
	}, nil))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", tools.MimeJSON)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if s.deps.Metrics != nil {
		mux.Handle("GET /metrics", s.deps.Metrics.Handler())
	}
	return mux
}

// MCPServer returns the underlying MCP server for testing.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.mcpServer
}
