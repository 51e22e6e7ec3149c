package mcp

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/time/rate"

	"github.com/usestring/opentargets-mcp/internal/config"
	"github.com/usestring/opentargets-mcp/internal/mcp/tools"
	"github.com/usestring/opentargets-mcp/internal/metrics"
)

// ErrRateLimited is returned for requests rejected by the rate limiter.
var ErrRateLimited = &tools.CodedError{Code: tools.ErrCodeRateLimited, Message: "Rate limit exceeded"}

// LoggingMiddleware returns middleware that logs all incoming method calls.
func LoggingMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			start := time.Now()

			result, err := next(ctx, method, req)

			attrs := []slog.Attr{
				slog.String("method", method),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			if name := toolName(req); name != "" {
				attrs = append(attrs, slog.String("tool", name))
			}
			if id := sessionID(req); id != "" {
				attrs = append(attrs, slog.String("session", id))
			}

			switch {
			case errors.Is(err, ErrRateLimited):
				slog.LogAttrs(ctx, slog.LevelWarn, "method call rate limited", attrs...)
			case err != nil:
				attrs = append(attrs, slog.String("error", err.Error()))
				slog.LogAttrs(ctx, slog.LevelError, "method call failed", attrs...)
			default:
				slog.LogAttrs(ctx, slog.LevelInfo, "method call completed", attrs...)
			}

			return result, err
		}
	}
}

// MetricsMiddleware records the status and duration of every tools/call.
func MetricsMiddleware(m *metrics.Metrics) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			name := toolName(req)
			if name == "" {
				return next(ctx, method, req)
			}

			start := time.Now()
			result, err := next(ctx, method, req)

			status := metrics.StatusSuccess
			switch {
			case errors.Is(err, ErrRateLimited):
				status = metrics.StatusLimited
			case err != nil:
				status = metrics.StatusError
			default:
				if res, ok := result.(*sdkmcp.CallToolResult); ok && res.IsError {
					status = metrics.StatusError
				}
			}
			m.ObserveTool(name, status, time.Since(start))

			return result, err
		}
	}
}

// RateLimiter applies token buckets to incoming requests. Requests outside a
// session (stdio, session setup) share the global bucket; requests inside an
// identified session draw from that session's bucket.
type RateLimiter struct {
	global *rate.Limiter

	sessionLimit rate.Limit
	sessionBurst int

	mu       sync.Mutex
	sessions *lru.Cache[string, *rate.Limiter]
}

// NewRateLimiter builds a limiter from the RATE_LIMIT_* settings. A zero
// rate disables the corresponding bucket.
func NewRateLimiter(cfg *config.Config) (*RateLimiter, error) {
	maxSessions := cfg.RateLimitMaxSessions
	if maxSessions < 1 {
		maxSessions = 1
	}
	sessions, err := lru.New[string, *rate.Limiter](maxSessions)
	if err != nil {
		return nil, err
	}

	return &RateLimiter{
		global:       rate.NewLimiter(limitOf(cfg.RateLimitGlobalRPS), cfg.RateLimitGlobalBurst),
		sessionLimit: limitOf(cfg.RateLimitSessionRPS),
		sessionBurst: cfg.RateLimitSessionBurst,
		sessions:     sessions,
	}, nil
}

func limitOf(rps float64) rate.Limit {
	if rps <= 0 {
		return rate.Inf
	}
	return rate.Limit(rps)
}

// Allow consumes one token for a request of the given session ("" when the
// request has none) and reports whether the request may proceed.
func (l *RateLimiter) Allow(session string) bool {
	if session == "" {
		return l.global.Allow()
	}
	return l.sessionLimiter(session).Allow()
}

func (l *RateLimiter) sessionLimiter(session string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.sessions.Get(session); ok {
		return lim
	}
	lim := rate.NewLimiter(l.sessionLimit, l.sessionBurst)
	l.sessions.Add(session, lim)
	return lim
}

// Middleware rejects requests over the limit with ErrRateLimited.
// Notifications are never limited since they cannot carry an error back.
func (l *RateLimiter) Middleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}
			if !l.Allow(sessionID(req)) {
				return nil, ErrRateLimited
			}
			return next(ctx, method, req)
		}
	}
}

// toolName returns the tool of a tools/call request, or "".
func toolName(req sdkmcp.Request) string {
	call, ok := req.(*sdkmcp.CallToolRequest)
	if !ok || call.Params == nil {
		return ""
	}
	return call.Params.Name
}

// sessionID returns the MCP session ID of req. Stdio sessions have none.
func sessionID(req sdkmcp.Request) string {
	if ss, ok := req.GetSession().(*sdkmcp.ServerSession); ok && ss != nil {
		return ss.ID()
	}
	return ""
}
