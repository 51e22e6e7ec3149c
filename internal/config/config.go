// Package config provides configuration loading from environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Upstream defaults
const (
	DefaultEndpoint   = "https://api.platform.opentargets.org/api/v4/graphql"
	DefaultTimeoutSec = 30
	DefaultServerName = "Open Targets MCP"
)

// Tool defaults
const (
	DefaultBatchWorkers    = 8
	DefaultBatchMaxItems   = 100
	DefaultJQCacheMaxItems = 256
)

// Transport names accepted by MCP_TRANSPORT and --transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds all configuration for the MCP server.
type Config struct {
	Endpoint         string        // OPENTARGETS_API_ENDPOINT
	Timeout          time.Duration // OPENTARGETS_TIMEOUT (seconds), default 30s
	MaxResponseBytes int           // MAX_RESPONSE_BYTES, default 64MB
	ServerName       string        // MCP_SERVER_NAME, default "Open Targets MCP"

	// Transport
	Transport string // MCP_TRANSPORT, "stdio" or "http"
	HTTPHost  string // MCP_HTTP_HOST, default "127.0.0.1"
	HTTPPort  int    // MCP_HTTP_PORT, default 8000

	// Tool limits
	JQCacheMaxItems int // JQ_CACHE_MAX_ITEMS, default 256
	BatchWorkers    int // BATCH_WORKERS, default 8
	BatchMaxItems   int // BATCH_MAX_ITEMS, default 100

	// Rate limiting (requests per second, burst). Zero rate disables a bucket.
	RateLimitEnabled      bool    // RATE_LIMIT_ENABLED, default true
	RateLimitGlobalRPS    float64 // RATE_LIMIT_GLOBAL_RPS, default 20
	RateLimitGlobalBurst  int     // RATE_LIMIT_GLOBAL_BURST, default 40
	RateLimitSessionRPS   float64 // RATE_LIMIT_SESSION_RPS, default 5
	RateLimitSessionBurst int     // RATE_LIMIT_SESSION_BURST, default 10
	RateLimitMaxSessions  int     // RATE_LIMIT_MAX_SESSIONS, default 1024

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, text|json|pretty, default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true

	// parse errors collected by Load, reported by Validate
	errs []error
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	c := &Config{}
	c.Endpoint = getEnvString("OPENTARGETS_API_ENDPOINT", DefaultEndpoint)
	c.Timeout = c.getEnvDurationSec("OPENTARGETS_TIMEOUT", DefaultTimeoutSec)
	c.MaxResponseBytes = c.getEnvInt("MAX_RESPONSE_BYTES", 64<<20)
	c.ServerName = getEnvString("MCP_SERVER_NAME", DefaultServerName)

	c.Transport = strings.ToLower(getEnvString("MCP_TRANSPORT", TransportStdio))
	c.HTTPHost = getEnvString("MCP_HTTP_HOST", "127.0.0.1")
	c.HTTPPort = c.getEnvInt("MCP_HTTP_PORT", 8000)

	c.JQCacheMaxItems = c.getEnvInt("JQ_CACHE_MAX_ITEMS", DefaultJQCacheMaxItems)
	c.BatchWorkers = c.getEnvInt("BATCH_WORKERS", DefaultBatchWorkers)
	c.BatchMaxItems = c.getEnvInt("BATCH_MAX_ITEMS", DefaultBatchMaxItems)

	c.RateLimitEnabled = getEnvBool("RATE_LIMIT_ENABLED", true)
	c.RateLimitGlobalRPS = c.getEnvFloat("RATE_LIMIT_GLOBAL_RPS", 20)
	c.RateLimitGlobalBurst = c.getEnvInt("RATE_LIMIT_GLOBAL_BURST", 40)
	c.RateLimitSessionRPS = c.getEnvFloat("RATE_LIMIT_SESSION_RPS", 5)
	c.RateLimitSessionBurst = c.getEnvInt("RATE_LIMIT_SESSION_BURST", 10)
	c.RateLimitMaxSessions = c.getEnvInt("RATE_LIMIT_MAX_SESSIONS", 1024)

	c.LogLevel = getEnvString("LOG_LEVEL", "info")
	c.LogFormat = strings.ToLower(getEnvString("LOG_FORMAT", "text"))
	c.LogFile = getEnvString("LOG_FILE", "")
	c.LogMaxSizeMB = c.getEnvInt("LOG_MAX_SIZE_MB", 10)
	c.LogMaxBackups = c.getEnvInt("LOG_MAX_BACKUPS", 5)
	c.LogMaxAgeDays = c.getEnvInt("LOG_MAX_AGE_DAYS", 28)
	c.LogCompress = getEnvBool("LOG_COMPRESS", true)
	return c
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	errs := append([]error(nil), c.errs...)

	if u, err := url.Parse(c.Endpoint); err != nil {
		errs = append(errs, fmt.Errorf("OPENTARGETS_API_ENDPOINT: %w", err))
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("OPENTARGETS_API_ENDPOINT: %q is not an http(s) URL", c.Endpoint))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("OPENTARGETS_TIMEOUT: must be positive, got %s", c.Timeout))
	}
	if strings.TrimSpace(c.ServerName) == "" {
		errs = append(errs, errors.New("MCP_SERVER_NAME: must not be empty"))
	}
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		errs = append(errs, fmt.Errorf("MCP_TRANSPORT: unknown transport %q (want stdio or http)", c.Transport))
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("MCP_HTTP_PORT: %d out of range", c.HTTPPort))
	}
	if c.BatchWorkers < 1 {
		errs = append(errs, fmt.Errorf("BATCH_WORKERS: must be at least 1, got %d", c.BatchWorkers))
	}
	if c.BatchMaxItems < 1 {
		errs = append(errs, fmt.Errorf("BATCH_MAX_ITEMS: must be at least 1, got %d", c.BatchMaxItems))
	}
	if c.JQCacheMaxItems < 1 {
		errs = append(errs, fmt.Errorf("JQ_CACHE_MAX_ITEMS: must be at least 1, got %d", c.JQCacheMaxItems))
	}
	if c.RateLimitGlobalRPS < 0 || c.RateLimitSessionRPS < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_*_RPS: must not be negative"))
	}
	// A bucket with a rate but no burst rejects every request.
	if c.RateLimitEnabled {
		if c.RateLimitGlobalRPS > 0 && c.RateLimitGlobalBurst < 1 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_GLOBAL_BURST: must be at least 1 when RATE_LIMIT_GLOBAL_RPS is set, got %d", c.RateLimitGlobalBurst))
		}
		if c.RateLimitSessionRPS > 0 && c.RateLimitSessionBurst < 1 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_SESSION_BURST: must be at least 1 when RATE_LIMIT_SESSION_RPS is set, got %d", c.RateLimitSessionBurst))
		}
		if c.RateLimitSessionRPS > 0 && c.RateLimitMaxSessions < 1 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_MAX_SESSIONS: must be at least 1, got %d", c.RateLimitMaxSessions))
		}
	}
	switch c.LogFormat {
	case "text", "json", "pretty":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT: unknown format %q (want text, json or pretty)", c.LogFormat))
	}
	return errors.Join(errs...)
}

// HTTPAddr returns the host:port the HTTP transport listens on.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

// MCPURL returns the URL clients use to reach the HTTP transport.
func (c *Config) MCPURL() string {
	return "http://" + c.HTTPAddr() + "/mcp"
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func (c *Config) getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		c.errs = append(c.errs, fmt.Errorf("%s: %q is not an integer", key, v))
		return defaultVal
	}
	return i
}

func (c *Config) getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		c.errs = append(c.errs, fmt.Errorf("%s: %q is not a number", key, v))
		return defaultVal
	}
	return f
}

func (c *Config) getEnvDurationSec(key string, defaultSec float64) time.Duration {
	sec := c.getEnvFloat(key, defaultSec)
	return time.Duration(sec * float64(time.Second))
}
