package mcpsrv

import (
	"github.com/usestring/opentargets-mcp/internal/catalog"
	"github.com/usestring/opentargets-mcp/internal/config"
	"github.com/usestring/opentargets-mcp/internal/metrics"
	"github.com/usestring/opentargets-mcp/internal/query"
	"github.com/usestring/opentargets-mcp/pkg/graphql"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Client  *graphql.Client
	Catalog *catalog.Catalog
	Query   *query.Engine
	Config  *config.Config
	Metrics *metrics.Metrics
}
