package tools

import (
	"context"

	"github.com/usestring/opentargets-mcp/internal/catalog"
	"github.com/usestring/opentargets-mcp/internal/config"
	"github.com/usestring/opentargets-mcp/internal/metrics"
	"github.com/usestring/opentargets-mcp/internal/query"
	"github.com/usestring/opentargets-mcp/pkg/graphql"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Client  *graphql.Client
	Catalog *catalog.Catalog
	Query   *query.Engine
	Config  *config.Config
	Metrics *metrics.Metrics // optional
}

// Execute sends req upstream and records its outcome.
func (d *Deps) Execute(ctx context.Context, req *graphql.Request) (*graphql.Response, error) {
	resp, err := d.Client.Execute(ctx, req)
	d.Metrics.ObserveGraphQL(err)
	return resp, err
}

// Introspect fetches the introspection result and records its outcome.
func (d *Deps) Introspect(ctx context.Context) (*graphql.Response, error) {
	resp, err := d.Client.Introspect(ctx)
	d.Metrics.ObserveGraphQL(err)
	return resp, err
}

func (d *Deps) batchWorkers() int {
	if d.Config != nil && d.Config.BatchWorkers > 0 {
		return d.Config.BatchWorkers
	}
	return config.DefaultBatchWorkers
}

func (d *Deps) batchMaxItems() int {
	if d.Config != nil && d.Config.BatchMaxItems > 0 {
		return d.Config.BatchMaxItems
	}
	return config.DefaultBatchMaxItems
}
