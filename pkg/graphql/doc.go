// Package graphql provides a GraphQL-over-HTTP client for the Open Targets
// Platform API.
//
// The client sends one POST per call and never retries. Failures come back as
// one of two typed errors so callers can decide what to do next:
//
//   - [*TransportError]: no usable GraphQL response was obtained (connection
//     refused, timeout, non-2xx status without a GraphQL error body,
//     malformed body). Retrying may help.
//   - [*ApplicationError]: the service answered but rejected the query
//     (unknown field, bad argument type, syntax error). The query text
//     needs to change.
//
// # Quick Start
//
//	c, err := graphql.New("https://api.platform.opentargets.org/api/v4/graphql", 30*time.Second)
//	if err != nil {
//	    return err
//	}
//	resp, err := c.Execute(ctx, &graphql.Request{
//	    Query:     `query($id: String!) { target(ensemblId: $id) { approvedSymbol } }`,
//	    Variables: map[string]any{"id": "ENSG00000157191"},
//	})
//
// Inspect failures with errors.As:
//
//	var appErr *graphql.ApplicationError
//	if errors.As(err, &appErr) {
//	    for _, e := range appErr.Errors {
//	        fmt.Println(e.Message)
//	    }
//	}
//
// A Client holds no per-call state and is safe for concurrent use.
package graphql
