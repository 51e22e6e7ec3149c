// Package typegraph builds a type-reference graph from an introspected
// GraphQL schema and extracts the subsets of the schema reachable from given
// types.
package typegraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/usestring/opentargets-mcp/pkg/graphql"
)

// UnionEdge labels edges from a union to its member types.
const UnionEdge = "<union>"

var builtinScalars = map[string]bool{
	"String":  true,
	"Int":     true,
	"Float":   true,
	"Boolean": true,
	"ID":      true,
}

// isCustom reports whether name is neither an introspection type nor a
// built-in scalar.
func isCustom(name string) bool {
	return name != "" && !strings.HasPrefix(name, "__") && !builtinScalars[name]
}

// Graph maps every custom type to the custom types it references.
type Graph struct {
	types map[string]*graphql.FullType
	names []string // sorted

	// adjacency[source][target] lists the fields of source referencing target.
	adjacency map[string]map[string][]string
	reverse   map[string]map[string]bool

	directives []graphql.Directive
}

// Build constructs the graph from introspection data. Object, interface and
// input object types link to the named types of their fields; unions link
// to their members.
func Build(schema *graphql.IntrospectionSchema) *Graph {
	g := &Graph{
		types:      make(map[string]*graphql.FullType),
		adjacency:  make(map[string]map[string][]string),
		reverse:    make(map[string]map[string]bool),
		directives: schema.Directives,
	}

	for i := range schema.Types {
		t := &schema.Types[i]
		if !isCustom(t.Name) {
			continue
		}
		g.types[t.Name] = t
		g.names = append(g.names, t.Name)
		g.adjacency[t.Name] = make(map[string][]string)

		switch t.Kind {
		case "OBJECT", "INTERFACE":
			for _, f := range t.Fields {
				g.addEdge(t.Name, f.Type.NamedType(), f.Name)
			}
		case "INPUT_OBJECT":
			for _, f := range t.InputFields {
				g.addEdge(t.Name, f.Type.NamedType(), f.Name)
			}
		case "UNION":
			for _, m := range t.PossibleTypes {
				g.addEdge(t.Name, m.NamedType(), UnionEdge)
			}
		}
	}
	sort.Strings(g.names)

	return g
}

func (g *Graph) addEdge(source, target, field string) {
	if !isCustom(target) {
		return
	}
	g.adjacency[source][target] = append(g.adjacency[source][target], field)
	if g.reverse[target] == nil {
		g.reverse[target] = make(map[string]bool)
	}
	g.reverse[target][source] = true
}

// Has reports whether name is a custom type of the schema.
func (g *Graph) Has(name string) bool {
	_, ok := g.types[name]
	return ok
}

// Kind returns the introspection kind of name, e.g. "OBJECT" or "ENUM".
func (g *Graph) Kind(name string) string {
	if t, ok := g.types[name]; ok {
		return t.Kind
	}
	return ""
}

// Names returns every custom type name in sorted order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Edges returns the fields of source that reference target.
func (g *Graph) Edges(source, target string) []string {
	return g.adjacency[source][target]
}

// ReferencedBy returns the sorted names of types that reference name.
func (g *Graph) ReferencedBy(name string) []string {
	out := make([]string, 0, len(g.reverse[name]))
	for src := range g.reverse[name] {
		out = append(out, src)
	}
	sort.Strings(out)
	return out
}

// Reachable returns the types reachable from start, start included, by a
// breadth-first walk of at most maxDepth levels. maxDepth <= 0 walks the
// whole graph.
func (g *Graph) Reachable(start []string, maxDepth int) map[string]bool {
	visited := make(map[string]bool, len(start))
	level := make([]string, 0, len(start))
	for _, s := range start {
		if !visited[s] {
			visited[s] = true
			level = append(level, s)
		}
	}

	for depth := 0; len(level) > 0; depth++ {
		if maxDepth > 0 && depth >= maxDepth {
			break
		}
		var next []string
		for _, name := range level {
			for ref := range g.adjacency[name] {
				if !visited[ref] {
					visited[ref] = true
					next = append(next, ref)
				}
			}
		}
		level = next
	}

	return visited
}

// NotFoundError reports a type name missing from the schema.
type NotFoundError struct {
	Name        string
	Similar     []string // up to 5 types containing Name
	Suggestions []string // first 10 types when nothing is similar
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("Type '%s' not found in schema.", e.Name)
	if len(e.Similar) > 0 {
		return msg + " Similar types: " + strings.Join(e.Similar, ", ")
	}
	if len(e.Suggestions) > 0 {
		return msg + " Available types include: " + strings.Join(e.Suggestions, ", ")
	}
	return msg
}

func (g *Graph) notFound(name string) *NotFoundError {
	e := &NotFoundError{Name: name}
	lower := strings.ToLower(name)
	for _, n := range g.names {
		if strings.Contains(strings.ToLower(n), lower) {
			e.Similar = append(e.Similar, n)
			if len(e.Similar) == 5 {
				break
			}
		}
	}
	if len(e.Similar) == 0 {
		e.Suggestions = g.names[:min(10, len(g.names))]
	}
	return e
}

// Split partitions the types reachable from several start types.
type Split struct {
	// Specific maps each start type to the sorted types reachable only from it.
	Specific map[string][]string
	// Shared lists, sorted, the types reachable from two or more start types.
	Shared []string
}

// Dependencies walks from each of typeNames and separates the types only one
// of them reaches from those several reach. Every name must exist; the first
// missing one is reported as *NotFoundError.
func (g *Graph) Dependencies(typeNames []string, maxDepth int) (*Split, error) {
	for _, name := range typeNames {
		if !g.Has(name) {
			return nil, g.notFound(name)
		}
	}

	reachable := make(map[string]map[string]bool, len(typeNames))
	counts := make(map[string]int)
	for _, name := range typeNames {
		if _, dup := reachable[name]; dup {
			continue
		}
		reachable[name] = g.Reachable([]string{name}, maxDepth)
		for t := range reachable[name] {
			counts[t]++
		}
	}

	split := &Split{Specific: make(map[string][]string, len(reachable))}
	for t, n := range counts {
		if n > 1 {
			split.Shared = append(split.Shared, t)
		}
	}
	sort.Strings(split.Shared)

	for name, types := range reachable {
		specific := make([]string, 0, len(types))
		for t := range types {
			if counts[t] == 1 {
				specific = append(specific, t)
			}
		}
		sort.Strings(specific)
		split.Specific[name] = specific
	}

	return split, nil
}
