package typegraph

import (
	"bytes"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/usestring/opentargets-mcp/pkg/graphql"
)

var builtinDirectives = map[string]bool{
	"include":     true,
	"skip":        true,
	"deprecated":  true,
	"specifiedBy": true,
	"oneOf":       true,
}

// SDL prints the named types in schema definition language, sorted by name.
// Unknown names are skipped.
func (g *Graph) SDL(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	doc := &ast.SchemaDocument{}
	for _, name := range sorted {
		if t, ok := g.types[name]; ok {
			doc.Definitions = append(doc.Definitions, definition(t))
		}
	}
	return format(doc)
}

// SchemaSDL prints every custom type and directive of the schema.
func (g *Graph) SchemaSDL() string {
	doc := &ast.SchemaDocument{}
	for _, d := range g.directives {
		if builtinDirectives[d.Name] {
			continue
		}
		doc.Directives = append(doc.Directives, directiveDefinition(d))
	}
	for _, name := range g.names {
		doc.Definitions = append(doc.Definitions, definition(g.types[name]))
	}
	return format(doc)
}

func format(doc *ast.SchemaDocument) string {
	if len(doc.Definitions) == 0 && len(doc.Directives) == 0 {
		return ""
	}
	var buf bytes.Buffer
	formatter.NewFormatter(&buf, formatter.WithIndent("  ")).FormatSchemaDocument(doc)
	return strings.TrimSpace(buf.String())
}

func definition(t *graphql.FullType) *ast.Definition {
	def := &ast.Definition{
		Kind:        ast.DefinitionKind(t.Kind),
		Name:        t.Name,
		Description: deref(t.Description),
	}

	for _, iface := range t.Interfaces {
		def.Interfaces = append(def.Interfaces, iface.NamedType())
	}
	for _, m := range t.PossibleTypes {
		if t.Kind == "UNION" {
			def.Types = append(def.Types, m.NamedType())
		}
	}

	for _, f := range t.Fields {
		fd := &ast.FieldDefinition{
			Name:        f.Name,
			Description: deref(f.Description),
			Type:        astType(&f.Type),
			Directives:  deprecation(f.IsDeprecated, f.DeprecationReason),
		}
		for _, a := range f.Args {
			fd.Arguments = append(fd.Arguments, argument(a))
		}
		def.Fields = append(def.Fields, fd)
	}

	for _, in := range t.InputFields {
		a := argument(in)
		def.Fields = append(def.Fields, &ast.FieldDefinition{
			Name:         a.Name,
			Description:  a.Description,
			Type:         a.Type,
			DefaultValue: a.DefaultValue,
		})
	}

	for _, v := range t.EnumValues {
		def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{
			Name:        v.Name,
			Description: deref(v.Description),
			Directives:  deprecation(v.IsDeprecated, v.DeprecationReason),
		})
	}

	return def
}

func directiveDefinition(d graphql.Directive) *ast.DirectiveDefinition {
	dd := &ast.DirectiveDefinition{
		Name:        d.Name,
		Description: deref(d.Description),
		// the formatter reads Position.Src to skip built-ins
		Position: &ast.Position{Src: &ast.Source{Name: "introspection"}},
	}
	for _, a := range d.Args {
		dd.Arguments = append(dd.Arguments, argument(a))
	}
	for _, loc := range d.Locations {
		dd.Locations = append(dd.Locations, ast.DirectiveLocation(loc))
	}
	return dd
}

func argument(in graphql.InputValue) *ast.ArgumentDefinition {
	a := &ast.ArgumentDefinition{
		Name:        in.Name,
		Description: deref(in.Description),
		Type:        astType(&in.Type),
	}
	if in.DefaultValue != nil {
		// Introspection returns default values as GraphQL literals; an enum
		// value prints its raw text unchanged.
		a.DefaultValue = &ast.Value{Kind: ast.EnumValue, Raw: *in.DefaultValue}
	}
	return a
}

func astType(ref *graphql.TypeRef) *ast.Type {
	if ref == nil {
		return &ast.Type{}
	}
	switch ref.Kind {
	case "NON_NULL":
		inner := astType(ref.OfType)
		inner.NonNull = true
		return inner
	case "LIST":
		return &ast.Type{Elem: astType(ref.OfType)}
	default:
		return &ast.Type{NamedType: deref(ref.Name)}
	}
}

func deprecation(deprecated bool, reason *string) ast.DirectiveList {
	if !deprecated {
		return nil
	}
	d := &ast.Directive{Name: "deprecated"}
	if reason != nil && *reason != "" {
		d.Arguments = ast.ArgumentList{{
			Name:  "reason",
			Value: &ast.Value{Kind: ast.StringValue, Raw: *reason},
		}}
	}
	return ast.DirectiveList{d}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
