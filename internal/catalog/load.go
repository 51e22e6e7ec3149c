package catalog

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// Catalog source layout.
const (
	ManifestFile = "categories.yaml"
	QueriesDir   = "queries"
	QueryExt     = ".graphql"
)

//go:embed data
var embedded embed.FS

// LoadError reports that the catalog could not be built. It is fatal at
// startup and unrelated to any lookup.
type LoadError struct {
	Problems []string
	Err      error
}

func (e *LoadError) Error() string {
	var sb strings.Builder
	sb.WriteString("loading query catalog")
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	for _, p := range e.Problems {
		sb.WriteString("\n  - ")
		sb.WriteString(p)
	}
	return sb.String()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return Load(sub)
})

// Default returns the catalog embedded in the binary. It is loaded on first
// use and shared afterwards.
func Default() (*Catalog, error) {
	return defaultCatalog()
}

// Load builds a catalog from fsys, which must contain ManifestFile and a
// QueriesDir directory with one QueryExt file per example. Every problem
// found is reported in a single *LoadError.
func Load(fsys fs.FS) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, ManifestFile)
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("reading manifest: %w", err)}
	}

	m, problems, err := parseManifest(data)
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("%s: %w", ManifestFile, err)}
	}
	if len(problems) > 0 {
		for i := range problems {
			problems[i] = ManifestFile + ": " + problems[i]
		}
		return nil, &LoadError{Err: errors.New("invalid manifest"), Problems: problems}
	}

	b := newBuilder()
	parsed := make(map[string]*queryFile)
	referenced := make(map[string]bool)

	for _, cat := range m.Categories {
		if !b.addCategory(cat) {
			b.problem("category %q listed more than once", cat.Name)
			continue
		}
		for _, ex := range cat.Examples {
			referenced[ex.Name] = true

			qf, ok := parsed[ex.Name]
			if !ok {
				qf, err = readQueryFile(fsys, ex.Name)
				if err != nil {
					b.problem("%v", err)
				}
				parsed[ex.Name] = qf
			}
			if qf == nil {
				continue
			}

			b.addExample(Example{
				Name:        ex.Name,
				Category:    cat.Name,
				Title:       qf.title,
				EntityType:  qf.entityType,
				Description: qf.description,
				Variables:   ex.Variables,
				VariableDoc: qf.variables,
				Pagination:  qf.pagination,
				Query:       qf.query,
			})
		}
	}

	// Every query file must be listed in the manifest.
	entries, err := fs.ReadDir(fsys, QueriesDir)
	if err != nil {
		b.problem("reading %s: %v", QueriesDir, err)
	}
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), QueryExt)
		if entry.IsDir() || !ok {
			continue
		}
		if !referenced[name] {
			b.problem("%s: not listed in %s", path.Join(QueriesDir, entry.Name()), ManifestFile)
		}
	}

	if len(b.problems) > 0 {
		sort.Strings(b.problems)
		return nil, &LoadError{Err: errors.New("invalid catalog"), Problems: b.problems}
	}
	return b.catalog(), nil
}

// queryFile is a parsed .graphql file.
type queryFile struct {
	title       string
	entityType  string
	description string
	variables   string
	pagination  string
	query       string
}

// readQueryFile reads QueriesDir/name.graphql, splits off its comment header
// and checks that the remainder parses as an executable GraphQL document.
func readQueryFile(fsys fs.FS, name string) (*queryFile, error) {
	p := path.Join(QueriesDir, name+QueryExt)
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	qf, err := parseHeader(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	if strings.TrimSpace(qf.query) == "" {
		return nil, fmt.Errorf("%s: no query after header", p)
	}

	doc, err := parser.ParseQuery(&ast.Source{Name: p, Input: qf.query})
	if err != nil {
		return nil, fmt.Errorf("%s: %v", p, err)
	}
	if len(doc.Operations) == 0 {
		return nil, fmt.Errorf("%s: document defines no operation", p)
	}
	if qf.title == "" {
		qf.title = doc.Operations[0].Name
	}
	return qf, nil
}

// parseHeader splits the leading comment block into metadata fields.
//
//	# Query Name: TargetOverview
//	# Entity Type: target
//	# Description: first line
//	#   continuation lines are appended with a space
//	# Variables: ensemblId (String!)
//	# Pagination Behavior: None
//
// Description, Variables and Pagination Behavior accept continuation lines.
// Lines longer than bufio.MaxScanTokenSize are an error.
func parseHeader(src string) (*queryFile, error) {
	qf := &queryFile{}
	var current *string
	var body strings.Builder

	inHeader := true
	scanner := bufio.NewScanner(strings.NewReader(src))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if inHeader {
			if trimmed == "" {
				continue
			}
			if comment, ok := strings.CutPrefix(trimmed, "#"); ok {
				comment = strings.TrimSpace(comment)
				key, value, hasKey := strings.Cut(comment, ":")
				field, multiline := qf.headerField(key)
				switch {
				case hasKey && field != nil:
					*field = strings.TrimSpace(value)
					current = nil
					if multiline {
						current = field
					}
				case current != nil && comment != "":
					*current = strings.TrimSpace(*current + " " + comment)
				}
				continue
			}
			inHeader = false
		}

		body.WriteString(line)
		body.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	qf.query = strings.TrimSpace(body.String())
	return qf, nil
}

func (qf *queryFile) headerField(key string) (field *string, multiline bool) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "query name":
		return &qf.title, false
	case "entity type":
		return &qf.entityType, false
	case "description":
		return &qf.description, true
	case "variables":
		return &qf.variables, true
	case "pagination behavior":
		return &qf.pagination, true
	}
	return nil, false
}

// builder accumulates examples and their indexes.
type builder struct {
	c        *Catalog
	problems []string
}

func newBuilder() *builder {
	return &builder{c: &Catalog{
		byKey:      make(map[exampleKey]uint32),
		byCategory: make(map[string]*roaring.Bitmap),
		byToken:    make(map[string]*roaring.Bitmap),
	}}
}

func (b *builder) problem(format string, args ...any) {
	b.problems = append(b.problems, fmt.Sprintf(format, args...))
}

func (b *builder) addCategory(cat manifestCategory) bool {
	if _, dup := b.c.byCategory[cat.Name]; dup {
		return false
	}
	b.c.byCategory[cat.Name] = roaring.New()
	b.c.categories = append(b.c.categories, Category{Name: cat.Name, Description: cat.Description})
	return true
}

func (b *builder) addExample(ex Example) {
	key := exampleKey{category: ex.Category, name: ex.Name}
	if _, dup := b.c.byKey[key]; dup {
		b.problem("example %q listed more than once in category %q", ex.Name, ex.Category)
		return
	}

	pos := uint32(len(b.c.examples))
	b.c.examples = append(b.c.examples, ex)
	b.c.byKey[key] = pos
	b.c.byCategory[ex.Category].Add(pos)

	for _, field := range []string{ex.Name, ex.Category, ex.Title, ex.EntityType, ex.Description, ex.Query} {
		for _, tok := range Tokenize(field) {
			bm, ok := b.c.byToken[tok]
			if !ok {
				bm = roaring.New()
				b.c.byToken[tok] = bm
			}
			bm.Add(pos)
		}
	}
}

func (b *builder) catalog() *Catalog {
	for i := range b.c.categories {
		b.c.categories[i].Count = int(b.c.byCategory[b.c.categories[i].Name].GetCardinality())
	}
	for _, bm := range b.c.byCategory {
		bm.RunOptimize()
	}
	for _, bm := range b.c.byToken {
		bm.RunOptimize()
	}
	return b.c
}
