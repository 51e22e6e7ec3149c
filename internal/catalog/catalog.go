// Package catalog holds the static collection of example GraphQL queries
// shipped with the server.
//
// The catalog is loaded once at startup from an embedded manifest and a set
// of .graphql files, then only read. Lookups by category and keyword are
// served from roaring bitmaps over example positions, so results always come
// back in load order.
package catalog

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Example is a canned query from the catalog.
type Example struct {
	Name        string         // unique within its category
	Category    string         // category name
	Title       string         // operation name, e.g. "TargetOverview"
	EntityType  string         // target, disease, drug or search
	Description string         // what the query answers
	Variables   map[string]any // sample variable values, may be nil
	VariableDoc string         // declared variables in human-readable form
	Pagination  string         // how the query pages through results
	Query       string         // GraphQL document
}

// Category groups related examples.
type Category struct {
	Name        string
	Description string
	Count       int
}

type exampleKey struct {
	category string
	name     string
}

// Catalog is an immutable, indexed collection of examples.
type Catalog struct {
	examples   []Example
	categories []Category
	byKey      map[exampleKey]uint32
	byCategory map[string]*roaring.Bitmap
	byToken    map[string]*roaring.Bitmap
}

// Len returns the number of examples.
func (c *Catalog) Len() int {
	return len(c.examples)
}

// Categories returns every category in manifest order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// HasCategory reports whether name is a known category.
func (c *Catalog) HasCategory(name string) bool {
	_, ok := c.byCategory[name]
	return ok
}

// List returns the examples of category in load order, or every example
// when category is empty. An unknown category yields an empty slice.
func (c *Catalog) List(category string) []Example {
	if category == "" {
		out := make([]Example, 0, len(c.examples))
		for i := range c.examples {
			out = append(out, c.examples[i].clone())
		}
		return out
	}
	bm, ok := c.byCategory[category]
	if !ok {
		return []Example{}
	}
	return c.collect(bm)
}

// Get returns the example with the given category and name.
func (c *Catalog) Get(category, name string) (Example, bool) {
	pos, ok := c.byKey[exampleKey{category: category, name: name}]
	if !ok {
		return Example{}, false
	}
	return c.examples[pos].clone(), true
}

// Search returns the examples matching every keyword in text, optionally
// restricted to category. Keywords match whole words of the name, title,
// entity type, description and query fields. An empty text behaves like List.
func (c *Catalog) Search(category, text string) []Example {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return c.List(category)
	}

	var result *roaring.Bitmap
	if category != "" {
		bm, ok := c.byCategory[category]
		if !ok {
			return []Example{}
		}
		result = bm.Clone()
	} else {
		result = roaring.New()
		result.AddRange(0, uint64(len(c.examples)))
	}

	for _, tok := range tokens {
		bm, ok := c.byToken[tok]
		if !ok {
			return []Example{}
		}
		result.And(bm)
		if result.IsEmpty() {
			return []Example{}
		}
	}
	return c.collect(result)
}

func (c *Catalog) collect(bm *roaring.Bitmap) []Example {
	out := make([]Example, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, c.examples[it.Next()].clone())
	}
	return out
}

// clone returns a copy that shares nothing mutable with the catalog.
func (e Example) clone() Example {
	if e.Variables != nil {
		e.Variables = cloneValue(e.Variables).(map[string]any)
	}
	return e
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}
