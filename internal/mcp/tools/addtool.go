package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a typed tool after checking its output type with
// CheckOutputSchema.
//
// Panics if the output type is unusable, so a broken tool fails at startup.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	if err := CheckOutputSchema[Out](); err != nil {
		panic(fmt.Sprintf("tool %q: %v", t.Name, err))
	}
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema reports problems with T as a tool output:
//
//   - T must carry a string "status" field, the contract every tool result
//     follows.
//   - json.RawMessage and []byte fields are rejected. The schema inferred for
//     them is an array of integers, while the marshaled value is arbitrary
//     JSON (RawMessage) or a base64 string ([]byte). Use any instead.
//   - The zero value of T must satisfy the inferred schema. A nil slice
//     without omitzero marshals as null where the schema wants an array.
//
// Schema inference failures are left for the SDK to report.
func CheckOutputSchema[T any]() error {
	rt := reflect.TypeFor[T]()
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return fmt.Errorf("output type %s is not a struct", rt)
	}

	var errs []error
	if !hasStatusField(rt) {
		errs = append(errs, fmt.Errorf("output type %s has no string field tagged json:\"status\"", rt))
	}
	if paths := opaqueFields(rt, nil, map[reflect.Type]bool{}); len(paths) > 0 {
		errs = append(errs, fmt.Errorf("output type %s has byte-typed fields at %s; use any", rt, strings.Join(paths, ", ")))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	schema, err := jsonschema.ForType(rt, &jsonschema.ForOptions{})
	if err != nil {
		return nil
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return nil
	}

	data, err := json.Marshal(reflect.Zero(rt).Interface())
	if err != nil {
		return fmt.Errorf("marshaling zero %s: %w", rt, err)
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("zero %s is not a JSON object: %w", rt, err)
	}
	if err := resolved.Validate(&v); err != nil {
		return fmt.Errorf("zero %s fails its schema (%s): %w; add omitzero to slice fields", rt, data, err)
	}
	return nil
}

func hasStatusField(rt reflect.Type) bool {
	for i := range rt.NumField() {
		f := rt.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "status" && f.Type.Kind() == reflect.String {
			return true
		}
	}
	return false
}

var (
	rawMessageType = reflect.TypeFor[json.RawMessage]()
	byteSliceType  = reflect.TypeFor[[]byte]()
)

// opaqueFields walks t and returns the paths of json.RawMessage and []byte
// values inside it.
func opaqueFields(t reflect.Type, path []string, seen map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == rawMessageType || t == byteSliceType {
		return []string{strings.Join(path, ".")}
	}
	if seen[t] {
		return nil
	}
	seen[t] = true
	defer delete(seen, t)

	var found []string
	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			if f := t.Field(i); f.IsExported() {
				found = append(found, opaqueFields(f.Type, append(path, f.Name), seen)...)
			}
		}
	case reflect.Slice, reflect.Array:
		found = append(found, opaqueFields(t.Elem(), append(path, "[]"), seen)...)
	case reflect.Map:
		found = append(found, opaqueFields(t.Elem(), append(path, "[value]"), seen)...)
	}
	return found
}
