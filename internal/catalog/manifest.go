package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// manifest is the decoded form of categories.yaml.
type manifest struct {
	Categories []manifestCategory `json:"categories" yaml:"categories" jsonschema:"minItems=1"`
}

type manifestCategory struct {
	Name        string            `json:"name" yaml:"name" jsonschema:"pattern=^[a-z0-9]+(-[a-z0-9]+)*$"`
	Description string            `json:"description" yaml:"description" jsonschema:"minLength=1"`
	Examples    []manifestExample `json:"examples" yaml:"examples" jsonschema:"minItems=1"`
}

type manifestExample struct {
	Name      string         `json:"name" yaml:"name" jsonschema:"pattern=^[a-z0-9]+(-[a-z0-9]+)*$"`
	Variables map[string]any `json:"variables,omitempty" yaml:"variables,omitempty"`
}

const manifestSchemaURL = "categories.schema.json"

var (
	manifestSchemaOnce sync.Once
	manifestSchema     *jsonschema.Schema
	manifestSchemaErr  error
)

// printer is a default English printer for localized error messages.
var printer = message.NewPrinter(language.English)

// compiledManifestSchema reflects the JSON Schema of manifest and compiles it.
func compiledManifestSchema() (*jsonschema.Schema, error) {
	manifestSchemaOnce.Do(func() {
		r := &invopop.Reflector{
			Anonymous:      true,
			DoNotReference: true,
			ExpandedStruct: true,
		}
		reflected := r.Reflect(&manifest{})

		raw, err := json.Marshal(reflected)
		if err != nil {
			manifestSchemaErr = fmt.Errorf("marshaling manifest schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			manifestSchemaErr = fmt.Errorf("unmarshaling manifest schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(manifestSchemaURL, doc); err != nil {
			manifestSchemaErr = fmt.Errorf("adding manifest schema resource: %w", err)
			return
		}
		manifestSchema, manifestSchemaErr = compiler.Compile(manifestSchemaURL)
		if manifestSchemaErr != nil {
			manifestSchemaErr = fmt.Errorf("compiling manifest schema: %w", manifestSchemaErr)
		}
	})
	return manifestSchema, manifestSchemaErr
}

// parseManifest decodes and validates the YAML manifest. Validation problems
// are returned one per line, prefixed with the offending instance path.
func parseManifest(data []byte) (*manifest, []string, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing YAML: %w", err)
	}

	// Round-trip through JSON so the validator sees JSON types only.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("converting manifest to JSON: %w", err)
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, nil, fmt.Errorf("converting manifest to JSON: %w", err)
	}

	schema, err := compiledManifestSchema()
	if err != nil {
		return nil, nil, err
	}
	if err := schema.Validate(value); err != nil {
		return nil, validationMessages(err), nil
	}

	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil, nil
}

// validationMessages flattens a validation error into sorted leaf messages.
func validationMessages(err error) []string {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []string{err.Error()}
	}

	seen := make(map[string]bool)
	var out []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if e.ErrorKind != nil && len(e.Causes) == 0 {
			path := "/" + strings.Join(e.InstanceLocation, "/")
			msg := path + ": " + e.ErrorKind.LocalizedString(printer)
			if !seen[msg] {
				seen[msg] = true
				out = append(out, msg)
			}
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(validationErr)

	sort.Strings(out)
	return out
}
