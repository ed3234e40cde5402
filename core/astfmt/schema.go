package astfmt

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://wing/ast.json"

// documentSchema is compiled on first use and shared; compiled schemas are
// safe for concurrent validation.
var documentSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	// The schema is self-contained. Refuse to fetch anything else.
	compiler.LoadURL = func(url string) (io.ReadCloser, error) {
		return nil, fmt.Errorf("external $ref not allowed: %s", url)
	}

	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// validate checks a decoded JSON value against the document schema.
func validate(v any) error {
	schema, err := documentSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return nil
}

// checkVersion accepts any valid semantic version with major version v1.
func checkVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedVersion, v)
	}
	if major := semver.Major(v); major != semver.Major(Version) {
		return fmt.Errorf("%w: %s (reader supports %s)", ErrUnsupportedVersion, v, semver.Major(Version))
	}
	return nil
}
