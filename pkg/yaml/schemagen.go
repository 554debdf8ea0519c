package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator produces a JSON schema for a Go value. Doc comments from
// the listed packages become field descriptions.
type SchemaGenerator struct {
	value    any
	packages []string
}

// NewSchemaGenerator creates a [SchemaGenerator] for v. Each pkg is a Go
// import path to mine for doc comments, resolved relative to the module
// root.
func NewSchemaGenerator(v any, pkgs ...string) *SchemaGenerator {
	return &SchemaGenerator{
		value:    v,
		packages: pkgs,
	}
}

// Generate reflects the schema and renders it as indented JSON.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	r := &jsonschema.Reflector{
		DoNotReference: false,
	}

	for _, pkg := range g.packages {
		if err := r.AddGoComments(pkg, "./"); err != nil {
			return nil, fmt.Errorf("add comments for %s: %w", pkg, err)
		}
	}

	js := r.Reflect(g.value)

	jsData, err := json.MarshalIndent(js, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(jsData, '\n'), nil
}
