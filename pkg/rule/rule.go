// Package rule routes map layers to stylesheets, by using CEL (Common
// Expression Language) expressions over layer names and attributes.
package rule

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/geocraft/sldcat/pkg/expr"
)

// Rule uses a CEL matcher to determine if its stylesheet should be applied.
//
// CEL expressions have access to variables:
//   - `layer` (string): The name of the map layer being styled
//   - `attributes` (map<string, dyn>): The layer's metadata attributes
//
// CEL expressions must return a boolean value:
//   - layer.startsWith("demographic_") - true for demographic layers
//   - attributes["subject"] == "number" - true when the layer's subject is "number"
//   - layer == "county" && attributes["geolevel"] in ["county", "block"] - conjunctions
//   - true - rule always matches (useful as a final fallback)
//
// CEL provides standard functions like `endsWith`, `contains`, `startsWith`,
// `matches`, the `in` operator for list membership, and logical operators
// like `&&`, `||`, and `!`.
type Rule struct {
	matchProgram cel.Program // Compiled CEL program for matching layers.

	// Match is a CEL expression to match layers.
	Match string `json:"match" jsonschema:"title=Match Expression"`
	// StyleSheet is the name of the stylesheet to use when this rule matches.
	StyleSheet string `json:"stylesheet" jsonschema:"title=StyleSheet Name"`
}

// New creates a new rule with the given stylesheet name and match expression.
func New(styleSheetName, match string) (*Rule, error) {
	r := &Rule{
		Match:      match,
		StyleSheet: styleSheetName,
	}

	err := r.CompileMatch()
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", match, err)
	}

	return r, nil
}

// MustNew creates a new rule and panics if there's an error.
func MustNew(styleSheetName, match string) *Rule {
	r, err := New(styleSheetName, match)
	if err != nil {
		panic(err)
	}

	return r
}

// CompileMatch compiles the rule's match expression into a CEL program.
func (r *Rule) CompileMatch() error {
	if r.matchProgram == nil {
		env, err := expr.CreateEnvironment()
		if err != nil {
			return fmt.Errorf("create CEL environment: %w", err)
		}

		ast, issues := env.Compile(r.Match)
		if issues != nil && issues.Err() != nil {
			return fmt.Errorf("compile match expression: %w", issues.Err())
		}

		program, err := env.Program(ast)
		if err != nil {
			return fmt.Errorf("create CEL program: %w", err)
		}

		r.matchProgram = program
	}

	return nil
}

// MatchLayer evaluates the rule against a layer name and its attributes.
//
// The CEL expression must return a boolean value indicating whether the rule
// matches; evaluation failures and non-boolean results count as non-matches.
func (r *Rule) MatchLayer(layer string, attributes map[string]any) bool {
	if r.matchProgram == nil {
		panic(errors.New("rule missing a match expression"))
	}

	if attributes == nil {
		attributes = map[string]any{}
	}

	result, _, err := r.matchProgram.Eval(map[string]any{
		"layer":      layer,
		"attributes": attributes,
	})
	if err != nil {
		return false
	}

	if boolVal, ok := result.Value().(bool); ok {
		return boolVal
	}

	return false
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s: %s", r.StyleSheet, r.Match)
}
