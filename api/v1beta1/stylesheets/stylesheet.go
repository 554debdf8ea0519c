// Package stylesheets provides the StyleSheet configuration kind for sldcat:
// the native YAML representation of an SLD attribute-classification style.
package stylesheets

import (
	"fmt"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/geocraft/sldcat/api"
	"github.com/geocraft/sldcat/api/v1beta1"
	"github.com/geocraft/sldcat/pkg/filter"
	"github.com/geocraft/sldcat/pkg/style"
	"github.com/geocraft/sldcat/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen/stylesheet/main.go -o stylesheets.v1beta1.json

var (
	//go:embed stylesheet.yaml
	defaultStyleSheetYAML []byte

	//go:embed stylesheets.v1beta1.json
	schemaJSON []byte

	// ValidKinds contains the valid kind values for stylesheet configurations.
	ValidKinds = []string{"StyleSheet"}

	// DefaultValidator validates stylesheet documents against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/stylesheets.v1beta1.json", schemaJSON)

	// Compile-time interface checks.
	_ v1beta1.Object = (*StyleSheet)(nil)
)

// Filter is the YAML form of a rule predicate. Exactly the closed operator
// set of the evaluator is representable: gte, lt, and all. Unknown operator
// keys are rejected by schema validation before decoding.
type Filter struct {
	// GreaterOrEqual matches values greater than or equal to the threshold.
	GreaterOrEqual *float64 `json:"gte,omitempty" jsonschema:"title=Greater Or Equal"`
	// LessThan matches values strictly less than the threshold.
	LessThan *float64 `json:"lt,omitempty" jsonschema:"title=Less Than"`
	// All matches when every member filter matches.
	All []*Filter `json:"all,omitempty" jsonschema:"title=All"`
}

// Predicate compiles the filter into an evaluator predicate.
func (f *Filter) Predicate() (filter.Predicate, error) {
	if f == nil {
		return nil, style.ErrMissingPredicate
	}

	var preds []filter.Predicate

	if f.GreaterOrEqual != nil {
		preds = append(preds, filter.GreaterOrEqual{Threshold: *f.GreaterOrEqual})
	}

	if f.LessThan != nil {
		preds = append(preds, filter.LessThan{Threshold: *f.LessThan})
	}

	for _, member := range f.All {
		p, err := member.Predicate()
		if err != nil {
			return nil, err
		}

		preds = append(preds, p)
	}

	switch len(preds) {
	case 0:
		return nil, style.ErrMissingPredicate
	case 1:
		return preds[0], nil
	}

	return filter.All(preds), nil
}

// Rule is one styling rule: a title, a filter, and symbolizer parameters.
type Rule struct {
	Filter *Filter `json:"filter" jsonschema:"title=Filter"`
	// Title labels the styling bucket, e.g. "> 250K".
	Title string `json:"title" jsonschema:"title=Title"`
	// Fill is the polygon fill color as a hex code.
	Fill string `json:"fill" jsonschema:"title=Fill Color"`
	// Stroke is the outline color as a hex code.
	Stroke string `json:"stroke,omitempty" jsonschema:"title=Stroke Color"`
	// StrokeWidth is the outline width in pixels.
	StrokeWidth float64 `json:"strokeWidth,omitempty" jsonschema:"title=Stroke Width"`
}

// StyleSheet is the native YAML stylesheet kind.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type StyleSheet struct {
	// Name identifies the stylesheet, e.g. for routing rules.
	Name string `json:"name" jsonschema:"title=Name"`
	// Field is the feature attribute the rules classify.
	Field string `json:"field" jsonschema:"title=Field"`
	// Rules are evaluated in order; the first match wins.
	Rules            []*Rule `json:"rules" jsonschema:"title=Rules"`
	v1beta1.TypeMeta `json:",inline"`
}

// New creates a new empty [StyleSheet].
func New() *StyleSheet {
	s := &StyleSheet{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       "StyleSheet",
		},
	}
	s.EnsureDefaults()

	return s
}

// EnsureDefaults initializes metadata fields to their default values.
func (s *StyleSheet) EnsureDefaults() {
	if s.APIVersion == "" {
		s.APIVersion = v1beta1.APIVersion
	}

	if s.Kind == "" {
		s.Kind = "StyleSheet"
	}
}

// Load decodes and validates a stylesheet document.
func Load(data []byte) (*StyleSheet, error) {
	s, err := v1beta1.Load(data, New, DefaultValidator)
	if err != nil {
		return nil, fmt.Errorf("load stylesheet: %w", err)
	}

	return s, nil
}

// Sheet compiles the document into an evaluatable [*style.Sheet].
// Compilation fails fast on the first malformed rule.
func (s *StyleSheet) Sheet() (*style.Sheet, error) {
	rules := make([]*style.Rule, 0, len(s.Rules))

	for _, r := range s.Rules {
		p, err := r.Filter.Predicate()
		if err != nil {
			return nil, &style.MalformedRuleError{Rule: r.Title, Err: err}
		}

		rule, err := style.NewRule(style.Style{
			Title:       r.Title,
			Fill:        r.Fill,
			Stroke:      r.Stroke,
			StrokeWidth: r.StrokeWidth,
		}, p)
		if err != nil {
			return nil, err
		}

		rules = append(rules, rule)
	}

	sheet, err := style.NewSheet(s.Name, s.Field, rules...)
	if err != nil {
		return nil, fmt.Errorf("stylesheet %q: %w", s.Name, err)
	}

	return sheet, nil
}

// Validate checks that the document compiles into an evaluatable sheet.
func (s *StyleSheet) Validate() error {
	_, err := s.Sheet()

	return err
}

// FromSheet builds the YAML document form of an evaluatable sheet.
func FromSheet(sheet *style.Sheet) (*StyleSheet, error) {
	s := New()
	s.Name = sheet.Name()
	s.Field = sheet.Field()

	for _, r := range sheet.Rules() {
		f, err := fromPredicate(r.Predicate)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Style.Title, err)
		}

		s.Rules = append(s.Rules, &Rule{
			Title:       r.Style.Title,
			Filter:      f,
			Fill:        r.Style.Fill,
			Stroke:      r.Style.Stroke,
			StrokeWidth: r.Style.StrokeWidth,
		})
	}

	return s, nil
}

func fromPredicate(p filter.Predicate) (*Filter, error) {
	switch pred := p.(type) {
	case filter.GreaterOrEqual:
		t := pred.Threshold

		return &Filter{GreaterOrEqual: &t}, nil

	case filter.LessThan:
		t := pred.Threshold

		return &Filter{LessThan: &t}, nil

	case filter.All:
		f := &Filter{}
		for _, m := range pred {
			member, err := fromPredicate(m)
			if err != nil {
				return nil, err
			}

			f.All = append(f.All, member)
		}

		return f, nil
	}

	return nil, fmt.Errorf("%w: %T", style.ErrUnknownOperator, p)
}

func (s StyleSheet) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the stylesheet to YAML.
func (s StyleSheet) MarshalYAML() ([]byte, error) {
	type alias StyleSheet

	b, err := api.MarshalYAML(alias(s))
	if err != nil {
		return nil, fmt.Errorf("marshal stylesheet: %w", err)
	}

	return b, nil
}

// WriteDefault writes the embedded default stylesheet to the specified path.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultStyleSheetYAML, force, "stylesheet")
	if err != nil {
		return fmt.Errorf("write default stylesheet: %w", err)
	}

	return nil
}

// Default returns the embedded default stylesheet: the literal demographic
// "number" classification, including its contradictory middle rule. Lint
// reports that rule; loading does not correct it.
func Default() *StyleSheet {
	s, err := Load(defaultStyleSheetYAML)
	if err != nil {
		panic(err)
	}

	return s
}
