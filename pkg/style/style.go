// Package style implements evaluation of ordered styling rules: classifying
// a numeric feature-attribute value into exactly one styling bucket.
//
// A [Sheet] is built once from a stylesheet document and is read-only
// afterward, so Evaluate may be called concurrently without coordination.
package style

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/geocraft/sldcat/pkg/filter"
)

var (
	// ErrEmptyTitle is returned when a rule has no title.
	ErrEmptyTitle = errors.New("empty title")

	// ErrMissingPredicate is returned when a rule has no filter.
	ErrMissingPredicate = errors.New("missing predicate")

	// ErrInvalidColor is returned when a color is not a hex color code.
	ErrInvalidColor = errors.New("invalid color")

	// ErrInvalidStrokeWidth is returned when a stroke width is negative or
	// not a number.
	ErrInvalidStrokeWidth = errors.New("invalid stroke width")

	// ErrUnknownOperator is returned when a filter uses an operator outside
	// the supported set.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrBadThreshold is returned when a filter literal is not numeric.
	ErrBadThreshold = errors.New("non-numeric threshold")

	// ErrNoRules is returned when a sheet contains no rules.
	ErrNoRules = errors.New("stylesheet has no rules")
)

// Style holds the paint parameters applied when a rule matches, plus the
// rule title for legend use.
type Style struct {
	// Title labels the styling bucket, e.g. "> 250K".
	Title string
	// Fill is the polygon fill color as a hex code, e.g. "#666666".
	Fill string
	// Stroke is the outline color as a hex code.
	Stroke string
	// StrokeWidth is the outline width in pixels.
	StrokeWidth float64
}

// Rule binds a predicate to a style. Rules are immutable once built.
type Rule struct {
	// Predicate decides whether the rule applies to a value.
	Predicate filter.Predicate
	// Style is applied when the predicate matches.
	Style Style
}

// NewRule validates the style parameters and builds a rule.
// Invalid parameters produce a [*MalformedRuleError].
func NewRule(s Style, p filter.Predicate) (*Rule, error) {
	if s.Title == "" {
		return nil, &MalformedRuleError{Err: ErrEmptyTitle}
	}
	if p == nil {
		return nil, &MalformedRuleError{Rule: s.Title, Err: ErrMissingPredicate}
	}

	err := validateColor(s.Fill)
	if err != nil {
		return nil, &MalformedRuleError{Rule: s.Title, Err: fmt.Errorf("fill: %w", err)}
	}

	if s.Stroke != "" {
		err := validateColor(s.Stroke)
		if err != nil {
			return nil, &MalformedRuleError{Rule: s.Title, Err: fmt.Errorf("stroke: %w", err)}
		}
	}

	if s.StrokeWidth < 0 {
		return nil, &MalformedRuleError{
			Rule: s.Title,
			Err:  fmt.Errorf("%w: %s", ErrInvalidStrokeWidth, strconv.FormatFloat(s.StrokeWidth, 'f', -1, 64)),
		}
	}

	return &Rule{Predicate: p, Style: s}, nil
}

// MustNewRule builds a rule and panics if it is malformed.
func MustNewRule(s Style, p filter.Predicate) *Rule {
	r, err := NewRule(s, p)
	if err != nil {
		panic(err)
	}

	return r
}

func validateColor(c string) error {
	_, err := colorful.Hex(c)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidColor, c)
	}

	return nil
}

// Sheet is an ordered, immutable collection of rules over one numeric field.
// Rule order is part of the contract: Evaluate returns the first match.
type Sheet struct {
	name  string
	field string
	rules []*Rule
}

// NewSheet builds a sheet from rules in declaration order.
func NewSheet(name, field string, rules ...*Rule) (*Sheet, error) {
	if len(rules) == 0 {
		return nil, ErrNoRules
	}

	for _, r := range rules {
		if r == nil || r.Predicate == nil {
			return nil, &MalformedRuleError{Err: ErrMissingPredicate}
		}
	}

	return &Sheet{
		name:  name,
		field: field,
		rules: rules,
	}, nil
}

// MustNewSheet builds a sheet and panics if it is malformed.
func MustNewSheet(name, field string, rules ...*Rule) *Sheet {
	s, err := NewSheet(name, field, rules...)
	if err != nil {
		panic(err)
	}

	return s
}

// Name returns the stylesheet name.
func (s *Sheet) Name() string {
	return s.name
}

// Field returns the feature attribute the rules apply to.
func (s *Sheet) Field() string {
	return s.field
}

// Rules returns the rules in declaration order.
func (s *Sheet) Rules() []*Rule {
	return s.rules
}

// Evaluate classifies v into a styling bucket. Rules are checked in
// declaration order and the first match wins. When no rule matches, a
// [*NoMatchError] is returned; the caller must not substitute a default
// style, since that would mask an authoring gap.
func (s *Sheet) Evaluate(v float64) (Style, error) {
	for _, r := range s.rules {
		if r.Predicate.Matches(v) {
			return r.Style, nil
		}
	}

	return Style{}, &NoMatchError{Field: s.field, Value: v}
}

// NoMatchError reports a value that matched no rule.
type NoMatchError struct {
	Field string
	Value float64
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no rule matches %s = %s",
		e.Field, strconv.FormatFloat(e.Value, 'f', -1, 64))
}

// MalformedRuleError reports a rule that cannot be loaded. It aborts
// stylesheet loading, a broken style must not silently render.
type MalformedRuleError struct {
	Err  error
	Rule string
}

func (e *MalformedRuleError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("malformed rule: %v", e.Err)
	}

	return fmt.Sprintf("malformed rule %q: %v", e.Rule, e.Err)
}

func (e *MalformedRuleError) Unwrap() error {
	return e.Err
}
