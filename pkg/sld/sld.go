// Package sld reads and writes OGC Styled Layer Descriptor documents and
// compiles them into evaluatable stylesheets.
//
// Only the filter subset used by attribute-classification styles is
// supported: PropertyIsGreaterThanOrEqualTo, PropertyIsLessThan, and And,
// over a single numeric property. Anything else fails compilation with a
// [*style.MalformedRuleError]; an unknown operator must never be silently
// skipped.
package sld

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"

	"github.com/geocraft/sldcat/pkg/filter"
	"github.com/geocraft/sldcat/pkg/style"
)

// MIMEType is the media type map servers expect for SLD uploads.
const MIMEType = "application/vnd.ogc.sld+xml"

const (
	sldNamespace = "http://www.opengis.net/sld"
	ogcNamespace = "http://www.opengis.net/ogc"
)

var (
	// ErrNoLayer is returned when a document has no named layer.
	ErrNoLayer = errors.New("document has no named layer")

	// ErrNoStyle is returned when a layer has no user style.
	ErrNoStyle = errors.New("layer has no user style")

	// ErrMixedFields is returned when one filter compares several properties.
	ErrMixedFields = errors.New("filter references multiple properties")
)

// Document is a StyledLayerDescriptor.
type Document struct {
	XMLName xml.Name     `xml:"StyledLayerDescriptor"`
	Version string       `xml:"version,attr"`
	Layers  []NamedLayer `xml:"NamedLayer"`
}

// NamedLayer binds user styles to a layer name.
type NamedLayer struct {
	Name   string      `xml:"Name"`
	Styles []UserStyle `xml:"UserStyle"`
}

// UserStyle holds the feature type styles for a layer.
type UserStyle struct {
	Name              string             `xml:"Name"`
	Title             string             `xml:"Title"`
	FeatureTypeStyles []FeatureTypeStyle `xml:"FeatureTypeStyle"`
}

// FeatureTypeStyle is an ordered list of rules.
type FeatureTypeStyle struct {
	Rules []Rule `xml:"Rule"`
}

// Rule binds a filter to a polygon symbolizer.
type Rule struct {
	Title             string             `xml:"Title"`
	Filter            *Filter            `xml:"Filter"`
	PolygonSymbolizer *PolygonSymbolizer `xml:"PolygonSymbolizer"`
}

// Filter holds the comparison operators of one ogc:Filter element. Elements
// outside the supported subset land in Unknown and fail compilation.
type Filter struct {
	And            *And         `xml:"And"`
	GreaterOrEqual []Comparison `xml:"PropertyIsGreaterThanOrEqualTo"`
	LessThan       []Comparison `xml:"PropertyIsLessThan"`
	Unknown        []Unknown    `xml:",any"`
}

// And is a conjunction of comparisons.
type And struct {
	GreaterOrEqual []Comparison `xml:"PropertyIsGreaterThanOrEqualTo"`
	LessThan       []Comparison `xml:"PropertyIsLessThan"`
	Unknown        []Unknown    `xml:",any"`
}

// Comparison is a binary comparison between a property and a literal.
type Comparison struct {
	PropertyName string `xml:"PropertyName"`
	Literal      string `xml:"Literal"`
}

// Unknown captures filter elements outside the supported operator subset.
type Unknown struct {
	XMLName xml.Name
}

// Fill holds the fill CssParameters of a symbolizer.
type Fill struct {
	Parameters []CSSParameter `xml:"CssParameter"`
}

// Stroke holds the stroke CssParameters of a symbolizer.
type Stroke struct {
	Parameters []CSSParameter `xml:"CssParameter"`
}

// PolygonSymbolizer holds the paint parameters of a rule.
type PolygonSymbolizer struct {
	Fill   *Fill   `xml:"Fill"`
	Stroke *Stroke `xml:"Stroke"`
}

// CSSParameter is a named symbolizer parameter, e.g. name="fill".
type CSSParameter struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// Parse decodes an SLD document.
func Parse(data []byte) (*Document, error) {
	var doc Document

	err := xml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("parse sld: %w", err)
	}

	return &doc, nil
}

// Sheet compiles the first user style of the first named layer into an
// evaluatable [*style.Sheet]. Compilation is strict: unknown operators,
// non-numeric literals, mixed property names, and invalid symbolizer
// parameters all abort with an error.
func (d *Document) Sheet() (*style.Sheet, error) {
	if len(d.Layers) == 0 {
		return nil, ErrNoLayer
	}

	layer := d.Layers[0]
	if len(layer.Styles) == 0 {
		return nil, fmt.Errorf("layer %q: %w", layer.Name, ErrNoStyle)
	}

	var (
		field string
		rules []*style.Rule
	)

	for _, fts := range layer.Styles[0].FeatureTypeStyles {
		for _, r := range fts.Rules {
			sr, ruleField, err := compileRule(r)
			if err != nil {
				return nil, err
			}

			if field == "" {
				field = ruleField
			} else if ruleField != "" && ruleField != field {
				return nil, &style.MalformedRuleError{
					Rule: r.Title,
					Err:  fmt.Errorf("%w: %q and %q", ErrMixedFields, field, ruleField),
				}
			}

			rules = append(rules, sr)
		}
	}

	sheet, err := style.NewSheet(layer.Name, field, rules...)
	if err != nil {
		return nil, fmt.Errorf("layer %q: %w", layer.Name, err)
	}

	return sheet, nil
}

func compileRule(r Rule) (*style.Rule, string, error) {
	if r.Filter == nil {
		return nil, "", &style.MalformedRuleError{Rule: r.Title, Err: style.ErrMissingPredicate}
	}

	pred, field, err := compileFilter(r.Filter)
	if err != nil {
		return nil, "", &style.MalformedRuleError{Rule: r.Title, Err: err}
	}

	s, err := compileSymbolizer(r.Title, r.PolygonSymbolizer)
	if err != nil {
		return nil, "", err
	}

	rule, err := style.NewRule(s, pred)
	if err != nil {
		return nil, "", err
	}

	return rule, field, nil
}

func compileFilter(f *Filter) (filter.Predicate, string, error) {
	fc := &filterCompiler{}

	err := fc.addComparisons(f.GreaterOrEqual, f.LessThan, f.Unknown)
	if err != nil {
		return nil, "", err
	}

	if f.And != nil {
		err := fc.addComparisons(f.And.GreaterOrEqual, f.And.LessThan, f.And.Unknown)
		if err != nil {
			return nil, "", err
		}
	}

	switch len(fc.preds) {
	case 0:
		return nil, "", style.ErrMissingPredicate
	case 1:
		return fc.preds[0], fc.field, nil
	}

	return filter.All(fc.preds), fc.field, nil
}

type filterCompiler struct {
	field string
	preds []filter.Predicate
}

func (fc *filterCompiler) addComparisons(gte, lt []Comparison, unknown []Unknown) error {
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s", style.ErrUnknownOperator, unknown[0].XMLName.Local)
	}

	for _, c := range gte {
		t, err := fc.threshold(c)
		if err != nil {
			return err
		}

		fc.preds = append(fc.preds, filter.GreaterOrEqual{Threshold: t})
	}

	for _, c := range lt {
		t, err := fc.threshold(c)
		if err != nil {
			return err
		}

		fc.preds = append(fc.preds, filter.LessThan{Threshold: t})
	}

	return nil
}

func (fc *filterCompiler) threshold(c Comparison) (float64, error) {
	if fc.field == "" {
		fc.field = c.PropertyName
	} else if c.PropertyName != fc.field {
		return 0, fmt.Errorf("%w: %q and %q", ErrMixedFields, fc.field, c.PropertyName)
	}

	t, err := strconv.ParseFloat(c.Literal, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", style.ErrBadThreshold, c.Literal)
	}

	return t, nil
}

func compileSymbolizer(title string, ps *PolygonSymbolizer) (style.Style, error) {
	s := style.Style{Title: title, StrokeWidth: 1}

	if ps == nil {
		return s, &style.MalformedRuleError{Rule: title, Err: errors.New("missing polygon symbolizer")}
	}

	if ps.Fill != nil {
		for _, p := range ps.Fill.Parameters {
			if p.Name == "fill" {
				s.Fill = p.Value
			}
		}
	}

	if ps.Stroke != nil {
		for _, p := range ps.Stroke.Parameters {
			switch p.Name {
			case "stroke":
				s.Stroke = p.Value
			case "stroke-width":
				w, err := strconv.ParseFloat(p.Value, 64)
				if err != nil {
					return s, &style.MalformedRuleError{
						Rule: title,
						Err:  fmt.Errorf("%w: stroke-width %q", style.ErrInvalidStrokeWidth, p.Value),
					}
				}

				s.StrokeWidth = w
			}
		}
	}

	return s, nil
}
