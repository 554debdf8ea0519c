package sld

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"

	"github.com/geocraft/sldcat/pkg/filter"
	"github.com/geocraft/sldcat/pkg/style"
)

// FromSheet builds an SLD document from an evaluatable sheet. The resulting
// document round-trips through [Parse] and [Document.Sheet].
func FromSheet(s *style.Sheet) (*Document, error) {
	rules := make([]Rule, 0, len(s.Rules()))

	for _, r := range s.Rules() {
		f, err := encodePredicate(s.Field(), r.Predicate)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Style.Title, err)
		}

		rules = append(rules, Rule{
			Title:             r.Style.Title,
			Filter:            f,
			PolygonSymbolizer: encodeSymbolizer(r.Style),
		})
	}

	return &Document{
		Version: "1.0.0",
		Layers: []NamedLayer{{
			Name: s.Name(),
			Styles: []UserStyle{{
				Name:              s.Name(),
				Title:             s.Name(),
				FeatureTypeStyles: []FeatureTypeStyle{{Rules: rules}},
			}},
		}},
	}, nil
}

// Marshal encodes the document as an XML file with header.
func (d *Document) Marshal() ([]byte, error) {
	body, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sld: %w", err)
	}

	return append([]byte(xml.Header), append(body, '\n')...), nil
}

func encodePredicate(field string, p filter.Predicate) (*Filter, error) {
	switch pred := p.(type) {
	case filter.GreaterOrEqual:
		return &Filter{GreaterOrEqual: []Comparison{comparison(field, pred.Threshold)}}, nil

	case filter.LessThan:
		return &Filter{LessThan: []Comparison{comparison(field, pred.Threshold)}}, nil

	case filter.All:
		and := &And{}
		for _, m := range pred {
			switch inner := m.(type) {
			case filter.GreaterOrEqual:
				and.GreaterOrEqual = append(and.GreaterOrEqual, comparison(field, inner.Threshold))
			case filter.LessThan:
				and.LessThan = append(and.LessThan, comparison(field, inner.Threshold))
			default:
				return nil, fmt.Errorf("%w: nested %T", style.ErrUnknownOperator, m)
			}
		}

		return &Filter{And: and}, nil
	}

	return nil, fmt.Errorf("%w: %T", style.ErrUnknownOperator, p)
}

func comparison(field string, threshold float64) Comparison {
	return Comparison{
		PropertyName: field,
		Literal:      strconv.FormatFloat(threshold, 'f', -1, 64),
	}
}

func encodeSymbolizer(s style.Style) *PolygonSymbolizer {
	ps := &PolygonSymbolizer{
		Fill: &Fill{Parameters: []CSSParameter{{Name: "fill", Value: s.Fill}}},
	}

	stroke := &Stroke{}
	if s.Stroke != "" {
		stroke.Parameters = append(stroke.Parameters, CSSParameter{Name: "stroke", Value: s.Stroke})
	}
	if s.StrokeWidth != 1 && !math.IsNaN(s.StrokeWidth) {
		stroke.Parameters = append(stroke.Parameters, CSSParameter{
			Name:  "stroke-width",
			Value: strconv.FormatFloat(s.StrokeWidth, 'f', -1, 64),
		})
	}

	if len(stroke.Parameters) > 0 {
		ps.Stroke = stroke
	}

	return ps
}
