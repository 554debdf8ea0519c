// Package filter implements the closed set of predicates used by
// attribute-driven styling rules: ordered comparisons against a single
// numeric field, plus conjunction.
//
// Values and thresholds are float64, matching the IEEE-754 double semantics
// of OGC Filter numeric literals. The variant set is intentionally closed;
// open-ended match expressions belong in [github.com/geocraft/sldcat/pkg/rule].
package filter

import (
	"math"
	"strconv"
	"strings"
)

// Predicate is a boolean condition over a single numeric attribute value.
// Predicates are immutable and safe for concurrent use.
type Predicate interface {
	// Matches reports whether the predicate holds for v.
	Matches(v float64) bool

	// Interval returns the half-open interval [Lower, Upper) of values
	// matched by the predicate.
	Interval() Interval

	// String returns the predicate in infix notation.
	String() string

	// Marker to keep the variant set closed.
	predicate()
}

// Interval is a half-open range [Lower, Upper).
type Interval struct {
	Lower float64
	Upper float64
}

// Universe returns the interval covering all values.
func Universe() Interval {
	return Interval{Lower: math.Inf(-1), Upper: math.Inf(1)}
}

// Empty reports whether the interval matches no value.
func (i Interval) Empty() bool {
	return i.Lower >= i.Upper
}

// Intersect returns the intersection of two intervals.
func (i Interval) Intersect(o Interval) Interval {
	return Interval{
		Lower: math.Max(i.Lower, o.Lower),
		Upper: math.Min(i.Upper, o.Upper),
	}
}

// Contains reports whether v falls inside the interval.
func (i Interval) Contains(v float64) bool {
	return v >= i.Lower && v < i.Upper
}

func (i Interval) String() string {
	return "[" + formatThreshold(i.Lower) + ", " + formatThreshold(i.Upper) + ")"
}

// GreaterOrEqual matches values greater than or equal to Threshold.
type GreaterOrEqual struct {
	Threshold float64
}

func (p GreaterOrEqual) Matches(v float64) bool {
	return v >= p.Threshold
}

func (p GreaterOrEqual) Interval() Interval {
	return Interval{Lower: p.Threshold, Upper: math.Inf(1)}
}

func (p GreaterOrEqual) String() string {
	return ">= " + formatThreshold(p.Threshold)
}

func (p GreaterOrEqual) predicate() {}

// LessThan matches values strictly less than Threshold.
type LessThan struct {
	Threshold float64
}

func (p LessThan) Matches(v float64) bool {
	return v < p.Threshold
}

func (p LessThan) Interval() Interval {
	return Interval{Lower: math.Inf(-1), Upper: p.Threshold}
}

func (p LessThan) String() string {
	return "< " + formatThreshold(p.Threshold)
}

func (p LessThan) predicate() {}

// All matches when every member predicate matches. A binary conjunction
// And(p, q) is All{p, q}; an empty All matches everything.
type All []Predicate

func (p All) Matches(v float64) bool {
	for _, m := range p {
		if !m.Matches(v) {
			return false
		}
	}

	return true
}

func (p All) Interval() Interval {
	iv := Universe()
	for _, m := range p {
		iv = iv.Intersect(m.Interval())
	}

	return iv
}

func (p All) String() string {
	if len(p) == 0 {
		return "true"
	}

	parts := make([]string, len(p))
	for i, m := range p {
		parts[i] = m.String()
	}

	return strings.Join(parts, " and ")
}

func (p All) predicate() {}

// And builds a binary conjunction of two predicates.
func And(p, q Predicate) All {
	return All{p, q}
}

func formatThreshold(t float64) string {
	switch {
	case math.IsInf(t, 1):
		return "+inf"
	case math.IsInf(t, -1):
		return "-inf"
	}

	return strconv.FormatFloat(t, 'f', -1, 64)
}
