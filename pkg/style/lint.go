package style

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/geocraft/sldcat/pkg/filter"
)

// Severity classifies a lint finding.
type Severity string

const (
	// SeverityError marks defects that make part of the sheet dead, such as
	// a filter that cannot match any value.
	SeverityError Severity = "error"
	// SeverityWarning marks suspicious but functioning authoring, such as
	// gaps or overlaps between rule ranges.
	SeverityWarning Severity = "warning"
)

// Problem is a single lint finding.
type Problem struct {
	Severity Severity
	// Rule is the title of the offending rule, empty for sheet-level findings.
	Rule    string
	Message string
}

func (p Problem) String() string {
	if p.Rule == "" {
		return fmt.Sprintf("%s: %s", p.Severity, p.Message)
	}

	return fmt.Sprintf("%s: rule %q: %s", p.Severity, p.Rule, p.Message)
}

// Lint statically checks the sheet for authoring defects. It runs outside
// the evaluation path; Evaluate itself never performs overlap detection.
//
// Findings:
//   - unsatisfiable filters (contradictory bounds), reported as errors
//   - value ranges covered by no rule, reported as warnings
//   - value ranges covered by more than one rule, reported as warnings
func (s *Sheet) Lint() []Problem {
	var problems []Problem

	boundSet := make(map[float64]struct{})
	live := make([]*Rule, 0, len(s.rules))

	for _, r := range s.rules {
		iv := r.Predicate.Interval()
		if iv.Empty() {
			problems = append(problems, Problem{
				Severity: SeverityError,
				Rule:     r.Style.Title,
				Message:  fmt.Sprintf("filter %q matches no value (empty range %s)", r.Predicate, iv),
			})

			continue
		}

		live = append(live, r)

		if !math.IsInf(iv.Lower, -1) {
			boundSet[iv.Lower] = struct{}{}
		}
		if !math.IsInf(iv.Upper, 1) {
			boundSet[iv.Upper] = struct{}{}
		}
	}

	if len(live) == 0 {
		return problems
	}

	bounds := make([]float64, 0, len(boundSet))
	for b := range boundSet {
		bounds = append(bounds, b)
	}
	sort.Float64s(bounds)

	problems = append(problems, lintCoverage(live, bounds)...)

	return problems
}

// region is one segment of the number line, delimited by adjacent rule
// thresholds, with a representative probe value.
type region struct {
	probe, lower, upper float64
}

// lintCoverage partitions the number line at the rule thresholds, probes
// each region, and reports regions matched by zero rules (gaps) or by
// several rules (overlaps). Adjacent regions with the same finding merge
// into one.
func lintCoverage(live []*Rule, bounds []float64) []Problem {
	var (
		problems []Problem
		open     bool
		key      string // Overlapping rule titles, empty for a gap.
		span     filter.Interval
	)

	flush := func() {
		if !open {
			return
		}

		msg := fmt.Sprintf("no rule matches values in %s", span)
		if key != "" {
			msg = fmt.Sprintf("rules %s overlap in %s", key, span)
		}

		problems = append(problems, Problem{Severity: SeverityWarning, Message: msg})
		open = false
	}

	for _, reg := range buildRegions(bounds) {
		var matched []*Rule
		for _, r := range live {
			if r.Predicate.Matches(reg.probe) {
				matched = append(matched, r)
			}
		}

		if len(matched) == 1 {
			flush()

			continue
		}

		var regKey string
		if len(matched) > 1 {
			titles := make([]string, len(matched))
			for i, r := range matched {
				titles[i] = fmt.Sprintf("%q", r.Style.Title)
			}

			regKey = strings.Join(titles, " and ")
		}

		if open && regKey == key && reg.lower <= span.Upper {
			span.Upper = reg.upper

			continue
		}

		flush()

		open = true
		key = regKey
		span = filter.Interval{Lower: reg.lower, Upper: reg.upper}
	}

	flush()

	return problems
}

// buildRegions returns the segments of the number line partitioned by the
// given sorted, deduplicated bounds: below the first bound, between each
// pair of adjacent bounds, and from the last bound upward. Every segment
// except the first gets two probes, one at its lower bound and one inside,
// so that inclusive/exclusive mismatches at thresholds are caught.
func buildRegions(bounds []float64) []region {
	if len(bounds) == 0 {
		return []region{{probe: 0, lower: math.Inf(-1), upper: math.Inf(1)}}
	}

	regions := make([]region, 0, 2*len(bounds)+1)

	regions = append(regions, region{
		probe: bounds[0] - 1,
		lower: math.Inf(-1),
		upper: bounds[0],
	})

	for i, b := range bounds {
		upper := math.Inf(1)
		inner := b + 1
		if i+1 < len(bounds) {
			upper = bounds[i+1]
			inner = b + (upper-b)/2
		}

		regions = append(regions,
			region{probe: b, lower: b, upper: upper},
			region{probe: inner, lower: b, upper: upper},
		)
	}

	return regions
}
