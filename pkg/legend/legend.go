// Package legend renders terminal legends for stylesheets: one swatch row
// per rule, with the rule title and its value range.
package legend

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/geocraft/sldcat/pkg/filter"
	"github.com/geocraft/sldcat/pkg/style"
)

// Renderer renders sheets as terminal legends.
type Renderer struct {
	header lipgloss.Style
	title  lipgloss.Style
	ranges lipgloss.Style
	dead   lipgloss.Style
}

// NewRenderer creates a [Renderer] with the default styles.
func NewRenderer() *Renderer {
	return &Renderer{
		header: lipgloss.NewStyle().Bold(true),
		title:  lipgloss.NewStyle().PaddingLeft(1).Width(12),
		ranges: lipgloss.NewStyle().Faint(true),
		dead:   lipgloss.NewStyle().Faint(true).Strikethrough(true),
	}
}

// Render returns the legend for a sheet. Rules whose filters match no value
// are rendered struck through, they are dead and would never paint.
func (r *Renderer) Render(s *style.Sheet) string {
	var b strings.Builder

	b.WriteString(r.header.Render(fmt.Sprintf("%s (%s)", s.Name(), s.Field())))
	b.WriteString("\n")

	for _, rule := range s.Rules() {
		b.WriteString(r.renderRule(rule))
		b.WriteString("\n")
	}

	return b.String()
}

func (r *Renderer) renderRule(rule *style.Rule) string {
	iv := rule.Predicate.Interval()

	swatch := lipgloss.NewStyle().
		Background(lipgloss.Color(rule.Style.Fill)).
		Render("  ")

	title := r.title.Render(rule.Style.Title)
	rangeText := r.ranges.Render(FormatInterval(iv))
	if iv.Empty() {
		rangeText = r.dead.Render("matches nothing")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, swatch, title, " ", rangeText)
}

// FormatInterval formats a half-open value range for humans, e.g.
// "≥ 250,000" or "25,000 – 250,000".
func FormatInterval(iv filter.Interval) string {
	if iv.Empty() {
		return "(empty)"
	}

	lowerInf := math.IsInf(iv.Lower, -1)
	upperInf := math.IsInf(iv.Upper, 1)

	switch {
	case lowerInf && upperInf:
		return "all values"
	case lowerInf:
		return "< " + humanize.Commaf(iv.Upper)
	case upperInf:
		return "≥ " + humanize.Commaf(iv.Lower)
	}

	return fmt.Sprintf("%s – %s", humanize.Commaf(iv.Lower), humanize.Commaf(iv.Upper))
}
