// Package browser implements the interactive stylesheet browser: a rule
// list with fuzzy filtering, live classification of a typed value, and a
// lint summary.
package browser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/geocraft/sldcat/pkg/legend"
	"github.com/geocraft/sldcat/pkg/style"
)

// ReloadedMsg replaces the browsed sheet, e.g. after a file watch event.
type ReloadedMsg struct {
	Sheet    *style.Sheet
	Problems []style.Problem
	Err      error
}

// KeyMap holds the key bindings for the browser.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Filter key.Binding
	Escape key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter rules")),
		Escape: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements [help.KeyMap].
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Filter, k.Escape, k.Quit}
}

// FullHelp implements [help.KeyMap].
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type styles struct {
	header   lipgloss.Style
	cursor   lipgloss.Style
	title    lipgloss.Style
	ranges   lipgloss.Style
	match    lipgloss.Style
	problem  lipgloss.Style
	noMatch  lipgloss.Style
	errorBar lipgloss.Style
}

func newStyles() styles {
	return styles{
		header:   lipgloss.NewStyle().Bold(true),
		cursor:   lipgloss.NewStyle().Reverse(true),
		title:    lipgloss.NewStyle().PaddingLeft(1).Width(12),
		ranges:   lipgloss.NewStyle().Faint(true),
		match:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		problem:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		noMatch:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		errorBar: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// Model is the browser's bubbletea model.
type Model struct {
	sheet    *style.Sheet
	problems []style.Problem
	err      error

	valueInput  textinput.Model
	filterInput textinput.Model
	filtering   bool
	visible     []int
	cursor      int

	keys   KeyMap
	help   help.Model
	styles styles

	width, height int
}

// New creates a browser for the given sheet.
func New(sheet *style.Sheet) Model {
	vi := textinput.New()
	vi.Placeholder = "type a value"
	vi.Prompt = fmt.Sprintf("%s = ", sheet.Field())
	vi.Focus()

	fi := textinput.New()
	fi.Placeholder = "filter rules"
	fi.Prompt = "/"

	m := Model{
		sheet:       sheet,
		problems:    sheet.Lint(),
		valueInput:  vi,
		filterInput: fi,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		styles:      newStyles(),
	}
	m.updateVisible()

	return m
}

// Init implements [tea.Model].
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model].
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		return m, nil

	case ReloadedMsg:
		if msg.Err != nil {
			m.err = msg.Err

			return m, nil
		}

		m.err = nil
		m.sheet = msg.Sheet
		m.problems = msg.Problems
		m.valueInput.Prompt = fmt.Sprintf("%s = ", msg.Sheet.Field())
		m.updateVisible()

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		m.filtering = false
		m.filterInput.SetValue("")
		m.filterInput.Blur()
		m.valueInput.Focus()
		m.updateVisible()

		return m, nil

	case key.Matches(msg, m.keys.Filter) && !m.filtering:
		m.filtering = true
		m.valueInput.Blur()

		return m, m.filterInput.Focus()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

		return m, nil

	case msg.String() == "q" && !m.filtering && m.valueInput.Value() == "":
		// Plain q quits only while the value input is empty, so values
		// containing letters can still be typed and corrected.
		return m, tea.Quit
	}

	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.filtering {
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.updateVisible()

		return m, cmd
	}

	m.valueInput, cmd = m.valueInput.Update(msg)

	return m, cmd
}

// updateVisible recomputes the rule indexes shown, applying the fuzzy
// filter against rule titles when one is set.
func (m *Model) updateVisible() {
	rules := m.sheet.Rules()

	query := m.filterInput.Value()
	if query == "" {
		m.visible = make([]int, len(rules))
		for i := range rules {
			m.visible[i] = i
		}
	} else {
		titles := make([]string, len(rules))
		for i, r := range rules {
			titles[i] = r.Style.Title
		}

		matches := fuzzy.Find(query, titles)

		m.visible = make([]int, len(matches))
		for i, match := range matches {
			m.visible[i] = match.Index
		}
	}

	if m.cursor >= len(m.visible) {
		m.cursor = max(0, len(m.visible)-1)
	}
}

// currentValue parses the typed value, reporting whether one is present.
func (m Model) currentValue() (float64, bool) {
	raw := strings.TrimSpace(m.valueInput.Value())
	if raw == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

// View implements [tea.Model].
func (m Model) View() string {
	if m.err != nil {
		return m.styles.errorBar.Render(fmt.Sprintf("error: %v", m.err)) + "\n"
	}

	var b strings.Builder

	b.WriteString(m.styles.header.Render(fmt.Sprintf("%s (%s)", m.sheet.Name(), m.sheet.Field())))
	b.WriteString("\n\n")

	value, hasValue := m.currentValue()

	var matchedTitle string
	if hasValue {
		s, err := m.sheet.Evaluate(value)
		if err == nil {
			matchedTitle = s.Title
		}
	}

	rules := m.sheet.Rules()
	for pos, idx := range m.visible {
		b.WriteString(m.renderRule(rules[idx], pos == m.cursor, rules[idx].Style.Title == matchedTitle))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.valueInput.View())
	b.WriteString("\n")

	if hasValue && matchedTitle == "" {
		b.WriteString(m.styles.noMatch.Render("no rule matches"))
		b.WriteString("\n")
	}

	if m.filtering {
		b.WriteString(m.filterInput.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderProblems())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderRule(r *style.Rule, selected, matched bool) string {
	swatch := lipgloss.NewStyle().
		Background(lipgloss.Color(r.Style.Fill)).
		Render("  ")

	title := m.styles.title.Render(r.Style.Title)
	if selected {
		title = m.styles.cursor.Render(title)
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		swatch, title, " ", m.styles.ranges.Render(legend.FormatInterval(r.Predicate.Interval())))

	if matched {
		row = lipgloss.JoinHorizontal(lipgloss.Top, row, " ", m.styles.match.Render("◂ match"))
	}

	return row
}

func (m Model) renderProblems() string {
	if len(m.problems) == 0 {
		return m.styles.ranges.Render("lint: ok")
	}

	var errs, warns int
	for _, p := range m.problems {
		if p.Severity == style.SeverityError {
			errs++
		} else {
			warns++
		}
	}

	return m.styles.problem.Render(
		fmt.Sprintf("lint: %d error(s), %d warning(s)", errs, warns))
}
