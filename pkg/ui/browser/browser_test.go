package browser_test

import (
	"errors"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/geocraft/sldcat/pkg/filter"
	"github.com/geocraft/sldcat/pkg/style"
	"github.com/geocraft/sldcat/pkg/ui/browser"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func testSheet(t *testing.T) *style.Sheet {
	t.Helper()

	return style.MustNewSheet("demographic_number", "number",
		style.MustNewRule(style.Style{Title: "> 250K", Fill: "#666666"},
			filter.GreaterOrEqual{Threshold: 250000}),
		style.MustNewRule(style.Style{Title: "> 50K", Fill: "#ABABAB"},
			filter.And(
				filter.GreaterOrEqual{Threshold: 50000},
				filter.LessThan{Threshold: 25000},
			)),
		style.MustNewRule(style.Style{Title: "< 25K", Fill: "#DCDCDC"},
			filter.LessThan{Threshold: 25000}),
	)
}

func typeString(t *testing.T, m browser.Model, s string) browser.Model {
	t.Helper()

	for _, r := range s {
		mdl, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})

		var ok bool

		m, ok = mdl.(browser.Model)
		require.True(t, ok)
	}

	return m
}

func pressKey(t *testing.T, m browser.Model, keyType tea.KeyType) (browser.Model, tea.Cmd) {
	t.Helper()

	mdl, cmd := m.Update(tea.KeyMsg{Type: keyType})

	got, ok := mdl.(browser.Model)
	require.True(t, ok)

	return got, cmd
}

func TestView(t *testing.T) {
	t.Parallel()

	m := browser.New(testSheet(t))
	out := m.View()

	assert.Contains(t, out, "demographic_number (number)")
	assert.Contains(t, out, "> 250K")
	assert.Contains(t, out, "> 50K")
	assert.Contains(t, out, "< 25K")

	// The contradictory middle rule and the resulting coverage gap.
	assert.Contains(t, out, "lint: 1 error(s), 1 warning(s)")
}

func TestMatchMarker(t *testing.T) {
	t.Parallel()

	m := browser.New(testSheet(t))

	m = typeString(t, m, "300000")
	out := m.View()
	assert.Contains(t, out, "◂ match")
	assert.NotContains(t, out, "no rule matches")

	m = browser.New(testSheet(t))
	m = typeString(t, m, "60000")
	out = m.View()
	assert.NotContains(t, out, "◂ match")
	assert.Contains(t, out, "no rule matches")
}

func TestFuzzyFilter(t *testing.T) {
	t.Parallel()

	m := browser.New(testSheet(t))

	m = typeString(t, m, "/")
	m = typeString(t, m, "25")

	out := m.View()
	assert.Contains(t, out, "> 250K")
	assert.Contains(t, out, "< 25K")
	assert.NotContains(t, out, "> 50K")

	// Escape clears the filter.
	m, _ = pressKey(t, m, tea.KeyEsc)
	assert.Contains(t, m.View(), "> 50K")
}

func TestReload(t *testing.T) {
	t.Parallel()

	m := browser.New(testSheet(t))

	t.Run("error shows error bar", func(t *testing.T) {
		t.Parallel()

		mdl, _ := m.Update(browser.ReloadedMsg{Err: errors.New("parse sld: boom")})

		got, ok := mdl.(browser.Model)
		require.True(t, ok)
		assert.Contains(t, got.View(), "parse sld: boom")
	})

	t.Run("new sheet replaces view", func(t *testing.T) {
		t.Parallel()

		sheet := style.MustNewSheet("roads", "length",
			style.MustNewRule(style.Style{Title: "short", Fill: "#DCDCDC"},
				filter.LessThan{Threshold: 100}),
			style.MustNewRule(style.Style{Title: "long", Fill: "#666666"},
				filter.GreaterOrEqual{Threshold: 100}),
		)

		mdl, _ := m.Update(browser.ReloadedMsg{Sheet: sheet, Problems: sheet.Lint()})

		got, ok := mdl.(browser.Model)
		require.True(t, ok)

		out := got.View()
		assert.Contains(t, out, "roads (length)")
		assert.Contains(t, out, "lint: ok")
		assert.NotContains(t, out, "> 250K")
	})
}

func TestQuitKeys(t *testing.T) {
	t.Parallel()

	t.Run("ctrl+c quits", func(t *testing.T) {
		t.Parallel()

		m := browser.New(testSheet(t))

		_, cmd := pressKey(t, m, tea.KeyCtrlC)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("plain q quits with empty value input", func(t *testing.T) {
		t.Parallel()

		m := browser.New(testSheet(t))

		mdl, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		_, ok := mdl.(browser.Model)
		require.True(t, ok)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("plain q types into a non-empty value", func(t *testing.T) {
		t.Parallel()

		m := browser.New(testSheet(t))
		m = typeString(t, m, "100")

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		if cmd != nil {
			assert.NotEqual(t, tea.QuitMsg{}, cmd())
		}
	})
}
