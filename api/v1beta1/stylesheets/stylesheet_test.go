package stylesheets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocraft/sldcat/api/v1beta1/stylesheets"
	"github.com/geocraft/sldcat/pkg/filter"
	"github.com/geocraft/sldcat/pkg/style"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	s := stylesheets.Default()
	require.NotNil(t, s)

	assert.Equal(t, "sldcat.geocraft.io/v1beta1", s.APIVersion)
	assert.Equal(t, "StyleSheet", s.Kind)
	assert.Equal(t, "demographic_number", s.Name)
	assert.Equal(t, "number", s.Field)
	require.Len(t, s.Rules, 3)

	sheet, err := s.Sheet()
	require.NoError(t, err)

	// The embedded document carries the contradictory middle rule verbatim.
	assert.True(t, sheet.Rules()[1].Predicate.Interval().Empty())

	got, err := sheet.Evaluate(300000)
	require.NoError(t, err)
	assert.Equal(t, "> 250K", got.Title)

	_, err = sheet.Evaluate(60000)
	nmErr := &style.NoMatchError{}
	require.ErrorAs(t, err, &nmErr)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name: "valid document",
			input: `
apiVersion: sldcat.geocraft.io/v1beta1
kind: StyleSheet
name: test
field: number
rules:
  - title: low
    filter:
      lt: 100
    fill: "#DCDCDC"
`,
		},
		{
			name: "missing apiVersion and kind",
			input: `
name: test
field: number
rules:
  - title: low
    filter:
      lt: 100
    fill: "#DCDCDC"
`,
			wantErr: "validate",
		},
		{
			name: "unknown filter operator key",
			input: `
apiVersion: sldcat.geocraft.io/v1beta1
kind: StyleSheet
name: test
field: number
rules:
  - title: low
    filter:
      eq: 100
    fill: "#DCDCDC"
`,
			wantErr: "validate",
		},
		{
			name: "fill must be a hex color",
			input: `
apiVersion: sldcat.geocraft.io/v1beta1
kind: StyleSheet
name: test
field: number
rules:
  - title: low
    filter:
      lt: 100
    fill: gray
`,
			wantErr: "validate",
		},
		{
			name: "wrong kind",
			input: `
apiVersion: sldcat.geocraft.io/v1beta1
kind: Configuration
name: test
field: number
rules: []
`,
			wantErr: "validate",
		},
		{
			name:    "not yaml",
			input:   `{{`,
			wantErr: "unmarshal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := stylesheets.Load([]byte(tt.input))

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Nil(t, s)
			} else {
				require.NoError(t, err)
				require.NotNil(t, s)
				assert.Equal(t, "test", s.Name)
			}
		})
	}
}

func TestFilterPredicate(t *testing.T) {
	t.Parallel()

	gte := 50000.0
	lt := 25000.0

	tests := []struct {
		name    string
		f       *stylesheets.Filter
		want    string
		wantErr error
	}{
		{
			name: "gte only",
			f:    &stylesheets.Filter{GreaterOrEqual: &gte},
			want: ">= 50000",
		},
		{
			name: "lt only",
			f:    &stylesheets.Filter{LessThan: &lt},
			want: "< 25000",
		},
		{
			name: "all of members",
			f: &stylesheets.Filter{All: []*stylesheets.Filter{
				{GreaterOrEqual: &gte},
				{LessThan: &lt},
			}},
			want: ">= 50000 and < 25000",
		},
		{
			name: "gte and lt on one filter conjoin",
			f:    &stylesheets.Filter{GreaterOrEqual: &gte, LessThan: &lt},
			want: ">= 50000 and < 25000",
		},
		{
			name:    "nil filter",
			f:       nil,
			wantErr: style.ErrMissingPredicate,
		},
		{
			name:    "empty filter",
			f:       &stylesheets.Filter{},
			wantErr: style.ErrMissingPredicate,
		},
		{
			name:    "empty member",
			f:       &stylesheets.Filter{All: []*stylesheets.Filter{{}}},
			wantErr: style.ErrMissingPredicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := tt.f.Predicate()

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, p.String())
			}
		})
	}
}

func TestSheetMalformedRule(t *testing.T) {
	t.Parallel()

	lt := 100.0
	s := stylesheets.New()
	s.Name = "bad"
	s.Field = "number"
	s.Rules = []*stylesheets.Rule{
		{Title: "broken", Filter: &stylesheets.Filter{LessThan: &lt}, Fill: "#GGGGGG"},
	}

	sheet, err := s.Sheet()
	require.Error(t, err)
	assert.Nil(t, sheet)

	mrErr := &style.MalformedRuleError{}
	require.ErrorAs(t, err, &mrErr)
	assert.Equal(t, "broken", mrErr.Rule)
}

func TestFromSheetRoundTrip(t *testing.T) {
	t.Parallel()

	orig, err := stylesheets.Default().Sheet()
	require.NoError(t, err)

	doc, err := stylesheets.FromSheet(orig)
	require.NoError(t, err)

	data, err := doc.MarshalYAML()
	require.NoError(t, err)

	reloaded, err := stylesheets.Load(data)
	require.NoError(t, err)

	sheet, err := reloaded.Sheet()
	require.NoError(t, err)

	assert.Equal(t, orig.Name(), sheet.Name())
	assert.Equal(t, orig.Field(), sheet.Field())
	require.Len(t, sheet.Rules(), len(orig.Rules()))

	for i, r := range orig.Rules() {
		assert.Equal(t, r.Style, sheet.Rules()[i].Style)
		assert.Equal(t, r.Predicate.String(), sheet.Rules()[i].Predicate.String())
	}
}

func TestFromPredicateNested(t *testing.T) {
	t.Parallel()

	sheet := style.MustNewSheet("nested", "number",
		style.MustNewRule(style.Style{Title: "band", Fill: "#ABABAB"},
			filter.All{
				filter.GreaterOrEqual{Threshold: 1},
				filter.All{filter.LessThan{Threshold: 2}},
			}),
	)

	doc, err := stylesheets.FromSheet(sheet)
	require.NoError(t, err)

	require.Len(t, doc.Rules, 1)
	f := doc.Rules[0].Filter
	require.Len(t, f.All, 2)
	require.NotNil(t, f.All[0].GreaterOrEqual)
	require.Len(t, f.All[1].All, 1)
	require.NotNil(t, f.All[1].All[0].LessThan)
}
