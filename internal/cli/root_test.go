package cli_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocraft/sldcat/internal/cli"
	"github.com/geocraft/sldcat/pkg/style"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestEvalCmd(t *testing.T) {
	t.Parallel()

	sldPath := filepath.Join("testdata", "demographic_number.sld")
	yamlPath := filepath.Join("testdata", "corrected.yaml")

	t.Run("classifies values", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "eval", sldPath, "300000", "10000")
		require.NoError(t, err)

		assert.Contains(t, out, "300000\t> 250K\t#666666")
		assert.Contains(t, out, "10000\t< 25K\t#DCDCDC")
	})

	t.Run("no match is an error", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, "eval", sldPath, "60000")
		require.Error(t, err)

		nmErr := &style.NoMatchError{}
		require.ErrorAs(t, err, &nmErr)
		assert.InDelta(t, 60000, nmErr.Value, 0)
	})

	t.Run("keeps evaluating after a miss", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "eval", sldPath, "300000", "60000", "10000")
		require.Error(t, err)

		assert.Contains(t, out, "300000\t> 250K\t#666666")
		assert.Contains(t, out, "10000\t< 25K\t#DCDCDC")
	})

	t.Run("corrected sheet covers the middle band", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "eval", yamlPath, "60000")
		require.NoError(t, err)

		assert.Contains(t, out, "60000\t> 50K\t#ABABAB")
	})

	t.Run("quiet suppresses output and fails fast", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "eval", sldPath, "--quiet", "300000", "60000", "10000")
		require.Error(t, err)
		assert.Empty(t, out)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()

		// A non-numeric second argument cannot be a value.
		_, err := execute(t, "eval", sldPath, "lots")
		require.Error(t, err)
	})
}

func TestLintCmd(t *testing.T) {
	t.Parallel()

	t.Run("literal document fails", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "lint", filepath.Join("testdata", "demographic_number.sld"))
		require.ErrorIs(t, err, cli.ErrLintFailed)

		assert.Contains(t, out, "matches no value")
		assert.Contains(t, out, "no rule matches values in [25000, 250000)")
	})

	t.Run("corrected document warns only", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "lint", filepath.Join("testdata", "corrected.yaml"))
		require.NoError(t, err)

		assert.Contains(t, out, "no rule matches values in [25000, 50000)")
	})
}

func TestLegendCmd(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "legend", filepath.Join("testdata", "demographic_number.sld"))
	require.NoError(t, err)

	assert.Contains(t, out, "demographic_number (number)")
	assert.Contains(t, out, "≥ 250,000")
	assert.Contains(t, out, "< 25,000")
	assert.Contains(t, out, "matches nothing")
}

func TestConvertCmd(t *testing.T) {
	t.Parallel()

	t.Run("sld to yaml", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "convert", filepath.Join("testdata", "demographic_number.sld"), "--to", "yaml")
		require.NoError(t, err)

		assert.Contains(t, out, "apiVersion: sldcat.geocraft.io/v1beta1")
		assert.Contains(t, out, "kind: StyleSheet")
		assert.Contains(t, out, "name: demographic_number")
		assert.Contains(t, out, "gte: 50000")
		assert.Contains(t, out, "lt: 25000")
	})

	t.Run("yaml to sld", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "convert", filepath.Join("testdata", "corrected.yaml"), "--to", "sld")
		require.NoError(t, err)

		assert.Contains(t, out, "<StyledLayerDescriptor")
		assert.Contains(t, out, "<PropertyIsGreaterThanOrEqualTo>")
		assert.Contains(t, out, "<Literal>250000</Literal>")
	})

	t.Run("unknown target", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, "convert", filepath.Join("testdata", "corrected.yaml"), "--to", "toml")
		require.Error(t, err)
	})
}
