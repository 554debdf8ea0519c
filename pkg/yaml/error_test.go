package yaml_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocraft/sldcat/pkg/yaml"
)

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()

		var v struct {
			Name string `json:"name"`
		}

		require.NoError(t, yaml.Unmarshal([]byte("name: demographic_number\n"), &v))
		assert.Equal(t, "demographic_number", v.Name)
	})

	t.Run("syntax error carries position", func(t *testing.T) {
		t.Parallel()

		var v map[string]any

		err := yaml.Unmarshal([]byte("name: [\n"), &v)
		require.Error(t, err)

		yamlErr := &yaml.Error{}
		require.ErrorAs(t, err, &yamlErr)
		assert.NotNil(t, yamlErr.Token)
		assert.Regexp(t, `^\[\d+:\d+\]`, err.Error())
	})
}

func TestErrorWrapper(t *testing.T) {
	t.Parallel()

	source := []byte("name: test\n")
	ew := yaml.NewErrorWrapper(yaml.WithSource(source))

	t.Run("wraps yaml errors", func(t *testing.T) {
		t.Parallel()

		inner := yaml.NewError(errors.New("bad value"),
			yaml.WithPath(yaml.NewPathBuilder().Root().Child("name").Build()))

		err := ew.Wrap(inner)

		yamlErr := &yaml.Error{}
		require.ErrorAs(t, err, &yamlErr)
		assert.Equal(t, source, yamlErr.Source)
		assert.Contains(t, err.Error(), "$.name")
	})

	t.Run("passes through other errors", func(t *testing.T) {
		t.Parallel()

		inner := errors.New("not a yaml error")
		assert.Equal(t, inner, ew.Wrap(inner))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, ew.Wrap(nil))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("path only", func(t *testing.T) {
		t.Parallel()

		err := yaml.NewError(errors.New("boom"),
			yaml.WithPath(yaml.NewPathBuilder().Root().Child("rules").Index(1).Build()))
		assert.Equal(t, "error at $.rules[1]: boom", err.Error())
	})

	t.Run("bare error", func(t *testing.T) {
		t.Parallel()

		err := yaml.NewError(errors.New("boom"))
		assert.Equal(t, "boom", err.Error())
	})

	t.Run("unwrap", func(t *testing.T) {
		t.Parallel()

		inner := errors.New("boom")
		assert.True(t, errors.Is(yaml.NewError(inner), inner))
	})
}
