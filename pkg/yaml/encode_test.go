package yaml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocraft/sldcat/pkg/yaml"
)

func TestMarshal(t *testing.T) {
	t.Parallel()

	v := struct {
		Name  string    `json:"name"`
		Rules []float64 `json:"rules"`
	}{
		Name:  "demographic_number",
		Rules: []float64{25000, 250000},
	}

	data, err := yaml.Marshal(v)
	require.NoError(t, err)

	assert.Contains(t, string(data), "name: demographic_number")
	assert.Contains(t, string(data), "- 25000")

	var back map[string]any

	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "demographic_number", back["name"])
}
