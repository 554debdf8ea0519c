package v1beta1

import (
	"github.com/geocraft/sldcat/pkg/yaml"
)

// Validator validates decoded configuration data against a schema.
type Validator interface {
	Validate(data any) error
}

// Load decodes, validates, and defaults a configuration kind from YAML data.
// Schema validation runs against the raw decoded document, so violations
// carry a YAML path into the source; decoding into T happens afterward.
func Load[T Object](data []byte, newFunc func() T, validator Validator) (T, error) {
	var zero T

	ew := yaml.NewErrorWrapper(yaml.WithSource(data))

	var raw map[string]any

	err := yaml.Unmarshal(data, &raw)
	if err != nil {
		return zero, ew.Wrap(err)
	}

	if validator != nil {
		err := validator.Validate(raw)
		if err != nil {
			return zero, ew.Wrap(err)
		}
	}

	obj := newFunc()

	err = yaml.Unmarshal(data, obj)
	if err != nil {
		return zero, ew.Wrap(err)
	}

	obj.EnsureDefaults()

	return obj, nil
}
