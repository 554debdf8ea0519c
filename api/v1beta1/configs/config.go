// Package configs provides the global Configuration kind for sldcat.
package configs

import (
	"fmt"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/geocraft/sldcat/api"
	"github.com/geocraft/sldcat/api/v1beta1"
	"github.com/geocraft/sldcat/pkg/rule"
	"github.com/geocraft/sldcat/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen/config/main.go -o configs.v1beta1.json

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed configs.v1beta1.json
	schemaJSON []byte

	// ValidKinds contains the valid kind values for global configurations.
	ValidKinds = []string{"Configuration"}

	// DefaultValidator validates global configuration against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/configs.v1beta1.json", schemaJSON)

	// Compile-time interface checks.
	_ v1beta1.Object = (*Config)(nil)
)

// Config represents the global sldcat configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// StyleSheets lists paths to stylesheet documents (YAML kinds or SLD
	// XML files) available for routing.
	StyleSheets []string `json:"stylesheets,omitempty" jsonschema:"title=StyleSheets"`
	// Rules route layers to stylesheets; first match wins.
	Rules            []*rule.Rule `json:"rules,omitempty" jsonschema:"title=Rules"`
	v1beta1.TypeMeta `json:",inline"`
}

// New creates a new global [Config] with default values.
func New() *Config {
	c := &Config{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       "Configuration",
		},
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.APIVersion == "" {
		c.APIVersion = v1beta1.APIVersion
	}

	if c.Kind == "" {
		c.Kind = "Configuration"
	}

	if c.StyleSheets == nil {
		c.StyleSheets = []string{}
	}

	if c.Rules == nil {
		c.Rules = []*rule.Rule{}
	}
}

// Validate compiles all routing rules. A rule that fails to compile aborts
// configuration loading.
func (c *Config) Validate() error {
	for i, r := range c.Rules {
		err := r.CompileMatch()
		if err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}

	return nil
}

// Load decodes and validates a configuration document.
func Load(data []byte) (*Config, error) {
	c, err := v1beta1.Load(data, New, DefaultValidator)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	err = c.Validate()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return c, nil
}

// Route returns the name of the stylesheet matching the given layer, using
// the first matching rule.
func (c *Config) Route(layer string, attributes map[string]any) (string, bool) {
	for _, r := range c.Rules {
		if r.MatchLayer(layer, attributes) {
			return r.StyleSheet, true
		}
	}

	return "", false
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := api.MarshalYAML(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// Write writes the config to the specified path if it doesn't already exist.
func (c Config) Write(path string) error {
	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	err = api.WriteIfNotExists(path, b)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// WriteDefault writes the embedded default config.yaml to the specified path.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultConfigYAML, force, "configuration")
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

// GetPath returns the path to the global configuration file.
func GetPath() string {
	return api.GetConfigPath("config.yaml")
}
