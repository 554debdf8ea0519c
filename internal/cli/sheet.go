package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/geocraft/sldcat/api"
	"github.com/geocraft/sldcat/api/v1beta1/configs"
	"github.com/geocraft/sldcat/api/v1beta1/stylesheets"
	"github.com/geocraft/sldcat/pkg/sld"
	"github.com/geocraft/sldcat/pkg/style"
)

// ErrNoStyleSheet is returned when neither a path nor a routing rule yields
// a stylesheet.
var ErrNoStyleSheet = errors.New("no stylesheet found")

// LoadSheet loads a stylesheet document from disk and compiles it. SLD XML
// and the native YAML kind are told apart by file extension.
func LoadSheet(path string) (*style.Sheet, error) {
	data, err := api.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".sld", ".xml":
		doc, err := sld.Parse(data)
		if err != nil {
			return nil, err
		}

		return doc.Sheet()
	}

	doc, err := stylesheets.Load(data)
	if err != nil {
		return nil, err
	}

	return doc.Sheet()
}

// ResolveSheet picks a stylesheet for the given invocation: an explicit path
// wins; otherwise the configuration's routing rules are consulted with the
// given layer; finally the embedded default stylesheet applies.
func ResolveSheet(path, layer string, attributes map[string]any) (*style.Sheet, error) {
	if path != "" {
		return LoadSheet(path)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if layer != "" {
		name, ok := cfg.Route(layer, attributes)
		if !ok {
			return nil, fmt.Errorf("%w: no rule matches layer %q", ErrNoStyleSheet, layer)
		}

		return findSheet(cfg, name)
	}

	return stylesheets.Default().Sheet()
}

func loadConfig() (*configs.Config, error) {
	configPath := configs.GetPath()

	err := configs.WriteDefault(configPath, false)
	if err != nil {
		slog.Warn("write default config", slog.Any("error", err))
	}

	data, err := api.ReadFile(configPath)
	if err != nil {
		slog.Warn("could not read config, using defaults", slog.Any("error", err))

		return configs.New(), nil
	}

	cfg, err := configs.Load(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", configPath, err)
	}

	return cfg, nil
}

// findSheet searches the configured stylesheet paths for a sheet with the
// given name.
func findSheet(cfg *configs.Config, name string) (*style.Sheet, error) {
	for _, p := range cfg.StyleSheets {
		sheet, err := LoadSheet(p)
		if err != nil {
			slog.Warn("skip stylesheet",
				slog.String("path", p),
				slog.Any("error", err),
			)

			continue
		}

		if sheet.Name() == name {
			return sheet, nil
		}
	}

	return nil, fmt.Errorf("%w: stylesheet %q is not configured", ErrNoStyleSheet, name)
}

// ParseAttributes parses repeated key=value flags into a CEL attribute map.
func ParseAttributes(kvs []string) (map[string]any, error) {
	attrs := make(map[string]any, len(kvs))

	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid attribute %q, want key=value", kv)
		}

		attrs[k] = v
	}

	return attrs, nil
}
