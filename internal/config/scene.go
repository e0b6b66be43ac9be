package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/spheremesh/pkg/spheres"
)

// ErrUnknownSceneFormat is returned for scene files with an unsupported extension.
var ErrUnknownSceneFormat = errors.New("unknown scene format")

// DefaultScene is the scene written by init: two radius-2 spheres whose
// centers are 3 apart on the X axis.
func DefaultScene() spheres.Options {
	return spheres.Options{
		Sphere1:    []float64{0, 0, 0, 2},
		Sphere2:    []float64{3, 0, 0, 2},
		Resolution: 32,
	}
}

// LoadScene reads a scene document in the format implied by its extension
// and validates the result.
func LoadScene(path string) (spheres.Options, error) {
	var opts spheres.Options

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read scene: %w", err)
	}

	if err := decodeScene(sceneFormat(path), data, &opts); err != nil {
		return spheres.Options{}, fmt.Errorf("decode scene %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return spheres.Options{}, fmt.Errorf("scene %s: %w", path, err)
	}
	return opts, nil
}

// SaveScene writes a scene document in the format implied by the extension.
func SaveScene(path string, opts spheres.Options) error {
	var (
		data []byte
		err  error
	)
	switch sceneFormat(path) {
	case "toml":
		data, err = toml.Marshal(opts)
	case "yaml":
		data, err = yaml.Marshal(opts)
	case "json":
		data, err = json.MarshalIndent(opts, "", "  ")
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSceneFormat, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyOverrides returns opts with the configured overrides applied.
func (s SceneConfig) ApplyOverrides(opts spheres.Options) spheres.Options {
	if s.Resolution > 0 {
		opts.Resolution = s.Resolution
	}
	return opts
}

func sceneFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	default:
		return ""
	}
}

func decodeScene(format string, data []byte, opts *spheres.Options) error {
	switch format {
	case "toml":
		return toml.Unmarshal(data, opts)
	case "yaml":
		return yaml.Unmarshal(data, opts)
	case "json":
		return json.Unmarshal(data, opts)
	default:
		return ErrUnknownSceneFormat
	}
}
