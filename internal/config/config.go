// Package config handles tool configuration and scene documents.
package config

import (
	"fmt"

	"github.com/taigrr/spheremesh/pkg/models"
)

// Config holds all tool configuration.
type Config struct {
	Scene   SceneConfig   `yaml:"scene"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// SceneConfig selects the scene document and optional overrides.
type SceneConfig struct {
	Path string `yaml:"path"`
	// Resolution overrides the scene's resolution when positive.
	Resolution float64 `yaml:"resolution"`
}

// ViewerConfig holds terminal viewer settings.
type ViewerConfig struct {
	FPS        int     `yaml:"fps"`
	Background string  `yaml:"background"` // "R,G,B"
	FOV        float64 `yaml:"fov"`
	Wireframe  bool    `yaml:"wireframe"`
	HUD        bool    `yaml:"hud"`
	Grid       bool    `yaml:"grid"`
	Watch      bool    `yaml:"watch"`
}

// ExportConfig holds glTF export settings.
type ExportConfig struct {
	Output      string     `yaml:"output"`
	OuterColor  [4]float64 `yaml:"outer_color"`
	CarvedColor [4]float64 `yaml:"carved_color"`
	Metallic    float64    `yaml:"metallic"`
	Roughness   float64    `yaml:"roughness"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// Default returns configuration with sensible defaults.
func Default() *Config {
	mats := models.DefaultMaterials()
	return &Config{
		Viewer: ViewerConfig{
			FPS:        60,
			Background: "30,30,40",
			FOV:        0.7,
			HUD:        true,
			Grid:       true,
		},
		Export: ExportConfig{
			Output:      "spheres.glb",
			OuterColor:  mats[0].BaseColor,
			CarvedColor: mats[1].BaseColor,
			Metallic:    mats[0].Metallic,
			Roughness:   mats[0].Roughness,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Materials returns the outer and carved surface materials.
func (e ExportConfig) Materials() [2]models.Material {
	mats := models.DefaultMaterials()
	mats[0].BaseColor = e.OuterColor
	mats[1].BaseColor = e.CarvedColor
	for i := range mats {
		mats[i].Metallic = e.Metallic
		mats[i].Roughness = e.Roughness
	}
	return mats
}

// BackgroundRGB parses the "R,G,B" background color.
func (v ViewerConfig) BackgroundRGB() (r, g, b uint8, err error) {
	if _, err := fmt.Sscanf(v.Background, "%d,%d,%d", &r, &g, &b); err != nil {
		return 0, 0, 0, fmt.Errorf("background %q: %w", v.Background, err)
	}
	return r, g, b, nil
}

// Validate reports settings the viewer and exporter cannot use.
func (c *Config) Validate() error {
	if c.Viewer.FPS <= 0 {
		return fmt.Errorf("viewer.fps must be positive, got %d", c.Viewer.FPS)
	}
	if c.Viewer.FOV <= 0 || c.Viewer.FOV >= 3.1 {
		return fmt.Errorf("viewer.fov must be in (0, 3.1), got %v", c.Viewer.FOV)
	}
	if _, _, _, err := c.Viewer.BackgroundRGB(); err != nil {
		return err
	}
	if c.Scene.Resolution < 0 {
		return fmt.Errorf("scene.resolution must not be negative, got %v", c.Scene.Resolution)
	}
	return nil
}
