package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Viewer.FPS != 60 {
		t.Errorf("expected fps 60, got %d", cfg.Viewer.FPS)
	}
	if cfg.Viewer.FOV != 0.7 {
		t.Errorf("expected fov 0.7, got %v", cfg.Viewer.FOV)
	}
	if !cfg.Viewer.HUD {
		t.Error("expected hud to be enabled by default")
	}
	if cfg.Viewer.Wireframe {
		t.Error("expected wireframe to be off by default")
	}
	if cfg.Export.Output != "spheres.glb" {
		t.Errorf("expected output spheres.glb, got %s", cfg.Export.Output)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
scene:
  resolution: 48
viewer:
  fps: 30
  background: "0,0,0"
  wireframe: true
export:
  output: out.gltf
  outer_color: [1, 0, 0, 1]
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Scene.Resolution != 48 {
		t.Errorf("expected resolution 48, got %v", cfg.Scene.Resolution)
	}
	if cfg.Viewer.FPS != 30 {
		t.Errorf("expected fps 30, got %d", cfg.Viewer.FPS)
	}
	if !cfg.Viewer.Wireframe {
		t.Error("expected wireframe true")
	}
	if cfg.Export.Output != "out.gltf" {
		t.Errorf("expected output out.gltf, got %s", cfg.Export.Output)
	}
	if cfg.Export.OuterColor != [4]float64{1, 0, 0, 1} {
		t.Errorf("unexpected outer color %v", cfg.Export.OuterColor)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}

	// Unset values keep their defaults.
	if cfg.Viewer.FOV != 0.7 {
		t.Errorf("expected default fov, got %v", cfg.Viewer.FOV)
	}
	if !cfg.Viewer.HUD {
		t.Error("expected default hud")
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom.yaml")
	if err := os.WriteFile(configPath, []byte("viewer:\n  fps: 24\n  fov: 1.0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	fs.Int("fps", 60, "")
	fs.Bool("watch", false, "")
	if err := fs.Parse([]string{"--config", configPath, "--fps", "12", "--watch", "--debug"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Viewer.FPS != 12 {
		t.Errorf("flag should win over file: fps = %d", cfg.Viewer.FPS)
	}
	if cfg.Viewer.FOV != 1.0 {
		t.Errorf("file should win over default: fov = %v", cfg.Viewer.FOV)
	}
	if !cfg.Viewer.Watch {
		t.Error("expected watch from flag")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected --debug to set level, got %s", cfg.Logging.Level)
	}
}

func TestLoadUnsetFlagsKeepFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom.yaml")
	if err := os.WriteFile(configPath, []byte("viewer:\n  fps: 24\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	fs.Int("fps", 60, "")
	if err := fs.Parse([]string{"--config", configPath}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Viewer.FPS != 24 {
		t.Errorf("flag default must not override file: fps = %d", cfg.Viewer.FPS)
	}
}

func TestLoadInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "viewer: [unclosed"},
		{"zero fps", "viewer:\n  fps: 0\n"},
		{"bad background", "viewer:\n  background: blue\n"},
		{"negative resolution", "scene:\n  resolution: -3\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tc.name+".yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			BindFlags(fs)
			if err := fs.Parse([]string{"--config", path}); err != nil {
				t.Fatalf("parse flags: %v", err)
			}
			if _, err := Load(fs); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Viewer.FPS = 15
	cfg.Export.Output = "pair.glb"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, configPath); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}

	if loaded.Viewer.FPS != 15 {
		t.Errorf("expected fps 15, got %d", loaded.Viewer.FPS)
	}
	if loaded.Export.Output != "pair.glb" {
		t.Errorf("expected output pair.glb, got %s", loaded.Export.Output)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir := ConfigDir()
	if dir == "" {
		t.Fatal("ConfigDir returned empty string")
	}
	if filepath.Base(dir) != "spheremesh" {
		t.Errorf("expected directory named spheremesh, got %s", dir)
	}
}

func TestBackgroundRGB(t *testing.T) {
	v := ViewerConfig{Background: "30,30,40"}
	r, g, b, err := v.BackgroundRGB()
	if err != nil {
		t.Fatalf("BackgroundRGB: %v", err)
	}
	if r != 30 || g != 30 || b != 40 {
		t.Errorf("got %d,%d,%d", r, g, b)
	}
}

func TestExportMaterials(t *testing.T) {
	e := Default().Export
	e.CarvedColor = [4]float64{0, 1, 0, 1}
	e.Roughness = 0.2

	mats := e.Materials()
	if mats[0].Name != "outer" || mats[1].Name != "carved" {
		t.Errorf("unexpected material names %q, %q", mats[0].Name, mats[1].Name)
	}
	if mats[1].BaseColor != [4]float64{0, 1, 0, 1} {
		t.Errorf("carved color = %v", mats[1].BaseColor)
	}
	if mats[0].Roughness != 0.2 || mats[1].Roughness != 0.2 {
		t.Error("roughness not applied to both materials")
	}
}
