package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers the global flags shared by every command.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to config file")
	fs.Bool("debug", false, "enable debug logging")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-file", "", "also write logs to this file")
}

// applyFlags overrides config values with flags the user set explicitly.
// Flags that are not registered on fs are ignored.
func applyFlags(cfg *Config, fs *pflag.FlagSet) {
	if fs == nil {
		return
	}

	if v, ok := changedString(fs, "log-level"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := changedString(fs, "log-file"); ok {
		cfg.Logging.File = v
	}
	if v, ok := changedBool(fs, "debug"); ok && v {
		cfg.Logging.Level = "debug"
	}

	if v, ok := changedFloat(fs, "resolution"); ok {
		cfg.Scene.Resolution = v
	}

	if fs.Changed("fps") {
		if v, err := fs.GetInt("fps"); err == nil {
			cfg.Viewer.FPS = v
		}
	}
	if v, ok := changedString(fs, "background"); ok {
		cfg.Viewer.Background = v
	}
	if v, ok := changedFloat(fs, "fov"); ok {
		cfg.Viewer.FOV = v
	}
	if v, ok := changedBool(fs, "wireframe"); ok {
		cfg.Viewer.Wireframe = v
	}
	if v, ok := changedBool(fs, "hud"); ok {
		cfg.Viewer.HUD = v
	}
	if v, ok := changedBool(fs, "grid"); ok {
		cfg.Viewer.Grid = v
	}
	if v, ok := changedBool(fs, "watch"); ok {
		cfg.Viewer.Watch = v
	}

	if v, ok := changedString(fs, "output"); ok {
		cfg.Export.Output = v
	}
}

func changedString(fs *pflag.FlagSet, name string) (string, bool) {
	if !fs.Changed(name) {
		return "", false
	}
	v, err := fs.GetString(name)
	return v, err == nil
}

func changedBool(fs *pflag.FlagSet, name string) (bool, bool) {
	if !fs.Changed(name) {
		return false, false
	}
	v, err := fs.GetBool(name)
	return v, err == nil
}

func changedFloat(fs *pflag.FlagSet, name string) (float64, bool) {
	if !fs.Changed(name) {
		return 0, false
	}
	v, err := fs.GetFloat64(name)
	return v, err == nil
}
