// spheremesh - union meshes of two overlapping spheres
// Build, inspect, export and view the closed mesh formed by two spheres,
// with the second sphere carved out of the first where they overlap.
//
// Viewer controls:
//
//	Mouse drag  - Look around (polar/azimuth)
//	W/S         - Move forward/backward
//	A/D         - Move left/right
//	Q/E         - Move up/down
//	Scroll      - Move along the view direction
//	F           - Frame the mesh
//	X           - Toggle wireframe mode
//	G           - Toggle ground grid
//	Z           - Toggle coordinate axes
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/spheremesh/internal/config"
	"github.com/taigrr/spheremesh/internal/logger"
)

var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// app carries state shared by all commands once flags are parsed.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "spheremesh",
		Short: "Build and view the mesh of two overlapping spheres",
		Long: "spheremesh generates a closed triangle mesh from two spheres: the first\n" +
			"sphere with the second carved out of it where they overlap.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Sync()
		},
	}
	config.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newStatsCmd(a),
		newExportCmd(a),
		newRenderCmd(a),
		newViewCmd(a),
		newInitCmd(a),
	)
	return root
}

// setup loads configuration and starts logging. The viewer owns the
// terminal, so it only logs to a file.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	if cmd.Name() == "view" {
		var fileCfg logger.FileConfig
		if cfg.Logging.File != "" {
			fileCfg = logger.DefaultFileConfig(cfg.Logging.File)
		}
		err = logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, false)
	} else {
		err = logger.Init(cfg.Logging.Level, cfg.Logging.File)
	}
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	a.cfg = cfg
	return nil
}
