package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/taigrr/spheremesh/internal/config"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		scene string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default config, and optionally an example scene",
		Long: "init writes the default tool configuration to path, or to the user config\n" +
			"directory when no path is given. With --scene it also writes an example\n" +
			"scene (.yaml, .json or .toml).",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			path := filepath.Join(config.ConfigDir(), "config.yaml")
			if len(args) > 0 {
				path = args[0]
			}

			if !force {
				for _, p := range []string{path, scene} {
					if p == "" {
						continue
					}
					if _, err := os.Stat(p); err == nil {
						return fmt.Errorf("%s already exists (use --force to overwrite)", p)
					}
				}
			}

			cfg := config.Default()
			cfg.Logging = a.cfg.Logging
			if scene != "" {
				cfg.Scene.Path = scene
			}
			if len(args) > 0 {
				err = cfg.SaveTo(path)
			} else {
				err = cfg.Save()
			}
			if err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)

			if scene != "" {
				if err := config.SaveScene(scene, config.DefaultScene()); err != nil {
					return fmt.Errorf("write scene: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", scene)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scene, "scene", "", "also write an example scene to this file")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config or scene")
	return cmd
}
