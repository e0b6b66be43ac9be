package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/spheremesh/internal/logger"
	"github.com/taigrr/spheremesh/pkg/models"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [scene]",
		Short: "Write the mesh as glTF (.gltf) or binary glTF (.glb)",
		Long: "export writes one mesh with two primitives, the outer surface and the\n" +
			"carved surface, each with its own material.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.scenePath(args)
			if err != nil {
				return err
			}
			sm, err := a.loadMesh(path)
			if err != nil {
				return err
			}

			out := a.cfg.Export.Output
			if err := models.WriteFile(out, sm, a.cfg.Export.Materials()); err != nil {
				return fmt.Errorf("export %s: %w", out, err)
			}
			logger.Info("exported", zap.String("path", out), zap.Int("triangles", sm.TriangleCount()))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d vertices, %d triangles)\n", out, sm.VertexCount(), sm.TriangleCount())
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "output file (default from config, spheres.glb)")
	cmd.Flags().Float64("resolution", 0, "override the scene resolution")
	return cmd
}
