package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/spheremesh/internal/config"
	"github.com/taigrr/spheremesh/internal/logger"
	"github.com/taigrr/spheremesh/pkg/math3d"
	"github.com/taigrr/spheremesh/pkg/render"
)

// snapshotOptions controls an offscreen render.
type snapshotOptions struct {
	width, height  int
	polar, azimuth float64
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		out  string
		opts snapshotOptions
	)

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Render the mesh to a PNG image",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.scenePath(args)
			if err != nil {
				return err
			}
			sm, err := a.loadMesh(path)
			if err != nil {
				return err
			}

			fb, err := snapshot(a.cfg, newSceneView(path, sm, a.cfg.Export.Materials()), opts)
			if err != nil {
				return err
			}
			if err := fb.SavePNG(out); err != nil {
				return err
			}
			logger.Info("rendered", zap.String("path", out), zap.Int("width", opts.width), zap.Int("height", opts.height))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", out, opts.width, opts.height)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "spheres.png", "output PNG file")
	f.IntVar(&opts.width, "width", 320, "image width in pixels")
	f.IntVar(&opts.height, "height", 240, "image height in pixels")
	f.Float64Var(&opts.polar, "polar", 0.4, "camera polar angle in radians (positive looks down)")
	f.Float64Var(&opts.azimuth, "azimuth", -0.6, "camera azimuth in radians")
	f.Float64("resolution", 0, "override the scene resolution")
	f.Float64("fov", render.DefaultFOV, "vertical field of view in radians")
	f.String("background", "30,30,40", "background color (R,G,B)")
	f.Bool("wireframe", false, "draw edges instead of shaded faces")
	f.Bool("grid", true, "draw the ground grid")
	return cmd
}

// snapshot draws the scene into a new framebuffer, with the camera framing
// the mesh from the given angles.
func snapshot(cfg *config.Config, sv *sceneView, opts snapshotOptions) (*render.Framebuffer, error) {
	if opts.width <= 0 || opts.height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", opts.width, opts.height)
	}
	bgR, bgG, bgB, err := cfg.Viewer.BackgroundRGB()
	if err != nil {
		return nil, err
	}

	fb := render.NewFramebuffer(opts.width, opts.height)
	camera := render.NewCamera()
	camera.SetAspectRatio(float64(opts.width) / float64(opts.height))
	camera.SetFOV(cfg.Viewer.FOV)
	camera.SetRotation(opts.polar, opts.azimuth)
	sv.frame(camera)

	rasterizer := render.NewRasterizer(camera, fb)
	wireframe := render.NewWireframe(camera, fb)

	fb.Clear(render.RGB(bgR, bgG, bgB))
	rasterizer.ClearDepth()
	sv.draw(rasterizer, wireframe, drawOptions{
		wireframe: cfg.Viewer.Wireframe,
		grid:      cfg.Viewer.Grid,
		light:     headlight(camera),
	})

	logger.Debug("snapshot drawn",
		zap.Int("submitted", rasterizer.Stats.TrianglesSubmitted),
		zap.Int("culled", rasterizer.Stats.TrianglesCulled),
		zap.Int("pixels", rasterizer.Stats.PixelsWritten))
	return fb, nil
}

// headlight lights the scene from behind and slightly above the camera.
func headlight(c *render.Camera) math3d.Vec3 {
	return c.Forward().Negate().Add(math3d.V3(0, 0.5, 0)).Normalize()
}
