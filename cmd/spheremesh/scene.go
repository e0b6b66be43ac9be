package main

import (
	"errors"
	"math"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/taigrr/spheremesh/internal/config"
	"github.com/taigrr/spheremesh/internal/logger"
	"github.com/taigrr/spheremesh/pkg/math3d"
	"github.com/taigrr/spheremesh/pkg/models"
	"github.com/taigrr/spheremesh/pkg/render"
	"github.com/taigrr/spheremesh/pkg/spheres"
)

var errNoScene = errors.New("no scene file given (pass one or set scene.path in the config)")

// scenePath picks the scene file from the arguments or the config.
func (a *app) scenePath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if a.cfg.Scene.Path != "" {
		return a.cfg.Scene.Path, nil
	}
	return "", errNoScene
}

// loadMesh reads a scene file and generates its mesh.
func (a *app) loadMesh(path string) (*spheres.Mesh, error) {
	opts, err := config.LoadScene(path)
	if err != nil {
		return nil, err
	}
	return buildMesh(a.cfg.Scene.ApplyOverrides(opts))
}

func buildMesh(opts spheres.Options) (*spheres.Mesh, error) {
	if used, clamped := spheres.ClampResolution(opts.Resolution); clamped {
		logger.Warn("resolution raised to minimum",
			zap.Float64("requested", opts.Resolution),
			zap.Int("used", used),
			zap.Error(spheres.ErrDegenerateResolution))
	}

	sm, err := spheres.BuildMesh(opts)
	if err != nil {
		return nil, err
	}

	logger.Info("mesh built",
		zap.Bool("intersecting", sm.Pair.Intersecting),
		zap.Int("segments", sm.Pair.RadialSegments),
		zap.Int("vertices", sm.VertexCount()),
		zap.Int("triangles", sm.TriangleCount()),
		zap.Stringer("index_width", sm.Indices.Width()))
	return sm, nil
}

// sceneView is a generated mesh prepared for drawing.
type sceneView struct {
	name    string
	mesh    *spheres.Mesh
	model   *models.Mesh
	palette []render.Color

	center math3d.Vec3
	radius float64

	gridSize, gridStep, gridY float64
}

func newSceneView(path string, sm *spheres.Mesh, mats [2]models.Material) *sceneView {
	name := filepath.Base(path)
	model := models.FromSpheres(name, sm, mats)

	palette := make([]render.Color, model.MaterialCount())
	for i := range palette {
		palette[i] = render.FromFloat(model.GetMaterial(i).BaseColor)
	}

	extent := model.Size()
	gridSize := math.Max(math.Ceil(2*math.Max(extent.X, extent.Z)), 1)

	return &sceneView{
		name:     name,
		mesh:     sm,
		model:    model,
		palette:  palette,
		center:   model.Center(),
		radius:   extent.Len() / 2,
		gridSize: gridSize,
		gridStep: gridSize / 10,
		gridY:    model.BoundsMin.Y,
	}
}

// frame points the camera at the mesh from its current direction and fits
// the clip planes to the mesh size.
func (s *sceneView) frame(c *render.Camera) {
	radius := math.Max(s.radius, 1e-3)
	c.SetClipPlanes(math.Min(render.DefaultNear, radius*0.01), math.Max(render.DefaultFar, radius*100))
	c.Frame(s.center, radius*1.1)
}

type drawOptions struct {
	wireframe bool
	grid      bool
	axes      bool
	light     math3d.Vec3
}

func (s *sceneView) draw(r *render.Rasterizer, wf *render.Wireframe, opts drawOptions) {
	if opts.grid {
		wf.DrawGrid(s.gridSize, s.gridStep, s.gridY, render.ColorGray)
	}
	if opts.axes {
		wf.DrawAxes(s.gridSize / 2)
	}

	if opts.wireframe {
		r.DrawMeshWireframe(s.model, math3d.Identity(), render.ColorGreen)
	} else {
		r.DrawMesh(s.model, math3d.Identity(), s.palette, opts.light)
	}

	if center, axis, radius, ok := s.mesh.Pair.IntersectionCircle(); ok {
		wf.DrawCircle(center, axis, radius, 4*s.mesh.Pair.RadialSegments, render.ColorRim)
	}
}
