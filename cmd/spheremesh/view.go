package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/spheremesh/internal/logger"
	"github.com/taigrr/spheremesh/internal/watch"
	"github.com/taigrr/spheremesh/pkg/render"
	"github.com/taigrr/spheremesh/pkg/spheres"
)

const (
	// cellPixels converts a drag in terminal cells to pointer units.
	cellPixels = 8
	// keyHold is how long a movement key stays held without a repeat.
	// Most terminals never report key releases.
	keyHold = 150 * time.Millisecond
)

var errQuit = errors.New("quit")

func newViewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [scene]",
		Short: "View the mesh in the terminal",
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
			return runViewer(cmd.Context(), a, path, sm)
		},
	}

	f := cmd.Flags()
	f.Int("fps", 60, "target FPS")
	f.String("background", "30,30,40", "background color (R,G,B)")
	f.Float64("fov", render.DefaultFOV, "vertical field of view in radians")
	f.Float64("resolution", 0, "override the scene resolution")
	f.Bool("wireframe", false, "start in wireframe mode")
	f.Bool("grid", true, "draw the ground grid")
	f.Bool("hud", true, "show the HUD overlay")
	f.Bool("watch", false, "rebuild the mesh when the scene file changes")
	return cmd
}

// springAxis eases an angle toward its target with a critically damped spring.
type springAxis struct {
	Position float64
	Target   float64
	velocity float64
	spring   harmonica.Spring
}

func newSpringAxis(fps int, value float64) springAxis {
	return springAxis{
		Position: value,
		Target:   value,
		// Frequency 8 settles within a few frames; damping 1 never overshoots.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0),
	}
}

func (a *springAxis) Update() {
	a.Position, a.velocity = a.spring.Update(a.Position, a.velocity, a.Target)
}

// orbit smooths pointer-driven camera rotation.
type orbit struct {
	Polar, Azimuth springAxis
}

func newOrbit(fps int, polar, azimuth float64) *orbit {
	return &orbit{
		Polar:   newSpringAxis(fps, polar),
		Azimuth: newSpringAxis(fps, azimuth),
	}
}

// Drag moves the targets by a pointer movement in terminal cells.
func (o *orbit) Drag(dx, dy float64) {
	o.Polar.Target = math.Max(-math.Pi/2, math.Min(math.Pi/2,
		o.Polar.Target+dy*cellPixels*render.DragSensitivity))
	o.Azimuth.Target += dx * cellPixels * render.DragSensitivity
}

// Update advances both springs one frame and applies them to c.
func (o *orbit) Update(c *render.Camera) {
	o.Polar.Update()
	o.Azimuth.Update()
	c.SetRotation(o.Polar.Position, o.Azimuth.Position)
}

// Snap jumps to the camera's current angles.
func (o *orbit) Snap(c *render.Camera) {
	o.Polar.Position, o.Polar.Target, o.Polar.velocity = c.Polar, c.Polar, 0
	o.Azimuth.Position, o.Azimuth.Target, o.Azimuth.velocity = c.Azimuth, c.Azimuth, 0
}

// heldKeys emulates key state on terminals that only report presses.
type heldKeys struct {
	last map[render.MoveKeys]time.Time
}

func (h *heldKeys) press(c *render.Camera, k render.MoveKeys, now time.Time) {
	if h.last == nil {
		h.last = make(map[render.MoveKeys]time.Time)
	}
	h.last[k] = now
	c.Press(k)
}

func (h *heldKeys) release(c *render.Camera, k render.MoveKeys) {
	delete(h.last, k)
	c.Release(k)
}

// expire releases keys that have not repeated within keyHold.
func (h *heldKeys) expire(c *render.Camera, now time.Time) {
	for k, t := range h.last {
		if now.Sub(t) > keyHold {
			h.release(c, k)
		}
	}
}

var moveBindings = []struct {
	key string
	bit render.MoveKeys
}{
	{"w", render.KeyForward},
	{"s", render.KeyBackward},
	{"a", render.KeyLeft},
	{"d", render.KeyRight},
	{"q", render.KeyUp},
	{"e", render.KeyDown},
}

// viewState holds UI toggles.
type viewState struct {
	wireframe bool
	grid      bool
	axes      bool
	showHUD   bool
}

// viewer owns the terminal session. mu guards everything the input,
// watch and render goroutines share.
type viewer struct {
	app  *app
	path string

	mu     sync.Mutex
	scene  *sceneView
	camera *render.Camera
	orbit  *orbit
	keys   heldKeys
	state  viewState
	hud    *HUD

	term          *uv.Terminal
	width, height int
	termRenderer  *render.TerminalRenderer
	fb            *render.Framebuffer
	rasterizer    *render.Rasterizer
	wireframe     *render.Wireframe

	mouseDown              bool
	lastMouseX, lastMouseY int
}

func newViewer(a *app, path string, sm *spheres.Mesh) *viewer {
	cfg := a.cfg.Viewer
	sv := newSceneView(path, sm, a.cfg.Export.Materials())
	v := &viewer{
		app:    a,
		path:   path,
		scene:  sv,
		camera: render.NewCamera(),
		state: viewState{
			wireframe: cfg.Wireframe,
			grid:      cfg.Grid,
			showHUD:   cfg.HUD,
		},
		hud: NewHUD(sv.name, sm),
	}
	v.camera.SetFOV(cfg.FOV)
	v.camera.LookAt(v.scene.center)
	v.scene.frame(v.camera)
	v.orbit = newOrbit(cfg.FPS, v.camera.Polar, v.camera.Azimuth)
	return v
}

// resize rebuilds the framebuffer for a terminal of width x height cells.
func (v *viewer) resize(width, height int) {
	v.width, v.height = width, height
	v.termRenderer = render.NewTerminalRenderer(v.term, width, height)
	fbWidth, fbHeight := v.termRenderer.FramebufferSize()
	v.fb = render.NewFramebuffer(fbWidth, fbHeight)
	v.rasterizer = render.NewRasterizer(v.camera, v.fb)
	v.wireframe = render.NewWireframe(v.camera, v.fb)
	if fbHeight > 0 {
		v.camera.SetAspectRatio(float64(fbWidth) / float64(fbHeight))
	}
}

// reframe points the camera back at the whole mesh.
func (v *viewer) reframe() {
	v.camera.LookAt(v.scene.center)
	v.scene.frame(v.camera)
	v.orbit.Snap(v.camera)
}

// reload rebuilds the mesh from the scene file, keeping the old one on error.
func (v *viewer) reload() {
	sm, err := v.app.loadMesh(v.path)
	if err != nil {
		logger.Warn("reload failed, keeping previous mesh", zap.String("path", v.path), zap.Error(err))
		return
	}
	sv := newSceneView(v.path, sm, v.app.cfg.Export.Materials())

	v.mu.Lock()
	v.scene = sv
	v.hud.SetMesh(sm)
	v.mu.Unlock()

	logger.Info("scene reloaded",
		zap.String("path", v.path),
		zap.Int("vertices", sm.VertexCount()),
		zap.Int("triangles", sm.TriangleCount()))
}

// handleEvent applies one terminal event. It returns errQuit to stop.
func (v *viewer) handleEvent(ev uv.Event, now time.Time) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.term.Erase()
		v.term.Resize(ev.Width, ev.Height)
		v.resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c"):
			return errQuit
		case ev.MatchString("x"):
			v.state.wireframe = !v.state.wireframe
		case ev.MatchString("g"):
			v.state.grid = !v.state.grid
		case ev.MatchString("z"):
			v.state.axes = !v.state.axes
		case ev.MatchString("f", "r"):
			v.reframe()
		case ev.MatchString("?", "shift+/"):
			v.state.showHUD = !v.state.showHUD
		default:
			for _, b := range moveBindings {
				if ev.MatchString(b.key) {
					v.keys.press(v.camera, b.bit, now)
				}
			}
		}

	case uv.KeyReleaseEvent:
		for _, b := range moveBindings {
			if ev.MatchString(b.key) {
				v.keys.release(v.camera, b.bit)
			}
		}

	case uv.MouseClickEvent:
		v.mouseDown = true
		v.lastMouseX, v.lastMouseY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		v.mouseDown = false

	case uv.MouseMotionEvent:
		if v.mouseDown {
			v.orbit.Drag(float64(ev.X-v.lastMouseX), float64(ev.Y-v.lastMouseY))
			v.lastMouseX, v.lastMouseY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		step := math.Max(v.scene.radius*0.1, 0.1)
		switch ev.Button {
		case uv.MouseWheelUp:
			v.camera.SetPosition(v.camera.Position.Add(v.camera.Forward().Scale(step)))
		case uv.MouseWheelDown:
			v.camera.SetPosition(v.camera.Position.Sub(v.camera.Forward().Scale(step)))
		}
	}
	return nil
}

// drawFrame advances the camera by dt seconds and presents one frame.
func (v *viewer) drawFrame(dt float64, now time.Time, bg render.Color) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.keys.expire(v.camera, now)
	v.orbit.Update(v.camera)
	v.camera.MoveSpeed = math.Max(v.scene.radius, 1) * 2
	v.camera.Update(dt)

	v.fb.Clear(bg)
	v.rasterizer.ClearDepth()
	v.rasterizer.ResetStats()
	v.scene.draw(v.rasterizer, v.wireframe, drawOptions{
		wireframe: v.state.wireframe,
		grid:      v.state.grid,
		axes:      v.state.axes,
		light:     headlight(v.camera),
	})

	v.termRenderer.Render(v.fb)
	if err := v.termRenderer.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	v.hud.UpdateFPS()
	v.hud.Render(os.Stdout, v.width, v.height, &v.state)
	return nil
}

func runViewer(ctx context.Context, a *app, path string, sm *spheres.Mesh) error {
	cfg := a.cfg.Viewer
	bgR, bgG, bgB, err := cfg.BackgroundRGB()
	if err != nil {
		return err
	}
	bg := render.RGB(bgR, bgG, bgB)

	v := newViewer(a, path, sm)

	var w *watch.Watcher
	if cfg.Watch {
		if w, err = watch.New(path, watch.DefaultDebounce); err != nil {
			return err
		}
		defer w.Close()
		logger.Info("watching scene", zap.String("path", w.Path()))
	}

	v.term = uv.DefaultTerminal()
	width, height, err := v.term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := v.term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	v.term.EnterAltScreen()
	v.term.HideCursor()
	v.term.Resize(width, height)
	v.resize(width, height)

	// Any-event mouse tracking in SGR extended mode.
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		v.term.ExitAltScreen()
		v.term.ShowCursor()
		v.term.Shutdown(context.Background())
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		events := v.term.Events()
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				if err := v.handleEvent(ev, time.Now()); err != nil {
					return err
				}
			}
		}
	})

	if w != nil {
		g.Go(func() error {
			return w.Run(ctx, v.reload)
		})
	}

	g.Go(func() error {
		targetDuration := time.Second / time.Duration(cfg.FPS)
		lastFrame := time.Now()
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			now := time.Now()
			dt := min(now.Sub(lastFrame).Seconds(), 0.1)
			lastFrame = now

			if err := v.drawFrame(dt, now, bg); err != nil {
				return err
			}

			if elapsed := time.Since(now); elapsed < targetDuration {
				time.Sleep(targetDuration - elapsed)
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}
