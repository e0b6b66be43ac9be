package main

import (
	"fmt"
	"io"
	"time"

	"github.com/taigrr/spheremesh/pkg/spheres"
)

// HUD renders an overlay with mesh statistics and view modes.
type HUD struct {
	filename     string
	intersecting bool
	vertices     int
	triangles    int
	indexWidth   spheres.IndexWidth

	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a HUD for the given scene.
func NewHUD(filename string, sm *spheres.Mesh) *HUD {
	h := &HUD{filename: filename, fpsTime: time.Now()}
	h.SetMesh(sm)
	return h
}

// SetMesh updates the displayed counts after a rebuild.
func (h *HUD) SetMesh(sm *spheres.Mesh) {
	h.intersecting = sm.Pair.Intersecting
	h.vertices = sm.VertexCount()
	h.triangles = sm.TriangleCount()
	h.indexWidth = sm.Indices.Width()
}

// UpdateFPS updates the FPS counter (call once per frame).
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// countsLine summarizes the mesh buffers.
func (h *HUD) countsLine() string {
	kind := "separate"
	if h.intersecting {
		kind = "intersecting"
	}
	return fmt.Sprintf("%s · %d verts · %d tris · %s", kind, h.vertices, h.triangles, h.indexWidth)
}

func checkbox(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}

// Render writes the HUD rows to w using ANSI cursor positioning.
func (h *HUD) Render(w io.Writer, width, height int, state *viewState) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows so toggling off works.
	fmt.Fprint(w, moveTo(1, 1)+clearLine)
	fmt.Fprint(w, moveTo(height, 1)+clearLine)

	if !state.showHUD {
		return
	}

	fmt.Fprintf(w, "%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	titleCol := max((width-len(h.filename)-2)/2, 1)
	fmt.Fprintf(w, "%s%s%s%s %s %s", moveTo(1, titleCol), bold, bgBlack, fgWhite, h.filename, reset)

	counts := h.countsLine()
	countsCol := max(width-len([]rune(counts))-1, 1)
	fmt.Fprintf(w, "%s%s%s%s %s %s", moveTo(height, countsCol), bgBlack, fgCyan, bold, counts, reset)

	fmt.Fprintf(w, "%s%s%s %s Wireframe  %s Grid %s%s WASD/QE move · drag look %s",
		moveTo(height, 1), bgBlack, fgWhite,
		checkbox(state.wireframe), checkbox(state.grid),
		dim, fgYellow, reset)
}
