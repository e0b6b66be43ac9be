package main

import (
	"fmt"
	"io"
	"math"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/taigrr/spheremesh/pkg/spheres"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F5A623"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A")).Width(20)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E4E4E4"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#5F5F87")).Padding(0, 1)
)

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [scene]",
		Short: "Print the classification and buffer sizes of a scene's mesh",
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
			renderStats(cmd.OutOrStdout(), path, statsRows(sm))
			return nil
		},
	}
	cmd.Flags().Float64("resolution", 0, "override the scene resolution")
	return cmd
}

type statRow struct {
	label, value string
}

func statsRows(sm *spheres.Mesh) []statRow {
	p := sm.Pair
	deg := func(rad float64) string { return fmt.Sprintf("%.2f°", rad*180/math.Pi) }

	classification := "separate"
	if p.Intersecting {
		classification = "intersecting"
	}

	rows := []statRow{
		{"spheres", classification},
		{"center distance", fmt.Sprintf("%.4g", p.CenterDistance)},
		{"radial segments", fmt.Sprint(p.RadialSegments)},
		{"height segments", fmt.Sprintf("%d / %d", p.HeightSegments1, p.HeightSegments2)},
		{"start angles", deg(p.StartAngle1) + " / " + deg(p.StartAngle2)},
	}
	if _, _, radius, ok := p.IntersectionCircle(); ok {
		rows = append(rows, statRow{"rim radius", fmt.Sprintf("%.4g", radius)})
	}

	lo, hi := sm.Bounds()
	rows = append(rows,
		statRow{"vertices", fmt.Sprint(sm.VertexCount())},
		statRow{"indices", fmt.Sprint(sm.IndexCount())},
		statRow{"triangles", fmt.Sprint(sm.TriangleCount())},
		statRow{"index width", sm.Indices.Width().String()},
		statRow{"bounds", fmt.Sprintf("(%.3g, %.3g, %.3g) - (%.3g, %.3g, %.3g)", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)},
	)
	return rows
}

func renderStats(w io.Writer, title string, rows []statRow) {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, titleStyle.Render(title))
	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(r.label), valueStyle.Render(r.value)))
	}
	lipgloss.Fprintln(w, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}
