package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/springsim/internal/analysis"
	"github.com/san-kum/springsim/internal/dynamo"
)

type Style struct {
	Background string
	Edge       string
	Node       string
	Pinned     string
	Dragged    string
	Scale      float64
}

func DefaultStyle() Style {
	return Style{
		Background: "#0a0a0a",
		Edge:       "#5f87af",
		Node:       "#e4e4e4",
		Pinned:     "#ff5f5f",
		Dragged:    "#ffd75f",
		Scale:      1,
	}
}

// SnapshotToSVG draws one frame: every edge as a line, then every node as a
// circle coloured by its pinned and dragged state.
func SnapshotToSVG(f dynamo.Frame, style Style) string {
	if style.Scale <= 0 {
		style.Scale = 1
	}
	s := style.Scale
	width, height := f.Width*s, f.Height*s

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, style.Background)

	fmt.Fprintf(&sb, "<g stroke=\"%s\" stroke-width=\"%.1f\">\n", style.Edge, s)
	for _, e := range f.Edges {
		fmt.Fprintf(&sb, "<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\"/>\n",
			e[0].X*s, e[0].Y*s, e[1].X*s, e[1].Y*s)
	}
	sb.WriteString("</g>\n")

	sb.WriteString("<g>\n")
	for i, n := range f.Nodes {
		fill := style.Node
		switch {
		case i == f.Dragged:
			fill = style.Dragged
		case n.Pinned:
			fill = style.Pinned
		}
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n",
			n.Pos.X*s, n.Pos.Y*s, n.Radius*s, fill)
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG plots a recorded path, scaled to fill the image.
func TrajectoryToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
