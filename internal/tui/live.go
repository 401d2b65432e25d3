package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/san-kum/springsim/internal/dynamo"
)

const (
	width       = 70
	height      = 20
	trailLength = 40
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

type point struct{ x, y int }

// LiveRenderer draws frames as plain ASCII, throttled to frameRate. It is
// the headless counterpart of the interactive views, meant for `run --live`.
type LiveRenderer struct {
	name      string
	frameRate int
	out       io.Writer
	lastFrame time.Time
	canvas    [][]rune
	trail     []point
}

func NewLiveRenderer(name string, frameRate int) *LiveRenderer {
	return NewLiveRendererTo(os.Stdout, name, frameRate)
}

func NewLiveRendererTo(out io.Writer, name string, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		name:      name,
		frameRate: frameRate,
		out:       out,
		canvas:    canvas,
		trail:     make([]point, 0, trailLength),
	}
}

func (r *LiveRenderer) OnFrame(f dynamo.Frame) {
	if r.frameRate > 0 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = time.Now()
	}

	r.clear()
	r.drawNetwork(f)
	r.render(f)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) line(x1, y1, x2, y2 int, c rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// cell maps a world point onto the character grid.
func cell(f dynamo.Frame, p dynamo.Vec2) point {
	w, h := f.Width, f.Height
	if w <= 0 || h <= 0 {
		return point{int(p.X), int(p.Y)}
	}
	return point{int(p.X / w * width), int(p.Y / h * height)}
}

func (r *LiveRenderer) drawNetwork(f dynamo.Frame) {
	for _, e := range f.Edges {
		a, b := cell(f, e[0]), cell(f, e[1])
		r.line(a.x, a.y, b.x, b.y, '.')
	}

	if n := len(f.Nodes); n > 0 {
		r.trail = append(r.trail, cell(f, f.Nodes[n-1].Pos))
		if len(r.trail) > trailLength {
			r.trail = r.trail[1:]
		}
	}
	for _, pt := range r.trail[:max(len(r.trail)-1, 0)] {
		r.set(pt.x, pt.y, '`')
	}

	for i, n := range f.Nodes {
		c := cell(f, n.Pos)
		switch {
		case i == f.Dragged:
			r.set(c.x, c.y, '@')
		case n.Pinned:
			r.set(c.x, c.y, '#')
		default:
			r.set(c.x, c.y, 'O')
		}
	}
}

func (r *LiveRenderer) render(f dynamo.Frame) {
	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  %s  frame=%d  nodes=%d  edges=%d\n", r.name, f.Tick, len(f.Nodes), len(f.Edges))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	stateStr := "  "
	for i, n := range f.Nodes {
		if i >= 3 {
			break
		}
		stateStr += fmt.Sprintf("n%d=(%.0f,%.0f) ", i, n.Pos.X, n.Pos.Y)
	}
	b.WriteString(stateStr + "\n")

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
