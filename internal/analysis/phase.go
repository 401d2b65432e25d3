package analysis

import (
	"math"
	"strings"
)

type Point struct{ X, Y float64 }

// PhasePortrait pairs a node's coordinate with its velocity, frame by frame.
func PhasePortrait(t *Trace) []Point {
	n := min(len(t.Position), len(t.Velocity))
	out := make([]Point, n)
	for i := 0; i < n; i++ {
		out[i] = Point{X: t.Position[i], Y: t.Velocity[i]}
	}
	return out
}

// PortraitToASCII plots points on a width x height character grid, drawing
// the axes when they fall inside the plotted range.
func PortraitToASCII(points []Point, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	minX, maxX = pad(minX, maxX)
	minY, maxY = pad(minY, maxY)

	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range grid {
			grid[r][c] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range grid[r] {
			grid[r][c] = '─'
		}
	}

	for _, p := range points {
		r, c := row(p.Y), col(p.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// pad widens [lo, hi] by 10% on each side, and to unit width if empty.
func pad(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - span*0.1, hi + span*0.1
}

// MeanCrossings counts upward crossings of the signal's mean. Two
// consecutive crossings bracket one oscillation period.
func MeanCrossings(samples []float64) []int {
	if len(samples) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	var out []int
	for i := 1; i < len(samples); i++ {
		if samples[i-1] < mean && samples[i] >= mean {
			out = append(out, i)
		}
	}
	return out
}

// Period estimates the oscillation period in samples from mean crossings.
func Period(samples []float64) (float64, bool) {
	c := MeanCrossings(samples)
	if len(c) < 2 {
		return 0, false
	}
	return float64(c[len(c)-1]-c[0]) / float64(len(c)-1), true
}
