package gui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/springsim/internal/dynamo"
)

func vec(p dynamo.Vec2) rl.Vector2 {
	return rl.NewVector2(float32(p.X), float32(p.Y))
}

func (a *App) drawNetwork() {
	f := a.Sim.Snapshot()

	for _, e := range f.Edges {
		rl.DrawLineEx(vec(e[0]), vec(e[1]), 1.5, ColAccent)
	}
	for i, n := range f.Nodes {
		pos := vec(n.Pos)
		r := float32(n.Radius)
		rl.DrawCircleV(pos, r, ColSelect)
		if n.Pinned {
			rl.DrawCircleLines(int32(pos.X), int32(pos.Y), r+4, ColPinned)
		}
		if i == f.Dragged {
			rl.DrawCircleLines(int32(pos.X), int32(pos.Y), r+7, ColDragged)
		}
	}
}

func (a *App) DrawHUD() {
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	params := a.Sim.GetParams()

	a.drawText("springsim", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Current.Variant), 170, 34, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, w-130, 30, 16, col)

	y := 80
	for i, key := range a.ParamKeys {
		line := fmt.Sprintf("  %-7s %.2f", key, params[key])
		c := ColText
		if i == a.ParamSel {
			line, c = "> "+line[2:], ColSelect
		}
		a.drawText(line, 30, y, 16, c)
		y += 22
	}

	mode := "chain"
	if params["mode"] != 0 {
		mode = "complete"
	}
	gravity := "off"
	if params["gravity"] != 0 {
		gravity = "on"
	}
	a.drawText(fmt.Sprintf("  %-7s %s", "mode", mode), 30, y, 16, ColTextDim)
	a.drawText(fmt.Sprintf("  %-7s %s", "gravity", gravity), 30, y+22, 16, ColTextDim)
	a.drawText(fmt.Sprintf("  %-7s %s", "pointer", a.Sim.Interaction()), 30, y+44, 16, ColTextDim)
	a.drawText(fmt.Sprintf("  %-7s %s", "pinned", joinInts(a.Sim.Pinned())), 30, y+66, 16, ColTextDim)

	a.DrawTelemetry(30, h-120)

	if a.Status != "" {
		a.drawText(a.Status, 30, h-40, 14, ColAccent)
	}
	a.drawText("[SPACE] PAUSE [TAB/ARROWS] TUNE [G] GRAVITY [M] MODE [R] RANDOM [X] RESET [S] SVG [ESC] MENU [Q] QUIT", w-880, h-40, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), w-100, h-70, 14, ColTextDim)
}

func joinInts(xs []int) string {
	if len(xs) == 0 {
		return "none"
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, " ")
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) DrawTelemetry(rectX, rectY int) {
	if len(a.Telemetry) < 2 {
		return
	}

	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("E: %.2e", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawMenu() {
	a.drawText("springsim", 50, 50, 40, ColSelect)
	a.drawText("Select Network", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.Variants {
		v, _ := a.Registry.Variant(name)
		line := fmt.Sprintf("  %-8s %s", name, v.Description)
		c := ColText
		if i == a.Selected {
			line, c = "> "+line[2:], ColSelect
		}
		a.drawText(line, 50, y, 20, c)
		y += 28
	}

	if a.Status != "" {
		a.drawText(a.Status, 50, y+20, 14, ColPinned)
	}
	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", rl.GetScreenWidth()-430, rl.GetScreenHeight()-40, 14, ColTextDim)
}
