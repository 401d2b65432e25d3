package gui

import (
	"fmt"
	"math/rand"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/export"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/sim"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColPinned  = rl.NewColor(255, 95, 95, 255)
	ColDragged = rl.NewColor(255, 215, 95, 255)
)

const (
	windowWidth  = 1280
	windowHeight = 720
	maxTelemetry = 200
)

type App struct {
	Sim      *sim.Simulation
	Registry *experiment.Registry
	Initial  *config.Config
	Current  *config.Config

	Running  bool
	InMenu   bool
	Variants []string
	Selected int

	ParamKeys []string
	ParamSel  int
	Fixed     map[string]bool

	Telemetry []float64
	Status    string
	Font      rl.Font

	input sim.Tracker
	rng   *rand.Rand
	quit  bool
}

func initWindow() {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, "springsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono when present and falls back to the raylib
// default font otherwise.
func loadFont() rl.Font {
	const path = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
	if _, err := os.Stat(path); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(path, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp creates an App either parked in the variant menu or running cfg.
func NewApp(cfg *config.Config, registry *experiment.Registry, interactive bool) (*App, error) {
	app := &App{
		Registry:  registry,
		Variants:  registry.Names(),
		InMenu:    interactive,
		Font:      loadFont(),
		Telemetry: make([]float64, 0, maxTelemetry),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
	}
	if interactive {
		return app, nil
	}
	if err := app.start(cfg); err != nil {
		return nil, err
	}
	return app, nil
}

func RunInteractive(registry *experiment.Registry) error {
	initWindow()
	defer rl.CloseWindow()
	app, err := NewApp(config.DefaultConfig(), registry, true)
	if err != nil {
		return err
	}
	app.RunLoop()
	return nil
}

// Run opens a window on cfg and blocks until it is closed.
func Run(cfg *config.Config, registry *experiment.Registry) error {
	initWindow()
	defer rl.CloseWindow()
	app, err := NewApp(cfg, registry, false)
	if err != nil {
		return err
	}
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !a.quit && !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

// start builds a simulation for cfg filling the current window.
func (a *App) start(cfg *config.Config) error {
	cfg = cfg.Clone()
	if cfg.Variant == "" {
		cfg.Variant = config.DefaultVariant
	}
	v, err := a.Registry.Variant(cfg.Variant)
	if err != nil {
		return err
	}
	cfg.Width, cfg.Height = float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
	s, err := a.Registry.Build(cfg)
	if err != nil {
		return err
	}
	if a.Initial == nil || a.Initial.Variant != cfg.Variant {
		a.Initial = cfg.Clone()
	}

	a.Sim, a.Current = s, cfg
	a.Fixed = make(map[string]bool)
	for _, name := range v.Fixed {
		a.Fixed[name] = true
	}
	a.ParamKeys = a.ParamKeys[:0]
	for _, name := range v.Tunable {
		if name != "gravity" {
			a.ParamKeys = append(a.ParamKeys, name)
		}
	}
	a.ParamSel = 0
	a.Telemetry = a.Telemetry[:0]
	a.input = sim.Tracker{}
	a.Running = true
	return nil
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return
	}

	if a.InMenu {
		a.updateMenu()
		return
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		a.Running = false
		return
	}

	if rl.IsWindowResized() {
		a.setStatus(a.Sim.SetBounds(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())), "")
	}

	mouse := rl.GetMousePosition()
	a.input.Apply(a.Sim, sim.Poll{
		Pos:      dynamo.Vec2{X: float64(mouse.X), Y: float64(mouse.Y)},
		Shift:    rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift),
		Pressed:  rl.IsMouseButtonPressed(rl.MouseLeftButton),
		Down:     rl.IsMouseButtonDown(rl.MouseLeftButton),
		Released: rl.IsMouseButtonReleased(rl.MouseLeftButton),
	})

	a.updateKeys()

	if a.Running {
		if err := a.Sim.Step(); err != nil {
			a.Running = false
			a.Status = err.Error()
			return
		}
		f := a.Sim.Snapshot()
		a.Telemetry = append(a.Telemetry, metrics.Kinetic(f)+metrics.Elastic(f))
		if len(a.Telemetry) > maxTelemetry {
			a.Telemetry = a.Telemetry[1:]
		}
	}
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected++
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected--
	}
	if a.Selected >= len(a.Variants) {
		a.Selected = 0
	}
	if a.Selected < 0 {
		a.Selected = len(a.Variants) - 1
	}

	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		name := a.Variants[a.Selected]
		cfg := config.GetPreset(name, "default")
		if cfg == nil {
			cfg = config.DefaultConfig()
			cfg.Variant = name
		}
		if err := a.start(cfg); err != nil {
			a.Status = err.Error()
			return
		}
		a.InMenu = false
	}
}

func (a *App) updateKeys() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}

	if len(a.ParamKeys) > 0 {
		if rl.IsKeyPressed(rl.KeyTab) {
			a.ParamSel = (a.ParamSel + 1) % len(a.ParamKeys)
		}
		if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyRight) {
			a.nudge(1)
		}
		if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyLeft) {
			a.nudge(-1)
		}
	}

	if rl.IsKeyPressed(rl.KeyG) {
		a.toggle("gravity")
	}
	if rl.IsKeyPressed(rl.KeyM) {
		a.toggle("mode")
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.setStatus(a.start(config.Randomize(a.Current, a.rng)), "randomized")
	}
	if rl.IsKeyPressed(rl.KeyX) {
		a.setStatus(a.start(a.Initial), "reset")
	}
	if rl.IsKeyPressed(rl.KeyS) {
		path := fmt.Sprintf("springsim-%d.svg", a.Sim.Tick())
		svg := export.SnapshotToSVG(a.Sim.Snapshot(), export.DefaultStyle())
		a.setStatus(os.WriteFile(path, []byte(svg), 0644), "saved "+path)
	}
}

func (a *App) nudge(steps int) {
	key := a.ParamKeys[a.ParamSel]
	v := config.Nudge(key, a.Sim.GetParams()[key], steps)
	if err := a.Sim.SetParam(key, v); err != nil {
		a.Status = err.Error()
		return
	}
	switch key {
	case "k":
		a.Current.Stiffness = v
	case "length":
		a.Current.Length = v
	case "mass":
		a.Current.Mass = v
	case "nodes":
		a.Current.Nodes = int(v)
	}
}

func (a *App) toggle(name string) {
	if a.Fixed[name] {
		a.Status = name + " is fixed for " + a.Current.Variant
		return
	}
	v := 1.0
	if a.Sim.GetParams()[name] != 0 {
		v = 0
	}
	a.setStatus(a.Sim.SetParam(name, v), "")
	if name == "gravity" {
		a.Current.Gravity = v != 0
	}
}

func (a *App) setStatus(err error, ok string) {
	if err != nil {
		a.Status = err.Error()
		return
	}
	if ok != "" {
		a.Status = ok
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else {
		a.drawNetwork()
		a.DrawHUD()
	}

	rl.EndDrawing()
}
