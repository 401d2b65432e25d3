package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/springsim/internal/analysis"
	"github.com/san-kum/springsim/internal/automation"
	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/export"
	"github.com/san-kum/springsim/internal/gui"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/optim"
	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/tui"
	"github.com/san-kum/springsim/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configFile string
	preset     string

	stiffness float64
	length    float64
	nodes     int
	mass      float64
	gravity   bool
	mode      string
	width     float64
	height    float64
	seed      int64
	frames    int
	frameRate int
	pinned    []int

	live        bool
	saveCfg     string
	jsonOut     string
	csvOut      string
	every       int
	snapshotOut string
	randomOut   string
	themeName   string

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	trials     int
	ranges     []string
	metricName string
)

var registry = experiment.NewRegistry()

// main wires the springsim CLI. With no subcommand it opens the window
// front-end on the variant menu.
func main() {
	rootCmd := &cobra.Command{
		Use:          "springsim",
		Short:        "interactive mass-spring networks",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return gui.RunInteractive(registry)
		},
	}

	guiCmd := &cobra.Command{
		Use:   "gui [variant]",
		Short: "open a network in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			return gui.Run(cfg, registry)
		},
	}
	addNetworkFlags(guiCmd)

	liveCmd := &cobra.Command{
		Use:   "live [variant]",
		Short: "open a network in the terminal, driven by the mouse",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			return viz.Run(cfg, registry, themeName)
		},
	}
	addNetworkFlags(liveCmd)
	liveCmd.Flags().StringVar(&themeName, "theme", viz.Themes[0].Name, "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "terminal menu of variants and presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(registry)
		},
	}

	runCmd := &cobra.Command{
		Use:   "run [variant]",
		Short: "run a network headless and print its metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addNetworkFlags(runCmd)
	runCmd.Flags().BoolVar(&live, "live", false, "draw frames as ASCII while running")
	runCmd.Flags().StringVar(&saveCfg, "save-config", "", "write the resolved config to this path")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "export the trajectory as JSON (- for stdout)")
	runCmd.Flags().StringVar(&csvOut, "csv", "", "export the trajectory as CSV (- for stdout)")
	runCmd.Flags().IntVar(&every, "every", 1, "record every n-th frame for export")

	plotCmd := &cobra.Command{
		Use:   "plot [variant]",
		Short: "plot energy and tail motion",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	addNetworkFlags(plotCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [variant]",
		Short: "frequency analysis of the tail node",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	addNetworkFlags(analyzeCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [variant]",
		Short: "sweep one parameter and compare oscillation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addNetworkFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "k", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 4, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 7, "number of values")

	montecarloCmd := &cobra.Command{
		Use:   "montecarlo [variant]",
		Short: "check randomized networks for stability",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addNetworkFlags(montecarloCmd)
	montecarloCmd.Flags().IntVar(&trials, "trials", 20, "number of randomized trials")

	tuneCmd := &cobra.Command{
		Use:   "tune [variant]",
		Short: "grid search parameters minimising a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	addNetworkFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&ranges, "range", []string{"k=1:4:4"}, "name=min:max:steps, repeatable")
	tuneCmd.Flags().StringVar(&metricName, "metric", "max_stretch", "metric to minimise")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "replay a scripted interaction",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [variant]",
		Short: "run some frames and write the network as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshotRun,
	}
	addNetworkFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "snapshot.svg", "output path")

	presetsCmd := &cobra.Command{
		Use:   "presets [variant]",
		Short: "list presets for a variant",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := registry.Names()
			if len(args) > 0 {
				if _, err := registry.Variant(args[0]); err != nil {
					return err
				}
				names = args
			}
			for _, v := range names {
				fmt.Printf("presets for %s:\n", v)
				for _, p := range config.ListPresets(v) {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	randomizeCmd := &cobra.Command{
		Use:   "randomize [variant]",
		Short: "print a randomized config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				cfg.Seed = time.Now().UnixNano()
			}
			out := config.Randomize(cfg, rand.New(rand.NewSource(cfg.Seed)))
			if randomOut != "" {
				return config.Save(randomOut, out)
			}
			data, err := yaml.Marshal(out)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
	addNetworkFlags(randomizeCmd)
	randomizeCmd.Flags().StringVarP(&randomOut, "out", "o", "", "write to this path instead of stdout")

	rootCmd.AddCommand(guiCmd, liveCmd, tuiCmd, runCmd, plotCmd, analyzeCmd, sweepCmd, montecarloCmd, tuneCmd, scenarioCmd, snapshotCmd, presetsCmd, randomizeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addNetworkFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "start from a named preset")
	f.Float64Var(&stiffness, "k", d.Stiffness, "spring stiffness")
	f.Float64Var(&length, "length", d.Length, "spring rest length")
	f.IntVarP(&nodes, "nodes", "n", d.Nodes, "number of nodes")
	f.Float64Var(&mass, "mass", d.Mass, "node mass")
	f.BoolVar(&gravity, "gravity", d.Gravity, "apply gravity")
	f.StringVar(&mode, "mode", d.Mode, "topology: chain or complete")
	f.Float64Var(&width, "width", d.Width, "world width")
	f.Float64Var(&height, "height", d.Height, "world height")
	f.Int64Var(&seed, "seed", d.Seed, "layout seed")
	f.IntVar(&frames, "frames", d.Frames, "frames to simulate")
	f.IntVar(&frameRate, "fps", d.FPS, "frame rate")
	f.IntSliceVar(&pinned, "pin", nil, "node indices pinned at start")
}

// loadConfig resolves preset < config file < explicit flags.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	variant := config.DefaultVariant
	if len(args) > 0 {
		variant = args[0]
	}
	if _, err := registry.Variant(variant); err != nil {
		return nil, err
	}

	cfg := config.GetPreset(variant, "default")
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if preset != "" {
		cfg = config.GetPreset(variant, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(variant))
		}
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	cfg.Variant = variant

	flags := cmd.Flags()
	if flags.Changed("k") {
		cfg.Stiffness = stiffness
	}
	if flags.Changed("length") {
		cfg.Length = length
	}
	if flags.Changed("nodes") {
		cfg.Nodes = nodes
	}
	if flags.Changed("mass") {
		cfg.Mass = mass
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("pin") {
		cfg.Pinned = append([]int{}, pinned...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if saveCfg != "" {
		if err := config.Save(saveCfg, cfg); err != nil {
			return err
		}
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(registry, registry.DefaultMetrics(cfg.Variant)); err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	var traj *export.Trajectory
	if jsonOut != "" || csvOut != "" {
		traj = export.NewTrajectory(every)
		exp.Runner().AddObserver(traj)
	}

	rc := sim.RunConfig{Frames: cfg.Frames}
	if live {
		r := tui.NewLiveRenderer(cfg.Variant, cfg.FPS)
		exp.Runner().AddObserver(r)
		r.Start()
		defer r.Stop()
		rc.FPS = cfg.FPS
	} else if jsonOut != "-" && csvOut != "-" {
		fmt.Printf("running %s network (%d nodes, %d frames)...\n", cfg.Variant, cfg.Nodes, cfg.Frames)
	}

	start := time.Now()
	result, err := exp.Runner().Run(ctx, rc)
	if err != nil {
		if errors.Is(err, dynamo.ErrInvalidState) {
			return fmt.Errorf("%w (try a lower stiffness)", err)
		}
		return err
	}

	s := exp.Runner().Simulation()
	if traj != nil {
		data := traj.Data(cfg.Variant, s.GetParams(), s.Pinned(), result.Frames, result.Metrics)
		if jsonOut != "" {
			if err := writeTo(jsonOut, func(w io.Writer) error { return export.WriteJSON(w, data) }); err != nil {
				return err
			}
		}
		if csvOut != "" {
			if err := writeTo(csvOut, traj.WriteCSV); err != nil {
				return err
			}
		}
		if jsonOut == "-" || csvOut == "-" {
			return nil
		}
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("frames: %d\n", result.Frames)
	fmt.Printf("pinned: %v\n", s.Pinned())
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return nil
}

// writeTo opens path, or uses stdout for "-", and hands it to write.
func writeTo(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

// energyTrace records total kinetic and elastic energy per frame.
type energyTrace struct {
	kinetic, elastic []float64
}

func (e *energyTrace) OnFrame(f dynamo.Frame) {
	e.kinetic = append(e.kinetic, metrics.Kinetic(f))
	e.elastic = append(e.elastic, metrics.Elastic(f))
}

// record runs cfg headless with a trace on the tail node's vertical motion.
func record(cfg *config.Config) (*analysis.Trace, *energyTrace, *sim.Result, error) {
	exp := experiment.New(cfg)
	if err := exp.Setup(registry, nil); err != nil {
		return nil, nil, nil, err
	}
	trace := analysis.NewTrace(exp.Runner().Simulation().Len()-1, analysis.AxisY)
	energy := &energyTrace{}
	exp.Runner().AddObserver(trace)
	exp.Runner().AddObserver(energy)

	ctx, cancel := interruptible()
	defer cancel()
	result, err := exp.Run(ctx)
	return trace, energy, result, err
}

func plotRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	trace, energy, _, err := record(cfg)
	if err != nil {
		return err
	}
	if trace.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("variant: %s\n", cfg.Variant)
	fmt.Printf("samples: %d\n\n", trace.Len())

	plots := []struct {
		data    []float64
		caption string
	}{
		{energy.kinetic, "kinetic energy"},
		{energy.elastic, "spring energy"},
		{trace.Position, fmt.Sprintf("node %d y", trace.Node)},
	}
	for _, p := range plots {
		graph := asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	fmt.Println("phase portrait (y vs vy):")
	fmt.Println(analysis.PortraitToASCII(analysis.PhasePortrait(trace), 60, 20))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	trace, _, _, err := record(cfg)
	if err != nil {
		return err
	}
	if trace.Len() < 4 {
		return fmt.Errorf("need at least 4 samples, have %d", trace.Len())
	}

	rate := float64(cfg.FPS)
	fmt.Printf("frequency analysis: %s, node %d vertical\n", cfg.Variant, trace.Node)
	fmt.Printf("samples: %d at %d fps\n\n", trace.Len(), cfg.FPS)

	spectrum := analysis.Spectrum(trace.Position)
	if hz, ok := analysis.DominantFrequency(trace.Position, rate); ok {
		fmt.Printf("dominant frequency: %.4f Hz\n", hz)
	} else {
		fmt.Println("dominant frequency: none (signal is flat)")
	}
	if p, ok := analysis.Period(trace.Position); ok {
		fmt.Printf("mean-crossing period: %.2f frames (%.3f s)\n", p, p/rate)
	}

	if len(spectrum) > 1 {
		show := spectrum[1:min(len(spectrum), 81)]
		fmt.Println()
		fmt.Println(asciigraph.Plot(show, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("magnitude spectrum")))
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := interruptible()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Frames:    cfg.Frames,
		FPS:       float64(cfg.FPS),
	}, registry)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFREQ(Hz)\tPERIOD(frames)\tMAX STRETCH\tKINETIC\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%.4f\t%.2f\t%.2f\t%.4f\n", r.ParamValue, r.Frequency, r.Period, r.MaxStretch, r.Kinetic)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := interruptible()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:      cfg,
		NumTrials: trials,
		Frames:    cfg.Frames,
		Seed:      cfg.Seed,
	}, registry)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tK\tLENGTH\tNODES\tMASS\tGRAVITY\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.2f\t%.1f\t%d\t%.1f\t%v\t%v\n",
			r.TrialID, r.Config.Stiffness, r.Config.Length, r.Config.Nodes, r.Config.Mass, r.Config.Gravity, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	return nil
}

// parseRange reads name=min:max:steps into evenly spaced values.
func parseRange(s string) (string, []float64, error) {
	name, spec, ok := strings.Cut(s, "=")
	if !ok {
		return "", nil, fmt.Errorf("range %q: want name=min:max:steps", s)
	}
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("range %q: want name=min:max:steps", s)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, err
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, err
	}
	steps, err := strconv.Atoi(parts[2])
	if err != nil || steps < 1 {
		return "", nil, fmt.Errorf("range %q: steps must be a positive integer", s)
	}
	if steps == 1 {
		return name, []float64{lo}, nil
	}
	values := make([]float64, steps)
	for i := range values {
		values[i] = lo + (hi-lo)*float64(i)/float64(steps-1)
	}
	return name, values, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	var names []string
	var values [][]float64
	for _, r := range ranges {
		name, vals, err := parseRange(r)
		if err != nil {
			return err
		}
		names = append(names, name)
		values = append(values, vals)
	}

	ctx, cancel := interruptible()
	defer cancel()

	gs := optim.NewGridSearch(names, values)
	best, val, failed, err := gs.Search(ctx, optim.ConfigBuilder(cfg, registry, metrics.All), metricName)
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no combination produced %s (%d failed)", metricName, failed)
	}

	fmt.Printf("best %s: %.6f\n", metricName, val)
	for _, name := range names {
		fmt.Printf("  %s = %.4f\n", name, best[name])
	}
	if failed > 0 {
		fmt.Printf("%d combinations failed\n", failed)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := interruptible()
	defer cancel()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("  %s\n", sc.Description)
	}
	result, err := automation.RunScenario(ctx, sc, registry, metrics.All())
	if err != nil {
		return err
	}

	fmt.Printf("frames: %d\n", result.Frames)
	fmt.Printf("pinned: %v\n", result.Pinned)
	fmt.Println("final positions:")
	for i, n := range result.Final.Nodes {
		fmt.Printf("  %d: %s\n", i, n.Pos)
	}
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return nil
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	_, _, result, err := record(cfg)
	if err != nil {
		return err
	}
	svg := export.SnapshotToSVG(result.Final, export.DefaultStyle())
	if err := os.WriteFile(snapshotOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (frame %d)\n", snapshotOut, result.Final.Tick)
	return nil
}
