package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/automation"
	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/stream"
	"github.com/san-kum/gravsim/internal/viz"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// loadConfig reads --config or --preset and applies the engine flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		name string
		err  error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, "", err
		}
		name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (have %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
		name = preset
	}

	f := cmd.Flags()
	if f.Changed("solver") {
		cfg.Engine.Solver = solver
	}
	if f.Changed("dt") {
		cfg.Engine.Timestep = timestep
	}
	if f.Changed("time-scale") {
		cfg.Engine.TimeScale = timeScale
	}
	if f.Changed("distance-scale") {
		cfg.Engine.DistanceScale = distanceScale
	}
	if f.Changed("theta") {
		cfg.Engine.Theta = theta
	}
	if f.Changed("workers") {
		cfg.Engine.Workers = workers
	}
	if f.Changed("sign") {
		cfg.Engine.SignConvention = signs
	}
	return cfg, name, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s for %d ticks...\n", name, ticks)
	job := automation.Job{Name: name, Ticks: ticks, Every: every, NoFrames: noFrames}
	res, runErr := automation.RunJob(ctx, job, cfg, st, slog.Default())
	if res.Result == nil {
		return runErr
	}
	printResult(res)

	if runErr != nil {
		fmt.Printf("\nstopped after %d ticks\n", res.Result.StepsTaken)
	}
	return runErr
}

func printResult(res automation.JobResult) {
	result := res.Result
	fmt.Printf("completed in %v\n", result.Wall.Round(time.Millisecond))
	if res.RunID != "" {
		fmt.Printf("run id: %s\n", res.RunID)
	}
	fmt.Printf("ticks: %d  simulated: %s  frames: %d\n", result.StepsTaken, viz.FormatSimTime(result.Elapsed), len(result.Frames))
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for k := range result.Metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Printf("  %s: %.6g\n", k, result.Metrics[k])
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	results, runErr := automation.RunScenario(ctx, sc, st, slog.Default())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tNAME\tID\tSOLVER\tTICKS\tENERGY DRIFT")
	for i, r := range results {
		if r.Result == nil {
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%.3g\n",
			i+1, r.Name, r.RunID, r.Solver, r.Result.StepsTaken, r.Result.Metrics["energy_drift"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:  cfg,
		Param: sweepParam,
		Min:   sweepMin,
		Max:   sweepMax,
		Steps: sweepSteps,
		Ticks: ticks,
	}, slog.Default())
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s over %s\n\n", sweepParam, name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tENERGY DRIFT\tMOMENTUM DRIFT\tCOLLIDED\tTIME\n", strings.ToUpper(sweepParam))
	drift := make([]float64, len(results))
	for i, r := range results {
		drift[i] = r.EnergyDrift
		fmt.Fprintf(w, "%g\t%.3g\t%.3g\t%d\t%v\n", r.Value, r.EnergyDrift, r.MomentumDrift, r.Collided, r.Wall.Round(time.Microsecond))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(drift) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(drift, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("energy drift")))
	}
	return nil
}

// tuiLogger keeps log output off the terminal the TUI owns. With --verbose
// it writes to gravsim.log.
func tuiLogger() (*slog.Logger, func(), error) {
	if !verbose {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile("gravsim.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	l := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return l, func() { f.Close() }, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	sim, err := cfg.NewSimulator(nbody.WithLogger(log))
	if err != nil {
		return err
	}
	model := viz.NewModel(sim, viz.LiveConfig{
		Name:          name,
		Theme:         theme,
		StepsPerFrame: steps,
		GIFPath:       gifPath,
		Logger:        log,
	})
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sim, err := cfg.NewSimulator(nbody.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := stream.NewServer(sim,
		stream.WithRate(frameRate),
		stream.WithStepsPerFrame(steps),
		stream.WithLogger(slog.Default()),
	)
	httpSrv := &http.Server{Addr: addr, Handler: srv.Handler()}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return srv.Run(ctx)
	})
	eg.Go(func() error {
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	fmt.Printf("streaming %s on ws://%s/ws\n", name, addr)
	return eg.Wait()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tTICKS\tSIMULATED\tSOLVER\tBODIES\tPARTICLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			viz.FormatSimTime(run.Elapsed),
			run.Solver,
			run.Bodies,
			run.Particles,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", len(frames))

	first, last := 0, min(meta.Bodies, 6)
	if body >= 0 {
		if body >= meta.Bodies {
			return fmt.Errorf("body %d out of range, run has %d", body, meta.Bodies)
		}
		first, last = body, body+1
	}

	for i := first; i < last; i++ {
		data := make([]float64, len(frames))
		for k, f := range frames {
			data[k] = r3.Norm(f.Positions[i])
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d distance from origin (×%g m)", i, meta.DistanceScale)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	periods := analysis.OrbitPeriods(frames)
	for i := first; i < last && i < len(periods); i++ {
		if !math.IsNaN(periods[i]) {
			fmt.Printf("body %d distance period: %s\n", i, viz.FormatSimTime(periods[i]))
		}
	}
	fmt.Println()

	if meta.Particles > 0 {
		data := make([]float64, len(frames))
		for k, f := range frames {
			for j := f.Bodies; j < f.Len(); j++ {
				if f.Colors[j][3] == 0 {
					data[k]++
				}
			}
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(6),
			asciigraph.Width(80),
			asciigraph.Caption("collided particles"),
		))
	}
	return nil
}

// output returns the --out file or stdout.
func output(fallback string) (io.Writer, func() error, error) {
	path := outFile
	if path == "" {
		path = fallback
	}
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	w, closeOut, err := output("")
	if err != nil {
		return err
	}

	if meta {
		m, err := st.Load(runID)
		if err != nil {
			closeOut()
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			closeOut()
			return err
		}
		return closeOut()
	}

	if err := st.Export(runID, w); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func svgRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", runID)
	}

	var svg string
	if canvas {
		const dot = 4
		c := viz.NewCanvas(max(width/(2*dot), 1), max(height/(4*dot), 1))
		last := frames[len(frames)-1]
		cam := viz.NewCamera()
		cam.Fit(last)
		viz.RenderSnapshot(c, last, cam)
		svg = export.CanvasToSVG(c, dot, "#00ff88")
	} else {
		svg = export.TrajectoryToSVG(frames, width, height)
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func benchSolvers(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s: %d bodies, %d particles\n\n", name, len(cfg.Scene.Bodies), len(cfg.Scene.Particles))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOLVER\tTICKS\tTIME\tTICKS/SEC\tENERGY DRIFT")

	for _, s := range compute.Names() {
		c, err := cfg.Clone()
		if err != nil {
			return err
		}
		c.Engine.Solver = s
		sim, err := c.NewSimulator()
		if err != nil {
			return err
		}

		drift := metrics.NewEnergyDrift()
		sim.View(func(v nbody.View) { drift.Observe(v, 0) })

		var snap nbody.Snapshot
		start := time.Now()
		for i := 0; i < ticks; i++ {
			if err := sim.StepInto(&snap); err != nil {
				return fmt.Errorf("%s: %w", s, err)
			}
		}
		elapsed := time.Since(start)
		sim.View(func(v nbody.View) { drift.Observe(v, sim.Elapsed()) })

		fmt.Fprintf(w, "%s\t%d\t%v\t%.0f\t%.3g\n",
			s, ticks, elapsed.Round(time.Microsecond), float64(ticks)/elapsed.Seconds(), drift.Value())
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		cfg := config.GetPreset(args[0])
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s", args[0])
		}
		if outFile != "" {
			if err := config.Save(outFile, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", outFile)
			return nil
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tPARTICLES\tSOLVER\tTIME SCALE")
	for _, p := range config.ListPresets() {
		cfg := config.GetPreset(p)
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%g\n", p, len(cfg.Scene.Bodies), len(cfg.Scene.Particles), cfg.Engine.Solver, cfg.Engine.TimeScale)
	}
	return w.Flush()
}

var solverInfo = map[string]string{
	"dense":     "exact, single goroutine, O(n²)",
	"parallel":  "exact, rows split across workers",
	"graph":     "exact, each pair evaluated once",
	"barneshut": "octree approximation, O(n log n)",
}

func listSolvers(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	for _, s := range compute.Names() {
		fmt.Fprintf(w, "%s\t%s\n", s, solverInfo[s])
	}
	fmt.Fprintf(w, "%s\t%s\n", config.AutoSolver, "graph below 64 bodies, parallel above")
	return w.Flush()
}
