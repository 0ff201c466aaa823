package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/gravsim/internal/automation"
	"github.com/san-kum/gravsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool

	// scene selection
	configFile string
	preset     string

	// engine overrides
	solver        string
	timestep      float64
	timeScale     float64
	distanceScale float64
	theta         float64
	workers       int
	signs         string

	// run
	ticks    int
	every    int
	noFrames bool

	// live
	theme     string
	steps     int
	gifPath   string
	frameRate int
	addr      string

	// sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	// output
	outFile string
	width   int
	height  int
	body    int
	meta    bool
	canvas  bool
)

// main registers commands and flags, opens the preset picker when no
// subcommand is given, and exits with status 1 if a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "gravsim",
		Short:         "n-body gravity simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closeLog, err := tuiLogger()
			if err != nil {
				return err
			}
			defer closeLog()
			_, err = tea.NewProgram(viz.NewPicker(viz.LiveConfig{Theme: theme, Logger: log}), tea.WithAltScreen()).Run()
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	rootCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scene headless and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	sceneFlags(runCmd)
	runCmd.Flags().IntVar(&ticks, "ticks", 1000, "number of ticks")
	runCmd.Flags().IntVar(&every, "every", 10, "record one frame every n ticks")
	runCmd.Flags().BoolVar(&noFrames, "no-frames", false, "record metrics only")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a scene in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")
	liveCmd.Flags().IntVar(&steps, "steps", 1, "ticks per frame")
	liveCmd.Flags().StringVar(&gifPath, "gif", "simulation.gif", "GIF recording path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream frames over websocket",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	sceneFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	serveCmd.Flags().IntVar(&frameRate, "fps", 30, "broadcast rate")
	serveCmd.Flags().IntVar(&steps, "steps", 1, "ticks per frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body distances and collisions of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&body, "body", -1, "plot only this body")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().BoolVar(&meta, "meta", false, "metadata only")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  svgRun,
	}
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	svgCmd.Flags().IntVar(&width, "width", 800, "image width")
	svgCmd.Flags().IntVar(&height, "height", 800, "image height")
	svgCmd.Flags().BoolVar(&canvas, "canvas", false, "render the last frame as terminal dots")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare solver throughput on a scene",
		Args:  cobra.NoArgs,
		RunE:  benchSolvers,
	}
	sceneFlags(benchCmd)
	benchCmd.Flags().IntVar(&ticks, "ticks", 200, "ticks per solver")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or write one as a config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}
	presetsCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the preset to this file")

	solversCmd := &cobra.Command{
		Use:   "solvers",
		Short: "list body force strategies",
		Args:  cobra.NoArgs,
		RunE:  listSolvers,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep an engine parameter and compare drift",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "theta", "parameter ("+strings.Join(automation.SweepParams, ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&ticks, "ticks", 200, "ticks per value")

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, listCmd, plotCmd, exportCmd, svgCmd, benchCmd, presetsCmd, solversCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "earth-moon", "preset scene")
	cmd.Flags().StringVar(&solver, "solver", "", "body solver (dense, parallel, graph, barneshut, auto)")
	cmd.Flags().Float64Var(&timestep, "dt", 0, "nominal timestep in seconds")
	cmd.Flags().Float64Var(&timeScale, "time-scale", 0, "timestep multiplier")
	cmd.Flags().Float64Var(&distanceScale, "distance-scale", 0, "meters per display unit")
	cmd.Flags().Float64Var(&theta, "theta", 0, "barneshut opening angle")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&signs, "sign", "", "sign convention (consistent, reference)")
}

func setupLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
