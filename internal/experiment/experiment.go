// Package experiment runs a simulator for a fixed number of ticks, feeding
// metrics and observers and recording frames.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/nbody"
)

type Config struct {
	// Ticks is the number of steps to run.
	Ticks int
	// Every records one frame per Every ticks. Zero records every tick.
	Every int
	// NoFrames skips frame recording; metrics and observers still run.
	NoFrames bool
}

// Observer is notified after every tick with the fresh snapshot.
type Observer interface {
	OnStep(snap nbody.Snapshot)
}

type ObserverFunc func(snap nbody.Snapshot)

func (f ObserverFunc) OnStep(snap nbody.Snapshot) { f(snap) }

type Result struct {
	Frames     []nbody.Snapshot
	Times      []float64
	StepsTaken int
	Elapsed    float64
	Wall       time.Duration
	Metrics    map[string]float64
	Bodies     int
	Particles  int
}

type Runner struct {
	sim       *nbody.Simulator
	metrics   []metrics.Metric
	observers []Observer
	log       *slog.Logger
}

func New(sim *nbody.Simulator, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{sim: sim, log: log}
}

func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)     { r.observers = append(r.observers, o) }

// Simulator returns the driven simulator.
func (r *Runner) Simulator() *nbody.Simulator { return r.sim }

// Run resets metrics, records the current state as frame zero, then steps.
// On cancellation or a step error the partial result is returned with the
// error.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Ticks <= 0 {
		return nil, fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	every := cfg.Every
	if every <= 0 {
		every = 1
	}

	frames := 0
	if !cfg.NoFrames {
		frames = cfg.Ticks/every + 1
	}
	result := &Result{
		Frames:  make([]nbody.Snapshot, 0, frames),
		Times:   make([]float64, 0, frames),
		Metrics: make(map[string]float64),
	}
	result.Bodies, result.Particles = r.sim.Counts()

	for _, m := range r.metrics {
		m.Reset()
	}
	r.observe()

	if !cfg.NoFrames {
		first := r.sim.Snapshot()
		result.Frames = append(result.Frames, first)
		result.Times = append(result.Times, first.Elapsed)
	}

	start := time.Now()
	defer func() {
		result.Wall = time.Since(start)
		for _, m := range r.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
	}()

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		snap, err := r.sim.Step()
		if err != nil {
			r.log.Warn("run stopped", "tick", i, "err", err)
			return result, err
		}
		result.StepsTaken++
		result.Elapsed = snap.Elapsed

		r.observe()
		for _, o := range r.observers {
			o.OnStep(snap)
		}

		if !cfg.NoFrames && snap.Tick%every == 0 {
			result.Frames = append(result.Frames, snap)
			result.Times = append(result.Times, snap.Elapsed)
		}
	}

	r.log.Debug("run finished", "ticks", result.StepsTaken, "elapsed", result.Elapsed)
	return result, nil
}

func (r *Runner) observe() {
	if len(r.metrics) == 0 {
		return
	}
	t := r.sim.Elapsed()
	r.sim.View(func(v nbody.View) {
		for _, m := range r.metrics {
			m.Observe(v, t)
		}
	})
}
