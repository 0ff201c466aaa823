// Package automation runs scripted sequences of simulations and parameter
// sweeps.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Job  `yaml:"steps"`
}

// Job is a single headless run. Scene comes from Config when set, otherwise
// from Preset. Non-zero overrides replace the scene's engine values.
type Job struct {
	Name   string `yaml:"name"`
	Preset string `yaml:"preset"`
	Config string `yaml:"config"`

	Ticks    int  `yaml:"ticks"`
	Every    int  `yaml:"every"`
	NoFrames bool `yaml:"no_frames"`

	Solver        string  `yaml:"solver"`
	TimeScale     float64 `yaml:"time_scale"`
	DistanceScale float64 `yaml:"distance_scale"`
	// Bound adds a stability metric: the fraction of ticks every body stays
	// within Bound meters of the origin.
	Bound float64 `yaml:"bound"`
}

// JobResult is the outcome of one job. RunID is empty when nothing was
// stored.
type JobResult struct {
	Name   string
	RunID  string
	Solver string
	Result *experiment.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

func (j Job) load() (*config.Config, string, error) {
	name := j.Name
	if j.Config != "" {
		cfg, err := config.Load(j.Config)
		if err != nil {
			return nil, "", err
		}
		if name == "" {
			name = j.Config
		}
		return cfg, name, nil
	}
	cfg := config.GetPreset(j.Preset)
	if cfg == nil {
		return nil, "", fmt.Errorf("unknown preset: %s", j.Preset)
	}
	if name == "" {
		name = j.Preset
	}
	return cfg, name, nil
}

// Apply writes the job's overrides into cfg.
func (j Job) Apply(cfg *config.Config) {
	if j.Solver != "" {
		cfg.Engine.Solver = j.Solver
	}
	if j.TimeScale != 0 {
		cfg.Engine.TimeScale = j.TimeScale
	}
	if j.DistanceScale != 0 {
		cfg.Engine.DistanceScale = j.DistanceScale
	}
}

// RunJob builds the job's simulator from cfg, runs it with the standard
// metrics and saves the result when store is non-nil. A run cut short by
// cancellation or a step error is still saved and returned with the error.
func RunJob(ctx context.Context, job Job, cfg *config.Config, store *storage.Store, log *slog.Logger) (JobResult, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	name := job.Name
	if name == "" {
		name = job.Preset
	}
	job.Apply(cfg)

	sim, err := cfg.NewSimulator(nbody.WithLogger(log))
	if err != nil {
		return JobResult{Name: name}, err
	}
	runner := experiment.New(sim, log)
	for _, m := range metrics.Standard() {
		runner.AddMetric(m)
	}
	if job.Bound > 0 {
		runner.AddMetric(metrics.NewStability(job.Bound))
	}

	out := JobResult{Name: name, Solver: sim.Solver().Name()}
	result, runErr := runner.Run(ctx, experiment.Config{Ticks: job.Ticks, Every: job.Every, NoFrames: job.NoFrames})
	out.Result = result
	if result == nil {
		return out, runErr
	}

	if store != nil {
		id, err := store.Save(storage.RunInfo{
			Name:           name,
			Solver:         out.Solver,
			G:              cfg.Engine.G,
			Timestep:       cfg.Engine.Timestep,
			TimeScale:      cfg.Engine.TimeScale,
			DistanceScale:  cfg.Engine.DistanceScale,
			SignConvention: cfg.Engine.SignConvention,
			Every:          job.Every,
		}, result)
		if err != nil {
			return out, err
		}
		out.RunID = id
		log.Info("run saved", "name", name, "id", id, "ticks", result.StepsTaken)
	}
	return out, runErr
}

// RunScenario executes all steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, log *slog.Logger) ([]JobResult, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	results := make([]JobResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, name, err := step.load()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		step.Name = name
		log.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "name", name)

		res, err := RunJob(ctx, step, cfg, store, log)
		results = append(results, res)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
	}

	return results, nil
}
