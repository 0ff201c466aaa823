package automation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/metrics"
)

// SweepParams lists the engine fields a sweep can vary.
var SweepParams = []string{"g", "min_distance", "theta", "time_scale", "timestep"}

// ParameterSweep runs the base scene once per value of Param, evenly spaced
// over [Min, Max].
type ParameterSweep struct {
	Base  *config.Config
	Param string
	Min   float64
	Max   float64
	Steps int
	Ticks int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	Value         float64
	EnergyDrift   float64
	MomentumDrift float64
	Collided      int
	Wall          time.Duration
}

func setParam(e *config.EngineConfig, name string, v float64) error {
	switch name {
	case "g":
		e.G = v
	case "min_distance":
		e.MinDistance = v
	case "theta":
		e.Theta = v
	case "time_scale":
		e.TimeScale = v
	case "timestep":
		e.Timestep = v
	default:
		return fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return nil
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, log *slog.Logger) ([]SweepResult, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if sweep.Steps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.Steps)
	}
	if err := setParam(&config.EngineConfig{}, sweep.Param, 0); err != nil {
		return nil, err
	}

	paramStep := 0.0
	if sweep.Steps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.Steps-1)
	}
	results := make([]SweepResult, 0, sweep.Steps)

	for i := 0; i < sweep.Steps; i++ {
		v := sweep.Min + float64(i)*paramStep
		cfg, err := sweep.Base.Clone()
		if err != nil {
			return results, err
		}
		setParam(&cfg.Engine, sweep.Param, v)

		sim, err := cfg.NewSimulator()
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}
		runner := experiment.New(sim, log)
		energy, momentum := metrics.NewEnergyDrift(), metrics.NewMomentumDrift()
		runner.AddMetric(energy)
		runner.AddMetric(momentum)

		result, err := runner.Run(ctx, experiment.Config{Ticks: sweep.Ticks, NoFrames: true})
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}

		results = append(results, SweepResult{
			Value:         v,
			EnergyDrift:   energy.Value(),
			MomentumDrift: momentum.Value(),
			Collided:      sim.Collided(),
			Wall:          result.Wall,
		})
		log.Debug("sweep point", "param", sweep.Param, "value", v, "energy_drift", energy.Value())
	}

	return results, nil
}
