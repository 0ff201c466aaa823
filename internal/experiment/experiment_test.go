package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/nbody"
	"gonum.org/v1/gonum/spatial/r3"
)

func testSim(t *testing.T) *nbody.Simulator {
	t.Helper()
	scene := nbody.Scene{
		Bodies: nbody.BodySet{
			Positions:  []r3.Vec{{X: -1e8}, {X: 1e8}},
			Velocities: []r3.Vec{{Y: -20}, {Y: 20}},
			Masses:     []float64{1e24, 1e24},
			Radii:      []float64{1e6, 1e6},
			Colors:     []nbody.Color{{1, 0, 0, 1}, {0, 0, 1, 1}},
		},
		Particles: &nbody.ParticleSet{
			Positions:  []r3.Vec{{X: -1e8}, {Y: 5e8}},
			Velocities: []r3.Vec{{}, {}},
			Radii:      []float64{1, 1},
			Colors:     []nbody.Color{{1, 1, 1, 1}, {1, 1, 1, 1}},
		},
	}
	u, err := nbody.NewUniverse(scene, nbody.WithTimeScale(100))
	if err != nil {
		t.Fatal(err)
	}
	return nbody.NewSimulator(u)
}

func TestRunnerRun(t *testing.T) {
	r := New(testSim(t), nil)
	for _, m := range metrics.Standard() {
		r.AddMetric(m)
	}

	result, err := r.Run(context.Background(), Config{Ticks: 100, Every: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 100 {
		t.Errorf("expected 100 steps, got %d", result.StepsTaken)
	}
	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if len(result.Times) != len(result.Frames) {
		t.Errorf("times and frames differ: %d vs %d", len(result.Times), len(result.Frames))
	}
	if result.Frames[0].Tick != 0 || result.Frames[10].Tick != 100 {
		t.Errorf("unexpected frame ticks %d..%d", result.Frames[0].Tick, result.Frames[10].Tick)
	}
	if result.Metrics["collisions"] != 1 {
		t.Errorf("expected 1 collision, got %v", result.Metrics["collisions"])
	}
	if result.Metrics["momentum_drift"] > 1e-9 {
		t.Errorf("momentum drift too large: %v", result.Metrics["momentum_drift"])
	}
	if result.Bodies != 2 || result.Particles != 2 {
		t.Errorf("expected 2 bodies and 2 particles, got %d and %d", result.Bodies, result.Particles)
	}
}

func TestRunnerObservers(t *testing.T) {
	r := New(testSim(t), nil)
	calls := 0
	r.AddObserver(ObserverFunc(func(snap nbody.Snapshot) {
		calls++
		if snap.Tick != calls {
			t.Errorf("observer saw tick %d on call %d", snap.Tick, calls)
		}
	}))

	result, err := r.Run(context.Background(), Config{Ticks: 5, NoFrames: true})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 5 {
		t.Errorf("expected 5 observer calls, got %d", calls)
	}
	if len(result.Frames) != 0 {
		t.Errorf("expected no frames, got %d", len(result.Frames))
	}
}

func TestRunnerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(testSim(t), nil)
	r.AddObserver(ObserverFunc(func(snap nbody.Snapshot) {
		if snap.Tick == 3 {
			cancel()
		}
	}))

	result, err := r.Run(ctx, Config{Ticks: 100})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 3 {
		t.Errorf("expected 3 steps before cancel, got %d", result.StepsTaken)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	r := New(testSim(t), nil)
	if _, err := r.Run(context.Background(), Config{}); err == nil {
		t.Error("expected error for zero ticks")
	}
}
