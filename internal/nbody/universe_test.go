package nbody

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewUniverse_ParameterBounds(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero distance scale", WithDistanceScale(0)},
		{"negative distance scale", WithDistanceScale(-1)},
		{"negative time scale", WithTimeScale(-0.5)},
		{"nan time scale", WithTimeScale(math.NaN())},
		{"inf g", WithG(math.Inf(1))},
		{"negative min distance", WithMinDistance(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUniverse(twoBodyScene(), tt.opt)
			if !errors.Is(err, ErrParameterBounds) {
				t.Errorf("NewUniverse() error = %v, want ErrParameterBounds", err)
			}
		})
	}
}

func TestNewUniverse_Defaults(t *testing.T) {
	u, err := NewUniverse(twoBodyScene())
	if err != nil {
		t.Fatalf("NewUniverse() error = %v", err)
	}
	if u.Law().G != DefaultG {
		t.Errorf("G = %v, want %v", u.Law().G, DefaultG)
	}
	if u.DistanceScale() != DefaultDistanceScale {
		t.Errorf("DistanceScale = %v, want %v", u.DistanceScale(), DefaultDistanceScale)
	}
	if u.TimeScale() != DefaultTimeScale {
		t.Errorf("TimeScale = %v, want %v", u.TimeScale(), DefaultTimeScale)
	}
	if u.SignConvention() != Consistent {
		t.Errorf("SignConvention = %v, want consistent", u.SignConvention())
	}
}

func TestUniverseReset_InvalidKeepsState(t *testing.T) {
	u, err := NewUniverse(twoBodyScene())
	if err != nil {
		t.Fatal(err)
	}
	err = u.Reset(Scene{})
	if !errors.Is(err, ErrEmptyScene) {
		t.Fatalf("Reset(empty) = %v, want ErrEmptyScene", err)
	}
	if u.NumBodies() != 2 {
		t.Errorf("NumBodies = %d after failed reset, want 2", u.NumBodies())
	}
}

func TestUniverse_ParticleOffset(t *testing.T) {
	s := twoBodyScene()
	s.Particles = &ParticleSet{
		Positions:  []r3.Vec{{X: 5}},
		Velocities: []r3.Vec{{}},
		Radii:      []float64{0},
		Colors:     []Color{{}},
	}
	u, err := NewUniverse(s)
	if err != nil {
		t.Fatal(err)
	}
	got := u.View().ParticlePositions[0]
	want := r3.Vec{X: 5 + ParticleOffset, Y: ParticleOffset, Z: ParticleOffset}
	if got != want {
		t.Errorf("particle position = %v, want %v", got, want)
	}
	if s.Particles.Positions[0].X != 5 {
		t.Error("loading mutated the caller's scene")
	}
}

func TestUniverseSnapshot(t *testing.T) {
	s := twoBodyScene()
	s.Particles = particleCloud(3, 1e7)
	u, err := NewUniverse(s, WithDistanceScale(1e6))
	if err != nil {
		t.Fatal(err)
	}
	snap := u.Snapshot()
	if snap.Len() != 5 || snap.Bodies != 2 || snap.Particles != 3 {
		t.Fatalf("snapshot counts = %d (%d+%d), want 5 (2+3)", snap.Len(), snap.Bodies, snap.Particles)
	}
	if snap.Positions[0] != (r3.Vec{X: -100}) {
		t.Errorf("body 0 = %v, want (-100, 0, 0)", snap.Positions[0])
	}
	if snap.Radii[1] != 1 {
		t.Errorf("body 1 radius = %v, want 1", snap.Radii[1])
	}
	if snap.Colors[1] != s.Bodies.Colors[1] {
		t.Errorf("body 1 color = %v, want %v", snap.Colors[1], s.Bodies.Colors[1])
	}
	if snap.Colors[2] != s.Particles.Colors[0] {
		t.Errorf("first particle color = %v, want %v", snap.Colors[2], s.Particles.Colors[0])
	}
}

func TestUniverseSnapshot_DistanceScaleHalves(t *testing.T) {
	u, err := NewUniverse(twoBodyScene())
	if err != nil {
		t.Fatal(err)
	}
	before := u.Snapshot()
	if err := u.SetDistanceScale(2 * u.DistanceScale()); err != nil {
		t.Fatal(err)
	}
	after := u.Snapshot()
	for i := range before.Positions {
		want := r3.Scale(0.5, before.Positions[i])
		if !vecClose(after.Positions[i], want, 1e-12) {
			t.Errorf("position %d = %v, want %v", i, after.Positions[i], want)
		}
	}
}

func TestUniverseSnapshotInto_Reuses(t *testing.T) {
	u, err := NewUniverse(twoBodyScene())
	if err != nil {
		t.Fatal(err)
	}
	var snap Snapshot
	u.SnapshotInto(&snap)
	first := &snap.Positions[0]
	u.SnapshotInto(&snap)
	if first != &snap.Positions[0] {
		t.Error("SnapshotInto reallocated a correctly sized buffer")
	}
}

func TestUniverseSnapshotInto_PartialBuffers(t *testing.T) {
	u, err := NewUniverse(twoBodyScene())
	if err != nil {
		t.Fatal(err)
	}
	snap := Snapshot{Positions: make([]r3.Vec, u.NumBodies()+u.NumParticles())}
	u.SnapshotInto(&snap)
	if len(snap.Colors) != len(snap.Positions) || len(snap.Radii) != len(snap.Positions) {
		t.Errorf("buffers not sized: %d positions, %d colors, %d radii",
			len(snap.Positions), len(snap.Colors), len(snap.Radii))
	}
}

func TestSnapshotFloat32(t *testing.T) {
	snap := Snapshot{
		Positions: []r3.Vec{{X: 1, Y: 2, Z: 3}, {X: -1, Y: -2, Z: -3}},
		Colors:    []Color{{0.5, 0.25, 0, 1}, {1, 1, 1, 1}},
	}
	pos := snap.Float32()
	want := []float32{1, 2, 3, -1, -2, -3}
	for i := range want {
		if pos[i] != want[i] {
			t.Errorf("Float32()[%d] = %v, want %v", i, pos[i], want[i])
		}
	}
	col := snap.ColorsFloat32()
	if len(col) != 8 || col[1] != 0.25 || col[7] != 1 {
		t.Errorf("ColorsFloat32() = %v", col)
	}
}

func TestParseSignConvention(t *testing.T) {
	tests := []struct {
		in      string
		want    SignConvention
		wantErr bool
	}{
		{"", Consistent, false},
		{"consistent", Consistent, false},
		{"reference", Reference, false},
		{"backwards", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSignConvention(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSignConvention(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSignConvention(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
