package nbody

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func twoBodyScene() Scene {
	return Scene{
		Bodies: BodySet{
			Positions:  []r3.Vec{{X: -1e8}, {X: 1e8}},
			Velocities: []r3.Vec{{Y: -10}, {Y: 10}},
			Masses:     []float64{1e24, 1e24},
			Radii:      []float64{1e6, 1e6},
			Colors:     []Color{{1, 0, 0, 1}, {0, 0, 1, 1}},
		},
	}
}

func particleCloud(n int, spread float64) *ParticleSet {
	p := &ParticleSet{
		Positions:  make([]r3.Vec, n),
		Velocities: make([]r3.Vec, n),
		Radii:      make([]float64, n),
		Colors:     make([]Color, n),
	}
	for i := range n {
		f := float64(i + 1)
		p.Positions[i] = r3.Vec{X: spread * f, Y: -spread * f / 2, Z: spread / f}
		p.Radii[i] = 1
		p.Colors[i] = Color{1, 1, 1, 1}
	}
	return p
}

func TestSceneValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scene)
		want   error
		group  string
		field  string
		index  int
	}{
		{"valid", func(*Scene) {}, nil, "", "", 0},
		{"empty", func(s *Scene) { *s = Scene{} }, ErrEmptyScene, "", "", 0},
		{"short masses", func(s *Scene) { s.Bodies.Masses = s.Bodies.Masses[:1] }, ErrShapeMismatch, "bodies", "masses", -1},
		{"long colors", func(s *Scene) { s.Bodies.Colors = append(s.Bodies.Colors, Color{}) }, ErrShapeMismatch, "bodies", "colors", -1},
		{"nan position", func(s *Scene) { s.Bodies.Positions[1].Z = math.NaN() }, ErrInvalidValue, "bodies", "positions", 1},
		{"inf velocity", func(s *Scene) { s.Bodies.Velocities[0].X = math.Inf(1) }, ErrInvalidValue, "bodies", "velocities", 0},
		{"zero mass", func(s *Scene) { s.Bodies.Masses[1] = 0 }, ErrInvalidValue, "bodies", "masses", 1},
		{"negative radius", func(s *Scene) { s.Bodies.Radii[0] = -1 }, ErrInvalidValue, "bodies", "radii", 0},
		{"particle radii mismatch", func(s *Scene) {
			s.Particles = particleCloud(3, 1e7)
			s.Particles.Radii = s.Particles.Radii[:2]
		}, ErrShapeMismatch, "particles", "radii", -1},
		{"particle nan", func(s *Scene) {
			s.Particles = particleCloud(3, 1e7)
			s.Particles.Velocities[2].Y = math.NaN()
		}, ErrInvalidValue, "particles", "velocities", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := twoBodyScene()
			tt.mutate(&s)
			err := s.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
			if tt.group == "" {
				return
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() = %T, want *ConfigError", err)
			}
			if ce.Group != tt.group || ce.Field != tt.field || ce.Index != tt.index {
				t.Errorf("location = %s.%s[%d], want %s.%s[%d]", ce.Group, ce.Field, ce.Index, tt.group, tt.field, tt.index)
			}
		})
	}
}

func TestSceneValidate_ParticlesOnly(t *testing.T) {
	s := Scene{Particles: particleCloud(4, 1e7)}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestSceneClone(t *testing.T) {
	s := twoBodyScene()
	s.Particles = particleCloud(2, 1e7)
	c := s.Clone()

	c.Bodies.Positions[0].X = 42
	c.Particles.Radii[1] = 42
	if s.Bodies.Positions[0].X == 42 || s.Particles.Radii[1] == 42 {
		t.Error("Clone shares arrays with the original")
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Group: "bodies", Field: "masses", Index: 3, Wrapped: ErrInvalidValue}
	want := "bodies.masses[3]: nbody: invalid scene value"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
