package nbody

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// Color is an RGBA display color. It never enters the physics.
type Color [4]float64

// BodySet holds the parallel arrays describing massive bodies.
type BodySet struct {
	Positions  []r3.Vec
	Velocities []r3.Vec
	Masses     []float64
	Radii      []float64
	Colors     []Color
}

// Len returns the number of bodies described by the position array.
func (b BodySet) Len() int { return len(b.Positions) }

// ParticleSet holds the parallel arrays describing massless tracers.
type ParticleSet struct {
	Positions  []r3.Vec
	Velocities []r3.Vec
	Radii      []float64
	Colors     []Color
}

// Len returns the number of particles described by the position array.
func (p *ParticleSet) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Positions)
}

// Scene is the builder configuration a Universe is loaded from.
// Particles is optional.
type Scene struct {
	Bodies    BodySet
	Particles *ParticleSet
}

// Validate checks array shapes and value ranges. It never truncates or pads.
func (s Scene) Validate() error {
	n := s.Bodies.Len()
	m := s.Particles.Len()
	if n == 0 && m == 0 {
		return ErrEmptyScene
	}

	b := s.Bodies
	for _, c := range []struct {
		field string
		rows  int
	}{
		{"velocities", len(b.Velocities)},
		{"masses", len(b.Masses)},
		{"radii", len(b.Radii)},
		{"colors", len(b.Colors)},
	} {
		if c.rows != n {
			return &ConfigError{Group: "bodies", Field: c.field, Index: -1, Wrapped: ErrShapeMismatch}
		}
	}
	for i := 0; i < n; i++ {
		switch {
		case !finiteVec(b.Positions[i]):
			return &ConfigError{Group: "bodies", Field: "positions", Index: i, Wrapped: ErrInvalidValue}
		case !finiteVec(b.Velocities[i]):
			return &ConfigError{Group: "bodies", Field: "velocities", Index: i, Wrapped: ErrInvalidValue}
		case !finite(b.Masses[i]) || b.Masses[i] <= 0:
			return &ConfigError{Group: "bodies", Field: "masses", Index: i, Wrapped: ErrInvalidValue}
		case !finite(b.Radii[i]) || b.Radii[i] < 0:
			return &ConfigError{Group: "bodies", Field: "radii", Index: i, Wrapped: ErrInvalidValue}
		}
	}

	p := s.Particles
	if p == nil {
		return nil
	}
	for _, c := range []struct {
		field string
		rows  int
	}{
		{"velocities", len(p.Velocities)},
		{"radii", len(p.Radii)},
		{"colors", len(p.Colors)},
	} {
		if c.rows != m {
			return &ConfigError{Group: "particles", Field: c.field, Index: -1, Wrapped: ErrShapeMismatch}
		}
	}
	for i := 0; i < m; i++ {
		switch {
		case !finiteVec(p.Positions[i]):
			return &ConfigError{Group: "particles", Field: "positions", Index: i, Wrapped: ErrInvalidValue}
		case !finiteVec(p.Velocities[i]):
			return &ConfigError{Group: "particles", Field: "velocities", Index: i, Wrapped: ErrInvalidValue}
		case !finite(p.Radii[i]) || p.Radii[i] < 0:
			return &ConfigError{Group: "particles", Field: "radii", Index: i, Wrapped: ErrInvalidValue}
		}
	}
	return nil
}

// Clone returns a deep copy of the scene.
func (s Scene) Clone() Scene {
	c := Scene{
		Bodies: BodySet{
			Positions:  slices.Clone(s.Bodies.Positions),
			Velocities: slices.Clone(s.Bodies.Velocities),
			Masses:     slices.Clone(s.Bodies.Masses),
			Radii:      slices.Clone(s.Bodies.Radii),
			Colors:     slices.Clone(s.Bodies.Colors),
		},
	}
	if s.Particles != nil {
		c.Particles = &ParticleSet{
			Positions:  slices.Clone(s.Particles.Positions),
			Velocities: slices.Clone(s.Particles.Velocities),
			Radii:      slices.Clone(s.Particles.Radii),
			Colors:     slices.Clone(s.Particles.Colors),
		}
	}
	return c
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteVec(v r3.Vec) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}
