package nbody

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultG is the gravitational constant in N·m²/kg².
	DefaultG = 6.674e-11

	// DefaultMinDistance floors pair separations before division.
	DefaultMinDistance = 1.0
)

// ForceLaw is Newtonian gravitation evaluated through a spherical
// decomposition of the displacement: an azimuth on the primary (x, y) plane
// and an elevation above it.
type ForceLaw struct {
	G           float64
	MinDistance float64
}

// Direction returns the unit vector pointing from `from` to `to` and the
// straight-line distance between them. A coincident pair yields the zero
// vector and a distance of 0.
func (f ForceLaw) Direction(from, to r3.Vec) (r3.Vec, float64) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	dz := to.Z - from.Z

	base := math.Hypot(dx, dy)
	r := math.Hypot(base, dz)
	if r == 0 {
		return r3.Vec{}, 0
	}

	azSin, azCos := math.Sincos(math.Atan2(dy, dx))
	elSin, elCos := math.Sincos(math.Atan2(dz, base))

	return r3.Vec{X: elCos * azCos, Y: elCos * azSin, Z: elSin}, r
}

// Magnitude returns G·mass/r² with r floored at MinDistance.
func (f ForceLaw) Magnitude(mass, r float64) float64 {
	return f.magnitude(mass, r, f.MinDistance)
}

func (f ForceLaw) magnitude(mass, r, floor float64) float64 {
	if r < floor {
		r = floor
	}
	return f.G * mass / (r * r)
}

// Pull returns the acceleration a point at `from` experiences from a mass at
// `to`, along with their separation. Coincident points contribute nothing.
func (f ForceLaw) Pull(from, to r3.Vec, mass float64) (r3.Vec, float64) {
	return f.PullOutside(from, to, mass, 0)
}

// PullOutside is Pull with the separation additionally floored at radius, so
// a point inside a body feels that body's surface gravity.
func (f ForceLaw) PullOutside(from, to r3.Vec, mass, radius float64) (r3.Vec, float64) {
	dir, r := f.Direction(from, to)
	if r == 0 {
		return r3.Vec{}, 0
	}
	return r3.Scale(f.magnitude(mass, r, max(f.MinDistance, radius)), dir), r
}
