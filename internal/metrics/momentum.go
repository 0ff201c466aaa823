package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/nbody"
	"gonum.org/v1/gonum/spatial/r3"
)

// BodyMomentum returns the total linear momentum of the bodies and the sum
// of the individual momentum magnitudes, a scale for relative comparisons.
func BodyMomentum(v nbody.View) (p r3.Vec, scale float64) {
	for i, vel := range v.BodyVelocities {
		p = r3.Add(p, r3.Scale(v.Masses[i], vel))
		scale += v.Masses[i] * r3.Norm(vel)
	}
	return p, scale
}

// MomentumDrift is the maximum deviation of total body momentum from its
// first observed value, relative to the first observed momentum scale.
// Total momentum is often zero, so the scale is used instead of |p0|.
type MomentumDrift struct {
	name     string
	initial  r3.Vec
	scale    float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(v nbody.View, t float64) {
	p, scale := BodyMomentum(v)
	if m.samples == 0 {
		m.initial, m.scale = p, scale
	}
	m.samples++

	d := r3.Norm(r3.Sub(p, m.initial))
	if m.scale > 0 {
		d /= m.scale
	}
	m.maxDrift = math.Max(m.maxDrift, d)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = r3.Vec{}
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
}
