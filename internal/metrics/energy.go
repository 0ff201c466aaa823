package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/nbody"
	"gonum.org/v1/gonum/spatial/r3"
)

// BodyEnergy returns the kinetic plus pairwise potential energy of the
// bodies. Coincident pairs are skipped. Particles are massless and carry
// none.
func BodyEnergy(v nbody.View) float64 {
	var ke, pe float64
	for i, vel := range v.BodyVelocities {
		ke += 0.5 * v.Masses[i] * r3.Dot(vel, vel)
	}
	for i := range v.BodyPositions {
		for j := i + 1; j < len(v.BodyPositions); j++ {
			r := r3.Norm(r3.Sub(v.BodyPositions[j], v.BodyPositions[i]))
			if r == 0 {
				continue
			}
			pe -= v.G * v.Masses[i] * v.Masses[j] / r
		}
	}
	return ke + pe
}

// EnergyDrift is the maximum relative deviation of total body energy from
// its first observed value.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(v nbody.View, t float64) {
	energy := BodyEnergy(v)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Current is the most recently observed energy.
func (e *EnergyDrift) Current() float64 {
	return e.currentEnergy
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
