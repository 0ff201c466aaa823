// Package metrics observes simulator state and reduces it to scalar
// diagnostics.
package metrics

import "github.com/san-kum/gravsim/internal/nbody"

// Metric accumulates over observed ticks. Observe must not retain the view.
type Metric interface {
	Name() string
	Observe(v nbody.View, t float64)
	Value() float64
	Reset()
}

// Standard returns the metrics recorded for every run.
func Standard() []Metric {
	return []Metric{NewMomentumDrift(), NewEnergyDrift(), NewCollisions()}
}
