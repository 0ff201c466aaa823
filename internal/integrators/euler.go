// Package integrators advances positions and velocities from accelerations.
package integrators

import "gonum.org/v1/gonum/spatial/r3"

// Direction is the sign applied to the position update.
type Direction float64

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Euler is the explicit kick-then-drift scheme:
//
//	v += a·dt
//	x += dir·v·dt
type Euler struct {
	Dir Direction
}

func NewEuler(dir Direction) *Euler {
	return &Euler{Dir: dir}
}

// Advance updates pos and vel in place. Entries with skip[i] set are left
// untouched; skip may be nil.
func (e *Euler) Advance(pos, vel, acc []r3.Vec, skip []bool, dt float64) {
	e.AdvanceRange(pos, vel, acc, skip, dt, 0, len(pos))
}

// AdvanceRange is Advance restricted to [lo, hi).
func (e *Euler) AdvanceRange(pos, vel, acc []r3.Vec, skip []bool, dt float64, lo, hi int) {
	drift := float64(e.Dir) * dt
	for i := lo; i < hi; i++ {
		if skip != nil && skip[i] {
			continue
		}
		vel[i] = r3.Add(vel[i], r3.Scale(dt, acc[i]))
		pos[i] = r3.Add(pos[i], r3.Scale(drift, vel[i]))
	}
}
