package nbody

import "gonum.org/v1/gonum/spatial/r3"

//go:generate go tool mockgen -destination=./mocks/solver_mock.go -package=mocks . BodySolver,Preparer

// BodySolver computes the net gravitational acceleration of every body
// from every other body. Implementations must overwrite acc[i] for every i
// and must not retain the slices beyond the call.
type BodySolver interface {
	Name() string
	Accelerate(law ForceLaw, positions []r3.Vec, masses []float64, acc []r3.Vec) error
}

// Preparer is implemented by solvers that keep a precomputed representation
// of the body set. Prepare is called whenever a scene is loaded.
type Preparer interface {
	Prepare(n int)
}

// DenseSolver is the serial all-pairs solver over ordered pairs.
type DenseSolver struct{}

func NewDenseSolver() *DenseSolver { return &DenseSolver{} }

func (d *DenseSolver) Name() string { return "dense" }

func (d *DenseSolver) Accelerate(law ForceLaw, pos []r3.Vec, mass []float64, acc []r3.Vec) error {
	AccelerateRows(law, pos, mass, acc, 0, len(pos))
	return nil
}

// AccelerateRows fills acc[lo:hi] with the net pull of all other bodies.
// Rows are independent, so disjoint ranges may run concurrently.
func AccelerateRows(law ForceLaw, pos []r3.Vec, mass []float64, acc []r3.Vec, lo, hi int) {
	n := len(pos)
	for i := lo; i < hi; i++ {
		var sum r3.Vec
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			a, _ := law.Pull(pos[i], pos[j], mass[j])
			sum = r3.Add(sum, a)
		}
		acc[i] = sum
	}
}
