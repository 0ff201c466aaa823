package compute

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/nbody"
)

// DefaultTheta is the Barnes-Hut opening angle used when Options leaves it
// unset.
const DefaultTheta = 0.5

// Options tunes strategy construction. Zero Workers and MinChunk select
// defaults.
type Options struct {
	// Workers bounds goroutines for the parallel strategies.
	Workers int
	// MinChunk is the smallest row block handed to a worker.
	MinChunk int
	// Theta is the Barnes-Hut opening angle. Zero gives the exact sum,
	// negative selects DefaultTheta.
	Theta float64
}

var strategies = map[string]func(Options) nbody.BodySolver{
	"dense":     func(Options) nbody.BodySolver { return nbody.NewDenseSolver() },
	"parallel":  func(o Options) nbody.BodySolver { return NewParallel(o.Workers, o.MinChunk) },
	"graph":     func(Options) nbody.BodySolver { return NewGraph() },
	"barneshut": func(o Options) nbody.BodySolver { return NewBarnesHut(o.Theta, o.Workers) },
}

// New returns the strategy registered under name.
func New(name string, opts Options) (nbody.BodySolver, error) {
	mk, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown solver: %s", name)
	}
	return mk(opts), nil
}

// Names lists the registered strategies in sorted order.
func Names() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AutoSelect picks an exact strategy for n bodies: the pair plan for small
// systems, row-parallel otherwise.
func AutoSelect(n int, opts Options) nbody.BodySolver {
	if n < parallelThreshold {
		return NewGraph()
	}
	return NewParallel(opts.Workers, opts.MinChunk)
}

const parallelThreshold = 64
