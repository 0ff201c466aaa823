package compute

import (
	"github.com/san-kum/gravsim/internal/nbody"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultRowChunk is the smallest block of body rows worth a goroutine. Each
// row costs O(N), so blocks are much smaller than particle blocks.
const DefaultRowChunk = 16

// Parallel is the dense ordered-pair sum with rows split across goroutines.
// Rows are written by exactly one worker, so no reduction is needed.
type Parallel struct {
	workers  int
	minChunk int
}

func NewParallel(workers, minChunk int) *Parallel {
	if minChunk <= 0 {
		minChunk = DefaultRowChunk
	}
	return &Parallel{workers: workers, minChunk: minChunk}
}

func (p *Parallel) Name() string { return "parallel" }

func (p *Parallel) Accelerate(law nbody.ForceLaw, pos []r3.Vec, mass []float64, acc []r3.Vec) error {
	nbody.ForBlocks(len(pos), p.minChunk, p.workers, func(lo, hi int) {
		nbody.AccelerateRows(law, pos, mass, acc, lo, hi)
	})
	return nil
}
