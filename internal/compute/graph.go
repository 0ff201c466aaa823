package compute

import (
	"github.com/san-kum/gravsim/internal/nbody"
	"gonum.org/v1/gonum/spatial/r3"
)

type pair struct{ i, j int32 }

// Graph keeps a plan of every unordered body pair, built once per scene and
// replayed each tick. A pair's direction and distance are computed once and
// applied to both members with opposite signs, so the per-pair forces cancel
// exactly.
type Graph struct {
	n     int
	pairs []pair
}

func NewGraph() *Graph { return &Graph{} }

func (g *Graph) Name() string { return "graph" }

// Prepare rebuilds the pair plan for n bodies.
func (g *Graph) Prepare(n int) {
	g.n = n
	g.pairs = g.pairs[:0]
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			g.pairs = append(g.pairs, pair{int32(i), int32(j)})
		}
	}
}

// Pairs reports the size of the current plan.
func (g *Graph) Pairs() int { return len(g.pairs) }

func (g *Graph) Accelerate(law nbody.ForceLaw, pos []r3.Vec, mass []float64, acc []r3.Vec) error {
	if len(pos) != g.n {
		g.Prepare(len(pos))
	}
	clear(acc)
	for _, p := range g.pairs {
		dir, r := law.Direction(pos[p.i], pos[p.j])
		if r == 0 {
			continue
		}
		acc[p.i] = r3.Add(acc[p.i], r3.Scale(law.Magnitude(mass[p.j], r), dir))
		acc[p.j] = r3.Sub(acc[p.j], r3.Scale(law.Magnitude(mass[p.i], r), dir))
	}
	return nil
}
