package compute

import (
	"testing"

	"github.com/san-kum/gravsim/internal/nbody"
	"gonum.org/v1/gonum/spatial/r3"
)

func benchmarkSolver(b *testing.B, s nbody.BodySolver, n int) {
	pos, mass := cluster(n, 1)
	if p, ok := s.(nbody.Preparer); ok {
		p.Prepare(n)
	}
	acc := make([]r3.Vec, n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Accelerate(testLaw, pos, mass, acc)
	}
}

func BenchmarkDense_256(b *testing.B)     { benchmarkSolver(b, nbody.NewDenseSolver(), 256) }
func BenchmarkParallel_256(b *testing.B)  { benchmarkSolver(b, NewParallel(0, 0), 256) }
func BenchmarkGraph_256(b *testing.B)     { benchmarkSolver(b, NewGraph(), 256) }
func BenchmarkBarnesHut_256(b *testing.B) { benchmarkSolver(b, NewBarnesHut(DefaultTheta, 0), 256) }

func BenchmarkParallel_2048(b *testing.B)  { benchmarkSolver(b, NewParallel(0, 0), 2048) }
func BenchmarkBarnesHut_2048(b *testing.B) { benchmarkSolver(b, NewBarnesHut(DefaultTheta, 0), 2048) }
