package nbody

import (
	"github.com/san-kum/gravsim/internal/integrators"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultParticleChunk is the smallest particle block handed to a worker.
const DefaultParticleChunk = 2048

// ParticleSolver applies one-way gravity from bodies to particles. Particles
// exert no force on bodies or on each other, so a tick costs O(N·M).
type ParticleSolver struct {
	// Workers bounds the goroutines used for large particle sets.
	// Zero selects runtime.NumCPU(); one forces serial execution.
	Workers int
	// MinChunk is the smallest block size worth a goroutine.
	MinChunk int
}

func NewParticleSolver() *ParticleSolver {
	return &ParticleSolver{MinChunk: DefaultParticleChunk}
}

// Advance computes accelerations for every live particle and integrates
// them. Particle positions always drift along their velocity. Collided
// particles are skipped and stay at the zero value. Inside a body the
// separation is floored at the body radius.
func (ps *ParticleSolver) Advance(u *Universe, dt float64) {
	p := &u.particles
	if len(p.pos) == 0 {
		return
	}
	law := u.law
	bpos, bmass, brad := u.bodies.pos, u.bodies.mass, u.bodies.radius
	euler := integrators.NewEuler(integrators.Forward)

	ForBlocks(len(p.pos), ps.MinChunk, ps.Workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if p.collided[i] {
				continue
			}
			var sum r3.Vec
			for j := range bpos {
				a, _ := law.PullOutside(p.pos[i], bpos[j], bmass[j], brad[j])
				sum = r3.Add(sum, a)
			}
			p.acc[i] = sum
		}
		euler.AdvanceRange(p.pos, p.vel, p.acc, p.collided, dt, lo, hi)
	})
}
