package nbody

import "gonum.org/v1/gonum/spatial/r3"

// CollisionFilter culls particles that have penetrated a body.
type CollisionFilter struct{}

// Apply zeroes every live particle whose distance to a body center is at
// most that body's radius, using post-integration positions. Arrays keep
// their length. It returns the number of particles culled by this call.
func (CollisionFilter) Apply(u *Universe) int {
	p := &u.particles
	b := &u.bodies
	culled := 0
	for i := range p.pos {
		if p.collided[i] {
			continue
		}
		for j := range b.pos {
			if r3.Norm(r3.Sub(p.pos[i], b.pos[j]))-b.radius[j] <= 0 {
				p.collided[i] = true
				culled++
				break
			}
		}
	}
	if culled > 0 {
		zeroCollided(p)
	}
	return culled
}

func zeroCollided(p *particleState) {
	for i, c := range p.collided {
		if !c {
			continue
		}
		p.pos[i] = r3.Vec{}
		p.vel[i] = r3.Vec{}
		p.acc[i] = r3.Vec{}
		p.radius[i] = 0
		p.color[i] = Color{}
	}
}
