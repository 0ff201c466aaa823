package metrics

import "github.com/san-kum/gravsim/internal/nbody"

// Collisions reports how many particles had collided at the last
// observation.
type Collisions struct {
	name  string
	count int
}

func NewCollisions() *Collisions {
	return &Collisions{name: "collisions"}
}

func (c *Collisions) Name() string { return c.name }

func (c *Collisions) Observe(v nbody.View, t float64) {
	n := 0
	for _, hit := range v.Collided {
		if hit {
			n++
		}
	}
	c.count = n
}

func (c *Collisions) Value() float64 { return float64(c.count) }

func (c *Collisions) Reset() { c.count = 0 }
