package compute

import (
	"math"

	"github.com/san-kum/gravsim/internal/nbody"
	"gonum.org/v1/gonum/spatial/r3"
)

// maxDepth bounds octree subdivision. Bodies that still share a cell at this
// depth (coincident or nearly so) are kept together in one leaf.
const maxDepth = 48

// cell is one octree node. Children index into BarnesHut.cells; zero means
// no child, which is safe because the root is never a child.
type cell struct {
	center   r3.Vec
	half     float64
	mass     float64
	com      r3.Vec // mass-weighted position sum until finish
	children [8]int32
	leaf     bool
	bodies   []int32
}

func (c *cell) contains(p r3.Vec) bool {
	d := r3.Sub(p, c.center)
	return math.Abs(d.X) <= c.half && math.Abs(d.Y) <= c.half && math.Abs(d.Z) <= c.half
}

// BarnesHut approximates body accelerations with an octree. A cell whose
// width seen from the body is below Theta radians, and which does not
// contain the body, acts as a point mass at its center of mass. Theta 0
// opens every cell and reproduces the dense result.
type BarnesHut struct {
	Theta   float64
	workers int

	cells []cell
}

func NewBarnesHut(theta float64, workers int) *BarnesHut {
	if theta < 0 {
		theta = DefaultTheta
	}
	return &BarnesHut{Theta: theta, workers: workers}
}

func (b *BarnesHut) Name() string { return "barneshut" }

// Prepare drops any previous tree and reserves room for n bodies.
func (b *BarnesHut) Prepare(n int) {
	b.cells = make([]cell, 0, 2*n+1)
}

func (b *BarnesHut) Accelerate(law nbody.ForceLaw, pos []r3.Vec, mass []float64, acc []r3.Vec) error {
	if len(pos) == 0 {
		return nil
	}
	b.build(pos, mass)

	nbody.ForBlocks(len(pos), DefaultRowChunk, b.workers, func(lo, hi int) {
		stack := make([]int32, 0, 64)
		for i := lo; i < hi; i++ {
			acc[i], stack = b.forceOn(law, int32(i), pos, mass, stack)
		}
	})
	return nil
}

// build rebuilds the tree over the current positions.
func (b *BarnesHut) build(pos []r3.Vec, mass []float64) {
	lo, hi := pos[0], pos[0]
	for _, p := range pos[1:] {
		lo = r3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	ext := r3.Sub(hi, lo)
	half := 0.5 * math.Max(ext.X, math.Max(ext.Y, ext.Z)) * (1 + 1e-9)
	if half == 0 || math.IsNaN(half) {
		half = 1
	}

	b.cells = append(b.cells[:0], cell{
		center: r3.Scale(0.5, r3.Add(lo, hi)),
		half:   half,
		leaf:   true,
	})
	for i := range pos {
		b.insert(0, int32(i), 0, pos, mass)
	}
	for i := range b.cells {
		c := &b.cells[i]
		if c.mass > 0 {
			c.com = r3.Scale(1/c.mass, c.com)
		} else {
			c.com = c.center
		}
	}
}

// insert adds body i to cell ci and every cell below it on its path.
func (b *BarnesHut) insert(ci, i int32, depth int, pos []r3.Vec, mass []float64) {
	for {
		c := &b.cells[ci]
		c.mass += mass[i]
		c.com = r3.Add(c.com, r3.Scale(mass[i], pos[i]))

		if c.leaf {
			if len(c.bodies) == 0 || depth >= maxDepth {
				c.bodies = append(c.bodies, i)
				return
			}
			prev := c.bodies[0]
			c.bodies = c.bodies[:0]
			c.leaf = false
			b.insert(b.child(ci, pos[prev]), prev, depth+1, pos, mass)
		}
		ci = b.child(ci, pos[i])
		depth++
	}
}

// child returns the octant of cell ci holding p, creating it when needed.
func (b *BarnesHut) child(ci int32, p r3.Vec) int32 {
	c := b.cells[ci]
	var oct int
	off := 0.5 * c.half
	center := c.center
	if p.X >= c.center.X {
		oct |= 1
		center.X += off
	} else {
		center.X -= off
	}
	if p.Y >= c.center.Y {
		oct |= 2
		center.Y += off
	} else {
		center.Y -= off
	}
	if p.Z >= c.center.Z {
		oct |= 4
		center.Z += off
	} else {
		center.Z -= off
	}

	if k := c.children[oct]; k != 0 {
		return k
	}
	k := int32(len(b.cells))
	b.cells = append(b.cells, cell{center: center, half: off, leaf: true})
	b.cells[ci].children[oct] = k
	return k
}

// forceOn walks the tree for body i. The stack is returned for reuse.
func (b *BarnesHut) forceOn(law nbody.ForceLaw, i int32, pos []r3.Vec, mass []float64, stack []int32) (r3.Vec, []int32) {
	var sum r3.Vec
	p := pos[i]
	stack = append(stack[:0], 0)
	for len(stack) > 0 {
		ci := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c := &b.cells[ci]

		if c.leaf {
			for _, j := range c.bodies {
				if j == i {
					continue
				}
				a, _ := law.Pull(p, pos[j], mass[j])
				sum = r3.Add(sum, a)
			}
			continue
		}

		if b.Theta > 0 && !c.contains(p) {
			if d := r3.Norm(r3.Sub(c.com, p)); d > 0 && 2*c.half/d < b.Theta {
				a, _ := law.Pull(p, c.com, c.mass)
				sum = r3.Add(sum, a)
				continue
			}
		}
		for _, k := range c.children {
			if k != 0 {
				stack = append(stack, k)
			}
		}
	}
	return sum, stack
}
