package nbody

import "gonum.org/v1/gonum/spatial/r3"

// Snapshot is the renderer-facing output of one tick. Positions and Radii are
// in display units (physical value divided by the distance scale). Entries
// [0, Bodies) are bodies, [Bodies, Bodies+Particles) are particles.
type Snapshot struct {
	Positions []r3.Vec
	Colors    []Color
	Radii     []float64

	Bodies    int
	Particles int

	Tick    int
	Elapsed float64
}

func (s Snapshot) Len() int { return len(s.Positions) }

// Float32 returns positions as an interleaved xyz float32 buffer, the layout
// GPU and websocket consumers expect.
func (s Snapshot) Float32() []float32 {
	out := make([]float32, 3*len(s.Positions))
	for i, p := range s.Positions {
		out[3*i] = float32(p.X)
		out[3*i+1] = float32(p.Y)
		out[3*i+2] = float32(p.Z)
	}
	return out
}

// ColorsFloat32 returns colors as an interleaved rgba float32 buffer.
func (s Snapshot) ColorsFloat32() []float32 {
	out := make([]float32, 4*len(s.Colors))
	for i, c := range s.Colors {
		for k := 0; k < 4; k++ {
			out[4*i+k] = float32(c[k])
		}
	}
	return out
}
