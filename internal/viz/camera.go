package viz

import (
	"math"

	"github.com/san-kum/gravsim/internal/nbody"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	minZoom = 1e-6
	maxZoom = 1e6
)

// Camera projects display-unit positions onto the canvas.
type Camera struct {
	Distance   float64
	RotX, RotY float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 50, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(maxZoom, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(minZoom, c.Zoom/1.2) }

// RotatePoint rotates p about the x axis, then the y axis.
func (c *Camera) RotatePoint(p r3.Vec) r3.Vec {
	sx, cx := math.Sincos(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	sy, cy := math.Sincos(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	return p
}

// pixelScale is the number of dots per zoomed display unit at depth zero.
func pixelScale(sw, sh int) float64 {
	return float64(min(sw, sh)) / 3.0
}

// Project maps p to dot coordinates on an sw×sh canvas. It returns the
// perspective factor and whether the point is in front of the camera and on
// screen.
func (c *Camera) Project(p r3.Vec, sw, sh int) (x, y int, scale float64, ok bool) {
	rot := r3.Scale(c.Zoom, c.RotatePoint(p))
	if rot.Z >= c.Distance-0.1 {
		return 0, 0, 0, false
	}
	scale = c.Distance / (c.Distance - rot.Z)
	ps := pixelScale(sw, sh)
	x = int(rot.X*scale*ps) + sw/2
	y = int(-rot.Y*scale*ps) + sh/2
	return x, y, scale, x >= 0 && x < sw && y >= 0 && y < sh
}

// Fit sets the zoom so every visible entry of snap lies within the canvas.
func (c *Camera) Fit(snap nbody.Snapshot) {
	extent := 0.0
	for i, p := range snap.Positions {
		if !visible(snap, i) {
			continue
		}
		extent = math.Max(extent, r3.Norm(p)+snap.Radii[i])
	}
	if extent == 0 {
		return
	}
	c.Zoom = math.Min(maxZoom, math.Max(minZoom, 1.4/extent))
}

// visible reports whether entry i should be drawn. Collided particles have
// their color zeroed.
func visible(snap nbody.Snapshot, i int) bool {
	return snap.Colors[i][3] > 0
}

// RenderSnapshot draws particles as dots and bodies as discs scaled by their
// radius. Bodies are drawn last so they cover particles.
func RenderSnapshot(c *Canvas, snap nbody.Snapshot, cam *Camera) {
	sw, sh := c.SubWidth(), c.SubHeight()
	ps := pixelScale(sw, sh)
	for i := snap.Bodies; i < len(snap.Positions); i++ {
		if !visible(snap, i) {
			continue
		}
		if x, y, _, ok := cam.Project(snap.Positions[i], sw, sh); ok {
			c.Plot(x, y, LayerParticle)
		}
	}
	for i := 0; i < snap.Bodies; i++ {
		if !visible(snap, i) {
			continue
		}
		x, y, scale, ok := cam.Project(snap.Positions[i], sw, sh)
		if !ok {
			continue
		}
		r := int(math.Round(snap.Radii[i] * cam.Zoom * scale * ps))
		c.Disc(x, y, r, LayerBody)
	}
}

// RenderAxes draws the x, y and z axes from the origin with length l display
// units.
func RenderAxes(c *Canvas, cam *Camera, l float64) {
	sw, sh := c.SubWidth(), c.SubHeight()
	ox, oy, _, _ := cam.Project(r3.Vec{}, sw, sh)
	for _, axis := range []r3.Vec{{X: l}, {Y: l}, {Z: l}} {
		x, y, _, ok := cam.Project(axis, sw, sh)
		if ok {
			c.DrawLine(ox, oy, x, y)
		}
	}
}
