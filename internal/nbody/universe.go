package nbody

import (
	"fmt"
	"slices"

	"github.com/san-kum/gravsim/internal/integrators"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// ParticleOffset is added to every particle coordinate at load time so no
	// particle starts exactly on a body.
	ParticleOffset = 1e-6

	// DefaultDistanceScale maps 1e8 m (100,000 km) to one display unit.
	DefaultDistanceScale = 1e8

	DefaultTimeScale = 1.0
)

// SignConvention selects the sign of the body position update.
type SignConvention int

const (
	// Consistent drifts bodies and particles along their velocity.
	Consistent SignConvention = iota
	// Reference drifts bodies against their velocity (x -= v·dt) while
	// particles drift along it, reproducing the original engine.
	Reference
)

func (c SignConvention) String() string {
	switch c {
	case Consistent:
		return "consistent"
	case Reference:
		return "reference"
	default:
		return fmt.Sprintf("SignConvention(%d)", int(c))
	}
}

// ParseSignConvention maps a config name to a SignConvention. The empty
// string selects Consistent.
func ParseSignConvention(s string) (SignConvention, error) {
	switch s {
	case "", "consistent":
		return Consistent, nil
	case "reference":
		return Reference, nil
	default:
		return 0, fmt.Errorf("unknown sign convention: %s", s)
	}
}

func (c SignConvention) bodyDirection() integrators.Direction {
	if c == Reference {
		return integrators.Backward
	}
	return integrators.Forward
}

type bodyState struct {
	pos    []r3.Vec
	vel    []r3.Vec
	acc    []r3.Vec
	mass   []float64
	radius []float64
	color  []Color
}

type particleState struct {
	pos      []r3.Vec
	vel      []r3.Vec
	acc      []r3.Vec
	radius   []float64
	color    []Color
	collided []bool
}

// Universe is the state store. It owns the body and particle arrays, the
// force law and the two scale parameters, and is the only code that mutates
// them.
type Universe struct {
	law           ForceLaw
	distanceScale float64
	timeScale     float64
	signs         SignConvention

	initial   Scene
	bodies    bodyState
	particles particleState
}

type Option func(*Universe)

func WithG(g float64) Option { return func(u *Universe) { u.law.G = g } }

func WithMinDistance(d float64) Option { return func(u *Universe) { u.law.MinDistance = d } }

func WithDistanceScale(s float64) Option { return func(u *Universe) { u.distanceScale = s } }

func WithTimeScale(s float64) Option { return func(u *Universe) { u.timeScale = s } }

func WithSignConvention(c SignConvention) Option { return func(u *Universe) { u.signs = c } }

// NewUniverse validates scene and loads it.
func NewUniverse(scene Scene, opts ...Option) (*Universe, error) {
	u := &Universe{
		law:           ForceLaw{G: DefaultG, MinDistance: DefaultMinDistance},
		distanceScale: DefaultDistanceScale,
		timeScale:     DefaultTimeScale,
	}
	for _, opt := range opts {
		opt(u)
	}

	if !finite(u.law.G) {
		return nil, fmt.Errorf("g=%v: %w", u.law.G, ErrParameterBounds)
	}
	if !finite(u.law.MinDistance) || u.law.MinDistance < 0 {
		return nil, fmt.Errorf("min distance=%v: %w", u.law.MinDistance, ErrParameterBounds)
	}
	if err := u.SetDistanceScale(u.distanceScale); err != nil {
		return nil, err
	}
	if err := u.SetTimeScale(u.timeScale); err != nil {
		return nil, err
	}

	if err := u.Reset(scene); err != nil {
		return nil, err
	}
	return u, nil
}

// Reset replaces every array from scene. Invalid scenes leave the current
// state untouched.
func (u *Universe) Reset(scene Scene) error {
	if err := scene.Validate(); err != nil {
		return err
	}
	u.initial = scene.Clone()
	u.reload()
	return nil
}

// reload rebuilds the live arrays from the stored initial scene.
func (u *Universe) reload() {
	b := u.initial.Bodies
	n := b.Len()
	u.bodies = bodyState{
		pos:    slices.Clone(b.Positions),
		vel:    slices.Clone(b.Velocities),
		acc:    make([]r3.Vec, n),
		mass:   slices.Clone(b.Masses),
		radius: slices.Clone(b.Radii),
		color:  slices.Clone(b.Colors),
	}

	p := u.initial.Particles
	m := p.Len()
	u.particles = particleState{
		pos:      make([]r3.Vec, m),
		vel:      make([]r3.Vec, m),
		acc:      make([]r3.Vec, m),
		radius:   make([]float64, m),
		color:    make([]Color, m),
		collided: make([]bool, m),
	}
	if m == 0 {
		return
	}
	offset := r3.Vec{X: ParticleOffset, Y: ParticleOffset, Z: ParticleOffset}
	for i := 0; i < m; i++ {
		u.particles.pos[i] = r3.Add(p.Positions[i], offset)
	}
	copy(u.particles.vel, p.Velocities)
	copy(u.particles.radius, p.Radii)
	copy(u.particles.color, p.Colors)
}

// Initial returns a copy of the scene the universe was last loaded from.
func (u *Universe) Initial() Scene { return u.initial.Clone() }

func (u *Universe) NumBodies() int    { return len(u.bodies.pos) }
func (u *Universe) NumParticles() int { return len(u.particles.pos) }

func (u *Universe) Law() ForceLaw                  { return u.law }
func (u *Universe) DistanceScale() float64         { return u.distanceScale }
func (u *Universe) TimeScale() float64             { return u.timeScale }
func (u *Universe) SignConvention() SignConvention { return u.signs }

// SetDistanceScale sets the divisor applied to output positions.
func (u *Universe) SetDistanceScale(s float64) error {
	if !finite(s) || s <= 0 {
		return fmt.Errorf("distance scale=%v: %w", s, ErrParameterBounds)
	}
	u.distanceScale = s
	return nil
}

// SetTimeScale sets the multiplier on the nominal timestep.
func (u *Universe) SetTimeScale(s float64) error {
	if !finite(s) || s < 0 {
		return fmt.Errorf("time scale=%v: %w", s, ErrParameterBounds)
	}
	u.timeScale = s
	return nil
}

// Collided reports how many particles have been culled.
func (u *Universe) Collided() int {
	n := 0
	for _, c := range u.particles.collided {
		if c {
			n++
		}
	}
	return n
}

// View exposes the physical arrays without copying. The slices alias the
// live state: callers must not modify them or keep them past the next tick.
type View struct {
	G float64

	BodyPositions  []r3.Vec
	BodyVelocities []r3.Vec
	Masses         []float64
	BodyRadii      []float64
	BodyColors     []Color

	ParticlePositions  []r3.Vec
	ParticleVelocities []r3.Vec
	ParticleRadii      []float64
	ParticleColors     []Color
	Collided           []bool
}

func (u *Universe) View() View {
	return View{
		G:                  u.law.G,
		BodyPositions:      u.bodies.pos,
		BodyVelocities:     u.bodies.vel,
		Masses:             u.bodies.mass,
		BodyRadii:          u.bodies.radius,
		BodyColors:         u.bodies.color,
		ParticlePositions:  u.particles.pos,
		ParticleVelocities: u.particles.vel,
		ParticleRadii:      u.particles.radius,
		ParticleColors:     u.particles.color,
		Collided:           u.particles.collided,
	}
}

// Snapshot returns the renderer output in freshly allocated arrays.
func (u *Universe) Snapshot() Snapshot {
	var s Snapshot
	u.SnapshotInto(&s)
	return s
}

// SnapshotInto writes the renderer output into dst, reusing its arrays when
// they have the right length. Order is bodies first, then particles.
func (u *Universe) SnapshotInto(dst *Snapshot) {
	n, m := u.NumBodies(), u.NumParticles()
	total := n + m
	if len(dst.Positions) != total || len(dst.Colors) != total || len(dst.Radii) != total {
		dst.Positions = make([]r3.Vec, total)
		dst.Colors = make([]Color, total)
		dst.Radii = make([]float64, total)
	}
	dst.Bodies, dst.Particles = n, m

	s := u.distanceScale
	for i := 0; i < n; i++ {
		dst.Positions[i] = divide(u.bodies.pos[i], s)
		dst.Colors[i] = u.bodies.color[i]
		dst.Radii[i] = u.bodies.radius[i] / s
	}
	for i := 0; i < m; i++ {
		dst.Positions[n+i] = divide(u.particles.pos[i], s)
		dst.Colors[n+i] = u.particles.color[i]
		dst.Radii[n+i] = u.particles.radius[i] / s
	}
}

// finiteState reports whether every committed position and velocity is finite.
func (u *Universe) finiteState() bool {
	for i := range u.bodies.pos {
		if !finiteVec(u.bodies.pos[i]) || !finiteVec(u.bodies.vel[i]) {
			return false
		}
	}
	for i := range u.particles.pos {
		if !finiteVec(u.particles.pos[i]) || !finiteVec(u.particles.vel[i]) {
			return false
		}
	}
	return true
}

// checkpoint holds the arrays a tick mutates, so a rejected tick can be
// rolled back. Buffers are reused across ticks.
type checkpoint struct {
	bpos, bvel, bacc []r3.Vec
	ppos, pvel, pacc []r3.Vec
	pradius          []float64
	pcolor           []Color
	collided         []bool
}

func (u *Universe) save(c *checkpoint) {
	c.bpos = append(c.bpos[:0], u.bodies.pos...)
	c.bvel = append(c.bvel[:0], u.bodies.vel...)
	c.bacc = append(c.bacc[:0], u.bodies.acc...)
	c.ppos = append(c.ppos[:0], u.particles.pos...)
	c.pvel = append(c.pvel[:0], u.particles.vel...)
	c.pacc = append(c.pacc[:0], u.particles.acc...)
	c.pradius = append(c.pradius[:0], u.particles.radius...)
	c.pcolor = append(c.pcolor[:0], u.particles.color...)
	c.collided = append(c.collided[:0], u.particles.collided...)
}

// restore rolls the arrays back to the last save. Counts are fixed for a
// scene, so lengths always match.
func (u *Universe) restore(c *checkpoint) {
	copy(u.bodies.pos, c.bpos)
	copy(u.bodies.vel, c.bvel)
	copy(u.bodies.acc, c.bacc)
	copy(u.particles.pos, c.ppos)
	copy(u.particles.vel, c.pvel)
	copy(u.particles.acc, c.pacc)
	copy(u.particles.radius, c.pradius)
	copy(u.particles.color, c.pcolor)
	copy(u.particles.collided, c.collided)
}

func divide(v r3.Vec, s float64) r3.Vec {
	return r3.Vec{X: v.X / s, Y: v.Y / s, Z: v.Z / s}
}
