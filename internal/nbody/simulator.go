package nbody

import (
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/gravsim/internal/integrators"
)

// DefaultTimestep is the nominal tick length in seconds before time scaling.
const DefaultTimestep = 0.01

// Simulator is the step controller. It owns a Universe and advances it one
// tick at a time.
type Simulator struct {
	mu sync.Mutex

	u         *Universe
	solver    BodySolver
	particles *ParticleSolver
	collide   CollisionFilter
	timestep  float64
	validate  bool
	now       func() time.Time
	log       *slog.Logger

	elapsed float64
	ticks   int
	started time.Time

	saved checkpoint
}

type SimOption func(*Simulator)

// WithSolver selects the body force strategy. The default is DenseSolver.
func WithSolver(s BodySolver) SimOption { return func(sim *Simulator) { sim.solver = s } }

// WithParticleSolver replaces the default particle solver.
func WithParticleSolver(ps *ParticleSolver) SimOption {
	return func(sim *Simulator) { sim.particles = ps }
}

// WithTimestep sets the nominal timestep that the time scale multiplies.
func WithTimestep(dt float64) SimOption { return func(sim *Simulator) { sim.timestep = dt } }

// WithValidation makes Step fail with ErrUnstable when a tick would produce
// NaN or Inf. The failed tick is rolled back, so the state stays finite.
func WithValidation(on bool) SimOption { return func(sim *Simulator) { sim.validate = on } }

// WithClock replaces time.Now for the wall-clock start time.
func WithClock(now func() time.Time) SimOption { return func(sim *Simulator) { sim.now = now } }

func WithLogger(l *slog.Logger) SimOption { return func(sim *Simulator) { sim.log = l } }

func NewSimulator(u *Universe, opts ...SimOption) *Simulator {
	sim := &Simulator{
		u:         u,
		solver:    NewDenseSolver(),
		particles: NewParticleSolver(),
		timestep:  DefaultTimestep,
		validate:  true,
		now:       time.Now,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(sim)
	}
	sim.prepare()
	sim.started = sim.now()
	return sim
}

func (s *Simulator) prepare() {
	if p, ok := s.solver.(Preparer); ok {
		p.Prepare(s.u.NumBodies())
	}
}

// Step advances the universe by timestep·timeScale and returns the renderer
// snapshot. The returned arrays are freshly allocated.
func (s *Simulator) Step() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.step(); err != nil {
		return Snapshot{}, err
	}
	return s.snapshotLocked(), nil
}

// StepInto is Step writing into dst, reusing its arrays.
func (s *Simulator) StepInto(dst *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.step(); err != nil {
		return err
	}
	s.u.SnapshotInto(dst)
	dst.Tick, dst.Elapsed = s.ticks, s.elapsed
	return nil
}

func (s *Simulator) step() error {
	u := s.u
	dt := s.timestep * u.timeScale
	if s.validate {
		u.save(&s.saved)
	}

	b := &u.bodies
	if len(b.pos) > 0 {
		if err := s.solver.Accelerate(u.law, b.pos, b.mass, b.acc); err != nil {
			return &StepError{Tick: s.ticks, Time: s.elapsed, Wrapped: err}
		}
		integrators.NewEuler(u.signs.bodyDirection()).Advance(b.pos, b.vel, b.acc, nil, dt)
	}

	if u.NumParticles() > 0 {
		s.particles.Advance(u, dt)
		if culled := s.collide.Apply(u); culled > 0 {
			s.log.Debug("particles collided", "tick", s.ticks, "culled", culled, "total", u.Collided())
		}
	}

	if s.validate && !u.finiteState() {
		u.restore(&s.saved)
		return &StepError{Tick: s.ticks, Time: s.elapsed, Wrapped: ErrUnstable}
	}

	s.elapsed += dt
	s.ticks++
	return nil
}

// Reset reloads the initial scene and zeroes elapsed-time tracking. Scale
// parameters keep their current values.
func (s *Simulator) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.u.reload()
	s.restart()
	s.log.Debug("universe reset", "bodies", s.u.NumBodies(), "particles", s.u.NumParticles())
	return nil
}

// Load replaces the scene. On error the running scene is kept.
func (s *Simulator) Load(scene Scene) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.u.Reset(scene); err != nil {
		return err
	}
	s.restart()
	s.log.Debug("scene loaded", "bodies", s.u.NumBodies(), "particles", s.u.NumParticles())
	return nil
}

func (s *Simulator) restart() {
	s.prepare()
	s.elapsed = 0
	s.ticks = 0
	s.started = s.now()
}

// Snapshot returns the current renderer output without stepping.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Simulator) snapshotLocked() Snapshot {
	snap := s.u.Snapshot()
	snap.Tick, snap.Elapsed = s.ticks, s.elapsed
	return snap
}

// View calls fn with a read-only view of the physical state. fn must not
// retain the view.
func (s *Simulator) View(fn func(View)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.u.View())
}

func (s *Simulator) SetTimeScale(v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.u.SetTimeScale(v)
}

func (s *Simulator) SetDistanceScale(v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.u.SetDistanceScale(v)
}

func (s *Simulator) TimeScale() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.u.TimeScale()
}

func (s *Simulator) DistanceScale() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.u.DistanceScale()
}

// Elapsed is the sum of applied timesteps since the last reset.
func (s *Simulator) Elapsed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

func (s *Simulator) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Started is the wall-clock time of the last reset, for display.
func (s *Simulator) Started() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *Simulator) Solver() BodySolver { return s.solver }

func (s *Simulator) Collided() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.u.Collided()
}

func (s *Simulator) Counts() (bodies, particles int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.u.NumBodies(), s.u.NumParticles()
}
