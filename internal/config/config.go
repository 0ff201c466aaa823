package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/jinzhu/copier"
	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/nbody"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSolver         = "dense"
	AutoSolver            = "auto"
	DefaultSignConvention = "consistent"
)

// ErrArity indicates a vector field with the wrong number of components.
var ErrArity = errors.New("config: wrong number of vector components")

type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Scene  SceneFile    `yaml:"scene"`
}

type EngineConfig struct {
	G              float64 `yaml:"g"`
	Timestep       float64 `yaml:"timestep"`
	TimeScale      float64 `yaml:"time_scale"`
	DistanceScale  float64 `yaml:"distance_scale"`
	MinDistance    float64 `yaml:"min_distance"`
	Solver         string  `yaml:"solver"`
	Theta          float64 `yaml:"theta"`
	Workers        int     `yaml:"workers"`
	SignConvention string  `yaml:"sign_convention"`
}

// SceneFile is the on-disk form of nbody.Scene: one entry per body or
// particle instead of parallel arrays.
type SceneFile struct {
	Bodies    []BodySpec     `yaml:"bodies"`
	Particles []ParticleSpec `yaml:"particles,omitempty"`
}

type BodySpec struct {
	Position []float64 `yaml:"position,flow"`
	Velocity []float64 `yaml:"velocity,flow,omitempty"`
	Mass     float64   `yaml:"mass"`
	Radius   float64   `yaml:"radius"`
	Color    []float64 `yaml:"color,flow,omitempty"`
}

type ParticleSpec struct {
	Position []float64 `yaml:"position,flow"`
	Velocity []float64 `yaml:"velocity,flow,omitempty"`
	Radius   float64   `yaml:"radius"`
	Color    []float64 `yaml:"color,flow,omitempty"`
}

func DefaultEngine() EngineConfig {
	return EngineConfig{
		G:              nbody.DefaultG,
		Timestep:       nbody.DefaultTimestep,
		TimeScale:      nbody.DefaultTimeScale,
		DistanceScale:  nbody.DefaultDistanceScale,
		MinDistance:    nbody.DefaultMinDistance,
		Solver:         DefaultSolver,
		Theta:          compute.DefaultTheta,
		SignConvention: DefaultSignConvention,
	}
}

// DefaultConfig is the earth-moon preset with default engine settings.
func DefaultConfig() *Config {
	cfg := earthMoon()
	cfg.Engine = DefaultEngine()
	return cfg
}

// Load reads a YAML config. Engine keys missing from the file keep their
// default values. A file without a scene key gets the default scene; a
// scene in the file is used exactly as written.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{Engine: DefaultEngine()}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	var keys map[string]yaml.Node
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if _, ok := keys["scene"]; !ok {
		cfg.Scene = DefaultConfig().Scene
	}
	return cfg, nil
}

// Clone returns a deep copy, so edits to the scene specs of the copy never
// reach c.
func (c *Config) Clone() (*Config, error) {
	out := &Config{}
	if err := copier.CopyWithOption(out, c, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("clone config: %w", err)
	}
	return out, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Options converts the engine block to universe options.
func (c *Config) Options() ([]nbody.Option, error) {
	signs, err := nbody.ParseSignConvention(c.Engine.SignConvention)
	if err != nil {
		return nil, err
	}
	return []nbody.Option{
		nbody.WithG(c.Engine.G),
		nbody.WithMinDistance(c.Engine.MinDistance),
		nbody.WithDistanceScale(c.Engine.DistanceScale),
		nbody.WithTimeScale(c.Engine.TimeScale),
		nbody.WithSignConvention(signs),
	}, nil
}

// NewSolver builds the configured body force strategy. "auto" picks one
// from the body count.
func (c *Config) NewSolver() (nbody.BodySolver, error) {
	name := c.Engine.Solver
	if name == "" {
		name = DefaultSolver
	}
	opts := compute.Options{Workers: c.Engine.Workers, Theta: c.Engine.Theta}
	if name == AutoSolver {
		return compute.AutoSelect(len(c.Scene.Bodies), opts), nil
	}
	return compute.New(name, opts)
}

// NewSimulator builds the scene, universe and solver and wires them into a
// simulator. opts are applied after the configured ones.
func (c *Config) NewSimulator(opts ...nbody.SimOption) (*nbody.Simulator, error) {
	scene, err := c.Scene.Build()
	if err != nil {
		return nil, err
	}
	uopts, err := c.Options()
	if err != nil {
		return nil, err
	}
	u, err := nbody.NewUniverse(scene, uopts...)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	solver, err := c.NewSolver()
	if err != nil {
		return nil, err
	}
	if c.Engine.Timestep <= 0 {
		return nil, fmt.Errorf("timestep=%v: %w", c.Engine.Timestep, nbody.ErrParameterBounds)
	}

	all := []nbody.SimOption{
		nbody.WithSolver(solver),
		nbody.WithTimestep(c.Engine.Timestep),
		nbody.WithParticleSolver(&nbody.ParticleSolver{
			Workers:  c.Engine.Workers,
			MinChunk: nbody.DefaultParticleChunk,
		}),
	}
	return nbody.NewSimulator(u, append(all, opts...)...), nil
}

// Build converts the file form into a validated nbody.Scene.
func (s SceneFile) Build() (nbody.Scene, error) {
	var scene nbody.Scene
	b := &scene.Bodies
	for i, spec := range s.Bodies {
		pos, err := vec3(spec.Position, false)
		if err != nil {
			return nbody.Scene{}, fmt.Errorf("scene.bodies[%d].position: %w", i, err)
		}
		vel, err := vec3(spec.Velocity, true)
		if err != nil {
			return nbody.Scene{}, fmt.Errorf("scene.bodies[%d].velocity: %w", i, err)
		}
		col, err := color(spec.Color)
		if err != nil {
			return nbody.Scene{}, fmt.Errorf("scene.bodies[%d].color: %w", i, err)
		}
		b.Positions = append(b.Positions, pos)
		b.Velocities = append(b.Velocities, vel)
		b.Masses = append(b.Masses, spec.Mass)
		b.Radii = append(b.Radii, spec.Radius)
		b.Colors = append(b.Colors, col)
	}

	if len(s.Particles) > 0 {
		p := &nbody.ParticleSet{}
		for i, spec := range s.Particles {
			pos, err := vec3(spec.Position, false)
			if err != nil {
				return nbody.Scene{}, fmt.Errorf("scene.particles[%d].position: %w", i, err)
			}
			vel, err := vec3(spec.Velocity, true)
			if err != nil {
				return nbody.Scene{}, fmt.Errorf("scene.particles[%d].velocity: %w", i, err)
			}
			col, err := color(spec.Color)
			if err != nil {
				return nbody.Scene{}, fmt.Errorf("scene.particles[%d].color: %w", i, err)
			}
			p.Positions = append(p.Positions, pos)
			p.Velocities = append(p.Velocities, vel)
			p.Radii = append(p.Radii, spec.Radius)
			p.Colors = append(p.Colors, col)
		}
		scene.Particles = p
	}

	if err := scene.Validate(); err != nil {
		return nbody.Scene{}, fmt.Errorf("scene: %w", err)
	}
	return scene, nil
}

func vec3(v []float64, optional bool) (r3.Vec, error) {
	if len(v) == 0 && optional {
		return r3.Vec{}, nil
	}
	if len(v) != 3 {
		return r3.Vec{}, fmt.Errorf("got %d components, want 3: %w", len(v), ErrArity)
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

// color accepts rgba, rgb with implied opaque alpha, or nothing for white.
func color(c []float64) (nbody.Color, error) {
	switch len(c) {
	case 0:
		return nbody.Color{1, 1, 1, 1}, nil
	case 3:
		return nbody.Color{c[0], c[1], c[2], 1}, nil
	case 4:
		return nbody.Color{c[0], c[1], c[2], c[3]}, nil
	default:
		return nbody.Color{}, fmt.Errorf("got %d components, want 3 or 4: %w", len(c), ErrArity)
	}
}
