package config

import (
	"math"
	"sort"

	"github.com/san-kum/gravsim/internal/nbody"
)

const (
	earthMass   = 5.972e24
	earthRadius = 6.371e6
	moonMass    = 7.342e22
	moonRadius  = 1.737e6
	moonOrbit   = 3.844e8
)

var presets = map[string]func() *Config{
	"earth-moon": earthMoon,
	"binary":     binary,
	"plummet":    plummet,
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	mk, ok := presets[name]
	if !ok {
		return nil
	}
	return mk()
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func circular(mass, r float64) float64 {
	return math.Sqrt(nbody.DefaultG * mass / r)
}

// ring places n particles on a circle of radius r in the xy plane around the
// origin, moving counter-clockwise at speed v.
func ring(n int, r, v float64, rgba []float64) []ParticleSpec {
	out := make([]ParticleSpec, n)
	for i := range out {
		s, c := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		out[i] = ParticleSpec{
			Position: []float64{r * c, r * s, 0},
			Velocity: []float64{-v * s, v * c, 0},
			Radius:   1e5,
			Color:    rgba,
		}
	}
	return out
}

func earthMoon() *Config {
	cfg := &Config{Engine: DefaultEngine()}
	cfg.Engine.TimeScale = 1000
	cfg.Scene = SceneFile{
		Bodies: []BodySpec{
			{
				Position: []float64{0, 0, 0},
				Velocity: []float64{0, -moonMass / earthMass * circular(earthMass, moonOrbit), 0},
				Mass:     earthMass,
				Radius:   earthRadius,
				Color:    []float64{0.2, 0.4, 1, 1},
			},
			{
				Position: []float64{moonOrbit, 0, 0},
				Velocity: []float64{0, circular(earthMass, moonOrbit), 0},
				Mass:     moonMass,
				Radius:   moonRadius,
				Color:    []float64{0.8, 0.8, 0.8, 1},
			},
		},
		Particles: ring(240, 1.5e8, circular(earthMass, 1.5e8), []float64{1, 0.8, 0.3, 1}),
	}
	return cfg
}

func binary() *Config {
	const m, d = 3e24, 1e8
	// each star circles the barycenter at distance d, separation 2d
	v := math.Sqrt(nbody.DefaultG * m / (4 * d))

	cfg := &Config{Engine: DefaultEngine()}
	cfg.Engine.TimeScale = 10000
	cfg.Engine.Solver = "graph"
	cfg.Scene = SceneFile{
		Bodies: []BodySpec{
			{Position: []float64{-d, 0, 0}, Velocity: []float64{0, -v, 0}, Mass: m, Radius: 4e6, Color: []float64{1, 0.5, 0.2, 1}},
			{Position: []float64{d, 0, 0}, Velocity: []float64{0, v, 0}, Mass: m, Radius: 4e6, Color: []float64{0.3, 0.6, 1, 1}},
		},
		Particles: ring(360, 4e8, circular(2*m, 4e8), []float64{0.9, 0.9, 1, 1}),
	}
	return cfg
}

// plummet drops a shell of resting particles onto an Earth-mass body.
func plummet() *Config {
	const shell = 2e7
	var particles []ParticleSpec
	for i := 0; i < 12; i++ {
		theta := math.Pi * (float64(i) + 0.5) / 12
		for j := 0; j < 24; j++ {
			phi := 2 * math.Pi * float64(j) / 24
			st, ct := math.Sincos(theta)
			sp, cp := math.Sincos(phi)
			particles = append(particles, ParticleSpec{
				Position: []float64{shell * st * cp, shell * st * sp, shell * ct},
				Radius:   5e4,
				Color:    []float64{1, 0.3, 0.3},
			})
		}
	}

	cfg := &Config{Engine: DefaultEngine()}
	cfg.Engine.TimeScale = 500
	cfg.Scene = SceneFile{
		Bodies: []BodySpec{
			{Position: []float64{0, 0, 0}, Mass: earthMass, Radius: earthRadius, Color: []float64{0.2, 0.4, 1, 1}},
		},
		Particles: particles,
	}
	return cfg
}
