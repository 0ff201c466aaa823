package nbody_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/nbody"
	"gonum.org/v1/gonum/spatial/r3"
)

func momentum(v nbody.View) (p r3.Vec, scale float64) {
	for i, vel := range v.BodyVelocities {
		p = r3.Add(p, r3.Scale(v.Masses[i], vel))
		scale += v.Masses[i] * r3.Norm(vel)
	}
	return p, scale
}

func mustSim(scene nbody.Scene, uopts []nbody.Option, sopts ...nbody.SimOption) *nbody.Simulator {
	u, err := nbody.NewUniverse(scene, uopts...)
	Expect(err).NotTo(HaveOccurred())
	return nbody.NewSimulator(u, sopts...)
}

var _ = Describe("Simulator", func() {
	Describe("two-body system", func() {
		var sim *nbody.Simulator

		BeforeEach(func() {
			scene := binaryScene()
			scene.Particles = nil
			sim = mustSim(scene, []nbody.Option{nbody.WithTimeScale(1000)})
		})

		It("conserves total momentum", func() {
			var p0 r3.Vec
			var scale float64
			sim.View(func(v nbody.View) { p0, scale = momentum(v) })

			for range 2000 {
				_, err := sim.Step()
				Expect(err).NotTo(HaveOccurred())
			}

			var p r3.Vec
			sim.View(func(v nbody.View) { p, scale = momentum(v) })
			Expect(r3.Norm(r3.Sub(p, p0))).To(BeNumerically("<", 1e-10*scale))
		})

		It("keeps array lengths constant", func() {
			for range 10 {
				snap, err := sim.Step()
				Expect(err).NotTo(HaveOccurred())
				Expect(snap.Positions).To(HaveLen(2))
				Expect(snap.Colors).To(HaveLen(2))
				Expect(snap.Radii).To(HaveLen(2))
			}
		})
	})

	Describe("equal masses at rest", func() {
		It("acquire opposite velocities", func() {
			scene := binaryScene()
			scene.Particles = nil
			scene.Bodies.Velocities = []r3.Vec{{}, {}}
			sim := mustSim(scene, nil)

			_, err := sim.Step()
			Expect(err).NotTo(HaveOccurred())

			sim.View(func(v nbody.View) {
				a, b := v.BodyVelocities[0], v.BodyVelocities[1]
				Expect(a.X).To(BeNumerically(">", 0))
				Expect(b.X).To(BeNumerically("<", 0))
				Expect(r3.Norm(r3.Add(a, b))).To(BeNumerically("<", 1e-12*r3.Norm(a)))
			})
		})
	})

	Describe("a particle at a body center", func() {
		It("collides on the first tick and stays zeroed", func() {
			scene := binaryScene()
			scene.Particles = &nbody.ParticleSet{
				Positions:  []r3.Vec{scene.Bodies.Positions[0], {Z: 9e8}},
				Velocities: []r3.Vec{{}, {}},
				Radii:      []float64{1, 1},
				Colors:     []nbody.Color{{1, 1, 1, 1}, {1, 1, 1, 1}},
			}
			sim := mustSim(scene, nil)

			snap, err := sim.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(sim.Collided()).To(Equal(1))
			Expect(snap.Positions[2]).To(Equal(r3.Vec{}))
			Expect(snap.Radii[2]).To(BeZero())
			Expect(snap.Colors[2]).To(Equal(nbody.Color{}))

			for range 20 {
				snap, err = sim.Step()
				Expect(err).NotTo(HaveOccurred())
				Expect(snap.Positions[2]).To(Equal(r3.Vec{}))
				Expect(snap.Positions).To(HaveLen(4))
			}
			Expect(snap.Positions[3]).NotTo(Equal(r3.Vec{}))
		})
	})

	Describe("distance scale", func() {
		It("halves output positions when doubled", func() {
			sim := mustSim(binaryScene(), nil)
			before := sim.Snapshot()
			Expect(sim.SetDistanceScale(2 * sim.DistanceScale())).To(Succeed())
			after := sim.Snapshot()
			for i := range before.Positions {
				want := r3.Scale(0.5, before.Positions[i])
				Expect(r3.Norm(r3.Sub(after.Positions[i], want))).To(BeNumerically("<=", 1e-12))
			}
		})
	})

	Describe("reset", func() {
		It("restores the initial scene bit for bit", func() {
			sim := mustSim(binaryScene(), nil)
			initial := sim.Snapshot()
			for range 50 {
				_, err := sim.Step()
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(sim.Reset()).To(Succeed())
			Expect(sim.Snapshot()).To(Equal(initial))
			Expect(sim.Elapsed()).To(BeZero())
		})
	})

	Describe("an Earth-mass body", func() {
		It("pulls a distant particle with G·M/r²", func() {
			sim := mustSim(earthScene(), nil)
			_, err := sim.Step()
			Expect(err).NotTo(HaveOccurred())

			r := 3.844e8
			want := nbody.DefaultG * 5.972e24 / (r * r) * nbody.DefaultTimestep
			sim.View(func(v nbody.View) {
				vel := v.ParticleVelocities[0]
				Expect(r3.Norm(vel)).To(BeNumerically("~", want, want*1e-9))
				Expect(vel.X).To(BeNumerically("<", 0))
			})
		})
	})

	DescribeTable("sign conventions",
		func(c nbody.SignConvention, wantSign float64) {
			scene := earthScene()
			scene.Particles = nil
			scene.Bodies.Velocities[0] = r3.Vec{Y: 10}
			sim := mustSim(scene, []nbody.Option{nbody.WithSignConvention(c)})
			_, err := sim.Step()
			Expect(err).NotTo(HaveOccurred())
			sim.View(func(v nbody.View) {
				Expect(math.Copysign(1, v.BodyPositions[0].Y)).To(Equal(wantSign))
			})
		},
		Entry("consistent drifts along velocity", nbody.Consistent, 1.0),
		Entry("reference drifts against velocity", nbody.Reference, -1.0),
	)
})
