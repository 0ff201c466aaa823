// Package nbody is the gravitational integration engine.
//
// The package holds the canonical simulation state and the operations that
// advance it by one tick:
//
//   - [Universe]: state store for bodies, particles and scale parameters
//   - [ForceLaw]: spherical-decomposition Newtonian force law
//   - [BodySolver]: strategy computing mutual body accelerations
//   - [ParticleSolver]: one-way body-to-particle accelerations
//   - [CollisionFilter]: zeroes particles that penetrate a body
//   - [Simulator]: step controller orchestrating a tick
//
// # Example
//
//	u, err := nbody.NewUniverse(scene)
//	if err != nil {
//		return err
//	}
//	sim := nbody.NewSimulator(u)
//	snap, err := sim.Step()
//
// # Thread Safety
//
// A [Universe] is owned by exactly one [Simulator]. Simulator methods are safe
// for concurrent use; Step, Reset and Load serialize against each other.
package nbody
