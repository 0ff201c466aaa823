// Package compute provides body force strategies for the n-body engine.
//
// Every strategy implements nbody.BodySolver and can be selected by name:
//
//   - dense: serial all-pairs sum over ordered pairs
//   - parallel: the dense sum split across row blocks on all cores
//   - graph: a pair plan retained across ticks, each unordered pair
//     evaluated once and applied to both members
//   - barneshut: octree approximation with a configurable opening angle
//
// Select a strategy by name or let the package pick one for the body count:
//
//	solver, err := compute.New("parallel", compute.Options{})
//	solver := compute.AutoSelect(n, compute.Options{})
//
// The exact strategies agree with each other to rounding. Barnes-Hut with
// Theta = 0 degenerates to the exact sum.
package compute
