// Package analysis extracts orbital characteristics from recorded frames.
//
//   - [PowerSpectrum]: magnitude spectrum of a uniformly sampled series
//   - [DominantPeriod]: period of the strongest oscillation in a series
//   - [OrbitPeriods]: per-body period of the distance from the origin
//
// Periods come from the frame spacing, so runs should record frames at a
// fixed interval:
//
//	periods := analysis.OrbitPeriods(frames)
//	for i, p := range periods {
//	    fmt.Printf("body %d: %.3gs\n", i, p)
//	}
package analysis
