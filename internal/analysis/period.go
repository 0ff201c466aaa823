package analysis

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/gravsim/internal/nbody"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/spatial/r3"
)

// PowerSpectrum returns |X_k| for k in [0, n/2] of the mean-removed series.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(len(data))
	coeff := fft.Coefficients(nil, centered)
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantPeriod returns the period of the strongest non-zero frequency of
// a series sampled every dt seconds. ok is false when the series is too
// short or has no oscillating component.
func DominantPeriod(data []float64, dt float64) (period float64, ok bool) {
	if len(data) < 4 || dt <= 0 {
		return 0, false
	}
	ps := PowerSpectrum(data)

	best, peak := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > peak {
			best, peak = k, ps[k]
		}
	}
	if best == 0 || peak < 1e-12*math.Abs(maxAbs(data)) {
		return 0, false
	}
	return float64(len(data)) * dt / float64(best), true
}

func maxAbs(data []float64) float64 {
	m := 0.0
	for _, v := range data {
		m = math.Max(m, math.Abs(v))
	}
	return m
}

// OrbitPeriods estimates, for each body, the period of its distance from
// the origin across frames. Frame spacing is taken from the first two
// frames. Bodies with no detectable oscillation get NaN.
func OrbitPeriods(frames []nbody.Snapshot) []float64 {
	if len(frames) < 2 {
		return nil
	}
	dt := frames[1].Elapsed - frames[0].Elapsed
	n := frames[0].Bodies
	out := make([]float64, n)
	series := make([]float64, len(frames))
	for i := 0; i < n; i++ {
		for k, f := range frames {
			series[k] = r3.Norm(f.Positions[i])
		}
		if p, ok := DominantPeriod(series, dt); ok {
			out[i] = p
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}
