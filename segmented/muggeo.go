package segmented

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// fitter holds the data and the constraints shared by all the
// breakpoint searches of a single fit.
type fitter struct {
	x, y     []float64
	k        int
	lo, hi   float64
	minDist  float64
	settings Settings
}

func newFitter(x, y []float64, k int, settings Settings) *fitter {
	min, max := floats.Min(x), floats.Max(x)
	r := max - min
	return &fitter{
		x:        x,
		y:        y,
		k:        k,
		lo:       min + settings.MinDistanceToEdge*r,
		hi:       max - settings.MinDistanceToEdge*r,
		minDist:  settings.MinDistance * r,
		settings: settings,
	}
}

// estimate is a segmented fit at fixed breakpoints.
type estimate struct {
	breakpoints []float64
	coef        []float64
	rss         float64
}

// valid checks that sorted breakpoints are inside the admissible
// interval and far enough from each other.
func (f *fitter) valid(psi []float64) bool {
	for i, p := range psi {
		if math.IsNaN(p) || p < f.lo || p > f.hi {
			return false
		}
		if i > 0 && p-psi[i-1] < f.minDist {
			return false
		}
	}
	return true
}

// randomStart draws sorted breakpoints uniformly from the admissible
// interval.
func (f *fitter) randomStart(rng *rand.Rand) []float64 {
	psi := make([]float64, f.k)
	for i := range psi {
		psi[i] = f.lo + rng.Float64()*(f.hi-f.lo)
	}
	sort.Float64s(psi)
	return psi
}

// bootstrap resamples the data with replacement.
func (f *fitter) bootstrap(rng *rand.Rand) (bx, by []float64) {
	n := len(f.x)
	bx = make([]float64, n)
	by = make([]float64, n)
	for i := range bx {
		j := rng.Intn(n)
		bx[i] = f.x[j]
		by[i] = f.y[j]
	}
	return
}

// estimateAt fits the coefficients for fixed breakpoints.
func (f *fitter) estimateAt(x, y, psi []float64) (*estimate, error) {
	coef, rss, err := ols(designMatrix(x, psi, false), y)
	if err != nil {
		return nil, err
	}
	return &estimate{
		breakpoints: append([]float64(nil), psi...),
		coef:        coef,
		rss:         rss,
	}, nil
}

// muggeo iterates breakpoint updates starting from start on data
// (x, y). It returns nil if the iteration leaves the admissible region,
// hits a singular design or does not converge.
func (f *fitter) muggeo(x, y, start []float64) *estimate {
	psi := append([]float64(nil), start...)
	sort.Float64s(psi)
	for it := 0; it < f.settings.MaxIterations; it++ {
		coef, _, err := ols(designMatrix(x, psi, true), y)
		if err != nil {
			return nil
		}
		next := make([]float64, len(psi))
		for j := range psi {
			beta := coef[2+j]
			gamma := coef[2+f.k+j]
			if beta == 0 {
				return nil
			}
			next[j] = psi[j] + gamma/beta
		}
		sort.Float64s(next)
		if !f.valid(next) {
			return nil
		}
		delta := 0.0
		for j := range next {
			delta = math.Max(delta, math.Abs(next[j]-psi[j]))
		}
		psi = next
		if delta < f.settings.Tolerance {
			est, err := f.estimateAt(x, y, psi)
			if err != nil {
				return nil
			}
			return est
		}
	}
	return nil
}

// search runs the Muggeo iteration from a random start followed by
// bootstrap restarting. It returns the lowest RSS estimate on the
// original data, nil if none of the runs converged, and the random
// starting breakpoints.
func (f *fitter) search(rng *rand.Rand) (best *estimate, start []float64) {
	start = f.randomStart(rng)
	best = f.muggeo(f.x, f.y, start)
	for b := 0; b < f.settings.NBoot; b++ {
		bx, by := f.bootstrap(rng)
		var from []float64
		if best != nil {
			from = best.breakpoints
		} else {
			from = f.randomStart(rng)
		}
		boot := f.muggeo(bx, by, from)
		if boot == nil {
			continue
		}
		next := f.muggeo(f.x, f.y, boot.breakpoints)
		if next != nil && (best == nil || next.rss < best.rss) {
			best = next
		}
	}
	return best, start
}
