package segmented

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// ErrLength is returned when x and y have different lengths.
var ErrLength = errors.New("x and y lengths differ")

// ErrTooShort is returned for series with less than two points.
var ErrTooShort = errors.New("at least two points are required")

// Fit is a segmented regression with a fixed number of breakpoints.
type Fit struct {
	NBreakpoints int
	// N is the number of observations.
	N int
	// Converged is false if no breakpoint search converged; the
	// estimates are not set in this case.
	Converged   bool
	Breakpoints []float64
	// Const is the intercept.
	Const float64
	// Alpha is the slope of the first segment.
	Alpha float64
	// Betas are the slope changes at the breakpoints.
	Betas []float64
	RSS   float64
	// Davies is the Davies test p-value for a slope change.
	Davies float64
	// Start are the random starting breakpoints of the search.
	Start []float64
}

// NewFit fits a segmented regression with k breakpoints. The random
// numbers are drawn from rng; k=0 (ordinary least squares) draws
// nothing.
func NewFit(x, y []float64, k int, settings Settings, rng *rand.Rand) (*Fit, error) {
	if len(x) != len(y) {
		return nil, ErrLength
	}
	if len(x) < 2 {
		return nil, ErrTooShort
	}
	if k < 0 {
		return nil, fmt.Errorf("negative number of breakpoints: %d", k)
	}
	fit := &Fit{
		NBreakpoints: k,
		N:            len(x),
	}
	f := newFitter(x, y, k, settings)

	var est *estimate
	if k == 0 {
		var err error
		est, err = f.estimateAt(x, y, nil)
		if err != nil {
			log.Debugf("linear fit failed: %v", err)
		}
	} else {
		est, fit.Start = f.search(rng)
		if est != nil {
			var err error
			est, err = f.refine(est)
			if err != nil {
				return nil, err
			}
		}
	}

	if est == nil {
		log.Debugf("%d breakpoint(s): not converged", k)
		return fit, nil
	}

	fit.Converged = true
	fit.Breakpoints = est.breakpoints
	fit.Const = est.coef[0]
	fit.Alpha = est.coef[1]
	fit.Betas = est.coef[2:]
	fit.RSS = est.rss

	p, err := DaviesTest(x, y, DaviesK)
	if err != nil {
		log.Warningf("Davies test failed: %v", err)
		p = math.NaN()
	}
	fit.Davies = p
	return fit, nil
}

// BIC returns the Bayesian information criterion
// n*ln(RSS/n) + (2+2k)*ln(n). The second value is false if the fit did
// not converge.
func (f *Fit) BIC() (float64, bool) {
	if !f.Converged {
		return math.NaN(), false
	}
	n := float64(f.N)
	npar := float64(2 + 2*f.NBreakpoints)
	return n*math.Log(f.RSS/n) + npar*math.Log(n), true
}

// Predict evaluates the fitted function.
func (f *Fit) Predict(x []float64) []float64 {
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = f.Const + f.Alpha*v
		for j, psi := range f.Breakpoints {
			y[i] += f.Betas[j] * hinge(v, psi)
		}
	}
	return y
}

// Slopes returns the slopes of all the segments from left to right.
func (f *Fit) Slopes() []float64 {
	if !f.Converged {
		return nil
	}
	slopes := make([]float64, len(f.Betas)+1)
	slopes[0] = f.Alpha
	for j, b := range f.Betas {
		slopes[j+1] = slopes[j] + b
	}
	return slopes
}

// Summary returns a human readable description of the fit.
func (f *Fit) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "breakpoints=%d n=%d", f.NBreakpoints, f.N)
	if !f.Converged {
		b.WriteString(" not converged")
		return b.String()
	}
	bic, _ := f.BIC()
	fmt.Fprintf(&b, " rss=%g bic=%g davies=%g\n", f.RSS, bic, f.Davies)
	fmt.Fprintf(&b, "const=%g", f.Const)
	for j, psi := range f.Breakpoints {
		fmt.Fprintf(&b, " psi%d=%g", j+1, psi)
	}
	for j, s := range f.Slopes() {
		fmt.Fprintf(&b, " alpha%d=%g", j+1, s)
	}
	return b.String()
}
