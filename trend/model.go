package trend

import (
	"fmt"
	"math"

	"bitbucket.org/Davydov/joinpoint/dist"
	"bitbucket.org/Davydov/joinpoint/segmented"
)

// Model is a fitted trend. It is either *Segmented or *Linear.
type Model interface {
	Predict(x []float64) []float64
	model()
}

// Segmented is an accepted segmented regression.
type Segmented struct {
	*segmented.Fit
}

func (*Segmented) model() {}

// Linear is an ordinary least squares line.
type Linear struct {
	Intercept float64
	Slope     float64
	// StdErr is the standard error of the slope, NaN for two points.
	StdErr   float64
	RSquared float64
	N        int
}

func (*Linear) model() {}

// Predict evaluates the line.
func (l *Linear) Predict(x []float64) []float64 {
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = l.Intercept + l.Slope*v
	}
	return y
}

func (l *Linear) df() float64 {
	return float64(l.N - 2)
}

// PValue returns the two-sided p-value of the test slope = 0.
func (l *Linear) PValue() float64 {
	if l.N <= 2 || math.IsNaN(l.StdErr) {
		return math.NaN()
	}
	if l.StdErr == 0 {
		if l.Slope == 0 {
			return 1
		}
		return 0
	}
	return dist.PStudentT(l.Slope/l.StdErr, l.df())
}

// SlopeInterval returns the confidence interval of the slope.
func (l *Linear) SlopeInterval(level float64) (lo, hi float64) {
	if l.N <= 2 || math.IsNaN(l.StdErr) {
		return math.NaN(), math.NaN()
	}
	q := dist.QuantileStudentT(1-(1-level)/2, l.df())
	return l.Slope - q*l.StdErr, l.Slope + q*l.StdErr
}

// Summary returns a human readable description of the line.
func (l *Linear) Summary() string {
	lo, hi := l.SlopeInterval(0.95)
	return fmt.Sprintf("n=%d intercept=%g slope=%g (95%% CI %g..%g, p=%g) R2=%g",
		l.N, l.Intercept, l.Slope, lo, hi, l.PValue(), l.RSquared)
}
