package trend

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DegenerateInputError is returned for series that cannot be fitted:
// less than two points or a single x value.
type DegenerateInputError struct {
	N      int
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate series (%d points): %s", e.N, e.Reason)
}

// checkSeries validates a series before fitting.
func checkSeries(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("x and y lengths differ: %d != %d", len(x), len(y))
	}
	if len(x) < 2 {
		return &DegenerateInputError{N: len(x), Reason: "less than two points"}
	}
	if floats.Min(x) == floats.Max(x) {
		return &DegenerateInputError{N: len(x), Reason: "all x values are identical"}
	}
	return nil
}

// FitLinear fits y = intercept + slope*x by least squares.
func FitLinear(x, y []float64) (*Linear, error) {
	if err := checkSeries(x, y); err != nil {
		return nil, err
	}
	intercept, slope := stat.LinearRegression(x, y, nil, false)
	l := &Linear{
		Intercept: intercept,
		Slope:     slope,
		RSquared:  stat.RSquared(x, y, nil, intercept, slope),
		N:         len(x),
		StdErr:    math.NaN(),
	}
	if l.N > 2 {
		mx := stat.Mean(x, nil)
		sxx := 0.0
		for _, v := range x {
			sxx += (v - mx) * (v - mx)
		}
		rss := 0.0
		for i, v := range l.Predict(x) {
			rss += (y[i] - v) * (y[i] - v)
		}
		l.StdErr = math.Sqrt(rss / float64(l.N-2) / sxx)
	}
	return l, nil
}
