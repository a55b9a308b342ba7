package segmented

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// DaviesK is the number of breakpoint locations evaluated by the
// Davies test.
const DaviesK = 10

// hingeStatistic returns the t statistic of the slope change of a
// single breakpoint at theta.
func hingeStatistic(x, y []float64, theta float64) (float64, error) {
	coef, cov, err := olsCov(designMatrix(x, []float64{theta}, false), y)
	if err != nil {
		return 0, err
	}
	se := math.Sqrt(cov.At(2, 2))
	if se == 0 || math.IsNaN(se) {
		return 0, errors.New("zero standard error")
	}
	return coef[2] / se, nil
}

// DaviesTest returns the two-sided p-value of the Davies (1987) test
// for a change in slope. The statistic is evaluated for k breakpoint
// locations evenly spaced inside (min(x), max(x)) and the p-value is
// the upper bound
//
//	P = Phi(-M) + V*exp(-M^2/2)/sqrt(8*pi)
//
// doubled and capped at 1, where M is the maximal absolute statistic
// and V the total variation of the statistic over the grid.
func DaviesTest(x, y []float64, k int) (float64, error) {
	if len(x) != len(y) {
		return math.NaN(), ErrLength
	}
	if len(x) < 4 {
		return math.NaN(), errors.New("at least four points are required")
	}
	if k < 2 {
		return math.NaN(), errors.New("at least two evaluation points are required")
	}
	lo, hi := floats.Min(x), floats.Max(x)
	stats := make([]float64, k)
	for i := range stats {
		theta := lo + (hi-lo)*float64(i+1)/float64(k+1)
		t, err := hingeStatistic(x, y, theta)
		if err != nil {
			return math.NaN(), err
		}
		stats[i] = t
	}
	m := 0.0
	v := 0.0
	for i, t := range stats {
		m = math.Max(m, math.Abs(t))
		if i > 0 {
			v += math.Abs(t - stats[i-1])
		}
	}
	p := distuv.UnitNormal.CDF(-m) + v*math.Exp(-m*m/2)/math.Sqrt(8*math.Pi)
	return math.Min(1, 2*p), nil
}
