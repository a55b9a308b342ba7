package trend

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/op/go-logging"

	"bitbucket.org/Davydov/joinpoint/segmented"
)

func init() {
	logging.SetLevel(logging.WARNING, "optimize")
	logging.SetLevel(logging.ERROR, "segmented")
	logging.SetLevel(logging.WARNING, "trend")
}

// months returns -n, ..., -1.
func months(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i - n)
	}
	return x
}

// twoBreakpoints has slopes 1, -1 and 0.5 with breakpoints at -40 and
// -20.
func twoBreakpoints(x []float64, sd float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 10 + v - 2*math.Max(v+40, 0) + 1.5*math.Max(v+20, 0) + rng.NormFloat64()*sd
	}
	return y
}

func line(x []float64, sd float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 3 + 0.05*v + rng.NormFloat64()*sd
	}
	return y
}

func fastSettings() Settings {
	s := DefaultSettings()
	s.Segmented.NBoot = 20
	return s
}

func TestDefaultSettings(tst *testing.T) {
	s := DefaultSettings()
	if s.MaxBreakpoints != 3 || s.Segmented.MinDistance != 0.1 {
		tst.Error("Wrong defaults:", s)
	}
	if s.Segmented.NBoot != segmented.DefaultNBoot {
		tst.Error("Wrong number of bootstrap restarts:", s.Segmented.NBoot)
	}
}

func TestSelectTwoBreakpoints(tst *testing.T) {
	x := months(60)
	y := twoBreakpoints(x, 0.1, 1)
	sel, err := Select(x, y, fastSettings(), 42)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if len(sel.Candidates) != 4 {
		tst.Error("Expected 4 candidates, got", len(sel.Candidates))
	}
	if !sel.OK() || sel.K != 2 {
		tst.Fatal("Expected 2 breakpoints, got", sel.K)
	}
	if !reflect.DeepEqual(sel.Fit, sel.Candidates[2].Fit()) {
		tst.Error("Replayed fit differs from the search")
	}
}

func TestFitSeriesSegmented(tst *testing.T) {
	x := months(60)
	y := twoBreakpoints(x, 0.1, 2)
	res, err := FitSeries(x, y, fastSettings(), 42)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	m, ok := res.Model.(*Segmented)
	if !ok {
		tst.Fatal("Expected a segmented model, got", res.Name())
	}
	if m.NBreakpoints != 2 {
		tst.Error("Expected 2 breakpoints, got", m.NBreakpoints)
	}
	if res.Curve.Len() != CurvePoints {
		tst.Error("Wrong number of curve points:", res.Curve.Len())
	}
	if res.Curve.X[0] != -60 || res.Curve.X[CurvePoints-1] != -1 {
		tst.Error("Wrong curve range:", res.Curve.X[0], res.Curve.X[CurvePoints-1])
	}
}

func TestFitSeriesDeterministic(tst *testing.T) {
	x := months(60)
	y := twoBreakpoints(x, 1, 3)
	r1, err := FitSeries(x, y, fastSettings(), 5)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	r2, err := FitSeries(x, y, fastSettings(), 5)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if !reflect.DeepEqual(r1.Curve, r2.Curve) {
		tst.Error("Curves differ")
	}
	if !reflect.DeepEqual(r1.Selection.Candidates, r2.Selection.Candidates) {
		tst.Error("Candidates differ")
	}
}

func TestFallback(tst *testing.T) {
	x := months(60)
	settings := fastSettings()
	settings.Segmented.NBoot = 10
	draws := 20
	linear := 0
	for i := 0; i < draws; i++ {
		res, err := FitSeries(x, line(x, 0.5, int64(i)), settings, int64(i))
		if err != nil {
			tst.Fatal("Error: ", err)
		}
		if _, ok := res.Model.(*Linear); ok {
			linear++
			if res.Curve.Len() != len(x) {
				tst.Error("Linear curve should have a point per observation")
			}
		}
	}
	if linear < 17 {
		tst.Errorf("Too few linear fallbacks: %d/%d", linear, draws)
	}
}

func TestAccept(tst *testing.T) {
	if Accept(nil) {
		tst.Error("nil model accepted")
	}
	for _, c := range []struct {
		p        float64
		expected bool
	}{
		{0.001, true},
		{SignificanceLevel, true},
		{0.051, false},
		{1, false},
		{math.NaN(), false},
	} {
		m := &Segmented{&segmented.Fit{NBreakpoints: 1, Converged: true, Davies: c.p}}
		if r := Accept(m); r != c.expected {
			tst.Errorf("Accept(p=%v) = %v", c.p, r)
		}
	}
}

func TestFitLinear(tst *testing.T) {
	x := []float64{3, 1, 2, 5, 4}
	y := []float64{7, 3, 5, 11, 9}
	l, err := FitLinear(x, y)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if math.Abs(l.Intercept-1) > 1e-9 || math.Abs(l.Slope-2) > 1e-9 {
		tst.Error("Wrong line:", l.Intercept, l.Slope)
	}
	if math.Abs(l.RSquared-1) > 1e-9 {
		tst.Error("Expected R2 = 1, got", l.RSquared)
	}
	if p := l.PValue(); p > 1e-10 {
		tst.Error("Expected p = 0 for an exact fit, got", p)
	}
	c := Evaluate(l, x)
	if !reflect.DeepEqual(c.X, x) {
		tst.Error("Linear curve should keep the order of x")
	}
	for i := range y {
		if math.Abs(c.Y[i]-y[i]) > 1e-9 {
			tst.Error("Wrong prediction:", c.Y)
			break
		}
	}
}

func TestLinearPValue(tst *testing.T) {
	x := months(60)
	l, err := FitLinear(x, line(x, 0.1, 7))
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if p := l.PValue(); p > 1e-6 {
		tst.Error("Expected a significant slope, got p =", p)
	}
	lo, hi := l.SlopeInterval(0.95)
	if lo > 0.05 || hi < 0.05 {
		tst.Error("Slope interval does not contain the slope:", lo, hi)
	}
}

func TestDegenerate(tst *testing.T) {
	for _, s := range []struct {
		x, y []float64
	}{
		{[]float64{}, []float64{}},
		{[]float64{-1}, []float64{2}},
		{[]float64{-3, -3, -3}, []float64{1, 2, 3}},
	} {
		_, err := FitSeries(s.x, s.y, fastSettings(), 1)
		var derr *DegenerateInputError
		if !errors.As(err, &derr) {
			tst.Error("Expected DegenerateInputError, got", err)
		}
		if _, err := FitLinear(s.x, s.y); !errors.As(err, &derr) {
			tst.Error("Expected DegenerateInputError from FitLinear, got", err)
		}
	}
	if _, err := FitSeries([]float64{1, 2}, []float64{1}, fastSettings(), 1); err == nil {
		tst.Error("Expected an error for different lengths")
	}
}

func TestTwoPoints(tst *testing.T) {
	res, err := FitSeries([]float64{-2, -1}, []float64{1, 3}, fastSettings(), 1)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	l, ok := res.Model.(*Linear)
	if !ok {
		tst.Fatal("Expected a line, got", res.Name())
	}
	if math.Abs(l.Slope-2) > 1e-9 {
		tst.Error("Wrong slope:", l.Slope)
	}
	if !math.IsNaN(l.PValue()) {
		tst.Error("Expected undefined p-value for two points")
	}
}
