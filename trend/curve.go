package trend

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// CurvePoints is the number of points of a segmented curve.
const CurvePoints = 100

// Curve is a prediction curve.
type Curve struct {
	X, Y []float64
}

// Len returns the number of points.
func (c Curve) Len() int {
	return len(c.X)
}

// XY returns the i-th point.
func (c Curve) XY(i int) (x, y float64) {
	return c.X[i], c.Y[i]
}

// Evaluate returns the curve of the model over x. A line is evaluated at
// x itself, a segmented fit at CurvePoints evenly spaced points between
// min(x) and max(x).
func Evaluate(m Model, x []float64) Curve {
	var cx []float64
	switch m := m.(type) {
	case *Linear:
		cx = append([]float64(nil), x...)
	case *Segmented:
		cx = floats.Span(make([]float64, CurvePoints), floats.Min(x), floats.Max(x))
	default:
		panic(fmt.Sprintf("unknown model type %T", m))
	}
	return Curve{X: cx, Y: m.Predict(cx)}
}
