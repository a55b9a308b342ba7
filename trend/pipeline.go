package trend

import (
	"fmt"
)

// Result is the trend of a single series.
type Result struct {
	Selection *Selection
	Model     Model
	Curve     Curve
}

// Name returns "segmented" or "linear".
func (r *Result) Name() string {
	switch r.Model.(type) {
	case *Segmented:
		return "segmented"
	case *Linear:
		return "linear"
	}
	return fmt.Sprintf("%T", r.Model)
}

// FitSeries selects the segmented model of the series, checks its
// significance and falls back to a line when the segmentation is not
// available or not significant.
func FitSeries(x, y []float64, settings Settings, seed int64) (*Result, error) {
	if err := checkSeries(x, y); err != nil {
		return nil, err
	}
	sel, err := Select(x, y, settings, seed)
	if err != nil {
		return nil, err
	}
	res := &Result{Selection: sel}
	if sel.OK() {
		m := &Segmented{sel.Fit}
		if Accept(m) {
			log.Infof("Davies test p=%g, segmented model accepted", m.Davies)
			log.Info(m.Summary())
			res.Model = m
			res.Curve = Evaluate(m, x)
			return res, nil
		}
		log.Infof("Davies test p=%g > %g, using linear regression", m.Davies, SignificanceLevel)
	} else {
		log.Info("Using linear regression")
	}
	l, err := FitLinear(x, y)
	if err != nil {
		return nil, err
	}
	log.Info(l.Summary())
	res.Model = l
	res.Curve = Evaluate(l, x)
	return res, nil
}
