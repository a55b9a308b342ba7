package segmented

import (
	"math/rand"
)

// Summary is the outcome of one candidate of a model selection.
type Summary struct {
	NBreakpoints int
	// BIC is NaN if the fit did not converge.
	BIC       float64
	Converged bool
	fit       *Fit
}

// Fit returns the candidate fit.
func (s Summary) Fit() *Fit {
	return s.fit
}

// ModelSelection fits models with 0 to maxBreakpoints breakpoints.
// All the models draw from one generator seeded with seed, in
// increasing number of breakpoints.
func ModelSelection(x, y []float64, maxBreakpoints int, settings Settings, seed int64) ([]Summary, error) {
	rng := rand.New(rand.NewSource(seed))
	summaries := make([]Summary, 0, maxBreakpoints+1)
	for k := 0; k <= maxBreakpoints; k++ {
		fit, err := NewFit(x, y, k, settings, rng)
		if err != nil {
			return nil, err
		}
		bic, ok := fit.BIC()
		log.Debugf("model selection: %s", fit.Summary())
		summaries = append(summaries, Summary{
			NBreakpoints: k,
			BIC:          bic,
			Converged:    ok,
			fit:          fit,
		})
	}
	return summaries, nil
}

// Replay refits the model with k breakpoints so that it draws exactly
// the random numbers ModelSelection with the same seed drew for it.
// Fits with 1..k-1 breakpoints are recomputed and discarded, which
// makes the result identical to the corresponding ModelSelection
// candidate.
func Replay(x, y []float64, k int, settings Settings, seed int64) (*Fit, error) {
	rng := rand.New(rand.NewSource(seed))
	for i := 1; i < k; i++ {
		if _, err := NewFit(x, y, i, settings, rng); err != nil {
			return nil, err
		}
	}
	return NewFit(x, y, k, settings, rng)
}
