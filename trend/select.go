package trend

import (
	"bitbucket.org/Davydov/joinpoint/segmented"
)

// Selection is the result of the breakpoint count search.
type Selection struct {
	// Candidates contains one summary for every breakpoint count
	// from 0 to the maximum.
	Candidates []segmented.Summary
	// K is the chosen breakpoint count, 0 if no segmentation is
	// available.
	K int
	// Fit is the replayed fit with K breakpoints.
	Fit *segmented.Fit
}

// OK reports whether a segmentation was chosen.
func (s *Selection) OK() bool {
	return s.Fit != nil
}

// Select fits segmented regressions with 0 to settings.MaxBreakpoints
// breakpoints and chooses the count with the lowest BIC. The model
// without breakpoints is never chosen; ties go to the smallest count.
// The chosen fit is reproduced by replaying the search from seed.
func Select(x, y []float64, settings Settings, seed int64) (*Selection, error) {
	candidates, err := segmented.ModelSelection(x, y, settings.MaxBreakpoints, settings.Segmented, seed)
	if err != nil {
		return nil, err
	}
	sel := &Selection{Candidates: candidates}
	var best float64
	for _, c := range candidates {
		if c.Converged {
			log.Infof("%d breakpoint(s): BIC=%g", c.NBreakpoints, c.BIC)
		} else {
			log.Infof("%d breakpoint(s): not converged", c.NBreakpoints)
		}
		if c.NBreakpoints == 0 || !c.Converged {
			continue
		}
		if sel.K == 0 || c.BIC < best {
			sel.K = c.NBreakpoints
			best = c.BIC
		}
	}
	if sel.K == 0 {
		log.Info("No segmentation available")
		return sel, nil
	}
	log.Infof("Best number of breakpoints: %d", sel.K)
	sel.Fit, err = segmented.Replay(x, y, sel.K, settings.Segmented, seed)
	if err != nil {
		return nil, err
	}
	return sel, nil
}
