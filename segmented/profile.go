package segmented

import (
	"fmt"
	"math"
	"sort"

	"bitbucket.org/Davydov/joinpoint/optimize"
)

// profile is the profile log-likelihood of the breakpoint locations,
// i.e. the likelihood maximized over the linear coefficients.
type profile struct {
	f          *fitter
	psi        []float64
	parameters optimize.FloatParameters
}

func newProfile(f *fitter, psi []float64) *profile {
	p := &profile{
		f:   f,
		psi: append([]float64(nil), psi...),
	}
	for i := range p.psi {
		par := optimize.NewBasicFloatParameter(&p.psi[i], fmt.Sprintf("breakpoint%d", i+1))
		par.SetMin(f.lo)
		par.SetMax(f.hi)
		p.parameters.Append(par)
	}
	return p
}

func (p *profile) GetFloatParameters() optimize.FloatParameters {
	return p.parameters
}

func (p *profile) Copy() optimize.Optimizable {
	return newProfile(p.f, p.psi)
}

func (p *profile) Likelihood() float64 {
	psi := append([]float64(nil), p.psi...)
	sort.Float64s(psi)
	if !p.f.valid(psi) {
		return math.Inf(-1)
	}
	_, rss, err := ols(designMatrix(p.f.x, psi, false), p.f.y)
	if err != nil {
		return math.Inf(-1)
	}
	n := float64(len(p.f.y))
	return -n / 2 * math.Log(math.Max(rss, 1e-300)/n)
}

// refine polishes breakpoints with the configured optimizer. The
// estimate is replaced only if the optimizer converged to admissible
// breakpoints with a lower RSS.
func (f *fitter) refine(est *estimate) (*estimate, error) {
	o, err := NewOptimizer(f.settings.Method)
	if err != nil {
		return nil, err
	}
	if ds, ok := o.(*optimize.DS); ok {
		ds.SetDelta(0.05 * (f.hi - f.lo))
	}
	o.SetOptimizable(newProfile(f, est.breakpoints))
	o.Run(f.settings.Iterations)
	if !o.Converged() {
		log.Debugf("%s refinement did not converge", f.settings.Method)
		return est, nil
	}
	psi := o.GetMaxLParameters()
	sort.Float64s(psi)
	if !f.valid(psi) {
		return est, nil
	}
	r, err := f.estimateAt(f.x, f.y, psi)
	if err != nil || r.rss >= est.rss {
		return est, nil
	}
	log.Debugf("%s refinement: RSS %g -> %g", f.settings.Method, est.rss, r.rss)
	return r, nil
}
