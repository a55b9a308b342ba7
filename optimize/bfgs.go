package optimize

import (
	"math"

	opt "gonum.org/v1/gonum/optimize"
)

// BFGS is the gonum quasi-Newton minimizer applied to the negative
// likelihood with numerical gradients.
type BFGS struct {
	BaseOptimizer
	dH float64
}

func NewBFGS() (bfgs *BFGS) {
	bfgs = &BFGS{
		BaseOptimizer: BaseOptimizer{
			repPeriod: 10,
		},
		dH: 1e-6,
	}
	return
}

func (b *BFGS) Init() error {
	return nil
}

func (b *BFGS) Record(l *opt.Location, op opt.Operation, s *opt.Stats) error {
	if op == opt.MajorIteration {
		b.i = s.MajorIterations
		if b.i%b.repPeriod == 0 {
			b.parameters.SetValues(l.X)
			b.PrintLine(b.parameters, -l.F)
		}
	}
	return nil
}

func (b *BFGS) Func(x []float64) float64 {
	if !b.parameters.ValuesInRange(x) {
		return math.Inf(+1)
	}

	b.parameters.SetValues(x)

	l := b.Likelihood()
	b.calls++
	b.saveMax(b.parameters, l)
	return -l
}

func (b *BFGS) Grad(grad, x []float64) {
	if !b.parameters.ValuesInRange(x) {
		for i := range grad {
			grad[i] = 0
		}
		return
	}
	no1 := b.Optimizable.Copy()
	par1 := no1.GetFloatParameters()
	par1.SetValues(x)
	l1 := -no1.Likelihood()
	for i := range x {
		no2 := no1.Copy()
		par2 := no2.GetFloatParameters()
		v := x[i] + b.dH
		if !par2[i].ValueInRange(v) {
			v = x[i] - b.dH
		}
		par2[i].Set(v)
		l2 := -no2.Likelihood()
		grad[i] = (l2 - l1) / (v - x[i])
	}
}

func (b *BFGS) Run(iterations int) {
	b.reset()
	b.PrintHeader(b.parameters)
	settings := &opt.Settings{
		MajorIterations:   iterations,
		GradientThreshold: 1e-6,
		Recorder:          b,
	}
	problem := opt.Problem{
		Func: b.Func,
		Grad: b.Grad,
	}

	res, err := opt.Minimize(problem, b.parameters.Values(nil), settings, &opt.BFGS{})

	if err != nil {
		log.Debug("Optimization error: ", err)
	}
	if res != nil {
		switch res.Status {
		case opt.Success, opt.FunctionConvergence, opt.GradientThreshold, opt.StepConvergence, opt.MethodConverge:
			b.converged = !math.IsInf(b.maxL, -1)
		}
	}

	if !b.Quiet {
		log.Debugf("Finished BFGS, maximum likelihood: %v (%d calls)", b.maxL, b.calls)
	}
	b.PrintFinal(b.parameters)
}
