package optimize

import (
	"math"

	lbfgsb "github.com/idavydov/go-lbfgsb"
)

// LBFGSB wraps the limited-memory BFGS with bounding constraints.
// Gradients are computed numerically.
type LBFGSB struct {
	BaseOptimizer
	dH   float64
	grad []float64
}

func NewLBFGSB() (l *LBFGSB) {
	l = &LBFGSB{
		BaseOptimizer: BaseOptimizer{
			repPeriod: 10,
		},
		dH: 1e-6,
	}
	return
}

func (l *LBFGSB) Logger(info *lbfgsb.OptimizationIterationInformation) {
	l.i = info.Iteration
	if l.i%l.repPeriod == 0 {
		l.PrintLine(l.parameters, -info.F)
	}
}

func (l *LBFGSB) EvaluateFunction(x []float64) float64 {
	if !l.parameters.ValuesInRange(x) {
		return math.Inf(+1)
	}

	l.parameters.SetValues(x)

	L := l.Likelihood()
	l.calls++
	l.saveMax(l.parameters, L)
	return -L
}

func (l *LBFGSB) EvaluateGradient(x []float64) (grad []float64) {
	if l.grad == nil {
		l.grad = make([]float64, len(x))
	}
	grad = l.grad
	for i := range x {
		no1 := l.Optimizable.Copy()
		par1 := no1.GetFloatParameters()
		par1.SetValues(x)
		v := x[i] - l.dH
		par1[i].Set(v)
		l1 := -no1.Likelihood()
		l.calls++

		no2 := no1.Copy()
		par2 := no2.GetFloatParameters()
		v = x[i] + l.dH
		par2[i].Set(v)
		l2 := -no2.Likelihood()
		l.calls++

		grad[i] = (l2 - l1) / 2 / l.dH
	}
	return
}

// Run minimizes the negative likelihood. The number of iterations is
// controlled by the tolerances of the underlying implementation.
func (l *LBFGSB) Run(iterations int) {
	l.reset()
	l.PrintHeader(l.parameters)
	bounds := make([][2]float64, len(l.parameters))

	for i, par := range l.parameters {
		bounds[i][0] = par.GetMin() + 1e-5
		bounds[i][1] = par.GetMax() - 1e-5
	}

	opt := new(lbfgsb.Lbfgsb)
	opt.SetApproximationSize(10)
	opt.SetFTolerance(1e-9)
	opt.SetGTolerance(1e-9)

	opt.SetBounds(bounds)
	opt.SetLogger(l.Logger)

	_, exitStatus := opt.Minimize(l, l.parameters.Values(nil))

	log.Debug("Exit status: ", exitStatus)
	l.converged = exitStatus.Code == lbfgsb.SUCCESS && !math.IsInf(l.maxL, -1)

	if !l.Quiet {
		log.Debugf("Finished LBFGSB, maximum likelihood: %v (%d calls)", l.maxL, l.calls)
	}
	l.PrintFinal(l.parameters)
}
