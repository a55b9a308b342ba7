// Package optimize implements maximizers of functions of bounded
// float parameters.
package optimize

import (
	"math"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("optimize")

// Optimizable is a function of float parameters which can be
// maximized.
type Optimizable interface {
	// GetFloatParameters returns parameters bound to the object.
	GetFloatParameters() FloatParameters
	// Likelihood returns the value at the current parameters,
	// -Inf for forbidden values.
	Likelihood() float64
	// Copy returns an independent copy with its own parameters.
	Copy() Optimizable
}

type Optimizer interface {
	SetOptimizable(Optimizable)
	SetReportPeriod(period int)
	Run(iterations int)
	GetMaxL() float64
	GetMaxLParameters() []float64
	Converged() bool
}

type BaseOptimizer struct {
	Optimizable
	parameters FloatParameters
	i          int
	calls      int
	l          float64
	maxL       float64
	maxLPar    []float64
	repPeriod  int
	converged  bool
	Quiet      bool
}

func (o *BaseOptimizer) SetOptimizable(opt Optimizable) {
	o.Optimizable = opt
	o.parameters = opt.GetFloatParameters()
}

func (o *BaseOptimizer) SetReportPeriod(period int) {
	o.repPeriod = period
}

func (o *BaseOptimizer) PrintHeader(par FloatParameters) {
	if !o.Quiet {
		log.Debugf("iteration\tlikelihood\t%s", par.NamesString())
	}
}

func (o *BaseOptimizer) PrintLine(par FloatParameters, l float64) {
	if !o.Quiet {
		log.Debugf("%d\t%f\t%s", o.i, l, par.ValuesString())
	}
}

func (o *BaseOptimizer) PrintFinal(par FloatParameters) {
	if !o.Quiet {
		for _, p := range par {
			log.Debugf("%s=%v", p.Name(), p.Get())
		}
	}
}

// saveMax stores the current point if it is the best seen so far.
func (o *BaseOptimizer) saveMax(par FloatParameters, l float64) {
	if l > o.maxL || o.maxLPar == nil {
		o.maxL = l
		o.maxLPar = par.Values(o.maxLPar)
	}
}

func (o *BaseOptimizer) reset() {
	o.i = 0
	o.calls = 0
	o.maxL = math.Inf(-1)
	o.maxLPar = nil
	o.converged = false
}

func (o *BaseOptimizer) GetMaxL() float64 {
	return o.maxL
}

// GetMaxLParameters returns a copy of the best parameter values.
func (o *BaseOptimizer) GetMaxLParameters() []float64 {
	if o.maxLPar == nil {
		return nil
	}
	return append([]float64(nil), o.maxLPar...)
}

// Converged is true if the last run finished by its stopping
// criterion rather than by exhausting iterations or failing.
func (o *BaseOptimizer) Converged() bool {
	return o.converged
}

// Calls returns the number of likelihood evaluations.
func (o *BaseOptimizer) Calls() int {
	return o.calls
}
