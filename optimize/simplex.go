package optimize

import (
	"math"
)

const (
	TINY  = 1e-10
	SMALL = 1e-6
)

// DS is the downhill simplex (Nelder-Mead) maximizer.
type DS struct {
	BaseOptimizer
	delta  float64
	ftol   float64
	repeat bool
	oldL   float64
	points []Optimizable
	psum   []float64
	pars   []FloatParameters
	ls     []float64
	newOpt Optimizable
	newPar FloatParameters
}

func NewDS() (ds *DS) {
	ds = &DS{
		delta: 1,
		ftol:  TINY,
	}
	ds.repPeriod = 10
	return
}

// SetDelta sets the initial simplex edge length.
func (ds *DS) SetDelta(delta float64) {
	ds.delta = delta
}

func (ds *DS) createSimplex(opt Optimizable, delta float64) {
	parameters := opt.GetFloatParameters()
	ds.points = make([]Optimizable, len(parameters)+1)
	ds.pars = make([]FloatParameters, len(ds.points))
	ds.ls = make([]float64, len(ds.points))
	ds.points[0] = opt
	ds.pars[0] = parameters
	for i := 1; i < len(ds.points); i++ {
		point := opt.Copy()
		ds.points[i] = point
		ds.pars[i] = point.GetFloatParameters()
	}
	for i := 0; i < len(parameters); i++ {
		parameter := ds.pars[i+1][i]
		parameter.Set(parameter.Get() + delta)
	}
	for i := range ds.points {
		ds.ls[i] = ds.evaluate(i)
	}
	ds.newOpt = nil
}

func (ds *DS) evaluate(i int) float64 {
	if !ds.pars[i].InRange() {
		return math.Inf(-1)
	}
	ds.calls++
	return ds.points[i].Likelihood()
}

// amotry extrapolates by factor fac throught the face of the simplex accros from
// the low point, tries it, and replaces the low point if the new point is better.
func (ds *DS) amotry(ilo int, fac float64) float64 {
	if ds.newOpt == nil {
		ds.newOpt = ds.points[0].Copy()
		ds.newPar = ds.newOpt.GetFloatParameters()
	}
	ds.calcPsum()
	ndim := len(ds.newPar)
	fac1 := (1 - fac) / float64(ndim)
	fac2 := fac1 - fac
	for j := 0; j < ndim; j++ {
		ds.newPar[j].Set(ds.psum[j]*fac1 - ds.pars[ilo][j].Get()*fac2)
	}
	var l float64
	if ds.newPar.InRange() {
		l = ds.newOpt.Likelihood()
		ds.calls++
	} else {
		l = math.Inf(-1)
	}
	if l > ds.ls[ilo] {
		ds.points[ilo], ds.newOpt = ds.newOpt, ds.points[ilo]
		ds.pars[ilo], ds.newPar = ds.newPar, ds.pars[ilo]
		ds.ls[ilo] = l
	}
	return l
}

func (ds *DS) calcPsum() {
	ds.psum = make([]float64, len(ds.pars[0]))
	for i := range ds.psum {
		for _, parameters := range ds.pars {
			ds.psum[i] += parameters[i].Get()
		}
	}
}

func (ds *DS) SetOptimizable(opt Optimizable) {
	ds.BaseOptimizer.SetOptimizable(opt)
	ds.createSimplex(opt, ds.delta)
}

func (ds *DS) Run(iterations int) {
	// Lowest (worst), next-lowest and highest points
	var ilo, inlo, ihi int
	var llo, lnlo, lhi float64
	ds.reset()
	ds.repeat = false
	ds.PrintHeader(ds.pars[0])
	if len(ds.points) < 2 {
		// nothing to optimize
		ds.l = ds.ls[0]
		ds.saveMax(ds.pars[0], ds.l)
		ds.converged = true
		return
	}
Iter:
	for ds.i = 1; ds.i <= iterations; ds.i++ {
		if ds.ls[0] < ds.ls[1] {
			ilo = 0
			inlo = 1
			ihi = 1
		} else {
			ilo = 1
			inlo = 0
			ihi = 0
		}
		llo = ds.ls[ilo]
		lnlo = ds.ls[inlo]
		lhi = ds.ls[ihi]
		for i := 2; i < len(ds.points); i++ {
			if ds.ls[i] >= lhi {
				lhi = ds.ls[i]
				ihi = i
			}
			if ds.ls[i] < llo {
				lnlo = llo
				inlo = ilo
				llo = ds.ls[i]
				ilo = i
			} else if ds.ls[i] < lnlo {
				lnlo = ds.ls[i]
				inlo = i
			}
		}
		ds.saveMax(ds.pars[ihi], lhi)
		ds.l = lhi
		if ds.i%ds.repPeriod == 0 {
			ds.PrintLine(ds.pars[ihi], lhi)
		}
		if math.IsInf(lhi, -1) {
			log.Debug("simplex has no admissible points")
			break Iter
		}
		rtol := 2 * math.Abs(ds.ls[ihi]-ds.ls[ilo]) / (math.Abs(ds.ls[ilo]) + math.Abs(ds.ls[ihi]) + TINY)
		if rtol < ds.ftol {
			if ds.repeat && math.Abs(ds.oldL-lhi) < SMALL {
				ds.converged = true
				break Iter
			} else {
				ds.repeat = true
				ds.oldL = lhi
				log.Debug("converged. retrying")
				ds.createSimplex(ds.points[ihi], ds.delta)
				continue
			}
		}
		l := ds.amotry(ilo, -1)
		switch {
		case l >= lhi:
			ds.amotry(ilo, 2)
		case l <= lnlo:
			lsave := llo
			l := ds.amotry(ilo, 0.5)
			if l <= lsave {
				for i := range ds.points {
					if i != ihi {
						for j := range ds.pars[i] {
							ds.pars[i][j].Set(0.5 * (ds.pars[i][j].Get() + ds.pars[ihi][j].Get()))
						}
						ds.ls[i] = ds.evaluate(i)
					}
				}
			}
		}
	}
	if !ds.converged {
		log.Debugf("Simplex did not converge (%d iterations)", iterations)
	}

	log.Debugf("Finished downhill simplex, maximum likelihood: %v", ds.maxL)
	ds.PrintFinal(ds.pars[ihi])
}
