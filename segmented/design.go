package segmented

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var errUnderdetermined = errors.New("fewer observations than coefficients")

// hinge returns (x-psi)+.
func hinge(x, psi float64) float64 {
	if x > psi {
		return x - psi
	}
	return 0
}

// designMatrix returns the matrix with columns 1, x, (x-psi_j)+ and,
// if withSteps is set, -I(x>psi_j).
func designMatrix(x, psi []float64, withSteps bool) *mat.Dense {
	cols := 2 + len(psi)
	if withSteps {
		cols += len(psi)
	}
	a := mat.NewDense(len(x), cols, nil)
	for i, v := range x {
		a.Set(i, 0, 1)
		a.Set(i, 1, v)
		for j, p := range psi {
			a.Set(i, 2+j, hinge(v, p))
			if withSteps && v > p {
				a.Set(i, 2+len(psi)+j, -1)
			}
		}
	}
	return a
}

// ols returns the least squares coefficients and the residual sum of
// squares.
func ols(a *mat.Dense, y []float64) (coef []float64, rss float64, err error) {
	r, c := a.Dims()
	if r < c {
		return nil, 0, errUnderdetermined
	}
	var qr mat.QR
	qr.Factorize(a)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, mat.NewVecDense(len(y), y)); err != nil {
		return nil, 0, err
	}
	coef = make([]float64, c)
	for i := range coef {
		coef[i] = beta.AtVec(i)
	}
	var fitted mat.VecDense
	fitted.MulVec(a, &beta)
	for i, v := range y {
		d := v - fitted.AtVec(i)
		rss += d * d
	}
	return coef, rss, nil
}

// olsCov returns the least squares coefficients and their covariance
// matrix.
func olsCov(a *mat.Dense, y []float64) (coef []float64, cov *mat.Dense, err error) {
	coef, rss, err := ols(a, y)
	if err != nil {
		return nil, nil, err
	}
	r, c := a.Dims()
	if r <= c {
		return nil, nil, errUnderdetermined
	}
	var xtx mat.Dense
	xtx.Mul(a.T(), a)
	cov = &mat.Dense{}
	if err := cov.Inverse(&xtx); err != nil {
		return nil, nil, err
	}
	cov.Scale(rss/float64(r-c), cov)
	return coef, cov, nil
}
