// Package dist implements distribution functions used by the fit
// summaries.
package dist

import (
	"math"

	"github.com/gonum/mathext"
)

/*
CDFBeta returns distribution function of the standard form of the beta
distribution, that is, the incomplete beta ratio I_x(p,q).
*/
func CDFBeta(x, pin, qin float64) float64 {
	return mathext.RegIncBeta(pin, qin, x)
}

/*
QuantileBeta calculates the Quantile of the beta distribution
*/
func QuantileBeta(prob, p, q float64) float64 {
	return mathext.InvRegIncBeta(p, q, prob)
}

// CDFStudentT returns Prob{T<t} where T is Student t distributed
// with df degrees of freedom.
func CDFStudentT(t, df float64) float64 {
	if math.IsInf(t, 0) {
		if t > 0 {
			return 1
		}
		return 0
	}
	tail := 0.5 * CDFBeta(df/(df+t*t), df/2, 0.5)
	if t > 0 {
		return 1 - tail
	}
	return tail
}

// PStudentT returns two-sided p-value of a t statistic.
func PStudentT(t, df float64) float64 {
	if math.IsInf(t, 0) {
		return 0
	}
	return CDFBeta(df/(df+t*t), df/2, 0.5)
}

// QuantileStudentT returns z so that Prob{T<z}=prob where T is
// Student t distributed with df degrees of freedom.
func QuantileStudentT(prob, df float64) float64 {
	switch {
	case prob <= 0:
		return math.Inf(-1)
	case prob >= 1:
		return math.Inf(+1)
	case prob == 0.5:
		return 0
	}
	// the beta quantile covers one tail only
	tail := prob
	if prob > 0.5 {
		tail = 1 - prob
	}
	x := QuantileBeta(2*tail, df/2, 0.5)
	t := math.Sqrt(df * (1 - x) / x)
	if prob < 0.5 {
		return -t
	}
	return t
}
