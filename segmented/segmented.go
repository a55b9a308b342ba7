/*
Package segmented fits continuous piecewise-linear regressions with a
fixed number of breakpoints.

Breakpoints are estimated with the iterative linearisation of Muggeo
(2003): the model

	y = c + alpha*x + sum_j beta_j*(x-psi_j)+

is refitted with extra -I(x>psi_j) columns and every breakpoint is moved
by gamma_j/beta_j until the moves are below the tolerance. Local optima
are escaped with bootstrap restarting (Wood 2001), and the result can be
polished by one of the optimizers from the optimize package.

All the randomness (starting breakpoints and bootstrap samples) is
drawn from the *rand.Rand passed by the caller.
*/
package segmented

import (
	"fmt"

	"github.com/op/go-logging"

	"bitbucket.org/Davydov/joinpoint/optimize"
)

var log = logging.MustGetLogger("segmented")

const (
	// DefaultMinDistance is the default minimal distance between
	// breakpoints as a fraction of the x range.
	DefaultMinDistance = 0.01
	// DefaultMinDistanceToEdge is the default minimal distance
	// between a breakpoint and min(x) or max(x) as a fraction of
	// the x range.
	DefaultMinDistanceToEdge = 0.02
	// DefaultMaxIterations is the default maximal number of Muggeo
	// iterations.
	DefaultMaxIterations = 30
	// DefaultTolerance is the largest breakpoint move for which
	// the Muggeo iteration is considered converged.
	DefaultTolerance = 1e-5
	// DefaultNBoot is the default number of bootstrap restarts.
	DefaultNBoot = 100
	// DefaultIterations is the default number of refinement
	// iterations.
	DefaultIterations = 1000
)

// Methods lists the breakpoint refinement methods.
var Methods = []string{"none", "simplex", "lbfgsb", "bfgs"}

// Settings control a segmented fit.
type Settings struct {
	// MinDistance is the minimal distance between adjacent
	// breakpoints as a fraction of the x range.
	MinDistance float64
	// MinDistanceToEdge is the minimal distance between a
	// breakpoint and the data boundary as a fraction of the x
	// range.
	MinDistanceToEdge float64
	MaxIterations     int
	Tolerance         float64
	// NBoot is the number of bootstrap restarts.
	NBoot int
	// Method is the refinement optimizer (see Methods).
	Method string
	// Iterations is the number of refinement iterations.
	Iterations int
}

// DefaultSettings returns settings with default values.
func DefaultSettings() Settings {
	return Settings{
		MinDistance:       DefaultMinDistance,
		MinDistanceToEdge: DefaultMinDistanceToEdge,
		MaxIterations:     DefaultMaxIterations,
		Tolerance:         DefaultTolerance,
		NBoot:             DefaultNBoot,
		Method:            "none",
		Iterations:        DefaultIterations,
	}
}

// NewOptimizer returns a refinement optimizer by name.
func NewOptimizer(method string) (optimize.Optimizer, error) {
	switch method {
	case "none":
		return optimize.NewNone(), nil
	case "simplex":
		return optimize.NewDS(), nil
	case "lbfgsb":
		return optimize.NewLBFGSB(), nil
	case "bfgs":
		return optimize.NewBFGS(), nil
	}
	return nil, fmt.Errorf("Unknown optimization method: %s", method)
}
