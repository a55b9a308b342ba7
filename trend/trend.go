/*
Package trend decides how a series is described: by a segmented
regression with one to three breakpoints or, when segmentation is not
supported by the data, by a straight line.

A series goes through three stages. Select fits all the candidate
breakpoint counts and picks the one with the lowest BIC, Accept checks
the Davies test of the chosen fit and FitLinear is the fallback. Evaluate
turns the resulting Model into a curve for plotting. FitSeries runs the
whole chain.
*/
package trend

import (
	"github.com/op/go-logging"

	"bitbucket.org/Davydov/joinpoint/segmented"
)

var log = logging.MustGetLogger("trend")

const (
	// DefaultMaxBreakpoints is the largest breakpoint count tried.
	DefaultMaxBreakpoints = 3
	// DefaultMinDistance is the minimal distance between breakpoints
	// as a fraction of the x range.
	DefaultMinDistance = 0.1
)

// Settings control the model selection.
type Settings struct {
	MaxBreakpoints int
	Segmented      segmented.Settings
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := segmented.DefaultSettings()
	s.MinDistance = DefaultMinDistance
	return Settings{
		MaxBreakpoints: DefaultMaxBreakpoints,
		Segmented:      s,
	}
}
