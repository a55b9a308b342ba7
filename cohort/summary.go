package cohort

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Summary describes the y values of a series.
type Summary struct {
	N                     int
	Mean, SD, Min, Max    float64
	FirstMonth, LastMonth float64
}

// Summarize computes the summary of a series.
func Summarize(s Series) (Summary, error) {
	sum := Summary{N: s.Len()}
	if sum.N == 0 {
		return sum, stats.ErrEmptyInput
	}
	var err error
	if sum.Mean, err = stats.Mean(s.Y); err != nil {
		return sum, err
	}
	if sum.N > 1 {
		if sum.SD, err = stats.StandardDeviationSample(s.Y); err != nil {
			return sum, err
		}
	}
	if sum.Min, err = stats.Min(s.Y); err != nil {
		return sum, err
	}
	if sum.Max, err = stats.Max(s.Y); err != nil {
		return sum, err
	}
	if sum.FirstMonth, err = stats.Min(s.X); err != nil {
		return sum, err
	}
	if sum.LastMonth, err = stats.Max(s.X); err != nil {
		return sum, err
	}
	return sum, nil
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d months %g..%g mean=%.4g sd=%.4g range=%.4g..%.4g",
		s.N, s.FirstMonth, s.LastMonth, s.Mean, s.SD, s.Min, s.Max)
}
