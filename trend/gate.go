package trend

import "math"

// SignificanceLevel is the largest Davies p-value for which a
// segmentation is accepted.
const SignificanceLevel = 0.05

// Accept reports whether the Davies test supports a change in slope.
func Accept(m *Segmented) bool {
	if m == nil || m.Fit == nil || math.IsNaN(m.Davies) {
		return false
	}
	return m.Davies <= SignificanceLevel
}
