package optimize

// None is an optimizer which computes initial value and exits.
type None struct {
	BaseOptimizer
}

// NewNone creates an optimizer which computes initial likelihood only.
func NewNone() *None {
	return &None{}
}

// Run computes the likelihood at the starting point.
func (n *None) Run(iterations int) {
	n.reset()
	n.l = n.Likelihood()
	n.calls++
	n.saveMax(n.parameters, n.l)
	n.converged = true
	n.PrintHeader(n.parameters)
	n.PrintLine(n.parameters, n.l)
}
