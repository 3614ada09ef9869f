package thermal

import "errors"

var (
	// errFitUnderdetermined: fewer curve samples than fit parameters.
	errFitUnderdetermined = errors.New("thermal: impedance curve has too few samples for the requested order")

	// errFitBadCurve: impedance curve carries no usable positive data.
	errFitBadCurve = errors.New("thermal: impedance curve has no positive time/impedance samples")

	// errFitNoConvergence: evaluation budget exhausted before the fit settled.
	errFitNoConvergence = errors.New("thermal: curve fit did not converge within the evaluation budget")
)
