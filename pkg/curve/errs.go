package curve

import "errors"

var (
	// ErrShape indicates input data was not a (2, n) matrix of equal-length rows.
	ErrShape = errors.New("curve: data must be two equal-length rows")

	// ErrTooShort indicates a curve with fewer than two samples.
	ErrTooShort = errors.New("curve: need at least two samples")
)
