package synth

import (
	"errors"
	"fmt"
)

// ErrUnpaired indicates the two datasets do not form a synthesis pair:
// a graph_i_e and a graph_r_e sharing (t_j, v_g, v_supply).
var ErrUnpaired = errors.New("synth: datasets are not a paired graph_i_e/graph_r_e combination")

// OutOfRangeError means the requested gate resistance lies beyond the
// measured r_e domain. Synthesis fails closed; it never extrapolates.
type OutOfRangeError struct {
	RG    float64
	RGMax float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("synth: r_g = %g Ohm exceeds the measured range, r_g_max = %g Ohm", e.RG, e.RGMax)
}
