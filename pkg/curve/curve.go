// Package curve holds the 2-D ordered-pair curve primitive shared by all
// measured datasets (channel V-I, switching energy, thermal impedance).
package curve

import "math"

// XY is a measured curve stored as two equal-length ordered sequences.
// X is expected to be ascending for interpolation.
type XY struct {
	X []float64
	Y []float64
}

// FromRows builds an XY from a (2, n) row matrix: rows[0] is the x-axis,
// rows[1] the y-axis.
func FromRows(rows [][]float64) (XY, error) {
	if len(rows) != 2 {
		return XY{}, ErrShape
	}
	if len(rows[0]) != len(rows[1]) {
		return XY{}, ErrShape
	}
	if len(rows[0]) < 2 {
		return XY{}, ErrTooShort
	}
	c := XY{
		X: append([]float64(nil), rows[0]...),
		Y: append([]float64(nil), rows[1]...),
	}
	return c, nil
}

// Rows returns the curve as a (2, n) row matrix, the storage-layer shape.
func (c XY) Rows() [][]float64 {
	return [][]float64{
		append([]float64(nil), c.X...),
		append([]float64(nil), c.Y...),
	}
}

func (c XY) Len() int { return len(c.X) }

func (c XY) Clone() XY {
	return XY{
		X: append([]float64(nil), c.X...),
		Y: append([]float64(nil), c.Y...),
	}
}

func (c XY) MinX() float64 {
	min := math.Inf(1)
	for _, x := range c.X {
		if x < min {
			min = x
		}
	}
	return min
}

func (c XY) MaxX() float64 {
	max := math.Inf(-1)
	for _, x := range c.X {
		if x > max {
			max = x
		}
	}
	return max
}

func (c XY) MaxY() float64 {
	max := math.Inf(-1)
	for _, y := range c.Y {
		if y > max {
			max = y
		}
	}
	return max
}

// Interp linearly interpolates the curve at x. Queries outside the measured
// domain clamp to the boundary samples, never extrapolate.
func (c XY) Interp(x float64) float64 {
	n := len(c.X)
	if n == 0 {
		return math.NaN()
	}
	if x <= c.X[0] {
		return c.Y[0]
	}
	if x >= c.X[n-1] {
		return c.Y[n-1]
	}
	for i := 1; i < n; i++ {
		if x <= c.X[i] {
			x0, x1 := c.X[i-1], c.X[i]
			y0, y1 := c.Y[i-1], c.Y[i]
			if x1 == x0 {
				return y0
			}
			return y0 + (y1-y0)*(x-x0)/(x1-x0)
		}
	}
	return c.Y[n-1]
}

// ScaleY returns a copy with every y-value multiplied by f.
func (c XY) ScaleY(f float64) XY {
	out := c.Clone()
	for i := range out.Y {
		out.Y[i] *= f
	}
	return out
}

func (c XY) Equal(o XY) bool {
	if len(c.X) != len(o.X) || len(c.Y) != len(o.Y) {
		return false
	}
	for i := range c.X {
		if c.X[i] != o.X[i] || c.Y[i] != o.Y[i] {
			return false
		}
	}
	return true
}

// HasNegative reports whether any sample on either axis is negative.
func (c XY) HasNegative() bool {
	for i := range c.X {
		if c.X[i] < 0 || c.Y[i] < 0 {
			return true
		}
	}
	return false
}

// Mirror prepends the negated, reversed curve, producing the third-quadrant
// characteristic of a first-quadrant channel measurement. Zero samples are
// not duplicated.
func Mirror(c XY) XY {
	var xs, ys []float64
	for i := c.Len() - 1; i >= 0; i-- {
		if c.X[i] == 0 && c.Y[i] == 0 {
			continue
		}
		xs = append(xs, -c.X[i])
		ys = append(ys, -c.Y[i])
	}
	return XY{
		X: append(xs, c.X...),
		Y: append(ys, c.Y...),
	}
}
