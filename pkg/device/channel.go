package device

import "github.com/voltlab/devcurve/pkg/curve"

// ChannelData is one measured V-I channel curve at a fixed junction
// temperature and (optional) gate voltage.
type ChannelData struct {
	TJ    float64  // degC
	VG    *float64 // V, nil for gate-independent body diodes
	Graph curve.XY // (V, A)
}

// Gate returns the curve's gate voltage, treating an absent one as 0.
func (c ChannelData) Gate() float64 { return Gate(c.VG) }

// Linearize returns the small-signal model (v0, r) of the channel around
// iChannel. Devices with pure resistive behaviour (no forward voltage)
// pass ohmic=true: v0 is then 0 and r the chordal resistance. Otherwise
// the slope is taken between iChannel and 90 % of it.
func (c ChannelData) Linearize(iChannel float64, ohmic bool) (v0, r float64) {
	// interpolate on the inverted curve: current is the abscissa here
	inv := curve.XY{X: c.Graph.Y, Y: c.Graph.X}
	v := inv.Interp(iChannel)
	if ohmic {
		return 0, v / iChannel
	}
	v2 := inv.Interp(iChannel * 0.9)
	r = (v - v2) / (0.1 * iChannel)
	v0 = v - r*iChannel
	return v0, r
}

// Equal compares two channel curves elementwise.
func (c ChannelData) Equal(o ChannelData) bool {
	if c.TJ != o.TJ {
		return false
	}
	if (c.VG == nil) != (o.VG == nil) {
		return false
	}
	if c.VG != nil && *c.VG != *o.VG {
		return false
	}
	return c.Graph.Equal(o.Graph)
}
