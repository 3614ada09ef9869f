// Package resolve finds the stored dataset nearest to a requested
// operating point. Temperature and gate voltage are folded into one
// normalized 2-D metric; a configurable ratio says how many degrees
// Celsius weigh as much as one volt.
package resolve

import (
	"log/slog"
	"math"

	"github.com/voltlab/devcurve/pkg/device"
)

// DefaultTempToVolt is the default normalization ratio: 10 degC counts
// as much as 1 V of gate-voltage distance.
const DefaultTempToVolt = 10.0

// Query is a requested operating point for nearest-neighbour search.
type Query struct {
	TJ         float64 // degC
	VG         float64 // V
	TempToVolt float64 // normalization ratio, DefaultTempToVolt when <= 0
}

func (q Query) ratio() float64 {
	if q.TempToVolt <= 0 {
		return DefaultTempToVolt
	}
	return q.TempToVolt
}

func (q Query) distance(tj, vg float64) float64 {
	r := q.ratio()
	return math.Hypot(q.TJ/r-tj/r, q.VG-vg)
}

// nearest returns the index of the candidate minimizing the normalized
// Euclidean distance. Ties break to the first occurrence in stored
// order; that policy is arbitrary but deterministic, and preserved for
// compatibility with existing datasets.
func nearest(q Query, n int, at func(int) (tj, vg float64)) (idx int, dist float64) {
	best := math.Inf(1)
	idx = -1
	for i := 0; i < n; i++ {
		tj, vg := at(i)
		if d := q.distance(tj, vg); d < best {
			best, idx = d, i
		}
	}
	return idx, best
}

// Channel returns the stored channel curve nearest to the query.
func Channel(curves []device.ChannelData, q Query) (device.ChannelData, error) {
	if len(curves) == 0 {
		return device.ChannelData{}, &NoCandidateError{Kind: "channel"}
	}
	idx, dist := nearest(q, len(curves), func(i int) (float64, float64) {
		return curves[i].TJ, curves[i].Gate()
	})
	c := curves[idx]
	if dist > 0 {
		slog.Debug("resolve: nearest channel curve substituted",
			"t_j", q.TJ, "v_g", q.VG, "got_t_j", c.TJ, "got_v_g", c.Gate(), "distance", dist)
	}
	return c, nil
}

// ChannelByTemperature resolves a channel curve on junction temperature
// alone, for body diodes without gate dependency.
func ChannelByTemperature(curves []device.ChannelData, tj float64) (device.ChannelData, error) {
	if len(curves) == 0 {
		return device.ChannelData{}, &NoCandidateError{Kind: "channel"}
	}
	best := math.Inf(1)
	idx := -1
	for i, c := range curves {
		if d := math.Abs(tj - c.TJ); d < best {
			best, idx = d, i
		}
	}
	if best > 0 {
		slog.Debug("resolve: nearest channel temperature substituted",
			"t_j", tj, "got_t_j", curves[idx].TJ)
	}
	return curves[idx], nil
}

// DiodeChannel resolves the diode-side channel curve, honouring the
// technology: gate-dependent body diodes (SiC-MOSFET, GaN) use the full
// 2-D metric, plain PN body diodes match on temperature only.
func DiodeChannel(tr *device.Transistor, q Query) (device.ChannelData, error) {
	if tr.Type.GateDependentBodyDiode() {
		return Channel(tr.Diode.Channel, q)
	}
	return ChannelByTemperature(tr.Diode.Channel, q.TJ)
}

func available(curves []device.SwitchEnergyData) []device.OperatingPoint {
	pts := make([]device.OperatingPoint, len(curves))
	for i, c := range curves {
		pts[i] = c.OperatingPoint()
	}
	return pts
}

// Energy returns the stored energy dataset of the requested variant
// nearest to the query. When no dataset of that variant exists at all,
// the error lists every stored (t_j, v_g, v_supply, r_g) tuple of the
// family for diagnosis.
func Energy(curves []device.SwitchEnergyData, want device.DatasetType, q Query) (device.SwitchEnergyData, error) {
	var cand []device.SwitchEnergyData
	for _, c := range curves {
		if c.Data != nil && c.Data.DatasetType() == want {
			cand = append(cand, c)
		}
	}
	if len(cand) == 0 {
		return device.SwitchEnergyData{}, &NoCandidateError{
			Kind:      want.String(),
			Available: available(curves),
		}
	}
	idx, dist := nearest(q, len(cand), func(i int) (float64, float64) {
		return cand[i].TJ, cand[i].Gate()
	})
	d := cand[idx]
	if dist > 0 {
		slog.Debug("resolve: nearest energy dataset substituted",
			"dataset_type", want.String(), "t_j", q.TJ, "v_g", q.VG,
			"got", d.OperatingPoint().String(), "distance", dist)
	}
	return d, nil
}

// EnergyPair selects a graph_i_e dataset at the given junction
// temperature together with the graph_r_e dataset it pairs with.
// An exact (t_j, v_g, v_supply) pairing wins; otherwise the r_e curve is
// the nearest-neighbour among graph_r_e data at the i_e curve's supply
// voltage.
func EnergyPair(curves []device.SwitchEnergyData, tj, tempToVolt float64) (ie, re device.SwitchEnergyData, err error) {
	var ies, res []device.SwitchEnergyData
	for _, c := range curves {
		if c.Data == nil {
			continue
		}
		switch c.Data.DatasetType() {
		case device.DatasetGraphIE:
			if c.TJ == tj {
				ies = append(ies, c)
			}
		case device.DatasetGraphRE:
			res = append(res, c)
		}
	}
	if len(ies) == 0 || len(res) == 0 {
		return ie, re, &NoCandidateError{Kind: "graph_i_e/graph_r_e pair", Available: available(curves)}
	}

	if len(ies) > 1 {
		// prefer an exactly paired combination
		for _, rc := range res {
			for _, ic := range ies {
				if device.Paired(ic, rc) {
					slog.Debug("resolve: paired r_e curve found for operating point",
						"t_j", ic.TJ, "v_g", ic.Gate(), "v_supply", ic.VSupply)
					return ic, rc, nil
				}
			}
		}
	}
	ie = ies[0]

	// no exact pair: nearest graph_r_e at the i_e curve's supply voltage
	var sameSupply []device.SwitchEnergyData
	for _, rc := range res {
		if rc.VSupply == ie.VSupply {
			sameSupply = append(sameSupply, rc)
		}
	}
	if len(sameSupply) == 0 {
		return ie, re, &NoCandidateError{Kind: "graph_r_e", Available: available(curves)}
	}
	q := Query{TJ: ie.TJ, VG: ie.Gate(), TempToVolt: tempToVolt}
	idx, _ := nearest(q, len(sameSupply), func(i int) (float64, float64) {
		return sameSupply[i].TJ, sameSupply[i].Gate()
	})
	return ie, sameSupply[idx], nil
}
