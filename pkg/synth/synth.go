// Package synth derives switching-energy curves at gate resistances and
// supply voltages that were never measured, by scaling a measured
// energy-vs-current curve with the loss ratio read off its paired
// energy-vs-gate-resistance curve.
package synth

import (
	"fmt"
	"log/slog"

	"github.com/voltlab/devcurve/pkg/device"
	"github.com/voltlab/devcurve/pkg/resolve"
)

// Result carries the synthesized dataset. SubstitutedVSupply is set when
// no valid target supply voltage was given and the nominal one of the
// measured curve was used instead; that substitution is a diagnostic,
// not an error.
type Result struct {
	Data               device.SwitchEnergyData
	SubstitutedVSupply bool
}

// Synthesize produces a new graph_i_e dataset at (targetRG,
// targetVSupply) from a paired (ie, re) combination. The energy axis of
// ie is scaled by loss(targetRG)/loss(nominal r_g) from the re curve,
// then corrected linearly for the supply voltage; the current axis is
// untouched. Requesting a gate resistance beyond the measured re domain
// fails with *OutOfRangeError.
func Synthesize(ie, re device.SwitchEnergyData, targetRG, targetVSupply float64) (Result, error) {
	if !device.Paired(ie, re) {
		return Result{}, ErrUnpaired
	}
	ieg := ie.Data.(device.GraphIE)
	reg := re.Data.(device.GraphRE)

	rgMax := reg.Graph.MaxX()
	if targetRG > rgMax {
		return Result{}, &OutOfRangeError{RG: targetRG, RGMax: rgMax}
	}

	vs := targetVSupply
	substituted := false
	if vs <= 0 {
		vs = ie.VSupply
		substituted = true
		slog.Info("synth: invalid v_supply, falling back to nominal",
			"requested", targetVSupply, "chosen", vs)
	}

	lossAtTarget := reg.Graph.Interp(targetRG)
	lossAtNominal := reg.Graph.Interp(ieg.RG)
	factor := lossAtTarget / lossAtNominal

	graph := ieg.Graph.ScaleY(factor)
	graph = graph.ScaleY(vs / ie.VSupply)

	out := device.SwitchEnergyData{
		TJ:      ie.TJ,
		VSupply: vs,
		Data:    device.GraphIE{RG: targetRG, Graph: graph},
	}
	if ie.VG != nil {
		v := *ie.VG
		out.VG = &v
	}
	return Result{Data: out, SubstitutedVSupply: substituted}, nil
}

// ForTransistor runs pair selection and synthesis for one energy family
// of a device: the graph_i_e curve at tj and its paired graph_r_e curve
// are located first, then scaled to (targetRG, targetVSupply). A target
// supply above the device's absolute maximum is treated as invalid and
// replaced by the measured curve's nominal supply.
func ForTransistor(tr *device.Transistor, kind device.EnergyKind, targetRG, tj, targetVSupply, tempToVolt float64) (Result, error) {
	ie, re, err := resolve.EnergyPair(tr.Energy(kind), tj, tempToVolt)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", kind, err)
	}
	vs := targetVSupply
	if vs > tr.VAbsMax {
		vs = 0
	}
	res, err := Synthesize(ie, re, targetRG, vs)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", kind, err)
	}
	return res, nil
}
