// Package negotiate picks, for an export target, the consistent tuple
// of gate voltages and supply voltage nearest to what the caller asked
// for, out of the curves a device actually carries. The channel voltage
// is settled first since it decides which conduction curve is usable,
// then the turn-on family, then the turn-off counterpart.
package negotiate

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/voltlab/devcurve/pkg/device"
)

// Protocol selects the export dialect being negotiated for. The two
// dialects differ in strictness: Plecs only aligns gate voltages, Gecko
// additionally negotiates the supply voltage per loss family and
// requires the turn-on and turn-off supplies to agree.
type Protocol int

const (
	Gecko Protocol = iota
	Plecs
)

func (p Protocol) String() string {
	switch p {
	case Gecko:
		return "gecko"
	case Plecs:
		return "plecs"
	}
	return fmt.Sprintf("Protocol(%d)", int(p))
}

// SwitchRequest is the tuple the caller wants for the switch side.
type SwitchRequest struct {
	VChannel float64 // channel gate voltage
	VGOn     float64 // turn-on gate voltage
	VGOff    float64 // turn-off gate voltage
	VSupply  float64 // dc link voltage (Gecko only)
}

// SwitchResult is the nearest consistent tuple available.
type SwitchResult struct {
	VChannel float64
	VGOn     float64
	VGOff    float64
	VSupply  float64
}

// DiodeRequest is the tuple wanted for the diode side. VSupply should
// be the supply already negotiated for the switch so both sides of the
// export agree.
type DiodeRequest struct {
	VChannel float64
	VGOff    float64 // reverse-recovery gate voltage
	VSupply  float64
}

// DiodeResult is the nearest consistent tuple available.
type DiodeResult struct {
	VChannel float64
	VGOff    float64
	VSupply  float64
}

// nearestValue returns the entry of vals closest to want. Ties keep the
// first occurrence.
func nearestValue(vals []float64, want float64) float64 {
	best := math.Inf(1)
	out := want
	for _, v := range vals {
		if d := math.Abs(v - want); d < best {
			best, out = d, v
		}
	}
	return out
}

func channelGates(curves []device.ChannelData) []float64 {
	gs := make([]float64, len(curves))
	for i, c := range curves {
		gs[i] = c.Gate()
	}
	return gs
}

func filterByType(curves []device.SwitchEnergyData, want device.DatasetType) []device.SwitchEnergyData {
	var out []device.SwitchEnergyData
	for _, c := range curves {
		if c.Data != nil && c.Data.DatasetType() == want {
			out = append(out, c)
		}
	}
	return out
}

func gateValues(curves []device.SwitchEnergyData) []float64 {
	gs := make([]float64, len(curves))
	for i, c := range curves {
		gs[i] = c.Gate()
	}
	return gs
}

// suppliesAtGate collects the supply voltages of the datasets measured
// at the chosen gate voltage.
func suppliesAtGate(curves []device.SwitchEnergyData, vg float64) []float64 {
	var out []float64
	for _, c := range curves {
		if c.Gate() == vg {
			out = append(out, c.VSupply)
		}
	}
	return out
}

func logSubstitution(field string, want, got float64) {
	if want != got {
		slog.Info("negotiate: nearest value substituted", "field", field, "requested", want, "chosen", got)
	}
}

// ForSwitch negotiates the switch-side tuple. The loss families are
// restricted to the given dataset variant (usually graph_i_e).
func ForSwitch(sw *device.Switch, p Protocol, req SwitchRequest, dt device.DatasetType) (SwitchResult, error) {
	if len(sw.Channel) == 0 {
		return SwitchResult{}, &MissingDataError{Category: SwitchChannelData}
	}
	res := SwitchResult{VSupply: req.VSupply}
	res.VChannel = nearestValue(channelGates(sw.Channel), req.VChannel)
	logSubstitution("v_channel", req.VChannel, res.VChannel)

	eons := filterByType(sw.EOn, dt)
	if len(eons) == 0 {
		return SwitchResult{}, &MissingDataError{Category: EOnData}
	}
	eoffs := filterByType(sw.EOff, dt)
	if len(eoffs) == 0 {
		return SwitchResult{}, &MissingDataError{Category: EOffData}
	}

	res.VGOn = nearestValue(gateValues(eons), req.VGOn)
	logSubstitution("v_g_on", req.VGOn, res.VGOn)
	res.VGOff = nearestValue(gateValues(eoffs), req.VGOff)
	logSubstitution("v_g_off", req.VGOff, res.VGOff)

	if p == Gecko {
		res.VSupply = nearestValue(suppliesAtGate(eons, res.VGOn), req.VSupply)
		logSubstitution("v_supply", req.VSupply, res.VSupply)
		offSupply := nearestValue(suppliesAtGate(eoffs, res.VGOff), req.VSupply)
		if offSupply != res.VSupply {
			return SwitchResult{}, ErrSupplyMismatch
		}
	}
	return res, nil
}

// ForDiode negotiates the diode-side tuple against the supply voltage
// already chosen for the switch.
func ForDiode(d *device.Diode, p Protocol, req DiodeRequest, dt device.DatasetType) (DiodeResult, error) {
	if len(d.Channel) == 0 {
		return DiodeResult{}, &MissingDataError{Category: DiodeChannelData}
	}
	res := DiodeResult{VSupply: req.VSupply}
	res.VChannel = nearestValue(channelGates(d.Channel), req.VChannel)
	logSubstitution("v_channel", req.VChannel, res.VChannel)

	errs := filterByType(d.ERR, dt)
	if len(errs) == 0 {
		return DiodeResult{}, &MissingDataError{Category: ERRData}
	}
	res.VGOff = nearestValue(gateValues(errs), req.VGOff)
	logSubstitution("v_g_off", req.VGOff, res.VGOff)

	if p == Gecko {
		res.VSupply = nearestValue(suppliesAtGate(errs, res.VGOff), req.VSupply)
		logSubstitution("v_supply", req.VSupply, res.VSupply)
	}
	return res, nil
}
