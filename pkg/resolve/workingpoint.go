package resolve

import (
	"fmt"

	"github.com/voltlab/devcurve/pkg/device"
)

// WorkingPoint is the consistent set of curves and linearized channel
// parameters for one requested (t_j, v_g, i_channel). ERR is nil when
// the diode carries no reverse-recovery data, which is common for wide
// bandgap parts.
type WorkingPoint struct {
	SwitchChannel device.ChannelData
	DiodeChannel  device.ChannelData

	SwitchV0 float64 // V
	SwitchR  float64 // Ohm
	DiodeV0  float64 // V
	DiodeR   float64 // Ohm

	EOn  *device.SwitchEnergyData
	EOff *device.SwitchEnergyData
	ERR  *device.SwitchEnergyData
}

// TransistorWorkingPoint resolves the nearest stored curves for both
// sides of the device and linearizes the channels at iChannel.
func TransistorWorkingPoint(tr *device.Transistor, q Query, iChannel float64) (*WorkingPoint, error) {
	if iChannel > tr.IAbsMax {
		return nil, fmt.Errorf("resolve: linearizing current %g A exceeds i_abs_max %g A", iChannel, tr.IAbsMax)
	}

	wp := &WorkingPoint{}
	var err error
	if wp.SwitchChannel, err = Channel(tr.Switch.Channel, q); err != nil {
		return nil, fmt.Errorf("switch channel: %w", err)
	}
	if wp.DiodeChannel, err = DiodeChannel(tr, q); err != nil {
		return nil, fmt.Errorf("diode channel: %w", err)
	}
	wp.SwitchV0, wp.SwitchR = wp.SwitchChannel.Linearize(iChannel, tr.Type.OhmicChannel())
	wp.DiodeV0, wp.DiodeR = wp.DiodeChannel.Linearize(iChannel, false)

	if eon, err := Energy(tr.Switch.EOn, device.DatasetGraphIE, q); err == nil {
		wp.EOn = &eon
	}
	if eoff, err := Energy(tr.Switch.EOff, device.DatasetGraphIE, q); err == nil {
		wp.EOff = &eoff
	}
	if errr, err := Energy(tr.Diode.ERR, device.DatasetGraphIE, q); err == nil {
		wp.ERR = &errr
	}
	return wp, nil
}
