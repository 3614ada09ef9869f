package device

import "github.com/voltlab/devcurve/pkg/curve"

// fosterField marks which scalar totals were supplied by the data source
// rather than derived. A supplied ("pinned") total survives estimation
// and is the only kind emitted by Record unless derived output is
// requested explicitly.
type fosterField uint8

const (
	fosterRThTotal fosterField = 1 << iota
	fosterCThTotal
	fosterTauTotal
	fosterVectors
)

// FosterThermalModel is an n-stage RC ladder equivalent of a device's
// transient thermal impedance. All fields are optional; nil means "not
// known yet". Vectors, when present, have one entry per stage and
// satisfy tau_i = r_th_i * c_th_i.
type FosterThermalModel struct {
	RThVector []float64 // K/W per stage
	CThVector []float64 // J/K per stage
	TauVector []float64 // s per stage

	RThTotal *float64 // K/W
	CThTotal *float64 // J/K
	TauTotal *float64 // s

	Graph *curve.XY // transient impedance (s, K/W), optional

	supplied fosterField
}

// Stages returns the ladder order, 0 when no vectors are present.
func (m *FosterThermalModel) Stages() int {
	if m.RThVector != nil {
		return len(m.RThVector)
	}
	if m.TauVector != nil {
		return len(m.TauVector)
	}
	return len(m.CThVector)
}

// Empty reports whether the model carries no data at all.
func (m *FosterThermalModel) Empty() bool {
	return m.RThVector == nil && m.CThVector == nil && m.TauVector == nil &&
		m.RThTotal == nil && m.CThTotal == nil && m.TauTotal == nil && m.Graph == nil
}

// RThTotalPinned reports whether r_th_total was supplied by the data source.
func (m *FosterThermalModel) RThTotalPinned() bool { return m.supplied&fosterRThTotal != 0 }

// CThTotalPinned reports whether c_th_total was supplied by the data source.
func (m *FosterThermalModel) CThTotalPinned() bool { return m.supplied&fosterCThTotal != 0 }

// TauTotalPinned reports whether tau_total was supplied by the data source.
func (m *FosterThermalModel) TauTotalPinned() bool { return m.supplied&fosterTauTotal != 0 }

// PinRThTotal marks r_th_total as supplied. Used when a caller builds the
// model literally instead of going through a record.
func (m *FosterThermalModel) PinRThTotal() { m.supplied |= fosterRThTotal }

// PinTauTotal marks tau_total as supplied.
func (m *FosterThermalModel) PinTauTotal() { m.supplied |= fosterTauTotal }

// PinCThTotal marks c_th_total as supplied.
func (m *FosterThermalModel) PinCThTotal() { m.supplied |= fosterCThTotal }

// Clone returns a deep copy, provenance included.
func (m *FosterThermalModel) Clone() FosterThermalModel {
	out := FosterThermalModel{supplied: m.supplied}
	out.RThVector = append([]float64(nil), m.RThVector...)
	out.CThVector = append([]float64(nil), m.CThVector...)
	out.TauVector = append([]float64(nil), m.TauVector...)
	if m.RThTotal != nil {
		v := *m.RThTotal
		out.RThTotal = &v
	}
	if m.CThTotal != nil {
		v := *m.CThTotal
		out.CThTotal = &v
	}
	if m.TauTotal != nil {
		v := *m.TauTotal
		out.TauTotal = &v
	}
	if m.Graph != nil {
		g := m.Graph.Clone()
		out.Graph = &g
	}
	if len(out.RThVector) == 0 {
		out.RThVector = nil
	}
	if len(out.CThVector) == 0 {
		out.CThVector = nil
	}
	if len(out.TauVector) == 0 {
		out.TauVector = nil
	}
	return out
}
