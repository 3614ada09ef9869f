package device

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltlab/devcurve/pkg/curve"
)

func TestTechnology(t *testing.T) {
	tests := []struct {
		tech      Technology
		tag       string
		diodeGate bool
		ohmic     bool
	}{
		{MOSFET, "MOSFET", false, true},
		{IGBT, "IGBT", false, false},
		{SiCMOSFET, "SiC-MOSFET", true, true},
		{GaNTransistor, "GaN-Transistor", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.tag, tt.tech.String())
			assert.Equal(t, tt.diodeGate, tt.tech.GateDependentBodyDiode())
			assert.Equal(t, tt.ohmic, tt.tech.OhmicChannel())

			parsed, err := ParseTechnology(tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.tech, parsed)
		})
	}

	_, err := ParseTechnology("triac")
	require.Error(t, err)
}

func TestEnergyDispatch(t *testing.T) {
	tr := &Transistor{
		Switch: Switch{
			EOn:  []SwitchEnergyData{{TJ: 25}},
			EOff: []SwitchEnergyData{{TJ: 25}, {TJ: 125}},
		},
		Diode: Diode{
			ERR: []SwitchEnergyData{{TJ: 150}},
		},
	}
	assert.Len(t, tr.Energy(EOn), 1)
	assert.Len(t, tr.Energy(EOff), 2)
	assert.Len(t, tr.Energy(ERR), 1)

	assert.Same(t, &tr.Switch.Thermal, tr.Thermal(EOn))
	assert.Same(t, &tr.Switch.Thermal, tr.Thermal(EOff))
	assert.Same(t, &tr.Diode.Thermal, tr.Thermal(ERR))
}

func TestPaired(t *testing.T) {
	vg := 15.0
	ie := SwitchEnergyData{TJ: 25, VSupply: 600, VG: &vg,
		Data: GraphIE{RG: 2, Graph: curve.XY{X: []float64{0, 1}, Y: []float64{0, 1}}}}
	re := SwitchEnergyData{TJ: 25, VSupply: 600, VG: &vg,
		Data: GraphRE{IX: 10, Graph: curve.XY{X: []float64{1, 2}, Y: []float64{1, 2}}}}

	assert.True(t, Paired(ie, re))
	assert.False(t, Paired(re, ie), "argument order matters")

	other := re
	other.TJ = 125
	assert.False(t, Paired(ie, other))

	other = re
	other.VSupply = 400
	assert.False(t, Paired(ie, other))

	// absent gate counts as 0 V on both sides
	ie2, re2 := ie, re
	ie2.VG, re2.VG = nil, nil
	assert.True(t, Paired(ie2, re2))
}

func TestOperatingPoint(t *testing.T) {
	vg := 15.0
	d := SwitchEnergyData{TJ: 25, VSupply: 600, VG: &vg, Data: GraphIE{RG: 2}}
	p := d.OperatingPoint()
	assert.Equal(t, 25.0, p.TJ)
	assert.Equal(t, 15.0, p.VG)
	assert.Equal(t, 2.0, p.RG)

	d = SwitchEnergyData{TJ: 25, VSupply: 600, Data: GraphRE{IX: 10}}
	p = d.OperatingPoint()
	assert.True(t, math.IsNaN(p.VG))
	assert.True(t, math.IsNaN(p.RG), "graph_r_e has no single gate resistance")
}

func TestLinearize(t *testing.T) {
	t.Run("ohmic", func(t *testing.T) {
		cd := ChannelData{TJ: 25, Graph: curve.XY{
			X: []float64{0, 1, 2},
			Y: []float64{0, 100, 200},
		}}
		v0, r := cd.Linearize(150, true)
		assert.Equal(t, 0.0, v0)
		assert.InDelta(t, 0.01, r, 1e-9)
	})

	t.Run("with knee voltage", func(t *testing.T) {
		cd := ChannelData{TJ: 25, Graph: curve.XY{
			X: []float64{0.5, 1.5, 2.5},
			Y: []float64{0, 100, 200},
		}}
		v0, r := cd.Linearize(150, false)
		t.Logf("v0=%g r=%g", v0, r)
		assert.InDelta(t, 0.01, r, 1e-9)
		assert.InDelta(t, 0.5, v0, 1e-9)
	})
}

func TestFosterClone(t *testing.T) {
	m, err := NewFosterThermalModel(FosterRecord{
		RThVector: []float64{0.25, 0.25},
		TauVector: []float64{0.4, 0.6},
		RThTotal:  f64(0.5),
	})
	require.NoError(t, err)

	c := m.Clone()
	assert.True(t, c.RThTotalPinned(), "provenance survives cloning")
	require.NotNil(t, c.RThTotal)
	assert.Equal(t, 0.5, *c.RThTotal)

	c.RThVector[0] = 99
	*c.RThTotal = 99
	assert.Equal(t, 0.25, m.RThVector[0])
	assert.Equal(t, 0.5, *m.RThTotal)
}
