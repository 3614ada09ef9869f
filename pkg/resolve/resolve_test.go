package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltlab/devcurve/pkg/curve"
	"github.com/voltlab/devcurve/pkg/device"
)

func channelAt(tj, vg float64) device.ChannelData {
	return device.ChannelData{TJ: tj, VG: &vg, Graph: curve.XY{
		X: []float64{0, 1, 2},
		Y: []float64{0, 50, 100},
	}}
}

func ieAt(tj, vg, vs, rg float64) device.SwitchEnergyData {
	return device.SwitchEnergyData{TJ: tj, VG: &vg, VSupply: vs,
		Data: device.GraphIE{RG: rg, Graph: curve.XY{
			X: []float64{0, 50, 100},
			Y: []float64{0, 1e-3, 3e-3},
		}}}
}

func reAt(tj, vg, vs, ix float64) device.SwitchEnergyData {
	return device.SwitchEnergyData{TJ: tj, VG: &vg, VSupply: vs,
		Data: device.GraphRE{IX: ix, Graph: curve.XY{
			X: []float64{1, 2, 4, 8},
			Y: []float64{1e-3, 2e-3, 3e-3, 4e-3},
		}}}
}

func TestChannel_ExactHit(t *testing.T) {
	curves := []device.ChannelData{channelAt(25, 15), channelAt(125, 15), channelAt(25, 10)}
	got, err := Channel(curves, Query{TJ: 125, VG: 15})
	require.NoError(t, err)
	assert.Equal(t, 125.0, got.TJ)
	assert.Equal(t, 15.0, got.Gate())
}

func TestChannel_NearestSubstitution(t *testing.T) {
	curves := []device.ChannelData{channelAt(25, 15), channelAt(150, 15)}
	got, err := Channel(curves, Query{TJ: 100, VG: 15})
	require.NoError(t, err)
	// 100 degC is 7.5 normalized units from 25, 5 from 150
	assert.Equal(t, 150.0, got.TJ)
}

func TestChannel_RatioWeighsTemperature(t *testing.T) {
	curves := []device.ChannelData{channelAt(25, 15), channelAt(125, 10)}

	// default ratio: the 100 degC gap weighs 10 units, the 5 V gap 5
	got, err := Channel(curves, Query{TJ: 125, VG: 15, TempToVolt: 0})
	require.NoError(t, err)
	assert.Equal(t, 125.0, got.TJ)

	// with 100 degC/V the temperature gap shrinks to 1 unit
	got, err = Channel(curves, Query{TJ: 25, VG: 10, TempToVolt: 100})
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Gate())
}

func TestChannel_TieBreaksToFirst(t *testing.T) {
	a := channelAt(20, 15)
	b := channelAt(30, 15)
	got, err := Channel([]device.ChannelData{a, b}, Query{TJ: 25, VG: 15})
	require.NoError(t, err)
	assert.True(t, got.Equal(a), "equidistant candidates keep stored order")

	got, err = Channel([]device.ChannelData{b, a}, Query{TJ: 25, VG: 15})
	require.NoError(t, err)
	assert.True(t, got.Equal(b))
}

func TestChannel_Deterministic(t *testing.T) {
	curves := []device.ChannelData{channelAt(25, 15), channelAt(125, 15), channelAt(75, 12)}
	q := Query{TJ: 80, VG: 13}
	first, err := Channel(curves, q)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		got, err := Channel(curves, q)
		require.NoError(t, err)
		assert.True(t, got.Equal(first))
	}
}

func TestChannel_Empty(t *testing.T) {
	_, err := Channel(nil, Query{TJ: 25, VG: 15})
	var nce *NoCandidateError
	require.ErrorAs(t, err, &nce)
	assert.Equal(t, "channel", nce.Kind)
}

func TestDiodeChannel_TemperatureOnlyForPNDiode(t *testing.T) {
	// the IGBT's freewheeling diode carries no gate voltage; a query gate
	// must not influence the choice
	tr := &device.Transistor{Type: device.IGBT}
	tr.Diode.Channel = []device.ChannelData{
		{TJ: 25, Graph: curve.XY{X: []float64{0, 1}, Y: []float64{0, 40}}},
		{TJ: 150, Graph: curve.XY{X: []float64{0, 1}, Y: []float64{0, 30}}},
	}
	got, err := DiodeChannel(tr, Query{TJ: 140, VG: -8})
	require.NoError(t, err)
	assert.Equal(t, 150.0, got.TJ)
}

func TestDiodeChannel_GateDependent(t *testing.T) {
	tr := &device.Transistor{Type: device.SiCMOSFET}
	tr.Diode.Channel = []device.ChannelData{channelAt(25, -4), channelAt(25, 0)}
	got, err := DiodeChannel(tr, Query{TJ: 25, VG: -4})
	require.NoError(t, err)
	assert.Equal(t, -4.0, got.Gate())
}

func TestEnergy_FiltersByVariant(t *testing.T) {
	curves := []device.SwitchEnergyData{
		reAt(25, 15, 600, 50),
		ieAt(125, 15, 600, 2),
	}
	got, err := Energy(curves, device.DatasetGraphIE, Query{TJ: 25, VG: 15})
	require.NoError(t, err)
	assert.Equal(t, device.DatasetGraphIE, got.Data.DatasetType())
	assert.Equal(t, 125.0, got.TJ, "only the graph_i_e candidate competes")
}

func TestEnergy_NoCandidateListsAvailable(t *testing.T) {
	curves := []device.SwitchEnergyData{reAt(25, 15, 600, 50)}
	_, err := Energy(curves, device.DatasetGraphIE, Query{TJ: 25, VG: 15})
	var nce *NoCandidateError
	require.ErrorAs(t, err, &nce)
	assert.Equal(t, "graph_i_e", nce.Kind)
	require.Len(t, nce.Available, 1)
	assert.Contains(t, err.Error(), "t_j=25")
}

func TestEnergyPair_ExactPairingWins(t *testing.T) {
	curves := []device.SwitchEnergyData{
		ieAt(25, 10, 600, 2),
		ieAt(25, 15, 400, 2),
		reAt(25, 15, 400, 50),
	}
	ie, re, err := EnergyPair(curves, 25, 0)
	require.NoError(t, err)
	assert.Equal(t, 400.0, ie.VSupply)
	assert.True(t, device.Paired(ie, re))
}

func TestEnergyPair_FallbackSameSupply(t *testing.T) {
	curves := []device.SwitchEnergyData{
		ieAt(25, 15, 600, 2),
		reAt(125, 15, 600, 50),
		reAt(25, 15, 400, 50),
	}
	ie, re, err := EnergyPair(curves, 25, 0)
	require.NoError(t, err)
	assert.Equal(t, 600.0, ie.VSupply)
	assert.Equal(t, 600.0, re.VSupply, "supply must match the i_e curve")
	assert.Equal(t, 125.0, re.TJ)
}

func TestEnergyPair_Missing(t *testing.T) {
	_, _, err := EnergyPair([]device.SwitchEnergyData{ieAt(25, 15, 600, 2)}, 25, 0)
	var nce *NoCandidateError
	require.ErrorAs(t, err, &nce)

	// temperature must hit a stored i_e curve exactly
	_, _, err = EnergyPair([]device.SwitchEnergyData{
		ieAt(25, 15, 600, 2), reAt(25, 15, 600, 50),
	}, 125, 0)
	require.ErrorAs(t, err, &nce)
}

func TestTransistorWorkingPoint(t *testing.T) {
	tr := &device.Transistor{
		Name: "test-part", Type: device.SiCMOSFET,
		VAbsMax: 1200, IAbsMax: 115,
	}
	tr.Switch.Channel = []device.ChannelData{channelAt(25, 15)}
	tr.Diode.Channel = []device.ChannelData{channelAt(25, -4)}
	tr.Switch.EOn = []device.SwitchEnergyData{ieAt(25, 15, 600, 2)}
	tr.Switch.EOff = []device.SwitchEnergyData{ieAt(25, 15, 600, 2)}

	wp, err := TransistorWorkingPoint(tr, Query{TJ: 25, VG: 15}, 50)
	require.NoError(t, err)

	t.Logf("switch v0=%g r=%g, diode v0=%g r=%g", wp.SwitchV0, wp.SwitchR, wp.DiodeV0, wp.DiodeR)
	assert.Equal(t, 0.0, wp.SwitchV0, "SiC channel linearizes ohmically")
	assert.InDelta(t, 0.02, wp.SwitchR, 1e-9)
	require.NotNil(t, wp.EOn)
	require.NotNil(t, wp.EOff)
	assert.Nil(t, wp.ERR, "no reverse-recovery data stored")
}

func TestTransistorWorkingPoint_CurrentLimit(t *testing.T) {
	tr := &device.Transistor{IAbsMax: 100}
	_, err := TransistorWorkingPoint(tr, Query{TJ: 25, VG: 15}, 101)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "i_abs_max")
}
