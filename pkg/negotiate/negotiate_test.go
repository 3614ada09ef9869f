package negotiate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltlab/devcurve/pkg/curve"
	"github.com/voltlab/devcurve/pkg/device"
)

func channelAt(vg float64) device.ChannelData {
	return device.ChannelData{TJ: 25, VG: &vg, Graph: curve.XY{
		X: []float64{0, 1, 2},
		Y: []float64{0, 50, 100},
	}}
}

func ieAt(vg, vs float64) device.SwitchEnergyData {
	return device.SwitchEnergyData{TJ: 25, VG: &vg, VSupply: vs,
		Data: device.GraphIE{RG: 2, Graph: curve.XY{
			X: []float64{0, 50, 100},
			Y: []float64{0, 1e-3, 3e-3},
		}}}
}

func testSwitch() *device.Switch {
	return &device.Switch{
		Channel: []device.ChannelData{channelAt(12), channelAt(15)},
		EOn:     []device.SwitchEnergyData{ieAt(15, 400), ieAt(15, 600), ieAt(10, 600)},
		EOff:    []device.SwitchEnergyData{ieAt(-4, 600), ieAt(0, 400)},
	}
}

func TestForSwitch_Plecs(t *testing.T) {
	sw := testSwitch()
	req := SwitchRequest{VChannel: 14, VGOn: 15, VGOff: -5, VSupply: 800}

	res, err := ForSwitch(sw, Plecs, req, device.DatasetGraphIE)
	require.NoError(t, err)
	assert.Equal(t, 15.0, res.VChannel)
	assert.Equal(t, 15.0, res.VGOn)
	assert.Equal(t, -4.0, res.VGOff)
	// plecs never negotiates the supply
	assert.Equal(t, 800.0, res.VSupply)
}

func TestForSwitch_Gecko(t *testing.T) {
	sw := testSwitch()
	req := SwitchRequest{VChannel: 15, VGOn: 15, VGOff: -4, VSupply: 550}

	res, err := ForSwitch(sw, Gecko, req, device.DatasetGraphIE)
	require.NoError(t, err)
	// supplies available at v_g_on=15 are 400 and 600; 600 is closer to 550,
	// and the only e_off family sits at 600 as well
	assert.Equal(t, 600.0, res.VSupply)
}

func TestForSwitch_GeckoSupplyMismatch(t *testing.T) {
	sw := testSwitch()
	// v_g_off=0 exists only at 400 V, while the turn-on side lands on 600 V
	req := SwitchRequest{VChannel: 15, VGOn: 15, VGOff: 0, VSupply: 600}
	_, err := ForSwitch(sw, Gecko, req, device.DatasetGraphIE)
	require.ErrorIs(t, err, ErrSupplyMismatch)
}

func TestForSwitch_MissingFamilies(t *testing.T) {
	t.Run("no channel", func(t *testing.T) {
		sw := testSwitch()
		sw.Channel = nil
		_, err := ForSwitch(sw, Plecs, SwitchRequest{}, device.DatasetGraphIE)
		var mde *MissingDataError
		require.ErrorAs(t, err, &mde)
		assert.Equal(t, SwitchChannelData, mde.Category)
	})

	t.Run("no e_on of the wanted variant", func(t *testing.T) {
		sw := testSwitch()
		sw.EOn = []device.SwitchEnergyData{{TJ: 25, VSupply: 600,
			Data: device.SinglePoint{EX: 1e-3, RG: 2, IX: 50}}}
		_, err := ForSwitch(sw, Plecs, SwitchRequest{}, device.DatasetGraphIE)
		var mde *MissingDataError
		require.ErrorAs(t, err, &mde)
		assert.Equal(t, EOnData, mde.Category)
	})

	t.Run("no e_off", func(t *testing.T) {
		sw := testSwitch()
		sw.EOff = nil
		_, err := ForSwitch(sw, Plecs, SwitchRequest{}, device.DatasetGraphIE)
		var mde *MissingDataError
		require.ErrorAs(t, err, &mde)
		assert.Equal(t, EOffData, mde.Category)
	})
}

func TestForDiode(t *testing.T) {
	d := &device.Diode{
		Channel: []device.ChannelData{channelAt(-4), channelAt(0)},
		ERR:     []device.SwitchEnergyData{ieAt(-4, 600), ieAt(-4, 400)},
	}
	req := DiodeRequest{VChannel: -5, VGOff: -4, VSupply: 600}

	res, err := ForDiode(d, Gecko, req, device.DatasetGraphIE)
	require.NoError(t, err)
	assert.Equal(t, -4.0, res.VChannel)
	assert.Equal(t, -4.0, res.VGOff)
	assert.Equal(t, 600.0, res.VSupply)

	t.Run("plecs keeps the requested supply", func(t *testing.T) {
		res, err := ForDiode(d, Plecs, DiodeRequest{VChannel: -4, VGOff: -4, VSupply: 550}, device.DatasetGraphIE)
		require.NoError(t, err)
		assert.Equal(t, 550.0, res.VSupply)
	})

	t.Run("no reverse-recovery data", func(t *testing.T) {
		empty := &device.Diode{Channel: d.Channel}
		_, err := ForDiode(empty, Gecko, req, device.DatasetGraphIE)
		var mde *MissingDataError
		require.ErrorAs(t, err, &mde)
		assert.Equal(t, ERRData, mde.Category)
	})

	t.Run("no channel", func(t *testing.T) {
		empty := &device.Diode{ERR: d.ERR}
		_, err := ForDiode(empty, Gecko, req, device.DatasetGraphIE)
		var mde *MissingDataError
		require.ErrorAs(t, err, &mde)
		assert.Equal(t, DiodeChannelData, mde.Category)
	})
}

func TestNearestValue(t *testing.T) {
	assert.Equal(t, 15.0, nearestValue([]float64{10, 15, 20}, 14))
	assert.Equal(t, 10.0, nearestValue([]float64{10, 20}, 15), "ties keep the first entry")
	assert.Equal(t, 7.0, nearestValue(nil, 7), "empty candidates fall back to the request")
}
