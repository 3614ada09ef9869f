package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/voltlab/devcurve/pkg/curve"
	"github.com/voltlab/devcurve/pkg/device"
)

// GeckoCIRCUITS .scl files carry the conduction curves as 2-column
// blocks and the switching losses as 3-column blocks, one block per
// junction temperature. The solver wants exactly this text shape,
// tags included.

const sclSwitchingPoints = 10

func sclFloats(vals []float64, format string) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf(format, v)
	}
	return strings.Join(parts, " ")
}

// sclConduction writes the PvCOND section: one block per channel curve.
func sclConduction(w io.Writer, curves []device.ChannelData) error {
	if _, err := fmt.Fprintf(w, "anzMesskurvenPvCOND %d\n", len(curves)); err != nil {
		return err
	}
	for _, c := range curves {
		v := append([]float64(nil), c.Graph.X...)
		i := append([]float64(nil), c.Graph.Y...)
		// Gecko rejects a duplicate leading sample on the current axis
		if len(i) > 1 && i[0] == 0 && i[1] == 0 {
			i[1] = 0.001
		}
		_, err := fmt.Fprintf(w, "<LeitverlusteMesskurve>\ndata[][] 2 %d %s %s\ntj %.1f\n<\\LeitverlusteMesskurve>\n",
			c.Graph.Len(), sclFloats(v, "%.3f"), sclFloats(i, "%.3f"), c.TJ)
		if err != nil {
			return err
		}
	}
	return nil
}

// sclSwitchingBlock is one temperature's worth of switching losses,
// resampled onto a common current grid.
type sclSwitchingBlock struct {
	TJ      float64
	VSupply float64
	I       []float64
	EOn     []float64
	EOff    []float64
}

// resampleSwitching puts the turn-on and turn-off curves of one
// operating point onto a shared 10-point current grid from zero to the
// smaller of the two measured maxima.
func resampleSwitching(tj, vSupply float64, eon, eoff curve.XY) sclSwitchingBlock {
	iMax := eon.MaxX()
	if m := eoff.MaxX(); m < iMax {
		iMax = m
	}
	b := sclSwitchingBlock{
		TJ:      tj,
		VSupply: vSupply,
		I:       make([]float64, sclSwitchingPoints),
		EOn:     make([]float64, sclSwitchingPoints),
		EOff:    make([]float64, sclSwitchingPoints),
	}
	for k := 0; k < sclSwitchingPoints; k++ {
		i := iMax * float64(k) / float64(sclSwitchingPoints-1)
		b.I[k] = i
		b.EOn[k] = eon.Interp(i)
		b.EOff[k] = eoff.Interp(i)
	}
	return b
}

// sclSwitching writes the PvSWITCH section.
func sclSwitching(w io.Writer, blocks []sclSwitchingBlock) error {
	if _, err := fmt.Fprintf(w, "anzMesskurvenPvSWITCH %d\n", len(blocks)); err != nil {
		return err
	}
	for _, b := range blocks {
		_, err := fmt.Fprintf(w, "<SchaltverlusteMesskurve>\ndata[][] 3 %d %s %s %s\ntj %.1f\nuBlock %.1f\n<\\SchaltverlusteMesskurve>\n",
			len(b.I), sclFloats(b.I, "%.2f"), sclFloats(b.EOn, "%.8f"), sclFloats(b.EOff, "%.8f"), b.TJ, b.VSupply)
		if err != nil {
			return err
		}
	}
	return nil
}

// writeSCL emits one full .scl document, conduction section first.
func writeSCL(w io.Writer, channels []device.ChannelData, blocks []sclSwitchingBlock) error {
	if err := sclConduction(w, channels); err != nil {
		return err
	}
	return sclSwitching(w, blocks)
}
