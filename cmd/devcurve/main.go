package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/voltlab/devcurve/pkg/curve"
	"github.com/voltlab/devcurve/pkg/device"
	"github.com/voltlab/devcurve/pkg/negotiate"
	"github.com/voltlab/devcurve/pkg/resolve"
	"github.com/voltlab/devcurve/pkg/synth"
	"github.com/voltlab/devcurve/pkg/thermal"
)

func main() {
	root := &cobra.Command{
		Use:   "devcurve",
		Short: "Power-semiconductor curve resolution and synthesis tool",
		Long: `The devcurve tool works on measured power-semiconductor datasets
(channel V-I curves, switching energies, thermal impedance). It resolves
the stored curves nearest to a requested operating point, synthesizes
energy curves at unmeasured gate resistances, completes Foster thermal
models and exports GeckoCIRCUITS .scl files.

Examples:
  devcurve wp -f part.json --tj 125 --vg 15 -c 50
  devcurve synth -f part.json --kind e_on --rg 4 --tj 25 --v-supply 400
  devcurve fit -f part.json --order 3 --out part_fitted.json
  devcurve export -f part.json --v-g-on 15 --v-g-off -4 --v-supply 600`,
	}

	root.AddCommand(newWPCmd(), newSynthCmd(), newFitCmd(), newExportCmd())

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func loadTransistor(path string) (*device.Transistor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec device.TransistorRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return device.NewTransistor(rec)
}

func parseKind(s string) (device.EnergyKind, error) {
	switch s {
	case "e_on":
		return device.EOn, nil
	case "e_off":
		return device.EOff, nil
	case "e_rr":
		return device.ERR, nil
	}
	return 0, fmt.Errorf("unknown energy family %q, want e_on, e_off or e_rr", s)
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

type wpOpts struct {
	file       string
	tj         float64
	vg         float64
	current    float64
	tempToVolt float64
}

func newWPCmd() *cobra.Command {
	var o wpOpts
	cmd := &cobra.Command{
		Use:   "wp",
		Short: "Resolve the nearest stored curves and linearize both channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWP(o)
		},
	}
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "device JSON file")
	cmd.Flags().Float64Var(&o.tj, "tj", 25, "junction temperature (degC)")
	cmd.Flags().Float64Var(&o.vg, "vg", 15, "gate voltage (V)")
	cmd.Flags().Float64VarP(&o.current, "current", "c", 0, "channel current to linearize at (A)")
	cmd.Flags().Float64Var(&o.tempToVolt, "temp-to-volt", resolve.DefaultTempToVolt,
		"degrees Celsius that weigh as much as one volt in nearest-neighbour search")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("current")
	return cmd
}

func runWP(o wpOpts) error {
	tr, err := loadTransistor(o.file)
	if err != nil {
		return err
	}
	q := resolve.Query{TJ: o.tj, VG: o.vg, TempToVolt: o.tempToVolt}
	wp, err := resolve.TransistorWorkingPoint(tr, q, o.current)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s) at t_j=%g degC, v_g=%g V, i=%g A\n\n", tr.Name, tr.Type, o.tj, o.vg, o.current)

	tw := newTable()
	fmt.Fprintln(tw, "SIDE\tCURVE t_j\tCURVE v_g\tv0 (V)\tr (Ohm)")
	fmt.Fprintf(tw, "switch\t%.1f\t%.1f\t%.4f\t%.6f\n",
		wp.SwitchChannel.TJ, wp.SwitchChannel.Gate(), wp.SwitchV0, wp.SwitchR)
	fmt.Fprintf(tw, "diode\t%.1f\t%.1f\t%.4f\t%.6f\n",
		wp.DiodeChannel.TJ, wp.DiodeChannel.Gate(), wp.DiodeV0, wp.DiodeR)
	tw.Flush()

	fmt.Println()
	tw = newTable()
	fmt.Fprintln(tw, "LOSS\tOPERATING POINT\tE(i) (J)")
	printEnergy := func(name string, d *device.SwitchEnergyData) {
		if d == nil {
			fmt.Fprintf(tw, "%s\t-\t-\n", name)
			return
		}
		e := d.Data.(device.GraphIE).Graph.Interp(o.current)
		fmt.Fprintf(tw, "%s\t%s\t%.8f\n", name, d.OperatingPoint(), e)
	}
	printEnergy("e_on", wp.EOn)
	printEnergy("e_off", wp.EOff)
	printEnergy("e_rr", wp.ERR)
	tw.Flush()
	return nil
}

type synthOpts struct {
	file       string
	kind       string
	rg         float64
	tj         float64
	vSupply    float64
	tempToVolt float64
}

func newSynthCmd() *cobra.Command {
	var o synthOpts
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Synthesize an energy curve at an unmeasured gate resistance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(o)
		},
	}
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "device JSON file")
	cmd.Flags().StringVar(&o.kind, "kind", "e_on", "energy family: e_on, e_off or e_rr")
	cmd.Flags().Float64Var(&o.rg, "rg", 0, "target gate resistance (Ohm)")
	cmd.Flags().Float64Var(&o.tj, "tj", 25, "junction temperature of the measured curve (degC)")
	cmd.Flags().Float64Var(&o.vSupply, "v-supply", 0, "target supply voltage (V, 0 = keep the measured one)")
	cmd.Flags().Float64Var(&o.tempToVolt, "temp-to-volt", resolve.DefaultTempToVolt,
		"degrees Celsius that weigh as much as one volt in nearest-neighbour search")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("rg")
	return cmd
}

func runSynth(o synthOpts) error {
	tr, err := loadTransistor(o.file)
	if err != nil {
		return err
	}
	kind, err := parseKind(o.kind)
	if err != nil {
		return err
	}
	res, err := synth.ForTransistor(tr, kind, o.rg, o.tj, o.vSupply, o.tempToVolt)
	if err != nil {
		return err
	}

	d := res.Data
	g := d.Data.(device.GraphIE)
	fmt.Printf("%s %s at r_g=%g Ohm, t_j=%g degC, v_supply=%g V", tr.Name, kind, g.RG, d.TJ, d.VSupply)
	if res.SubstitutedVSupply {
		fmt.Printf(" (nominal supply kept)")
	}
	fmt.Println()

	tw := newTable()
	fmt.Fprintln(tw, "I (A)\tE (J)")
	for i := range g.Graph.X {
		fmt.Fprintf(tw, "%.2f\t%.8f\n", g.Graph.X[i], g.Graph.Y[i])
	}
	tw.Flush()
	return nil
}

type fitOpts struct {
	file  string
	side  string
	order int
	out   string
}

func newFitCmd() *cobra.Command {
	var o fitOpts
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Complete a Foster thermal model, fitting the impedance curve if needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(o)
		},
	}
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "device JSON file")
	cmd.Flags().StringVar(&o.side, "side", "switch", "thermal model to complete: switch or diode")
	cmd.Flags().IntVar(&o.order, "order", 3, "ladder order for impedance fitting")
	cmd.Flags().StringVar(&o.out, "out", "", "write the completed model as JSON, derived values included")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runFit(o fitOpts) error {
	tr, err := loadTransistor(o.file)
	if err != nil {
		return err
	}
	var m *device.FosterThermalModel
	switch o.side {
	case "switch":
		m = &tr.Switch.Thermal
	case "diode":
		m = &tr.Diode.Thermal
	default:
		return fmt.Errorf("unknown side %q, want switch or diode", o.side)
	}
	if m.Empty() {
		return fmt.Errorf("%s carries no thermal data", o.side)
	}

	thermal.Estimate(m, o.order)

	if m.RThVector != nil && m.CThVector != nil && m.TauVector != nil {
		tw := newTable()
		fmt.Fprintln(tw, "STAGE\tr_th (K/W)\tc_th (J/K)\ttau (s)")
		for i := 0; i < m.Stages(); i++ {
			fmt.Fprintf(tw, "%d\t%.5f\t%.5f\t%.5f\n", i+1, m.RThVector[i], m.CThVector[i], m.TauVector[i])
		}
		tw.Flush()
	}

	printTotal := func(name string, v *float64) {
		if v == nil {
			fmt.Printf("%s: -\n", name)
			return
		}
		fmt.Printf("%s: %.4f\n", name, *v)
	}
	fmt.Println()
	printTotal("r_th_total", m.RThTotal)
	printTotal("c_th_total", m.CThTotal)
	printTotal("tau_total", m.TauTotal)

	if o.out != "" {
		b, err := json.MarshalIndent(m.Record(true), "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.out, b, 0o644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", o.out)
	}
	return nil
}

type exportOpts struct {
	file     string
	outDir   string
	vChannel float64
	vGOn     float64
	vGOff    float64
	vSupply  float64
}

func newExportCmd() *cobra.Command {
	var o exportOpts
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export GeckoCIRCUITS .scl files for both device sides",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(o)
		},
	}
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "device JSON file")
	cmd.Flags().StringVarP(&o.outDir, "out", "o", ".", "output directory")
	cmd.Flags().Float64Var(&o.vChannel, "v-channel", 15, "channel gate voltage (V)")
	cmd.Flags().Float64Var(&o.vGOn, "v-g-on", 15, "turn-on gate voltage (V)")
	cmd.Flags().Float64Var(&o.vGOff, "v-g-off", -4, "turn-off gate voltage (V)")
	cmd.Flags().Float64Var(&o.vSupply, "v-supply", 600, "dc link voltage (V)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runExport(o exportOpts) error {
	tr, err := loadTransistor(o.file)
	if err != nil {
		return err
	}

	swRes, err := negotiate.ForSwitch(&tr.Switch, negotiate.Gecko, negotiate.SwitchRequest{
		VChannel: o.vChannel,
		VGOn:     o.vGOn,
		VGOff:    o.vGOff,
		VSupply:  o.vSupply,
	}, device.DatasetGraphIE)
	if err != nil {
		return err
	}
	slog.Info("export: switch tuple negotiated",
		"v_channel", swRes.VChannel, "v_g_on", swRes.VGOn, "v_g_off", swRes.VGOff, "v_supply", swRes.VSupply)

	swChannels := channelsAtGate(tr.Switch.Channel, swRes.VChannel, true)
	swBlocks := switchingBlocks(tr.Switch.EOn, tr.Switch.EOff, swRes.VGOn, swRes.VGOff, swRes.VSupply)

	swPath := filepath.Join(o.outDir, tr.Name+"_switch.scl")
	if err := writeSCLFile(swPath, swChannels, swBlocks); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", swPath)

	dRes, err := negotiate.ForDiode(&tr.Diode, negotiate.Gecko, negotiate.DiodeRequest{
		VChannel: o.vChannel,
		VGOff:    o.vGOff,
		VSupply:  swRes.VSupply,
	}, device.DatasetGraphIE)
	if err != nil {
		var mde *negotiate.MissingDataError
		if errors.As(err, &mde) && mde.Category == negotiate.ERRData {
			// wide bandgap parts often carry no recovery data; the diode
			// file then only gets the conduction section
			dChannels := channelsAtGate(tr.Diode.Channel, o.vChannel, tr.Type.GateDependentBodyDiode())
			dPath := filepath.Join(o.outDir, tr.Name+"_diode.scl")
			if err := writeSCLFile(dPath, dChannels, nil); err != nil {
				return err
			}
			fmt.Printf("wrote %s (no reverse-recovery data)\n", dPath)
			return nil
		}
		return err
	}

	dChannels := channelsAtGate(tr.Diode.Channel, dRes.VChannel, tr.Type.GateDependentBodyDiode())
	dBlocks := recoveryBlocks(tr.Diode.ERR, dRes.VGOff, dRes.VSupply)

	dPath := filepath.Join(o.outDir, tr.Name+"_diode.scl")
	if err := writeSCLFile(dPath, dChannels, dBlocks); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", dPath)
	return nil
}

func writeSCLFile(path string, channels []device.ChannelData, blocks []sclSwitchingBlock) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeSCL(f, channels, blocks)
}

// channelsAtGate keeps the channel curves measured at the negotiated
// gate voltage, one per temperature. Gate-independent body diodes keep
// every curve.
func channelsAtGate(curves []device.ChannelData, vg float64, gateDependent bool) []device.ChannelData {
	if !gateDependent {
		return curves
	}
	var out []device.ChannelData
	for _, c := range curves {
		if c.Gate() == vg {
			out = append(out, c)
		}
	}
	return out
}

// switchingBlocks pairs the turn-on and turn-off curves of the
// negotiated tuple by junction temperature.
func switchingBlocks(eons, eoffs []device.SwitchEnergyData, vgOn, vgOff, vSupply float64) []sclSwitchingBlock {
	offByTJ := map[float64]curve.XY{}
	for _, d := range eoffs {
		g, ok := d.Data.(device.GraphIE)
		if !ok || d.Gate() != vgOff || d.VSupply != vSupply {
			continue
		}
		if _, dup := offByTJ[d.TJ]; !dup {
			offByTJ[d.TJ] = g.Graph
		}
	}

	var blocks []sclSwitchingBlock
	for _, d := range eons {
		g, ok := d.Data.(device.GraphIE)
		if !ok || d.Gate() != vgOn || d.VSupply != vSupply {
			continue
		}
		off, ok := offByTJ[d.TJ]
		if !ok {
			slog.Warn("export: no matching turn-off curve, temperature skipped", "t_j", d.TJ)
			continue
		}
		blocks = append(blocks, resampleSwitching(d.TJ, vSupply, g.Graph, off))
	}
	return blocks
}

// recoveryBlocks builds the diode switching section. The turn-on column
// stays zero: a diode only dissipates recovery energy at turn-off.
func recoveryBlocks(errs []device.SwitchEnergyData, vgOff, vSupply float64) []sclSwitchingBlock {
	var blocks []sclSwitchingBlock
	for _, d := range errs {
		g, ok := d.Data.(device.GraphIE)
		if !ok || d.Gate() != vgOff || d.VSupply != vSupply {
			continue
		}
		zero := curve.XY{X: []float64{0, g.Graph.MaxX()}, Y: []float64{0, 0}}
		blocks = append(blocks, resampleSwitching(d.TJ, vSupply, zero, g.Graph))
	}
	return blocks
}
