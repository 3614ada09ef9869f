package device

import (
	"fmt"
	"math"

	"github.com/voltlab/devcurve/pkg/curve"
)

// ChannelRecord is the storage-layer shape of a channel curve. Curves
// arrive as a (2, n) row matrix: voltages first, currents second.
type ChannelRecord struct {
	TJ       *float64    `json:"t_j"`
	VG       *float64    `json:"v_g,omitempty"`
	GraphVI  [][]float64 `json:"graph_v_i"`
	MirrorXY bool        `json:"mirror_xy,omitempty"`
}

// NewChannelData validates a channel record and builds the entity.
// Switch channels require a gate voltage, diode channels do not.
// MirrorXY generates the third-quadrant branch before the negative-value
// check, which is otherwise strict.
func NewChannelData(rec ChannelRecord, requireGate bool) (ChannelData, error) {
	const entity = "ChannelData"
	if rec.TJ == nil {
		return ChannelData{}, invalid(entity, "t_j", "mandatory field missing")
	}
	if requireGate && rec.VG == nil {
		return ChannelData{}, invalid(entity, "v_g", "mandatory field missing")
	}
	g, err := curve.FromRows(rec.GraphVI)
	if err != nil {
		return ChannelData{}, invalid(entity, "graph_v_i", err.Error())
	}
	if rec.MirrorXY {
		g = curve.Mirror(g)
	} else if g.HasNegative() {
		return ChannelData{}, invalid(entity, "graph_v_i",
			"negative values are not allowed, set mirror_xy to ingest third-quadrant data")
	}
	cd := ChannelData{TJ: *rec.TJ, Graph: g}
	if rec.VG != nil {
		v := *rec.VG
		cd.VG = &v
	}
	return cd, nil
}

// Record converts the entity back to its storage shape. A mirrored curve
// is emitted as stored, already containing both quadrants.
func (c ChannelData) Record() ChannelRecord {
	tj := c.TJ
	rec := ChannelRecord{TJ: &tj, GraphVI: c.Graph.Rows()}
	if c.VG != nil {
		v := *c.VG
		rec.VG = &v
	}
	return rec
}

// EnergyRecord is the storage-layer shape of a switching-energy dataset.
// Exactly one of the variant payloads must be populated, selected by
// DatasetType.
type EnergyRecord struct {
	DatasetType string   `json:"dataset_type"`
	TJ          *float64 `json:"t_j,omitempty"`
	VSupply     *float64 `json:"v_supply"`
	VG          *float64 `json:"v_g,omitempty"`

	EX *float64 `json:"e_x,omitempty"`
	RG *float64 `json:"r_g,omitempty"`
	IX *float64 `json:"i_x,omitempty"`

	GraphIE [][]float64 `json:"graph_i_e,omitempty"`
	GraphRE [][]float64 `json:"graph_r_e,omitempty"`
	GraphTE [][]float64 `json:"graph_t_e,omitempty"`
}

// NewSwitchEnergyData validates an energy record and builds the entity.
func NewSwitchEnergyData(rec EnergyRecord) (SwitchEnergyData, error) {
	const entity = "SwitchEnergyData"
	if rec.VSupply == nil {
		return SwitchEnergyData{}, invalid(entity, "v_supply", "mandatory field missing")
	}
	// graph_t_e carries temperature on its x-axis, t_j is mandatory for
	// every other variant.
	if rec.TJ == nil && rec.DatasetType != "graph_t_e" {
		return SwitchEnergyData{}, invalid(entity, "t_j", "mandatory field missing")
	}

	var payload EnergyDataset
	switch rec.DatasetType {
	case "single":
		if rec.EX == nil || rec.RG == nil || rec.IX == nil {
			return SwitchEnergyData{}, invalid(entity, "e_x/r_g/i_x",
				"single dataset needs scalar energy, gate resistance and current")
		}
		payload = SinglePoint{EX: *rec.EX, RG: *rec.RG, IX: *rec.IX}
	case "graph_i_e":
		if rec.RG == nil {
			return SwitchEnergyData{}, invalid(entity, "r_g", "mandatory for graph_i_e")
		}
		g, err := curve.FromRows(rec.GraphIE)
		if err != nil {
			return SwitchEnergyData{}, invalid(entity, "graph_i_e", err.Error())
		}
		payload = GraphIE{RG: *rec.RG, Graph: g}
	case "graph_r_e":
		if rec.IX == nil {
			return SwitchEnergyData{}, invalid(entity, "i_x", "mandatory for graph_r_e")
		}
		g, err := curve.FromRows(rec.GraphRE)
		if err != nil {
			return SwitchEnergyData{}, invalid(entity, "graph_r_e", err.Error())
		}
		payload = GraphRE{IX: *rec.IX, Graph: g}
	case "graph_t_e":
		if rec.RG == nil || rec.IX == nil {
			return SwitchEnergyData{}, invalid(entity, "r_g/i_x", "mandatory for graph_t_e")
		}
		g, err := curve.FromRows(rec.GraphTE)
		if err != nil {
			return SwitchEnergyData{}, invalid(entity, "graph_t_e", err.Error())
		}
		payload = GraphTE{RG: *rec.RG, IX: *rec.IX, Graph: g}
	default:
		return SwitchEnergyData{}, invalid(entity, "dataset_type",
			fmt.Sprintf("%q must be single, graph_i_e, graph_r_e or graph_t_e", rec.DatasetType))
	}

	d := SwitchEnergyData{VSupply: *rec.VSupply, Data: payload}
	if rec.TJ != nil {
		d.TJ = *rec.TJ
	}
	if rec.VG != nil {
		v := *rec.VG
		d.VG = &v
	}
	return d, nil
}

// Record converts the entity back to its storage shape.
func (d SwitchEnergyData) Record() EnergyRecord {
	rec := EnergyRecord{DatasetType: d.Data.DatasetType().String()}
	tj, vs := d.TJ, d.VSupply
	rec.TJ, rec.VSupply = &tj, &vs
	if d.VG != nil {
		v := *d.VG
		rec.VG = &v
	}
	switch v := d.Data.(type) {
	case SinglePoint:
		ex, rg, ix := v.EX, v.RG, v.IX
		rec.EX, rec.RG, rec.IX = &ex, &rg, &ix
	case GraphIE:
		rg := v.RG
		rec.RG = &rg
		rec.GraphIE = v.Graph.Rows()
	case GraphRE:
		ix := v.IX
		rec.IX = &ix
		rec.GraphRE = v.Graph.Rows()
	case GraphTE:
		rg, ix := v.RG, v.IX
		rec.RG, rec.IX = &rg, &ix
		rec.GraphTE = v.Graph.Rows()
	}
	return rec
}

// FosterRecord is the storage-layer shape of a thermal model. Everything
// is optional: the estimator completes what is missing.
type FosterRecord struct {
	RThVector []float64 `json:"r_th_vector,omitempty"`
	CThVector []float64 `json:"c_th_vector,omitempty"`
	TauVector []float64 `json:"tau_vector,omitempty"`

	RThTotal *float64 `json:"r_th_total,omitempty"`
	CThTotal *float64 `json:"c_th_total,omitempty"`
	TauTotal *float64 `json:"tau_total,omitempty"`

	GraphTRthJC [][]float64 `json:"graph_t_rthjc,omitempty"`
}

// NewFosterThermalModel validates a thermal record and builds the model.
// Supplied totals are marked pinned so later estimation never overwrites
// them. Vector invariants: equal length, and tau_i = r_th_i * c_th_i
// within rounding tolerance when all three are given; a single lone
// vector is rejected because nothing can be derived from it.
func NewFosterThermalModel(rec FosterRecord) (FosterThermalModel, error) {
	const entity = "FosterThermalModel"
	m := FosterThermalModel{}

	given := 0
	n := -1
	for _, v := range [][]float64{rec.RThVector, rec.CThVector, rec.TauVector} {
		if v == nil {
			continue
		}
		given++
		if n >= 0 && len(v) != n {
			return FosterThermalModel{}, invalid(entity, "r_th_vector/c_th_vector/tau_vector",
				"stage vectors must have the same length")
		}
		n = len(v)
	}
	if given == 1 {
		return FosterThermalModel{}, invalid(entity, "r_th_vector/c_th_vector/tau_vector",
			"a single stage vector is unusable, give two, three or none")
	}
	if rec.RThVector != nil && rec.CThVector != nil && rec.TauVector != nil {
		for i := range rec.TauVector {
			want := rec.RThVector[i] * rec.CThVector[i]
			if math.Abs(rec.TauVector[i]-want) > 1e-3*math.Max(math.Abs(want), 1e-12) {
				return FosterThermalModel{}, invalid(entity, "tau_vector",
					fmt.Sprintf("stage %d violates tau = r_th * c_th", i))
			}
		}
	}

	m.RThVector = append([]float64(nil), rec.RThVector...)
	m.CThVector = append([]float64(nil), rec.CThVector...)
	m.TauVector = append([]float64(nil), rec.TauVector...)
	if len(m.RThVector) == 0 {
		m.RThVector = nil
	}
	if len(m.CThVector) == 0 {
		m.CThVector = nil
	}
	if len(m.TauVector) == 0 {
		m.TauVector = nil
	}
	if given > 0 {
		m.supplied |= fosterVectors
	}

	if rec.RThTotal != nil {
		v := *rec.RThTotal
		m.RThTotal = &v
		m.supplied |= fosterRThTotal
	}
	if rec.CThTotal != nil {
		v := *rec.CThTotal
		m.CThTotal = &v
		m.supplied |= fosterCThTotal
	}
	if rec.TauTotal != nil {
		v := *rec.TauTotal
		m.TauTotal = &v
		m.supplied |= fosterTauTotal
	}
	if rec.GraphTRthJC != nil {
		g, err := curve.FromRows(rec.GraphTRthJC)
		if err != nil {
			return FosterThermalModel{}, invalid(entity, "graph_t_rthjc", err.Error())
		}
		m.Graph = &g
	}
	return m, nil
}

// Record converts the model back to its storage shape. By default only
// fields that were supplied by the data source are emitted; derived-only
// values (vectors or totals the estimator produced) are included when
// withDerived is set.
func (m *FosterThermalModel) Record(withDerived bool) FosterRecord {
	rec := FosterRecord{}
	if withDerived || m.supplied&fosterVectors != 0 {
		rec.RThVector = append([]float64(nil), m.RThVector...)
		rec.CThVector = append([]float64(nil), m.CThVector...)
		rec.TauVector = append([]float64(nil), m.TauVector...)
	}
	if m.RThTotal != nil && (withDerived || m.RThTotalPinned()) {
		v := *m.RThTotal
		rec.RThTotal = &v
	}
	if m.CThTotal != nil && (withDerived || m.CThTotalPinned()) {
		v := *m.CThTotal
		rec.CThTotal = &v
	}
	if m.TauTotal != nil && (withDerived || m.TauTotalPinned()) {
		v := *m.TauTotal
		rec.TauTotal = &v
	}
	if m.Graph != nil {
		rec.GraphTRthJC = m.Graph.Rows()
	}
	return rec
}

// SwitchRecord is the storage-layer shape of the switch side.
type SwitchRecord struct {
	Channel []ChannelRecord `json:"channel"`
	EOn     []EnergyRecord  `json:"e_on,omitempty"`
	EOff    []EnergyRecord  `json:"e_off,omitempty"`
	Thermal *FosterRecord   `json:"thermal_foster,omitempty"`
}

// DiodeRecord is the storage-layer shape of the diode side.
type DiodeRecord struct {
	Channel []ChannelRecord `json:"channel"`
	ERR     []EnergyRecord  `json:"e_rr,omitempty"`
	Thermal *FosterRecord   `json:"thermal_foster,omitempty"`
}

// TransistorRecord is the storage-layer shape of the full aggregate.
type TransistorRecord struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	VAbsMax *float64 `json:"v_abs_max"`
	IAbsMax *float64 `json:"i_abs_max"`
	RGInt   *float64 `json:"r_g_int,omitempty"`

	Switch SwitchRecord `json:"switch"`
	Diode  DiodeRecord  `json:"diode"`
}

// NewTransistor validates the whole aggregate record and builds the
// repository entry. Validation is all-or-nothing.
func NewTransistor(rec TransistorRecord) (*Transistor, error) {
	const entity = "Transistor"
	if rec.Name == "" {
		return nil, invalid(entity, "name", "mandatory field missing")
	}
	tech, err := ParseTechnology(rec.Type)
	if err != nil {
		return nil, err
	}
	if rec.VAbsMax == nil {
		return nil, invalid(entity, "v_abs_max", "mandatory field missing")
	}
	if rec.IAbsMax == nil {
		return nil, invalid(entity, "i_abs_max", "mandatory field missing")
	}

	t := &Transistor{
		Name:    rec.Name,
		Type:    tech,
		VAbsMax: *rec.VAbsMax,
		IAbsMax: *rec.IAbsMax,
	}
	if rec.RGInt != nil {
		t.RGInt = *rec.RGInt
	}

	for i, cr := range rec.Switch.Channel {
		cd, err := NewChannelData(cr, true)
		if err != nil {
			return nil, fmt.Errorf("switch channel[%d]: %w", i, err)
		}
		t.Switch.Channel = append(t.Switch.Channel, cd)
	}
	for i, er := range rec.Switch.EOn {
		ed, err := NewSwitchEnergyData(er)
		if err != nil {
			return nil, fmt.Errorf("switch e_on[%d]: %w", i, err)
		}
		t.Switch.EOn = append(t.Switch.EOn, ed)
	}
	for i, er := range rec.Switch.EOff {
		ed, err := NewSwitchEnergyData(er)
		if err != nil {
			return nil, fmt.Errorf("switch e_off[%d]: %w", i, err)
		}
		t.Switch.EOff = append(t.Switch.EOff, ed)
	}
	if rec.Switch.Thermal != nil {
		fm, err := NewFosterThermalModel(*rec.Switch.Thermal)
		if err != nil {
			return nil, fmt.Errorf("switch thermal: %w", err)
		}
		t.Switch.Thermal = fm
	}

	requireDiodeGate := tech.GateDependentBodyDiode()
	for i, cr := range rec.Diode.Channel {
		cd, err := NewChannelData(cr, requireDiodeGate)
		if err != nil {
			return nil, fmt.Errorf("diode channel[%d]: %w", i, err)
		}
		t.Diode.Channel = append(t.Diode.Channel, cd)
	}
	for i, er := range rec.Diode.ERR {
		ed, err := NewSwitchEnergyData(er)
		if err != nil {
			return nil, fmt.Errorf("diode e_rr[%d]: %w", i, err)
		}
		t.Diode.ERR = append(t.Diode.ERR, ed)
	}
	if rec.Diode.Thermal != nil {
		fm, err := NewFosterThermalModel(*rec.Diode.Thermal)
		if err != nil {
			return nil, fmt.Errorf("diode thermal: %w", err)
		}
		t.Diode.Thermal = fm
	}
	return t, nil
}
