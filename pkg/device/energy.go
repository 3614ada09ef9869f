package device

import (
	"fmt"
	"math"

	"github.com/voltlab/devcurve/pkg/curve"
)

// EnergyKind selects one of the three switching-energy families.
type EnergyKind int

const (
	EOn EnergyKind = iota // switch turn-on loss
	EOff                  // switch turn-off loss
	ERR                   // diode reverse-recovery loss
)

func (k EnergyKind) String() string {
	switch k {
	case EOn:
		return "e_on"
	case EOff:
		return "e_off"
	case ERR:
		return "e_rr"
	}
	return fmt.Sprintf("EnergyKind(%d)", int(k))
}

// DatasetType identifies the payload variant of a SwitchEnergyData record.
type DatasetType int

const (
	DatasetSingle DatasetType = iota
	DatasetGraphIE
	DatasetGraphRE
	DatasetGraphTE
)

func (t DatasetType) String() string {
	switch t {
	case DatasetSingle:
		return "single"
	case DatasetGraphIE:
		return "graph_i_e"
	case DatasetGraphRE:
		return "graph_r_e"
	case DatasetGraphTE:
		return "graph_t_e"
	}
	return fmt.Sprintf("DatasetType(%d)", int(t))
}

// EnergyDataset is the variant payload of a SwitchEnergyData record.
// Implementations are SinglePoint, GraphIE, GraphRE and GraphTE.
type EnergyDataset interface {
	DatasetType() DatasetType
}

// SinglePoint is a scalar energy measurement at one (r_g, i_x).
type SinglePoint struct {
	EX float64 // J
	RG float64 // Ohm
	IX float64 // A
}

// GraphIE is an energy-vs-current curve at a fixed gate resistance.
type GraphIE struct {
	RG    float64  // Ohm
	Graph curve.XY // (A, J)
}

// GraphRE is an energy-vs-gate-resistance curve at a fixed current.
type GraphRE struct {
	IX    float64  // A
	Graph curve.XY // (Ohm, J)
}

// GraphTE is an energy-vs-temperature curve at fixed (r_g, i_x).
type GraphTE struct {
	RG    float64  // Ohm
	IX    float64  // A
	Graph curve.XY // (degC, J)
}

func (SinglePoint) DatasetType() DatasetType { return DatasetSingle }
func (GraphIE) DatasetType() DatasetType     { return DatasetGraphIE }
func (GraphRE) DatasetType() DatasetType     { return DatasetGraphRE }
func (GraphTE) DatasetType() DatasetType     { return DatasetGraphTE }

// SwitchEnergyData is one switching-energy dataset at a fixed operating
// point. VG is nil for curves without gate dependency.
type SwitchEnergyData struct {
	TJ      float64  // degC
	VSupply float64  // V
	VG      *float64 // V, optional
	Data    EnergyDataset
}

// Gate returns the dataset's gate voltage, treating an absent one as 0.
func (d SwitchEnergyData) Gate() float64 { return Gate(d.VG) }

// Gate maps an optional gate voltage to the value used by distance
// metrics: absent gates count as 0 V.
func Gate(vg *float64) float64 {
	if vg == nil {
		return 0
	}
	return *vg
}

// OperatingPoint is the (t_j, v_g, v_supply, r_g) tuple a dataset was
// measured at, used in diagnostics. Fields that do not apply to the
// dataset variant are NaN.
type OperatingPoint struct {
	TJ      float64
	VG      float64
	VSupply float64
	RG      float64
}

func (p OperatingPoint) String() string {
	return fmt.Sprintf("(t_j=%g, v_g=%g, v_supply=%g, r_g=%g)", p.TJ, p.VG, p.VSupply, p.RG)
}

// OperatingPoint returns the dataset's measurement tuple.
func (d SwitchEnergyData) OperatingPoint() OperatingPoint {
	p := OperatingPoint{TJ: d.TJ, VSupply: d.VSupply, VG: math.NaN(), RG: math.NaN()}
	if d.VG != nil {
		p.VG = *d.VG
	}
	switch v := d.Data.(type) {
	case SinglePoint:
		p.RG = v.RG
	case GraphIE:
		p.RG = v.RG
	case GraphTE:
		p.RG = v.RG
	case GraphRE:
		// parameterized by r_g, no single value
	}
	return p
}

// Paired reports whether ie and re form a usable synthesis pair: a
// graph_i_e and a graph_r_e dataset sharing (t_j, v_g, v_supply).
func Paired(ie, re SwitchEnergyData) bool {
	if ie.Data == nil || re.Data == nil {
		return false
	}
	if ie.Data.DatasetType() != DatasetGraphIE || re.Data.DatasetType() != DatasetGraphRE {
		return false
	}
	return ie.TJ == re.TJ && ie.VSupply == re.VSupply && Gate(ie.VG) == Gate(re.VG)
}

// Equal compares two datasets elementwise, including the variant payload.
func (d SwitchEnergyData) Equal(o SwitchEnergyData) bool {
	if d.TJ != o.TJ || d.VSupply != o.VSupply {
		return false
	}
	if (d.VG == nil) != (o.VG == nil) {
		return false
	}
	if d.VG != nil && *d.VG != *o.VG {
		return false
	}
	switch a := d.Data.(type) {
	case SinglePoint:
		b, ok := o.Data.(SinglePoint)
		return ok && a == b
	case GraphIE:
		b, ok := o.Data.(GraphIE)
		return ok && a.RG == b.RG && a.Graph.Equal(b.Graph)
	case GraphRE:
		b, ok := o.Data.(GraphRE)
		return ok && a.IX == b.IX && a.Graph.Equal(b.Graph)
	case GraphTE:
		b, ok := o.Data.(GraphTE)
		return ok && a.RG == b.RG && a.IX == b.IX && a.Graph.Equal(b.Graph)
	}
	return d.Data == nil && o.Data == nil
}
