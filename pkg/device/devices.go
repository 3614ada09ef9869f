package device

import "fmt"

// Technology is the transistor family a dataset belongs to. It decides
// whether the body diode has gate-voltage dependency and whether the
// channel behaves purely resistively.
type Technology int

const (
	MOSFET Technology = iota
	IGBT
	SiCMOSFET
	GaNTransistor
)

func (t Technology) String() string {
	switch t {
	case MOSFET:
		return "MOSFET"
	case IGBT:
		return "IGBT"
	case SiCMOSFET:
		return "SiC-MOSFET"
	case GaNTransistor:
		return "GaN-Transistor"
	}
	return fmt.Sprintf("Technology(%d)", int(t))
}

// ParseTechnology maps the storage-layer type tag to a Technology.
func ParseTechnology(s string) (Technology, error) {
	switch s {
	case "MOSFET":
		return MOSFET, nil
	case "IGBT":
		return IGBT, nil
	case "SiC-MOSFET":
		return SiCMOSFET, nil
	case "GaN-Transistor":
		return GaNTransistor, nil
	}
	return 0, invalid("Transistor", "type",
		fmt.Sprintf("%q is not one of MOSFET, IGBT, SiC-MOSFET, GaN-Transistor", s))
}

// GateDependentBodyDiode reports whether the intrinsic diode's channel
// depends on the gate voltage. Plain PN body diodes (MOSFET, IGBT) do
// not; their channel curves are resolved on temperature alone.
func (t Technology) GateDependentBodyDiode() bool {
	return t == SiCMOSFET || t == GaNTransistor
}

// OhmicChannel reports whether the switch channel has no forward voltage
// and linearizes to a pure resistance.
func (t Technology) OhmicChannel() bool {
	return t == MOSFET || t == SiCMOSFET
}

// Switch owns the conduction and switching-loss data of the active side
// of a device, plus its thermal model.
type Switch struct {
	Channel []ChannelData
	EOn     []SwitchEnergyData
	EOff    []SwitchEnergyData
	Thermal FosterThermalModel
}

// Diode owns the conduction and reverse-recovery data of the diode side.
type Diode struct {
	Channel []ChannelData
	ERR     []SwitchEnergyData
	Thermal FosterThermalModel
}

// Transistor is the top-level aggregate: one switch, one diode, absolute
// maximum ratings. Curves are owned exclusively; nothing is shared
// between the two sides.
type Transistor struct {
	Name    string
	Type    Technology
	VAbsMax float64 // V
	IAbsMax float64 // A
	RGInt   float64 // Ohm, internal gate resistance

	Switch Switch
	Diode  Diode
}

// Energy returns the dataset list owning the given energy family:
// e_on/e_off live on the switch, e_rr on the diode.
func (t *Transistor) Energy(kind EnergyKind) []SwitchEnergyData {
	switch kind {
	case EOn:
		return t.Switch.EOn
	case EOff:
		return t.Switch.EOff
	case ERR:
		return t.Diode.ERR
	}
	return nil
}

// Thermal returns the thermal model of the side owning the given energy
// family.
func (t *Transistor) Thermal(kind EnergyKind) *FosterThermalModel {
	if kind == ERR {
		return &t.Diode.Thermal
	}
	return &t.Switch.Thermal
}
