// Package device holds the typed in-memory repository of measured
// power-semiconductor characteristics and the validation boundary that
// guards it. It is the data model the resolver, synthesizer, estimator
// and negotiator packages operate on.
//
// Entities
//
//   - ChannelData:
//     one measured V-I channel curve at a fixed (t_j, v_g). The gate
//     voltage is optional (plain PN body diodes have none). Curves are
//     rejected when they contain negative samples, unless the source
//     record asks for mirroring at ingestion (mirror_xy), in which case
//     the third-quadrant branch is generated before validation.
//
//   - SwitchEnergyData:
//     one switching-energy dataset at a fixed (t_j, v_supply, v_g). The
//     variant payload is a sum type (EnergyDataset): a scalar measurement
//     (SinglePoint), an energy-vs-current curve at fixed gate resistance
//     (GraphIE), an energy-vs-gate-resistance curve at fixed current
//     (GraphRE), or an energy-vs-temperature curve (GraphTE). Exactly one
//     payload exists per record; code branches with a type switch, never
//     on a string tag.
//
//   - FosterThermalModel:
//     an n-stage RC ladder (r_th, c_th, tau per stage plus totals) and
//     optionally the raw transient-impedance curve it was measured from.
//     Vectors and totals are nil until supplied or derived; a total that
//     was supplied by the data source is considered pinned and is never
//     overwritten by derived values (see pkg/thermal).
//
//   - Switch, Diode, Transistor:
//     aggregates owning their curve lists and exactly one thermal model
//     each. Ownership is exclusive; no curve is shared across aggregates.
//
// Construction
//
// All entities are built from plain record structs (record.go) matching
// the storage layer's schema, with 2-D curves given as two equal-length
// ordered rows. Validation happens once, at construction: mandatory
// fields, numeric ranges and the (2, n) curve shape are checked and a
// *ValidationError is returned on the first violation. A record is never
// partially accepted.
//
// The package performs no I/O. Reading and writing record files is the
// storage layer's concern; exporter file formats are out of scope.
package device
