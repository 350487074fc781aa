// Package glucose holds the unit and severity rules shared by the client
// and the server.
package glucose

import "strings"

// Unit is one of the two supported glucose units.
type Unit string

const (
	UnitMmolL Unit = "mmol/L"
	UnitMgDL  Unit = "mg/dL"

	// DefaultUnit is used whenever a unit is missing or unrecognised.
	DefaultUnit = UnitMmolL

	// MgDLPerMmolL converts between the two units.
	MgDLPerMmolL = 18.0
)

// ParseUnit maps a display string onto a Unit, case-insensitively.
// Unknown strings yield DefaultUnit and false.
func ParseUnit(s string) (Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mmol/l", "mmol":
		return UnitMmolL, true
	case "mg/dl", "mg":
		return UnitMgDL, true
	}
	return DefaultUnit, false
}

// ToMmol converts value expressed in u to mmol/L.
func (u Unit) ToMmol(value float64) float64 {
	if u == UnitMgDL {
		return value / MgDLPerMmolL
	}
	return value
}

// ToMgDL converts value expressed in u to mg/dL.
func (u Unit) ToMgDL(value float64) float64 {
	if u == UnitMgDL {
		return value
	}
	return value * MgDLPerMmolL
}
