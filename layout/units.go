package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths for line height, width, font size and margins.

// Unit represents the unit of a length value as written in a document.
type Unit int

const (
	UnitNone    Unit = iota // unit-less numbers, read as CSS pixels
	UnitMM                  // millimeters
	UnitCM                  // centimeters
	UnitIN                  // inches
	UnitPT                  // points
	UnitPX                  // CSS pixels (96 per inch)
	UnitPercent             // share of a reference length
)

// Conversion constants.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	PxToMm = 25.4 / 96
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitPX:
		return "px"
	case UnitPercent:
		return "%"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Relative reports whether the length depends on a reference length.
func (l Length) Relative() bool { return l.Unit == UnitPercent }

// String renders the length the way it would be written in a document.
func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ToMM converts an absolute length to millimeters. Percentages resolve against 0.
func (l Length) ToMM() float64 { return l.Resolve(0) }

// ToPT converts an absolute length to points.
func (l Length) ToPT() float64 { return l.ToMM() * MmToPt }

// Resolve converts the length to millimeters, resolving percentages against
// reference (in millimeters).
func (l Length) Resolve(reference float64) float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	case UnitPercent:
		return reference * l.Value / 100
	default:
		return l.Value * PxToMm
	}
}

var unitSuffixes = []struct {
	s string
	u Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"px", UnitPX}, {"%", UnitPercent}}

// ParseLength parses a length string such as "22", "12pt", "20mm" or "80%".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("empty length")
	}
	unit := UnitNone
	num := v
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("negative length %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// ParseRawLengthStr parses a length and returns the zero Length when it is malformed.
func ParseRawLengthStr(value string) Length {
	l, err := ParseLength(value)
	if err != nil {
		return Length{Value: 0, Unit: UnitNone}
	}
	return l
}
