package layout

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestParseLengthUnits(t *testing.T) {
	cases := []struct {
		in   string
		unit Unit
		mm   float64
	}{
		{"10mm", UnitMM, 10},
		{"1cm", UnitCM, 10},
		{"1in", UnitIN, 25.4},
		{"12pt", UnitPT, 12 * PtToMm},
		{"96px", UnitPX, 25.4},
		{"22", UnitNone, 22 * PxToMm},
		{" 5.5MM ", UnitMM, 5.5},
	}
	for _, c := range cases {
		l, err := ParseLength(c.in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", c.in, err)
		}
		if l.Unit != c.unit {
			t.Fatalf("%q: expected unit %v, got %v", c.in, c.unit, l.Unit)
		}
		if !almostEqual(l.ToMM(), c.mm) {
			t.Fatalf("%q: expected %gmm, got %g", c.in, c.mm, l.ToMM())
		}
	}
}

func TestPercentResolvesAgainstReference(t *testing.T) {
	l, err := ParseLength("80%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.Relative() {
		t.Fatalf("expected percentage to be relative")
	}
	if got := l.Resolve(150); !almostEqual(got, 120) {
		t.Fatalf("expected 120mm, got %g", got)
	}
	if got := l.ToMM(); got != 0 {
		t.Fatalf("percentage without reference should be 0, got %g", got)
	}
}

func TestParseLengthErrors(t *testing.T) {
	for _, in := range []string{"", "abc", "-3mm", "12 pt pt"} {
		if _, err := ParseLength(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
	if l := ParseRawLengthStr("bogus"); l.Value != 0 || l.Unit != UnitNone {
		t.Fatalf("expected zero length for malformed input, got %+v", l)
	}
}

func TestLengthString(t *testing.T) {
	cases := map[string]string{"12pt": "12pt", "80%": "80%", "22": "22", "1.5cm": "1.5cm"}
	for in, want := range cases {
		if got := ParseRawLengthStr(in).String(); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
	if got := (Length{Value: 72, Unit: UnitPT}).ToPT(); !almostEqual(got, 72) {
		t.Fatalf("expected 72pt round trip, got %g", got)
	}
}
