package verse

import (
	"math"
	"strconv"
)

// Slot is one gutter row. Number is the display number, or 0 for a blank row.
type Slot struct {
	Number int `json:"number,omitempty"`
}

// Blank reports whether the slot carries no display number.
func (s Slot) Blank() bool { return s.Number <= 0 }

// RowMetrics reports the rendered height of a logical line. ok is false when the
// line has not been laid out yet.
type RowMetrics interface {
	HeightOf(index int) (height float64, ok bool)
}

// RowMetricsFunc adapts a function to RowMetrics.
type RowMetricsFunc func(index int) (float64, bool)

func (f RowMetricsFunc) HeightOf(index int) (float64, bool) { return f(index) }

// Heights is a RowMetrics backed by a slice; indexes past the end are unknown.
type Heights []float64

func (h Heights) HeightOf(index int) (float64, bool) {
	if index < 0 || index >= len(h) {
		return 0, false
	}
	return h[index], true
}

// Measure expands logical lines into gutter slots. A countable line produces its
// number followed by one blank slot per extra wrapped row; a blank or
// skip-marked line produces a single blank slot and is never expanded.
//
// The wrap count assumes every wrapped row is lineHeight tall.
func Measure(lines []LogicalLine, metrics RowMetrics, lineHeight float64, marker string) []Slot {
	slots := make([]Slot, 0, len(lines))
	blanks := 0
	for i, l := range lines {
		if !l.Countable(marker) {
			blanks++
			slots = append(slots, Slot{})
			continue
		}
		slots = append(slots, Slot{Number: i + 1 - blanks})
		for range wrapCount(metrics, i, lineHeight) {
			slots = append(slots, Slot{})
		}
	}
	return slots
}

// rowEpsilon absorbs float noise in heights computed as rows × lineHeight.
const rowEpsilon = 1e-9

func wrapCount(metrics RowMetrics, index int, lineHeight float64) int {
	if metrics == nil || lineHeight <= 0 {
		return 0
	}
	h, ok := metrics.HeightOf(index)
	if !ok || h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	n := int(math.Ceil(h/lineHeight-rowEpsilon)) - 1
	if n < 0 {
		return 0
	}
	return n
}

// Density thresholds for the gutter.
const (
	denseLimit = 10
	wideStride = 5
)

// Stride returns the gutter density for slots: every number is painted when fewer
// than ten lines are numbered, otherwise only multiples of five.
func Stride(slots []Slot) int {
	numbered := 0
	for _, s := range slots {
		if !s.Blank() {
			numbered++
		}
	}
	if numbered < denseLimit {
		return 1
	}
	return wideStride
}

// Label returns the painted text for one slot under stride.
func Label(s Slot, stride int) string {
	if stride <= 0 {
		stride = 1
	}
	if s.Blank() || s.Number%stride != 0 {
		return Placeholder
	}
	return strconv.Itoa(s.Number)
}

// Paint renders every slot with the density chosen by Stride.
func Paint(slots []Slot) []string {
	stride := Stride(slots)
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = Label(s, stride)
	}
	return out
}
