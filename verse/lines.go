// Package verse turns newline-delimited verse text into formatted lines and a
// line-number gutter that stays aligned with the rows a rendering surface
// actually produced.
package verse

import "strings"

// LogicalLine is one line of the input text after the outer empty lines are trimmed.
type LogicalLine struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Blank reports whether the line is empty or whitespace only.
func (l LogicalLine) Blank() bool {
	return strings.TrimSpace(l.Text) == ""
}

// SkipMarked reports whether the line starts with marker.
func (l LogicalLine) SkipMarked(marker string) bool {
	return marker != "" && strings.HasPrefix(l.Text, marker)
}

// Countable reports whether the line receives a display number.
func (l LogicalLine) Countable(marker string) bool {
	return !l.Blank() && !l.SkipMarked(marker)
}

// Parse splits raw into logical lines. Exactly one leading and one trailing
// empty line are dropped when present; interior blank lines are kept.
func Parse(raw string) []LogicalLine {
	parts := strings.Split(raw, "\n")
	if len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	lines := make([]LogicalLine, len(parts))
	for i, p := range parts {
		lines[i] = LogicalLine{Index: i, Text: p}
	}
	return lines
}

// CountableLines returns how many lines in lines receive a display number.
func CountableLines(lines []LogicalLine, marker string) int {
	n := 0
	for _, l := range lines {
		if l.Countable(marker) {
			n++
		}
	}
	return n
}
