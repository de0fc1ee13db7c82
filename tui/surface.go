package tui

import (
	"strings"

	"github.com/ByLCY/verso/layout"
	"github.com/ByLCY/verso/verse"
)

// surface paints formatted lines into a text column and reports how many
// terminal rows each one occupies. It is the verse.RowMetrics of the viewer.
type surface struct {
	styles Styles
	width  int
	lines  [][]verse.Node
	cache  map[int][]string
}

func newSurface(styles Styles) *surface {
	return &surface{styles: styles, cache: map[int][]string{}}
}

func (s *surface) setLines(lines [][]verse.Node) {
	s.lines = lines
	s.cache = map[int][]string{}
}

func (s *surface) setWidth(width int) {
	if width == s.width {
		return
	}
	s.width = width
	s.cache = map[int][]string{}
}

// HeightOf reports the number of rows line index wraps into. Heights are
// unknown until the terminal size is known.
func (s *surface) HeightOf(index int) (float64, bool) {
	rows, ok := s.rows(index)
	if !ok {
		return 0, false
	}
	return float64(len(rows)), true
}

// rows returns the painted, wrapped rows of one logical line.
func (s *surface) rows(index int) ([]string, bool) {
	if s.width <= 0 || index < 0 || index >= len(s.lines) {
		return nil, false
	}
	if r, ok := s.cache[index]; ok {
		return r, true
	}
	block := s.styles.Text.Width(s.width).Render(s.paint(s.lines[index]))
	r := strings.Split(block, "\n")
	s.cache[index] = r
	return r, true
}

func (s *surface) paint(nodes []verse.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n.Kind {
		case verse.NodeStrong:
			b.WriteString(s.styles.Strong.Render(n.Value))
		case verse.NodeEm:
			b.WriteString(s.styles.Em.Render(n.Value))
		case verse.NodeStrongEm:
			b.WriteString(s.styles.StrongEm.Render(n.Value))
		default:
			b.WriteString(n.Value)
		}
	}
	return b.String()
}

// columns resolves the width option against the available terminal columns.
// Percentages scale avail; absolute values count columns. The result is
// clamped to [1, avail].
func columns(width string, avail int) int {
	if avail <= 0 {
		return 0
	}
	l, err := layout.ParseLength(width)
	if err != nil {
		return avail
	}
	cols := int(l.Value)
	if l.Relative() {
		cols = int(l.Resolve(float64(avail)))
	}
	return max(1, min(cols, avail))
}
