// Package tui is a terminal viewer for verse documents. It drives a
// verse.Reconciler from the bubbletea event loop: ticks settle the gutter after
// a new text and window size changes re-measure it.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"github.com/ByLCY/verso/verse"
)

const chromeRows = 2 // title + status

// Model is the bubbletea model of the viewer.
type Model struct {
	title   string
	rec     *verse.Reconciler
	sched   *scheduler
	surface *surface
	styles  Styles
	log     zerolog.Logger

	viewport viewport.Model
	width    int
	height   int
	sized    bool
}

var _ tea.Model = (*Model)(nil)

// New builds a viewer for text. Each wrapped terminal row counts as one line
// height, so opts.LineHeight is ignored.
func New(title, text string, opts verse.Options, logger zerolog.Logger) *Model {
	opts.LineHeight = 1
	styles := DefaultStyles()
	m := &Model{
		title:    title,
		sched:    newScheduler(),
		surface:  newSurface(styles),
		styles:   styles,
		log:      logger,
		viewport: viewport.New(0, 0),
	}
	m.rec = verse.NewReconciler(m.surface, m.sched, opts, logger.With().Str("component", "reconciler").Logger())
	m.setVerse(text)
	return m
}

// Run starts the viewer in the alternate screen and blocks until it quits.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.sched.drain()
}

// SetVerse replaces the displayed text and returns the settling ticks.
func (m *Model) SetVerse(text string) tea.Cmd {
	m.setVerse(text)
	m.refresh()
	return m.sched.drain()
}

func (m *Model) setVerse(text string) {
	m.rec.SetVerse(text)
	m.surface.setLines(m.rec.Fragments())
	m.layoutColumns()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.sized = true
		m.viewport.Width = msg.Width
		m.viewport.Height = max(0, msg.Height-chromeRows)
		m.layoutColumns()
		m.sched.resized()
		m.refresh()
		return m, m.sched.drain()

	case timerMsg:
		m.sched.fire(msg.id)
		m.refresh()
		return m, m.sched.drain()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.rec.Close()
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	if !m.sized {
		return ""
	}
	title := m.title
	if title == "" {
		title = "verso"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render(title),
		m.viewport.View(),
		m.styles.Status.Render(m.status()),
	)
}

// Reconciler exposes the reconciler behind the view.
func (m *Model) Reconciler() *verse.Reconciler { return m.rec }

func (m *Model) status() string {
	countable := verse.CountableLines(m.rec.Lines(), m.rec.Options().CounterSkipChar)
	return fmt.Sprintf("%d lines · %s · q to quit", countable, m.rec.State())
}

// gutterWidth reserves room for the largest line number so the text column
// does not shift once numbers appear.
func (m *Model) gutterWidth() int {
	opts := m.rec.Options()
	if opts.NoLineNumbers {
		return 0
	}
	n := verse.CountableLines(m.rec.Lines(), opts.CounterSkipChar)
	return runewidth.StringWidth(strconv.Itoa(max(n, 1)))
}

// layoutColumns updates the text column width from the terminal width.
func (m *Model) layoutColumns() {
	if !m.sized {
		return
	}
	avail := m.width
	if gw := m.gutterWidth(); gw > 0 {
		avail -= gw + 1
	}
	m.surface.setWidth(columns(m.rec.Options().Width, avail))
}

// refresh repaints the viewport content from the current slots.
func (m *Model) refresh() {
	if !m.sized {
		return
	}
	var text []string
	for i := range m.rec.Lines() {
		rows, ok := m.surface.rows(i)
		if !ok {
			rows = []string{""}
		}
		text = append(text, rows...)
	}

	gw := m.gutterWidth()
	if gw == 0 {
		m.viewport.SetContent(strings.Join(text, "\n"))
		return
	}
	gutter := m.paintGutter(len(text), gw)
	m.viewport.SetContent(lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Gutter.Render(strings.Join(gutter, "\n")),
		" ",
		strings.Join(text, "\n"),
	))
}

// paintGutter right-aligns slot labels into rows cells; blank slots and rows
// past the last slot are spaces.
func (m *Model) paintGutter(rows, width int) []string {
	slots := m.rec.Slots()
	labels := m.rec.Gutter()
	out := make([]string, rows)
	for i := range out {
		label := ""
		if labels != nil && i < len(slots) && labels[i] != verse.Placeholder {
			label = labels[i]
		}
		pad := max(0, width-runewidth.StringWidth(label))
		out[i] = strings.Repeat(" ", pad) + label
	}
	return out
}
