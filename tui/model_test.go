package tui

import (
	"maps"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/verso/verse"
)

var longLine = strings.TrimSpace(strings.Repeat("word ", 10))

func newTestModel(t *testing.T, text string, opts verse.Options) *Model {
	t.Helper()
	m := New("Test", text, opts, zerolog.Nop())
	require.NotNil(t, m.Init(), "settling ticks should be scheduled")
	return m
}

func fireAll(m *Model) {
	for _, id := range slices.Sorted(maps.Keys(m.sched.timers)) {
		m.Update(timerMsg{id: id})
	}
}

func slotNumbers(slots []verse.Slot) []int {
	out := make([]int, len(slots))
	for i, s := range slots {
		out[i] = s.Number
	}
	return out
}

func TestModel_EmptyUntilSized(t *testing.T) {
	m := newTestModel(t, "one\ntwo", verse.DefaultOptions())
	assert.Empty(t, m.View())
	assert.False(t, m.Reconciler().Ready())
	assert.Nil(t, m.Reconciler().Gutter())
}

func TestModel_ResizeMeasuresAndTimersSettle(t *testing.T) {
	m := newTestModel(t, "short\n"+longLine+"\nend", verse.DefaultOptions())

	m.Update(tea.WindowSizeMsg{Width: 20, Height: 10})
	rec := m.Reconciler()
	require.True(t, rec.Ready())
	assert.Equal(t, verse.StateMeasuring, rec.State())
	assert.Equal(t, 1, m.gutterWidth())
	assert.Equal(t, 18, m.surface.width)

	h, ok := m.surface.HeightOf(1)
	require.True(t, ok)
	rows := int(h)
	require.Greater(t, rows, 1)

	want := []int{1, 2}
	for range rows - 1 {
		want = append(want, 0)
	}
	want = append(want, 3)
	assert.Equal(t, want, slotNumbers(rec.Slots()))

	fireAll(m)
	assert.Equal(t, verse.StateSettled, rec.State())

	gutter := m.paintGutter(rows+2, 1)
	assert.Equal(t, "1", gutter[0])
	assert.Equal(t, "2", gutter[1])
	for _, cell := range gutter[2 : rows+1] {
		assert.Equal(t, " ", cell)
	}
	assert.Equal(t, "3", gutter[rows+1])

	view := m.View()
	assert.Contains(t, view, "Test")
	assert.Contains(t, view, "settled")
}

func TestModel_NoLineNumbers(t *testing.T) {
	opts := verse.DefaultOptions()
	opts.NoLineNumbers = true
	m := newTestModel(t, "a\nb", opts)

	m.Update(tea.WindowSizeMsg{Width: 20, Height: 10})
	fireAll(m)

	assert.Equal(t, 0, m.gutterWidth())
	assert.Equal(t, 20, m.surface.width)
	assert.Nil(t, m.Reconciler().Gutter())
}

func TestModel_WidthOption(t *testing.T) {
	opts := verse.DefaultOptions()
	opts.Width = "50%"
	m := newTestModel(t, "a\nb", opts)

	m.Update(tea.WindowSizeMsg{Width: 20, Height: 10})
	assert.Equal(t, 9, m.surface.width)
}

func TestModel_SetVerseRestarts(t *testing.T) {
	m := newTestModel(t, "a\nb", verse.DefaultOptions())
	m.Update(tea.WindowSizeMsg{Width: 20, Height: 10})
	stale := slices.Sorted(maps.Keys(m.sched.timers))

	cmd := m.SetVerse("x\n!skip\ny")
	require.NotNil(t, cmd)
	rec := m.Reconciler()
	assert.False(t, rec.Ready())
	assert.Equal(t, verse.StateUnmeasured, rec.State())

	for _, id := range stale {
		m.Update(timerMsg{id: id})
	}
	assert.False(t, rec.Ready(), "timers of the previous text are ignored")

	fireAll(m)
	assert.Equal(t, verse.StateSettled, rec.State())
	assert.Equal(t, []int{1, 0, 2}, slotNumbers(rec.Slots()))
}

func TestModel_QuitClosesReconciler(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		t.Run(key.String(), func(t *testing.T) {
			m := newTestModel(t, "a", verse.DefaultOptions())
			_, cmd := m.Update(key)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.True(t, m.Reconciler().Closed())

			fireAll(m)
			assert.False(t, m.Reconciler().Ready(), "callbacks after close are ignored")
		})
	}
}
