package tui

import (
	"maps"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// timerMsg is delivered by tea.Tick when a deferred callback is due.
type timerMsg struct{ id int }

// scheduler implements verse.Scheduler on top of the bubbletea event loop.
// Callbacks never run on the tick goroutine: After queues a tea.Tick command,
// and the callback runs in Update when its timerMsg arrives.
type scheduler struct {
	nextID  int
	timers  map[int]func()
	resize  map[int]func()
	pending []tea.Cmd
}

func newScheduler() *scheduler {
	return &scheduler{
		timers: map[int]func(){},
		resize: map[int]func(){},
	}
}

func (s *scheduler) After(d time.Duration, fn func()) {
	s.nextID++
	id := s.nextID
	s.timers[id] = fn
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	}))
}

func (s *scheduler) OnResize(fn func()) func() {
	s.nextID++
	id := s.nextID
	s.resize[id] = fn
	return func() { delete(s.resize, id) }
}

// drain hands the queued ticks to bubbletea.
func (s *scheduler) drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

// fire runs the callback registered under id at most once.
func (s *scheduler) fire(id int) {
	fn, ok := s.timers[id]
	if !ok {
		return
	}
	delete(s.timers, id)
	fn()
}

// resized notifies resize subscribers in subscription order.
func (s *scheduler) resized() {
	for _, id := range slices.Sorted(maps.Keys(s.resize)) {
		if fn, ok := s.resize[id]; ok {
			fn()
		}
	}
}
