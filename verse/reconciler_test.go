package verse

import (
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced Scheduler.
type fakeClock struct {
	now     time.Duration
	timers  []fakeTimer
	resize  map[int]func()
	nextSub int
}

type fakeTimer struct {
	at time.Duration
	fn func()
}

func newFakeClock() *fakeClock {
	return &fakeClock{resize: map[int]func(){}}
}

func (c *fakeClock) After(d time.Duration, fn func()) {
	c.timers = append(c.timers, fakeTimer{at: c.now + d, fn: fn})
}

func (c *fakeClock) OnResize(fn func()) func() {
	id := c.nextSub
	c.nextSub++
	c.resize[id] = fn
	return func() { delete(c.resize, id) }
}

// Advance fires every timer due within d, in deadline order.
func (c *fakeClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		sort.SliceStable(c.timers, func(i, j int) bool { return c.timers[i].at < c.timers[j].at })
		if len(c.timers) == 0 || c.timers[0].at > target {
			break
		}
		next := c.timers[0]
		c.timers = c.timers[1:]
		c.now = next.at
		next.fn()
	}
	c.now = target
}

func (c *fakeClock) Resize() {
	for _, fn := range c.resize {
		fn()
	}
}

// fakeSurface reports heights that can change between passes.
type fakeSurface struct {
	heights Heights
	queries int
}

func (s *fakeSurface) HeightOf(i int) (float64, bool) {
	s.queries++
	return s.heights.HeightOf(i)
}

func newTestReconciler(t *testing.T, surface RowMetrics, clock Scheduler, opts Options) *Reconciler {
	t.Helper()
	return NewReconciler(surface, clock, opts, zerolog.Nop())
}

func TestReconcilerSettlingPasses(t *testing.T) {
	clock := newFakeClock()
	surface := &fakeSurface{}
	r := newTestReconciler(t, surface, clock, Options{})

	r.SetVerse("\nHello\n\n**World**\n")
	assert.Equal(t, StateUnmeasured, r.State())
	assert.Len(t, r.Lines(), 3)
	assert.Nil(t, r.Slots())
	assert.Nil(t, r.Gutter())
	assert.False(t, r.Ready())

	// first paint has not happened yet: heights unknown
	clock.Advance(ShortSettle)
	assert.Equal(t, StateMeasuring, r.State())
	assert.True(t, r.Ready())
	assert.Equal(t, []int{1, 0, 2}, numbers(r.Slots()))

	// fonts settle and the first line now wraps once
	surface.heights = Heights{44, 22, 22}
	clock.Advance(LongSettle - ShortSettle)
	assert.Equal(t, StateSettled, r.State())
	assert.Equal(t, []int{1, 0, 0, 2}, numbers(r.Slots()))
	assert.Equal(t, []string{"1", Placeholder, Placeholder, "2"}, r.Gutter())
}

func TestReconcilerResize(t *testing.T) {
	clock := newFakeClock()
	surface := &fakeSurface{heights: Heights{22, 22}}
	r := newTestReconciler(t, surface, clock, Options{})

	r.SetVerse("one\ntwo")
	clock.Advance(time.Second)
	require.Equal(t, StateSettled, r.State())
	require.Equal(t, []int{1, 2}, numbers(r.Slots()))

	// narrower viewport
	surface.heights = Heights{66, 44}
	clock.Resize()
	assert.Equal(t, StateSettled, r.State())
	assert.Equal(t, []int{1, 0, 0, 2, 0}, numbers(r.Slots()))

	// wider again; last pass wins with no merge
	surface.heights = Heights{22, 22}
	clock.Resize()
	assert.Equal(t, []int{1, 2}, numbers(r.Slots()))
}

func TestReconcilerResizeDuringSettling(t *testing.T) {
	clock := newFakeClock()
	surface := &fakeSurface{heights: Heights{22}}
	r := newTestReconciler(t, surface, clock, Options{})

	r.SetVerse("only")
	clock.Resize()
	assert.Equal(t, StateMeasuring, r.State(), "settling passes still pending")

	clock.Advance(LongSettle)
	assert.Equal(t, StateSettled, r.State())
}

func TestReconcilerNewTextRestarts(t *testing.T) {
	clock := newFakeClock()
	surface := &fakeSurface{}
	r := newTestReconciler(t, surface, clock, Options{})

	r.SetVerse("a\nb\nc")
	clock.Advance(ShortSettle)
	require.Len(t, r.Slots(), 3)

	r.SetVerse("x")
	assert.Equal(t, StateUnmeasured, r.State())
	assert.Nil(t, r.Slots())

	clock.Advance(ShortSettle)
	assert.Equal(t, StateMeasuring, r.State())
	assert.Equal(t, []int{1}, numbers(r.Slots()))

	// the long pass of the first text fires now and must not count as settling
	clock.Advance(LongSettle - 2*ShortSettle)
	assert.Equal(t, StateMeasuring, r.State())

	clock.Advance(ShortSettle)
	assert.Equal(t, StateSettled, r.State())
}

func TestReconcilerClose(t *testing.T) {
	clock := newFakeClock()
	surface := &fakeSurface{}
	r := newTestReconciler(t, surface, clock, Options{})

	r.SetVerse("a\nb")
	require.Len(t, clock.resize, 1)

	r.Close()
	assert.True(t, r.Closed())
	assert.Empty(t, clock.resize, "resize listener released")

	// timers scheduled before teardown fire into a disposed view
	clock.Advance(time.Second)
	assert.Zero(t, surface.queries)
	assert.Nil(t, r.Slots())

	r.Close()
	r.SetVerse("ignored")
	assert.Len(t, r.Lines(), 2)
}

func TestReconcilerNoLineNumbers(t *testing.T) {
	clock := newFakeClock()
	r := newTestReconciler(t, Heights{22}, clock, Options{NoLineNumbers: true})

	r.SetVerse("a")
	clock.Advance(LongSettle)
	assert.Equal(t, []int{1}, numbers(r.Slots()))
	assert.Nil(t, r.Gutter())
}

func TestReconcilerCustomOptions(t *testing.T) {
	clock := newFakeClock()
	r := newTestReconciler(t, Heights{20, 40, 10}, clock, Options{LineHeight: 10, CounterSkipChar: "#"})

	r.SetVerse("#Title\ntwo rows\n!counted")
	r.Remeasure()
	assert.Equal(t, []int{0, 1, 0, 0, 0, 2}, numbers(r.Slots()))
	assert.Equal(t, "100%", r.Options().Width)
}

func TestReconcilerDensity(t *testing.T) {
	clock := newFakeClock()
	r := newTestReconciler(t, nil, clock, Options{})

	raw := ""
	for i := 0; i < 12; i++ {
		raw += "line\n"
	}
	r.SetVerse(raw)
	clock.Advance(LongSettle)

	assert.Equal(t, 5, r.Stride())
	gutter := r.Gutter()
	require.Len(t, gutter, 12)
	assert.Equal(t, "5", gutter[4])
	assert.Equal(t, "10", gutter[9])
	assert.Equal(t, Placeholder, gutter[0])
}

func TestReconcilerWithoutScheduler(t *testing.T) {
	r := NewReconciler(Heights{44}, nil, Options{}, zerolog.Nop())
	r.SetVerse("wraps")
	assert.Equal(t, StateUnmeasured, r.State())

	r.Remeasure()
	assert.Equal(t, StateSettled, r.State())
	assert.Equal(t, []int{1, 0}, numbers(r.Slots()))
	r.Close()
}

func TestFragments(t *testing.T) {
	r := NewReconciler(nil, nil, Options{}, zerolog.Nop())
	r.SetVerse("!**Title**\n*soft*")
	assert.Equal(t, [][]Node{
		{{NodeStrong, "Title"}},
		{{NodeEm, "soft"}},
	}, r.Fragments())
}

func TestOptionsWithDefaults(t *testing.T) {
	got := Options{}.WithDefaults()
	assert.Equal(t, DefaultOptions(), got)

	custom := Options{LineHeight: 30, Width: "60%", NoLineNumbers: true, CounterSkipChar: "~"}
	assert.Equal(t, custom, custom.WithDefaults())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unmeasured", StateUnmeasured.String())
	assert.Equal(t, "measuring", StateMeasuring.String())
	assert.Equal(t, "settled", StateSettled.String())
}
