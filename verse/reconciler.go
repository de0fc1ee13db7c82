package verse

import (
	"time"

	"github.com/rs/zerolog"
)

// Settling delays after a new verse text. The first pass catches layout after the
// first paint, the second catches late font or style application.
const (
	ShortSettle = 25 * time.Millisecond
	LongSettle  = 250 * time.Millisecond
)

// Scheduler delivers deferred and resize callbacks on the host's event loop.
type Scheduler interface {
	After(d time.Duration, fn func())
	OnResize(fn func()) (unsubscribe func())
}

// State tracks how far the gutter has converged for the current text.
type State int

const (
	StateUnmeasured State = iota
	StateMeasuring
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateMeasuring:
		return "measuring"
	case StateSettled:
		return "settled"
	default:
		return "unmeasured"
	}
}

// Options are the entry-point settings of a verse view.
type Options struct {
	LineHeight      float64 `json:"lineHeight"`
	Width           string  `json:"width"`
	NoLineNumbers   bool    `json:"noLineNumbers"`
	CounterSkipChar string  `json:"counterSkipChar"`
}

// DefaultOptions returns the stock settings.
func DefaultOptions() Options {
	return Options{
		LineHeight:      22,
		Width:           "100%",
		CounterSkipChar: "!",
	}
}

// WithDefaults fills zero fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.LineHeight <= 0 {
		o.LineHeight = d.LineHeight
	}
	if o.Width == "" {
		o.Width = d.Width
	}
	if o.CounterSkipChar == "" {
		o.CounterSkipChar = d.CounterSkipChar
	}
	return o
}

// Reconciler keeps the gutter of one verse view in step with the rendering
// surface. It is driven entirely by Scheduler callbacks and is not safe for
// concurrent use.
type Reconciler struct {
	opts    Options
	metrics RowMetrics
	sched   Scheduler
	log     zerolog.Logger

	lines      []LogicalLine
	slots      []Slot
	state      State
	measured   bool
	generation uint64
	pending    int

	unsubscribe func()
	closed      bool
}

// NewReconciler wires a reconciler to its metrics provider and scheduler and
// subscribes to resize events until Close.
func NewReconciler(metrics RowMetrics, sched Scheduler, opts Options, logger zerolog.Logger) *Reconciler {
	r := &Reconciler{
		opts:    opts.WithDefaults(),
		metrics: metrics,
		sched:   sched,
		log:     logger,
	}
	if sched != nil {
		r.unsubscribe = sched.OnResize(r.onResize)
	}
	return r
}

// SetVerse replaces the verse text. Lines are re-parsed immediately, the gutter
// is cleared and two settling passes are scheduled.
func (r *Reconciler) SetVerse(raw string) {
	if r.closed {
		return
	}
	r.generation++
	r.lines = Parse(raw)
	r.slots = nil
	r.measured = false
	r.state = StateUnmeasured
	r.pending = 0

	r.log.Debug().
		Uint64("generation", r.generation).
		Int("lines", len(r.lines)).
		Msg("verse text changed")

	if r.sched == nil {
		return
	}
	for _, d := range []time.Duration{ShortSettle, LongSettle} {
		r.pending++
		gen := r.generation
		r.sched.After(d, func() { r.onSettle(gen) })
	}
}

// Remeasure runs one measurement pass. Its result replaces the previous slots.
func (r *Reconciler) Remeasure() {
	if r.closed {
		return
	}
	r.state = StateMeasuring
	r.slots = Measure(r.lines, r.metrics, r.opts.LineHeight, r.opts.CounterSkipChar)
	r.measured = true
	if r.pending == 0 {
		r.state = StateSettled
	}

	r.log.Debug().
		Uint64("generation", r.generation).
		Int("slots", len(r.slots)).
		Str("state", r.state.String()).
		Msg("measured verse")
}

func (r *Reconciler) onSettle(gen uint64) {
	if r.closed || gen != r.generation {
		return
	}
	if r.pending > 0 {
		r.pending--
	}
	r.Remeasure()
}

func (r *Reconciler) onResize() {
	if r.closed {
		return
	}
	r.Remeasure()
}

// Close releases the resize subscription. Callbacks that fire afterwards are ignored.
func (r *Reconciler) Close() {
	if r.closed {
		return
	}
	r.closed = true
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// Lines returns the logical lines of the current text.
func (r *Reconciler) Lines() []LogicalLine { return r.lines }

// Slots returns the slots of the last completed pass; nil before the first pass.
func (r *Reconciler) Slots() []Slot { return r.slots }

// Ready reports whether at least one pass completed for the current text.
func (r *Reconciler) Ready() bool { return r.measured }

// State returns the convergence state.
func (r *Reconciler) State() State { return r.state }

// Options returns the effective options.
func (r *Reconciler) Options() Options { return r.opts }

// Closed reports whether Close was called.
func (r *Reconciler) Closed() bool { return r.closed }

// Stride returns the gutter density of the last pass.
func (r *Reconciler) Stride() int { return Stride(r.slots) }

// Gutter returns the painted gutter labels, or nil when line numbers are disabled
// or nothing has been measured yet.
func (r *Reconciler) Gutter() []string {
	if r.opts.NoLineNumbers || !r.measured {
		return nil
	}
	return Paint(r.slots)
}

// Fragments formats every logical line for painting.
func (r *Reconciler) Fragments() [][]Node {
	return FormatLines(r.lines, r.opts.CounterSkipChar)
}
