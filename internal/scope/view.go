// Package scope is the consumer side of the oscilloscope: it pulls snapshots
// from the exchange on every tick, owns the per-channel display state, and
// hands renderers one panel per visible channel.
package scope

import (
	"fmt"

	"github.com/olivier-w/oscilloview/internal/display"
	"github.com/olivier-w/oscilloview/internal/oscillo"
	"github.com/olivier-w/oscilloview/internal/window"
)

// Panel is everything a renderer needs to draw one channel.
type Panel struct {
	Index  int
	Label  string
	Window window.Window

	LineColor       display.Color
	BackgroundColor display.Color
	LabelColor      display.Color
	LabelFont       display.Font

	Pen   display.Resource
	Brush display.Resource
	Font  display.Resource
}

// View is the oscilloscope display. It is driven from a single goroutine: the
// one calling Open, Tick, Panels, Channel and Close.
type View struct {
	exchange *oscillo.Exchange
	opts     window.Options
	sched    Scheduler

	snapshot oscillo.Snapshot
	primed   bool
	channels [oscillo.TrackCount]*display.Channel

	onClose func()
}

// New builds a closed view reading from ex.
func New(ex *oscillo.Exchange, factory display.Factory, preset display.Preset, opts window.Options) *View {
	v := &View{exchange: ex, opts: opts}
	for i := range v.channels {
		v.channels[i] = display.NewChannel(i, preset, factory)
	}
	return v
}

// Open creates every channel's resources, arms the scheduler and returns the
// generation ticks must carry. onClose runs once, after teardown, when the
// view is closed. Opening an open view only replaces onClose.
func (v *View) Open(onClose func()) (uint64, error) {
	v.onClose = onClose
	if v.sched.State() == Armed {
		return v.sched.Generation(), nil
	}

	for i, c := range v.channels {
		if err := c.Open(); err != nil {
			for _, opened := range v.channels[:i] {
				opened.Release()
			}
			v.onClose = nil
			return 0, fmt.Errorf("opening view: %w", err)
		}
	}
	v.primed = false
	return v.sched.Arm(), nil
}

// Close stops ticking, releases every channel resource, clears the displayed
// snapshot and then runs the close callback. Closing a closed view does
// nothing.
func (v *View) Close() {
	if v.sched.State() == Idle {
		return
	}
	v.sched.Disarm()
	for _, c := range v.channels {
		c.Release()
	}
	v.snapshot.Reset()

	cb := v.onClose
	v.onClose = nil
	if cb != nil {
		cb()
	}
}

// Tick copies the current snapshot whenever the exchange is free. It reports
// whether the display changed and needs a redraw: a fresh publish, or the
// first copy since Open. Ticks from another generation are ignored.
func (v *View) Tick(gen uint64) bool {
	if !v.sched.Accept(gen) {
		return false
	}
	ok, fresh := v.exchange.TryConsume(&v.snapshot)
	if !ok {
		return false
	}
	redraw := fresh || !v.primed
	v.primed = true
	return redraw
}

// Accept reports whether a tick of generation gen is still live.
func (v *View) Accept(gen uint64) bool {
	return v.sched.Accept(gen)
}

// State returns the scheduler state.
func (v *View) State() SchedulerState {
	return v.sched.State()
}

// Channel returns the display configuration of channel i, or nil when i is
// out of range.
func (v *View) Channel(i int) *display.Channel {
	if i < 0 || i >= len(v.channels) {
		return nil
	}
	return v.channels[i]
}

// Channels returns the number of channels.
func (v *View) Channels() int {
	return len(v.channels)
}

// Options returns the window options panels are extracted with.
func (v *View) Options() window.Options {
	return v.opts
}

// Panels returns one panel per visible channel in channel order. Windows
// read the view's current snapshot, so they are valid until the next Tick.
func (v *View) Panels() []Panel {
	if v.sched.State() == Idle {
		return nil
	}
	panels := make([]Panel, 0, len(v.channels))
	for i, c := range v.channels {
		if !c.Visible() {
			continue
		}
		panels = append(panels, Panel{
			Index:           i,
			Label:           c.Label(),
			Window:          window.Extract(&v.snapshot[i], v.opts),
			LineColor:       c.LineColor(),
			BackgroundColor: c.BackgroundColor(),
			LabelColor:      c.LabelColor(),
			LabelFont:       c.LabelFont(),
			Pen:             c.Pen(),
			Brush:           c.Brush(),
			Font:            c.Font(),
		})
	}
	return panels
}
