// Package display holds the per-channel styling of the oscilloscope panels
// and the drawing resources derived from it.
package display

import (
	"errors"
	"fmt"

	"github.com/olivier-w/oscilloview/internal/util"
)

// LabelLimit is the longest label, in runes, a channel keeps.
const LabelLimit = 31

// ErrReleased is returned when a released channel is mutated.
var ErrReleased = errors.New("channel display released")

// State is the resource lifecycle state of a channel.
type State int

const (
	Released State = iota
	Default
	Configured
)

func (s State) String() string {
	switch s {
	case Default:
		return "default"
	case Configured:
		return "configured"
	default:
		return "released"
	}
}

// Channel is the visual configuration of one oscilloscope panel. Every style
// change that affects a derived resource replaces that resource before the
// setter returns, so renderers never see a stale or released one.
//
// A Channel is owned by the display loop and is not safe for concurrent use.
type Channel struct {
	index   int
	preset  Preset
	factory Factory
	state   State

	visible    bool
	lineColor  Color
	bgColor    Color
	labelColor Color
	label      string
	font       Font

	pen   Resource
	brush Resource
	hfont Resource
}

// NewChannel returns a released channel. Call Open before drawing it.
func NewChannel(index int, preset Preset, factory Factory) *Channel {
	c := &Channel{index: index, preset: preset, factory: factory}
	c.resetFields()
	return c
}

func (c *Channel) resetFields() {
	c.visible = c.index < c.preset.Visible
	c.lineColor = White
	c.bgColor = Black
	c.labelColor = White
	c.label = util.Truncate(c.preset.Label(c.index), LabelLimit)
	c.font = DefaultFont()
}

// Open restores the defaults and creates the channel's resources.
func (c *Channel) Open() error {
	c.Release()

	pen, err := c.factory.NewPen(c.lineColor)
	if err != nil {
		return fmt.Errorf("creating pen for channel %d: %w", c.index, err)
	}
	brush, err := c.factory.NewBrush(c.bgColor)
	if err != nil {
		pen.Release()
		return fmt.Errorf("creating brush for channel %d: %w", c.index, err)
	}
	hfont, err := c.factory.NewFont(c.font)
	if err != nil {
		pen.Release()
		brush.Release()
		return fmt.Errorf("creating font for channel %d: %w", c.index, err)
	}

	c.pen, c.brush, c.hfont = pen, brush, hfont
	c.state = Default
	return nil
}

// Release frees every resource and restores the defaults. It is a no-op on a
// released channel.
func (c *Channel) Release() {
	if c.state == Released {
		return
	}
	c.pen.Release()
	c.brush.Release()
	c.hfont.Release()
	c.pen, c.brush, c.hfont = nil, nil, nil
	c.resetFields()
	c.state = Released
}

func (c *Channel) Index() int { return c.index }
func (c *Channel) State() State { return c.state }
func (c *Channel) Visible() bool { return c.visible }
func (c *Channel) LineColor() Color { return c.lineColor }
func (c *Channel) BackgroundColor() Color { return c.bgColor }
func (c *Channel) LabelColor() Color { return c.labelColor }
func (c *Channel) Label() string { return c.label }
func (c *Channel) LabelFont() Font { return c.font }
func (c *Channel) Pen() Resource { return c.pen }
func (c *Channel) Brush() Resource { return c.brush }
func (c *Channel) Font() Resource { return c.hfont }

// SetVisible shows or hides the panel.
func (c *Channel) SetVisible(v bool) error {
	if c.state == Released {
		return ErrReleased
	}
	c.visible = v
	c.state = Configured
	return nil
}

// ToggleVisible flips the panel's visibility.
func (c *Channel) ToggleVisible() error {
	return c.SetVisible(!c.visible)
}

// SetLineColor changes the trace colour and recreates the pen.
func (c *Channel) SetLineColor(col Color) error {
	if c.state == Released {
		return ErrReleased
	}
	pen, err := c.factory.NewPen(col)
	if err != nil {
		return fmt.Errorf("creating pen for channel %d: %w", c.index, err)
	}
	c.pen.Release()
	c.pen = pen
	c.lineColor = col
	c.state = Configured
	return nil
}

// SetBackgroundColor changes the panel fill and recreates the brush.
func (c *Channel) SetBackgroundColor(col Color) error {
	if c.state == Released {
		return ErrReleased
	}
	brush, err := c.factory.NewBrush(col)
	if err != nil {
		return fmt.Errorf("creating brush for channel %d: %w", c.index, err)
	}
	c.brush.Release()
	c.brush = brush
	c.bgColor = col
	c.state = Configured
	return nil
}

// SetLabelColor changes the label colour. The label colour is applied at draw
// time and owns no resource.
func (c *Channel) SetLabelColor(col Color) error {
	if c.state == Released {
		return ErrReleased
	}
	c.labelColor = col
	c.state = Configured
	return nil
}

// SetLabel renames the channel, keeping at most LabelLimit runes.
func (c *Channel) SetLabel(s string) error {
	if c.state == Released {
		return ErrReleased
	}
	c.label = util.Truncate(s, LabelLimit)
	c.state = Configured
	return nil
}

// SetFont changes the label font and recreates the font resource.
func (c *Channel) SetFont(f Font) error {
	if c.state == Released {
		return ErrReleased
	}
	hfont, err := c.factory.NewFont(f)
	if err != nil {
		return fmt.Errorf("creating font for channel %d: %w", c.index, err)
	}
	c.hfont.Release()
	c.hfont = hfont
	c.font = f
	c.state = Configured
	return nil
}
