package display

import (
	"errors"

	"github.com/charmbracelet/lipgloss"
)

// Resource is a drawing object derived from a channel's style fields.
type Resource interface {
	Release()
}

// Styler is implemented by resources that render as a lipgloss style.
type Styler interface {
	Style() lipgloss.Style
}

// Factory creates the drawing resources a channel owns.
type Factory interface {
	NewPen(c Color) (Resource, error)
	NewBrush(c Color) (Resource, error)
	NewFont(f Font) (Resource, error)
}

var errStyleReleased = errors.New("style resource used after release")

type styleResource struct {
	style    lipgloss.Style
	released bool
}

func (r *styleResource) Release() { r.released = true }

func (r *styleResource) Style() lipgloss.Style {
	if r.released {
		panic(errStyleReleased)
	}
	return r.style
}

// StyleFactory renders resources as lipgloss styles: a pen colours the
// foreground, a brush the background, and a font sets bold, faint and italic.
type StyleFactory struct{}

func (StyleFactory) NewPen(c Color) (Resource, error) {
	return &styleResource{style: lipgloss.NewStyle().Foreground(c.Lipgloss())}, nil
}

func (StyleFactory) NewBrush(c Color) (Resource, error) {
	return &styleResource{style: lipgloss.NewStyle().Background(c.Lipgloss())}, nil
}

func (StyleFactory) NewFont(f Font) (Resource, error) {
	s := lipgloss.NewStyle().
		Bold(f.Weight >= WeightBold).
		Faint(f.Weight <= WeightLight).
		Italic(f.Italic)
	return &styleResource{style: s}, nil
}
