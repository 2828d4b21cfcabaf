package display

import "fmt"

const (
	WeightLight  = 300
	WeightNormal = 400
	WeightBold   = 700
)

// Font describes the typeface of a channel label.
type Font struct {
	Family string
	Size   int
	Weight int
	Italic bool
}

// DefaultFont is the label font a channel starts with.
func DefaultFont() Font {
	return Font{Family: "Segoe UI", Size: 13, Weight: WeightNormal}
}

func (f Font) String() string {
	style := "regular"
	switch {
	case f.Weight >= WeightBold && f.Italic:
		style = "bold italic"
	case f.Weight >= WeightBold:
		style = "bold"
	case f.Weight <= WeightLight && f.Italic:
		style = "light italic"
	case f.Weight <= WeightLight:
		style = "light"
	case f.Italic:
		style = "italic"
	}
	return fmt.Sprintf("%s %d %s", f.Family, f.Size, style)
}
