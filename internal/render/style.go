// Package render turns simulation segments into pictures.
package render

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultStrokeWidth is the width of every trail stroke.
const DefaultStrokeWidth = 0.9

// Style is shared by every renderer: one stroke width, one solid stroke
// color over a flat background.
type Style struct {
	StrokeWidth float64
	Stroke      colorful.Color
	Background  colorful.Color
}

// DefaultStyle is opaque black at 0.9 units on white.
func DefaultStyle() Style {
	return Style{
		StrokeWidth: DefaultStrokeWidth,
		Stroke:      colorful.Color{R: 0, G: 0, B: 0},
		Background:  colorful.Color{R: 1, G: 1, B: 1},
	}
}

// ParseStyle builds a Style from hex colors such as "#000000".
func ParseStyle(width float64, stroke, background string) (Style, error) {
	if width <= 0 {
		return Style{}, fmt.Errorf("render: stroke width must be positive, got %g", width)
	}
	sc, err := colorful.Hex(stroke)
	if err != nil {
		return Style{}, fmt.Errorf("render: stroke color: %w", err)
	}
	bg, err := colorful.Hex(background)
	if err != nil {
		return Style{}, fmt.Errorf("render: background color: %w", err)
	}
	return Style{StrokeWidth: width, Stroke: sc, Background: bg}, nil
}
