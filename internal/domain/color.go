package domain

// Color is a theme key from the fixed agent palette.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorCyan   Color = "cyan"
	ColorIndigo Color = "indigo"
	ColorPurple Color = "purple"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
)

// DefaultColor is used for unknown or empty palette keys.
const DefaultColor = ColorBlue

// Palette lists every known color in display order.
var Palette = []Color{ColorBlue, ColorCyan, ColorIndigo, ColorPurple, ColorGreen, ColorRed, ColorOrange}

// Valid reports whether c is part of the palette.
func (c Color) Valid() bool {
	switch c {
	case ColorBlue, ColorCyan, ColorIndigo, ColorPurple, ColorGreen, ColorRed, ColorOrange:
		return true
	}
	return false
}

// ParseColor maps s onto the palette, falling back to DefaultColor.
func ParseColor(s string) Color {
	if c := Color(s); c.Valid() {
		return c
	}
	return DefaultColor
}
