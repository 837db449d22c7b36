package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// fruitPalette cycles through distinguishable colors, smallest type first.
var fruitPalette = []Color{
	ColorBrightRed,
	ColorOrange,
	ColorBrightYellow,
	ColorBrightGreen,
	ColorBrightCyan,
	ColorBrightBlue,
	ColorBrightMagenta,
	ColorMagenta,
	ColorRed,
	ColorGreen,
	ColorCyan,
}

// FruitColor returns the display color for a fruit type.
func FruitColor(fruitType int) Color {
	if fruitType < 0 {
		return ColorDefault
	}
	return fruitPalette[fruitType%len(fruitPalette)]
}
