package core

// Color is a foreground color for a screen cell.
// The platform maps it to ANSI codes.
type Color uint8

// Palette used by the quiz runner renderer.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
	ColorBrightGreen
	ColorBrightWhite
)
