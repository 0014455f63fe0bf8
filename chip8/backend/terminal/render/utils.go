package render

// HalfBlock picks the character for a terminal cell that shows two vertically
// stacked pixels. The glyph is drawn in the foreground colour over the
// background colour.
func HalfBlock(top, bottom uint8) rune {
	switch {
	case top != 0 && bottom != 0:
		return '█'
	case top != 0:
		return '▀'
	case bottom != 0:
		return '▄'
	default:
		return ' '
	}
}
