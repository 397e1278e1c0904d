package render

import (
	"image/color"
)

// Last-resort fallbacks if even the default color constants fail to parse.
var (
	black = color.NRGBA{A: 0xff}
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// parseHexColor parses "#rgb" and "#rrggbb" color strings. Anything that
// doesn't parse yields the fallback rather than an error; color strings are
// not validated beyond this.
func parseHexColor(s string, fallback color.NRGBA) color.NRGBA {
	if len(s) == 0 || s[0] != '#' {
		return fallback
	}
	hex := s[1:]

	switch len(hex) {
	case 3:
		r, okR := hexNibble(hex[0])
		g, okG := hexNibble(hex[1])
		b, okB := hexNibble(hex[2])
		if !okR || !okG || !okB {
			return fallback
		}
		return color.NRGBA{R: r * 17, G: g * 17, B: b * 17, A: 0xff}
	case 6:
		r, okR := hexByte(hex[0], hex[1])
		g, okG := hexByte(hex[2], hex[3])
		b, okB := hexByte(hex[4], hex[5])
		if !okR || !okG || !okB {
			return fallback
		}
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}
	default:
		return fallback
	}
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func hexByte(hi, lo byte) (uint8, bool) {
	h, okH := hexNibble(hi)
	l, okL := hexNibble(lo)
	return h<<4 | l, okH && okL
}
