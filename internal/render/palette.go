package render

import (
	"image/color"
	"strings"
)

const hexDigits = "0123456789ABCDEFabcdef"

// NormalizeColor canonicalizes user-supplied colors to "#RRGGBB" uppercase.
// Shorthand "#RGB" expands; anything else malformed becomes "#000000".
func NormalizeColor(input string) string {
	c := input
	if !strings.HasPrefix(c, "#") {
		c = "#" + c
	}

	var filtered strings.Builder
	filtered.WriteByte('#')
	for _, r := range c[1:] {
		if strings.ContainsRune(hexDigits, r) {
			filtered.WriteRune(r)
		}
	}
	c = filtered.String()

	switch len(c) {
	case 4: // #RGB
		c = "#" + strings.Repeat(string(c[1]), 2) + strings.Repeat(string(c[2]), 2) + strings.Repeat(string(c[3]), 2)
	case 7: // #RRGGBB
	default:
		c = "#000000"
	}

	return strings.ToUpper(c)
}

// ParseHex converts a normalized "#RRGGBB" color to an opaque NRGBA value.
func ParseHex(hex string) color.NRGBA {
	hex = NormalizeColor(hex)
	return color.NRGBA{
		R: hexByte(hex[1], hex[2]),
		G: hexByte(hex[3], hex[4]),
		B: hexByte(hex[5], hex[6]),
		A: 255,
	}
}

// Darken scales a color's channels down by factor, for gradient far ends.
func Darken(hex string, factor float64) color.NRGBA {
	c := ParseHex(hex)
	scale := 1 - factor
	if scale < 0 {
		scale = 0
	}
	return color.NRGBA{
		R: uint8(float64(c.R) * scale),
		G: uint8(float64(c.G) * scale),
		B: uint8(float64(c.B) * scale),
		A: 255,
	}
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return color.NRGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: 255,
	}
}

func hexByte(hi, lo byte) uint8 {
	return hexNibble(hi)<<4 | hexNibble(lo)
}

func hexNibble(b byte) uint8 {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
