package render

import (
	"image/color"
	"math"
)

// gradientDarkenFactor is how far the gradient's far end is darkened from
// the fill color.
const gradientDarkenFactor = 0.3

// maskFunc maps a canvas position to the paint color for a dark module.
type maskFunc func(x, y float64) color.NRGBA

// newColorMask builds the paint strategy for the requested mask over a
// width×height canvas. Gradients interpolate from the fill color at the
// shape's geometric origin toward a darkened variant at the far end.
func newColorMask(mask ColorMask, fillColor string, width, height float64) maskFunc {
	fill := ParseHex(fillColor)
	edge := Darken(fillColor, gradientDarkenFactor)

	centerX, centerY := width/2, height/2

	switch mask {
	case MaskRadialGradient:
		maxDist := math.Hypot(centerX, centerY)
		return func(x, y float64) color.NRGBA {
			t := math.Hypot(x-centerX, y-centerY) / maxDist
			return lerpColor(fill, edge, t)
		}
	case MaskSquareGradient:
		maxDist := math.Max(centerX, centerY)
		return func(x, y float64) color.NRGBA {
			t := math.Max(math.Abs(x-centerX), math.Abs(y-centerY)) / maxDist
			return lerpColor(fill, edge, t)
		}
	case MaskHorizontalGradient:
		return func(x, _ float64) color.NRGBA {
			return lerpColor(fill, edge, x/width)
		}
	case MaskVerticalGradient:
		return func(_, y float64) color.NRGBA {
			return lerpColor(fill, edge, y/height)
		}
	default:
		return func(_, _ float64) color.NRGBA {
			return fill
		}
	}
}
