package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// autoLogoRatio sizes an unspecified logo at 20% of the canvas.
const autoLogoRatio = 0.2

// applyLogo fits the logo into a square, backs it with opaque white so it
// never blends with the modules beneath, and pastes it at the anchor
// position.
func applyLogo(canvas *image.NRGBA, logo image.Image, logoSize int, position LogoPosition) *image.NRGBA {
	canvasW := canvas.Bounds().Dx()
	canvasH := canvas.Bounds().Dy()

	if logoSize <= 0 {
		logoSize = int(float64(canvasW) * autoLogoRatio)
	}

	fitted := imaging.Fit(logo, logoSize, logoSize, imaging.Lanczos)
	backing := imaging.New(logoSize, logoSize, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	backing = imaging.OverlayCenter(backing, fitted, 1.0)

	x, y := LogoOrigin(canvasW, canvasH, logoSize, logoSize, position)
	return imaging.Paste(canvas, backing, image.Pt(x, y))
}

// LogoOrigin computes the top-left paste coordinate for a logo. Quadrant
// anchors are fixed fractional offsets of the canvas; center is exact.
func LogoOrigin(canvasW, canvasH, logoW, logoH int, position LogoPosition) (int, int) {
	switch position {
	case LogoTopLeft:
		return canvasW / 4, canvasH / 4
	case LogoTopRight:
		return canvasW*3/4 - logoW, canvasH / 4
	case LogoBottomLeft:
		return canvasW / 4, canvasH*3/4 - logoH
	case LogoBottomRight:
		return canvasW*3/4 - logoW, canvasH*3/4 - logoH
	default:
		return (canvasW - logoW) / 2, (canvasH - logoH) / 2
	}
}
