package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// applyStyling runs the decoration steps in order: border frame, drop
// shadow, caption text. Each is optional and independently toggled.
func applyStyling(canvas *image.NRGBA, s *Styling) *image.NRGBA {
	if s.BorderWidth > 0 {
		canvas = applyBorderFrame(canvas, s.BorderWidth, s.BorderColor)
	}
	if s.Shadow {
		canvas = applyShadow(canvas, s.ShadowOffset, s.ShadowColor, s.ShadowOpacity)
	}
	if s.Text != "" {
		canvas = applyCaption(canvas, s)
	}
	return canvas
}

// applyBorderFrame expands the canvas by the border width on every side and
// fills the frame with a solid color.
func applyBorderFrame(canvas *image.NRGBA, width int, borderColor string) *image.NRGBA {
	bounds := canvas.Bounds()
	framed := imaging.New(bounds.Dx()+2*width, bounds.Dy()+2*width, ParseHex(borderColor))
	return imaging.Paste(framed, canvas, image.Pt(width, width))
}

// applyShadow composites the image over an offset rectangle at reduced
// opacity. The canvas grows by twice the offset.
func applyShadow(canvas *image.NRGBA, offset int, shadowColor string, opacity float64) *image.NRGBA {
	bounds := canvas.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	shadow := ParseHex(shadowColor)
	shadow.A = uint8(opacity * 255)

	backdrop := imaging.New(width+2*offset, height+2*offset, color.NRGBA{})
	shadowRect := imaging.New(width, height, shadow)
	backdrop = imaging.Overlay(backdrop, shadowRect, image.Pt(offset, offset), 1.0)

	return imaging.Overlay(backdrop, canvas, image.Pt(0, 0), 1.0)
}

// applyCaption draws the caption text, centered horizontally and anchored
// top, center, or bottom.
func applyCaption(canvas *image.NRGBA, s *Styling) *image.NRGBA {
	parsed, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return canvas
	}
	face := truetype.NewFace(parsed, &truetype.Options{Size: float64(s.TextSize)})

	dc := gg.NewContextForImage(canvas)
	dc.SetFontFace(face)
	dc.SetColor(ParseHex(s.TextColor))

	width := float64(canvas.Bounds().Dx())
	height := float64(canvas.Bounds().Dy())
	const margin = 10

	switch s.TextPosition {
	case TextTop:
		dc.DrawStringAnchored(s.Text, width/2, margin, 0.5, 1)
	case TextCenter:
		dc.DrawStringAnchored(s.Text, width/2, height/2, 0.5, 0.5)
	default:
		dc.DrawStringAnchored(s.Text, width/2, height-margin, 0.5, 0)
	}

	return imaging.Clone(dc.Image())
}
