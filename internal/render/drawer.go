package render

import "github.com/fogleman/gg"

// gappedInsetRatio shrinks gapped squares to 80% of the module box.
const gappedInsetRatio = 0.1

// traceModule outlines one dark module at (x, y) with the requested shape.
// The caller sets the color and fills.
func traceModule(dc *gg.Context, drawer ModuleDrawer, x, y, box float64, cornerRadius int) {
	switch drawer {
	case DrawerCircle:
		dc.DrawCircle(x+box/2, y+box/2, box/2)
	case DrawerGappedSquare:
		inset := box * gappedInsetRatio
		dc.DrawRectangle(x+inset, y+inset, box-2*inset, box-2*inset)
	case DrawerRounded:
		radius := float64(cornerRadius) / float64(MaxCornerRadius) * (box / 2)
		if radius <= 0 {
			dc.DrawRectangle(x, y, box, box)
		} else {
			dc.DrawRoundedRectangle(x, y, box, box, radius)
		}
	default:
		dc.DrawRectangle(x, y, box, box)
	}
}
