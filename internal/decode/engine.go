package decode

import "image"

// SymbolFormat identifies the barcode symbology of a decoded symbol.
type SymbolFormat string

const (
	FormatQR    SymbolFormat = "qr"
	FormatOther SymbolFormat = "other"
)

// Symbol is one decoded barcode instance found in an image. The bounding box
// is nil when the source engine does not report geometry.
type Symbol struct {
	Text   string
	Format SymbolFormat
	Box    *image.Rectangle
	Engine string
}

// Result is the outcome of a pipeline run. Exactly one of a non-empty
// Symbols slice or a non-empty ErrorMessage is meaningful.
type Result struct {
	Symbols      []Symbol
	ErrorMessage string
}

// Found reports whether at least one symbol was decoded.
func (r Result) Found() bool {
	return len(r.Symbols) > 0
}

// BarcodeEngine abstracts a concrete decoder implementation so the pipeline
// never hard-codes a single library.
type BarcodeEngine interface {
	// Name identifies the engine in Symbol.Engine and logs.
	Name() string
	// ReportsGeometry indicates whether decoded symbols carry bounding boxes.
	ReportsGeometry() bool
	// Decode returns all symbols found in the image, in engine-reported
	// order, or an empty slice when nothing was recognized.
	Decode(img image.Image) ([]Symbol, error)
}

// MinCropDimension is the smallest edge length of a bounding-box crop used
// for previews; smaller boxes are proportionally expanded.
const MinCropDimension = 100

// ExpandBox grows box proportionally until its smaller dimension reaches
// minDim, recentered on the original box and clamped to the canvas bounds.
func ExpandBox(box image.Rectangle, minDim int, canvas image.Rectangle) image.Rectangle {
	width, height := box.Dx(), box.Dy()
	if width <= 0 || height <= 0 {
		return canvas
	}

	smaller := width
	if height < smaller {
		smaller = height
	}
	if smaller >= minDim {
		return box.Intersect(canvas)
	}

	scale := float64(minDim) / float64(smaller)
	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)

	centerX := box.Min.X + width/2
	centerY := box.Min.Y + height/2
	expanded := image.Rect(
		centerX-newWidth/2,
		centerY-newHeight/2,
		centerX-newWidth/2+newWidth,
		centerY-newHeight/2+newHeight,
	)
	return expanded.Intersect(canvas)
}

// CropSymbol extracts the symbol's region from the source image for preview
// thumbnails, expanding the box so it stays visible. Symbols without
// geometry yield the full frame.
func CropSymbol(img image.Image, sym Symbol) image.Image {
	bounds := img.Bounds()
	if sym.Box == nil {
		return img
	}
	region := ExpandBox(*sym.Box, MinCropDimension, bounds)
	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(region)
	}
	return img
}
