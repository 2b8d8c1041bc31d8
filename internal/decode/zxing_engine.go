package decode

import (
	"image"
	"math"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi"
	qrreader "github.com/makiuchi-d/gozxing/multi/qrcode"
)

// zxingEngine is the primary, geometry-reporting engine. It wraps the zxing
// port's multi-symbol QR reader, so several codes in one frame all come back.
type zxingEngine struct {
	reader multi.MultipleBarcodeReader
	hints  map[gozxing.DecodeHintType]interface{}
}

// NewZXingEngine creates the high-accuracy primary decode engine.
func NewZXingEngine() BarcodeEngine {
	return &zxingEngine{
		reader: qrreader.NewQRCodeMultiReader(),
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

func (e *zxingEngine) Name() string {
	return "zxing"
}

func (e *zxingEngine) ReportsGeometry() bool {
	return true
}

func (e *zxingEngine) Decode(img image.Image) ([]Symbol, error) {
	source := gozxing.NewLuminanceSourceFromImage(img)
	bitmap, err := gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(source))
	if err != nil {
		return nil, err
	}

	results, err := e.reader.DecodeMultiple(bitmap, e.hints)
	if err != nil {
		// The reader reports "not found" as an error; the pipeline treats
		// an empty slice as a clean miss and moves to the next attempt.
		return nil, nil
	}

	symbols := make([]Symbol, 0, len(results))
	for _, result := range results {
		format := FormatOther
		if result.GetBarcodeFormat() == gozxing.BarcodeFormat_QR_CODE {
			format = FormatQR
		}
		symbols = append(symbols, Symbol{
			Text:   result.GetText(),
			Format: format,
			Box:    boxFromResultPoints(result.GetResultPoints()),
			Engine: e.Name(),
		})
	}
	return symbols, nil
}

// boxFromResultPoints converts the engine's reported polygon (typically the
// three finder patterns plus alignment pattern) to an axis-aligned box.
func boxFromResultPoints(points []gozxing.ResultPoint) *image.Rectangle {
	if len(points) == 0 {
		return nil
	}

	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, p := range points {
		minX = math.Min(minX, p.GetX())
		minY = math.Min(minY, p.GetY())
		maxX = math.Max(maxX, p.GetX())
		maxY = math.Max(maxY, p.GetY())
	}

	box := image.Rect(
		int(math.Floor(minX)),
		int(math.Floor(minY)),
		int(math.Ceil(maxX)),
		int(math.Ceil(maxY)),
	)
	return &box
}
