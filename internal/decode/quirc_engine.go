package decode

import (
	"image"

	"github.com/liyue201/goqr"
)

// quircEngine is the fallback engine, a port of the quirc C decoder. It is
// cheaper and tolerates some damage the primary engine rejects, but does not
// expose symbol geometry, so its symbols carry no bounding box.
type quircEngine struct{}

// NewQuircEngine creates the fallback decode engine.
func NewQuircEngine() BarcodeEngine {
	return &quircEngine{}
}

func (e *quircEngine) Name() string {
	return "quirc"
}

func (e *quircEngine) ReportsGeometry() bool {
	return false
}

func (e *quircEngine) Decode(img image.Image) ([]Symbol, error) {
	codes, err := goqr.Recognize(img)
	if err != nil {
		// Recognize errors on a clean miss as well; report it as no symbols.
		return nil, nil
	}

	symbols := make([]Symbol, 0, len(codes))
	for _, code := range codes {
		symbols = append(symbols, Symbol{
			Text:   string(code.Payload),
			Format: FormatQR,
			Engine: e.Name(),
		})
	}
	return symbols, nil
}
