package decode

import (
	"image"
	"testing"

	qrc "github.com/skip2/go-qrcode"
)

func qrImage(t *testing.T, data string, size int) image.Image {
	t.Helper()
	code, err := qrc.New(data, qrc.Medium)
	if err != nil {
		t.Fatalf("Failed to build test QR code: %v", err)
	}
	return code.Image(size)
}

func blankImage(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func TestPipeline_DecodesCleanImage(t *testing.T) {
	pipeline := NewPipeline(NewZXingEngine(), NewQuircEngine())

	result := pipeline.Decode(qrImage(t, "https://example.com/test", 256))
	if !result.Found() {
		t.Fatalf("Expected decode to succeed, got error %q", result.ErrorMessage)
	}
	if result.Symbols[0].Text != "https://example.com/test" {
		t.Errorf("Expected decoded text to round-trip, got %q", result.Symbols[0].Text)
	}
	if result.Symbols[0].Engine != "zxing" {
		t.Errorf("Expected primary engine to win, got %q", result.Symbols[0].Engine)
	}
	if result.Symbols[0].Format != FormatQR {
		t.Errorf("Expected qr format, got %q", result.Symbols[0].Format)
	}
}

func TestPipeline_NoSymbol(t *testing.T) {
	pipeline := NewPipeline(NewZXingEngine(), NewQuircEngine())

	result := pipeline.Decode(blankImage(300, 300))
	if result.Found() {
		t.Fatal("Expected no symbols in a blank image")
	}
	if result.Symbols == nil {
		t.Error("Expected empty slice, not nil")
	}
	if result.ErrorMessage != ErrNoSymbolMessage {
		t.Errorf("Expected contract error message, got %q", result.ErrorMessage)
	}
}

func TestPipeline_SmallImageFallback(t *testing.T) {
	// Below the resize threshold; the cascade should still recover it.
	pipeline := NewPipeline(NewZXingEngine())

	result := pipeline.Decode(qrImage(t, "small", 120))
	if !result.Found() {
		t.Fatalf("Expected small image to decode via fallback, got %q", result.ErrorMessage)
	}
	if result.Symbols[0].Text != "small" {
		t.Errorf("Expected decoded text small, got %q", result.Symbols[0].Text)
	}
}

func TestZXingEngine_ReportsGeometry(t *testing.T) {
	engine := NewZXingEngine()
	if !engine.ReportsGeometry() {
		t.Fatal("Expected zxing engine to report geometry")
	}

	symbols, err := engine.Decode(qrImage(t, "geometry", 256))
	if err != nil {
		t.Fatalf("Unexpected decode error: %v", err)
	}
	if len(symbols) == 0 {
		t.Fatal("Expected at least one symbol")
	}
	box := symbols[0].Box
	if box == nil {
		t.Fatal("Expected a bounding box")
	}
	if box.Dx() <= 0 || box.Dy() <= 0 {
		t.Errorf("Expected positive box dimensions, got %v", *box)
	}
	canvas := image.Rect(0, 0, 256, 256)
	if !box.In(canvas) {
		t.Errorf("Expected box within canvas, got %v", *box)
	}
}

func TestQuircEngine_NoGeometry(t *testing.T) {
	engine := NewQuircEngine()
	if engine.ReportsGeometry() {
		t.Fatal("Expected quirc engine to not report geometry")
	}

	symbols, err := engine.Decode(qrImage(t, "quirc test", 256))
	if err != nil {
		t.Fatalf("Unexpected decode error: %v", err)
	}
	if len(symbols) == 0 {
		t.Fatal("Expected at least one symbol")
	}
	if symbols[0].Box != nil {
		t.Error("Expected nil bounding box from quirc")
	}
	if symbols[0].Text != "quirc test" {
		t.Errorf("Expected decoded text to round-trip, got %q", symbols[0].Text)
	}
}

func TestExpandBox(t *testing.T) {
	canvas := image.Rect(0, 0, 400, 400)

	tests := []struct {
		name string
		box  image.Rectangle
		want func(image.Rectangle) bool
	}{
		{
			"Small box expands to minimum",
			image.Rect(180, 180, 220, 220),
			func(r image.Rectangle) bool {
				return r.Dx() >= MinCropDimension && r.Dy() >= MinCropDimension
			},
		},
		{
			"Large box unchanged",
			image.Rect(50, 50, 350, 350),
			func(r image.Rectangle) bool { return r == image.Rect(50, 50, 350, 350) },
		},
		{
			"Expansion clamps to canvas",
			image.Rect(0, 0, 20, 20),
			func(r image.Rectangle) bool { return r.In(canvas) && r.Dx() > 20 },
		},
		{
			"Degenerate box yields canvas",
			image.Rect(10, 10, 10, 10),
			func(r image.Rectangle) bool { return r == canvas },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandBox(tt.box, MinCropDimension, canvas)
			if !tt.want(got) {
				t.Errorf("Unexpected expansion result: %v", got)
			}
		})
	}
}

func TestCropSymbol_NilBoxReturnsFullFrame(t *testing.T) {
	img := blankImage(200, 200)
	cropped := CropSymbol(img, Symbol{Text: "x"})
	if cropped.Bounds() != img.Bounds() {
		t.Error("Expected full frame for symbol without geometry")
	}
}
