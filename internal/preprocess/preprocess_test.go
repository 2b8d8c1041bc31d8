package preprocess

import (
	"image"
	"image/color"
	"testing"
)

func TestGrayscale(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	gray := Grayscale(src)
	if gray.Bounds() != src.Bounds() {
		t.Errorf("Expected bounds %v, got %v", src.Bounds(), gray.Bounds())
	}
	if v := gray.GrayAt(0, 0).Y; v < 250 {
		t.Errorf("Expected near-white gray value, got %d", v)
	}
}

func TestGrayscale_PassesThroughGrayInput(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 8, 8))
	if got := Grayscale(src); got != src {
		t.Error("Expected grayscale input to be returned unchanged")
	}
}

func TestResizeIfSmall(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		wantResize bool
	}{
		{"Small image is upscaled", 50, 80, true},
		{"One small dimension triggers resize", 300, 120, true},
		{"Large image untouched", 400, 400, false},
		{"Exactly at threshold untouched", MinDecodeDimension, MinDecodeDimension, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewGray(image.Rect(0, 0, tt.width, tt.height))
			out := ResizeIfSmall(src, MinDecodeDimension)

			if !tt.wantResize {
				if out != src {
					t.Error("Expected image to be returned unchanged")
				}
				return
			}

			bounds := out.Bounds()
			if bounds.Dx() < MinDecodeDimension || bounds.Dy() < MinDecodeDimension {
				t.Errorf("Expected both dimensions >= %d, got %dx%d",
					MinDecodeDimension, bounds.Dx(), bounds.Dy())
			}
		})
	}
}

func TestOtsuThreshold_SeparatesBimodalImage(t *testing.T) {
	// Left half dark, right half light.
	src := image.NewGray(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			if x < 10 {
				src.SetGray(x, y, color.Gray{Y: 40})
			} else {
				src.SetGray(x, y, color.Gray{Y: 210})
			}
		}
	}

	out := OtsuThreshold(src)
	if got := out.GrayAt(2, 5).Y; got != 0 {
		t.Errorf("Expected dark region to binarize to 0, got %d", got)
	}
	if got := out.GrayAt(15, 5).Y; got != 255 {
		t.Errorf("Expected light region to binarize to 255, got %d", got)
	}
}

func TestOtsuThreshold_OutputIsBinary(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			src.SetGray(x, y, color.Gray{Y: uint8(x * 16)})
		}
	}

	out := OtsuThreshold(src)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if v := out.GrayAt(x, y).Y; v != 0 && v != 255 {
				t.Fatalf("Expected binary output, found %d at (%d,%d)", v, x, y)
			}
		}
	}
}

func TestAdaptiveThreshold_HandlesUnevenLighting(t *testing.T) {
	// Horizontal illumination gradient with two dark marks, one in the dim
	// region and one in the bright region. A global threshold would lose one.
	src := image.NewGray(image.Rect(0, 0, 60, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 60; x++ {
			src.SetGray(x, y, color.Gray{Y: uint8(80 + x*2)})
		}
	}
	for dy := 0; dy < 3; dy++ {
		for dx := 0; dx < 3; dx++ {
			src.SetGray(5+dx, 8+dy, color.Gray{Y: 10})
			src.SetGray(50+dx, 8+dy, color.Gray{Y: 120})
		}
	}

	out := AdaptiveThreshold(src, 11, 2)
	if got := out.GrayAt(6, 9).Y; got != 0 {
		t.Errorf("Expected dim-region mark to stay dark, got %d", got)
	}
	if got := out.GrayAt(51, 9).Y; got != 0 {
		t.Errorf("Expected bright-region mark to stay dark, got %d", got)
	}
	if got := out.GrayAt(30, 2).Y; got != 255 {
		t.Errorf("Expected background to threshold white, got %d", got)
	}
}

func TestClose_SealsPinholes(t *testing.T) {
	// Solid dark block with a single white pixel punched in the middle.
	src := image.NewGray(image.Rect(0, 0, 15, 15))
	for y := 0; y < 15; y++ {
		for x := 0; x < 15; x++ {
			src.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	for y := 3; y < 12; y++ {
		for x := 3; x < 12; x++ {
			src.SetGray(x, y, color.Gray{Y: 0})
		}
	}
	src.SetGray(7, 7, color.Gray{Y: 255})

	out := Close(src)
	if got := out.GrayAt(7, 7).Y; got != 0 {
		t.Errorf("Expected pinhole to be sealed, got %d", got)
	}
	if got := out.GrayAt(0, 0).Y; got != 255 {
		t.Errorf("Expected background corner to stay white, got %d", got)
	}
}

func TestTransformsLeaveInputUntouched(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.SetGray(x, y, color.Gray{Y: uint8(x * 25)})
		}
	}
	before := append([]uint8(nil), src.Pix...)

	OtsuThreshold(src)
	AdaptiveThreshold(src, 11, 2)
	Close(src)

	for i := range before {
		if src.Pix[i] != before[i] {
			t.Fatal("Expected source image to be unmodified")
		}
	}
}
