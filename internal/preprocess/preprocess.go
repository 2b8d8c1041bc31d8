// Package preprocess provides the pure image transforms used by the decode
// pipeline's fallback passes. All functions leave their input untouched and
// return a new buffer.
package preprocess

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

var (
	whitePixel = color.Gray{Y: 255}
	blackPixel = color.Gray{Y: 0}
)

func grayPixel(v uint8) color.Gray {
	return color.Gray{Y: v}
}

// MinDecodeDimension is the smallest edge length the cascade upscales to
// before retrying a decode on a small source image.
const MinDecodeDimension = 200

// Grayscale converts any image to an 8-bit grayscale buffer.
func Grayscale(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

// ResizeIfSmall upscales the image with cubic interpolation so its smaller
// dimension reaches minDim. Images already large enough are returned as-is.
func ResizeIfSmall(gray *image.Gray, minDim int) *image.Gray {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width >= minDim && height >= minDim {
		return gray
	}

	scale := float64(minDim) / float64(width)
	if s := float64(minDim) / float64(height); s > scale {
		scale = s
	}
	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)

	resized := imaging.Resize(gray, newWidth, newHeight, imaging.CatmullRom)
	return Grayscale(resized)
}

// OtsuThreshold binarizes a grayscale image using Otsu's method: the
// threshold maximizing between-class variance over the histogram.
func OtsuThreshold(gray *image.Gray) *image.Gray {
	var hist [256]int
	bounds := gray.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return gray
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[gray.GrayAt(x, y).Y]++
		}
	}

	var sum float64
	for i, count := range hist {
		sum += float64(i) * float64(count)
	}

	var sumBack, weightBack float64
	var maxVariance float64
	threshold := 0

	for t := 0; t < 256; t++ {
		weightBack += float64(hist[t])
		if weightBack == 0 {
			continue
		}
		weightFore := float64(total) - weightBack
		if weightFore == 0 {
			break
		}

		sumBack += float64(t) * float64(hist[t])
		meanBack := sumBack / weightBack
		meanFore := (sum - sumBack) / weightFore

		variance := weightBack * weightFore * (meanBack - meanFore) * (meanBack - meanFore)
		if variance > maxVariance {
			maxVariance = variance
			threshold = t
		}
	}

	return applyThreshold(gray, uint8(threshold))
}

func applyThreshold(gray *image.Gray, threshold uint8) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if gray.GrayAt(x, y).Y > threshold {
				out.SetGray(x, y, whitePixel)
			} else {
				out.SetGray(x, y, blackPixel)
			}
		}
	}
	return out
}

// AdaptiveThreshold binarizes against the local mean of a blockSize window
// minus a constant offset. Useful for unevenly lit scans where a single
// global threshold fails.
func AdaptiveThreshold(gray *image.Gray, blockSize int, offset int) *image.Gray {
	if blockSize < 3 {
		blockSize = 3
	}
	if blockSize%2 == 0 {
		blockSize++
	}
	radius := blockSize / 2

	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := image.NewGray(bounds)

	// Summed-area table keeps the local mean O(1) per pixel.
	integral := buildIntegral(gray)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			x0, y0 := maxInt(x-radius, 0), maxInt(y-radius, 0)
			x1, y1 := minInt(x+radius, width-1), minInt(y+radius, height-1)
			area := (x1 - x0 + 1) * (y1 - y0 + 1)

			sum := integral[y1+1][x1+1] - integral[y0][x1+1] - integral[y1+1][x0] + integral[y0][x0]
			mean := int(sum) / area

			px := bounds.Min.X + x
			py := bounds.Min.Y + y
			if int(gray.GrayAt(px, py).Y) > mean-offset {
				out.SetGray(px, py, whitePixel)
			} else {
				out.SetGray(px, py, blackPixel)
			}
		}
	}
	return out
}

func buildIntegral(gray *image.Gray) [][]int64 {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	integral := make([][]int64, height+1)
	for i := range integral {
		integral[i] = make([]int64, width+1)
	}
	for y := 0; y < height; y++ {
		var rowSum int64
		for x := 0; x < width; x++ {
			rowSum += int64(gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
			integral[y+1][x+1] = integral[y][x+1] + rowSum
		}
	}
	return integral
}

// Dilate grows dark regions of a binary image with a 3x3 structuring element.
func Dilate(gray *image.Gray) *image.Gray {
	return morph(gray, true)
}

// Erode shrinks dark regions of a binary image with a 3x3 structuring element.
func Erode(gray *image.Gray) *image.Gray {
	return morph(gray, false)
}

// Close runs a dilate followed by an erode, sealing pinholes in module
// blocks damaged by compression artifacts.
func Close(gray *image.Gray) *image.Gray {
	return Erode(Dilate(gray))
}

func morph(gray *image.Gray, dilate bool) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			value := gray.GrayAt(x, y).Y
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < bounds.Min.X || nx >= bounds.Max.X || ny < bounds.Min.Y || ny >= bounds.Max.Y {
						continue
					}
					neighbor := gray.GrayAt(nx, ny).Y
					if dilate && neighbor < value {
						value = neighbor
					}
					if !dilate && neighbor > value {
						value = neighbor
					}
				}
			}
			out.SetGray(x, y, grayPixel(value))
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
