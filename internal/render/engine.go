// Package render builds styled QR code images: a module matrix from data
// plus error-correction level, painted through a module drawer and color
// mask, with optional logo, background, and decorations.
package render

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/sirupsen/logrus"
	qrc "github.com/skip2/go-qrcode"

	apperrors "go-qr-platform/internal/errors"
	"go-qr-platform/internal/logger"
)

// moduleBox is the working pixel size of one module before the final
// Lanczos resize to the requested canvas size.
const moduleBox = 10

// Metadata describes which options were applied to a rendered image.
type Metadata struct {
	Data            string `json:"data"`
	ErrorCorrection string `json:"error_correction"`
	ModuleDrawer    string `json:"module_drawer"`
	ColorMask       string `json:"color_mask"`
	HasLogo         bool   `json:"has_logo"`
	HasBackground   bool   `json:"has_background"`
	HasStyling      bool   `json:"has_styling"`
}

// Rendered is the engine's output: lossless PNG bytes plus metadata.
type Rendered struct {
	PNG      []byte
	Width    int
	Height   int
	Metadata Metadata
}

// Engine paints validated render requests.
type Engine struct {
	log *logrus.Entry
}

// NewEngine creates a render engine.
func NewEngine() *Engine {
	return &Engine{log: logger.WithComponent("render_engine")}
}

// Render produces a styled QR image for a validated request. Failures are
// structured errors; the engine never panics on request content.
func (e *Engine) Render(req Request) (*Rendered, error) {
	code, err := qrc.New(req.Data, recoveryLevel(req.ErrorCorrection))
	if err != nil {
		return nil, apperrors.NewCapacityError(
			"data exceeds QR capacity for error correction level "+string(req.ErrorCorrection), err)
	}
	code.DisableBorder = true

	canvas := e.paintModules(code.Bitmap(), req)

	// Resize to the requested size with a high-quality filter.
	resized := imaging.Resize(canvas, req.Size, req.Size, imaging.Lanczos)

	if req.Logo != nil {
		resized = applyLogo(resized, req.Logo, req.LogoSize, req.LogoPosition)
	}
	if req.Background != nil {
		background := imaging.Resize(req.Background, req.Size, req.Size, imaging.Lanczos)
		resized = imaging.Overlay(background, resized, image.Pt(0, 0), 1.0)
	}
	if req.Styling != nil {
		resized = applyStyling(resized, req.Styling)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, apperrors.NewInternalError("failed to encode rendered image", err)
	}

	e.log.WithFields(logrus.Fields{
		"size":           req.Size,
		"module_drawer":  req.ModuleDrawer,
		"color_mask":     req.ColorMask,
		"has_logo":       req.Logo != nil,
		"has_background": req.Background != nil,
	}).Debug("Rendered QR image")

	return &Rendered{
		PNG:    buf.Bytes(),
		Width:  resized.Bounds().Dx(),
		Height: resized.Bounds().Dy(),
		Metadata: Metadata{
			Data:            req.Data,
			ErrorCorrection: string(req.ErrorCorrection),
			ModuleDrawer:    string(req.ModuleDrawer),
			ColorMask:       string(req.ColorMask),
			HasLogo:         req.Logo != nil,
			HasBackground:   req.Background != nil,
			HasStyling:      req.Styling != nil,
		},
	}, nil
}

// paintModules draws the matrix at working scale: background fill, then one
// shape per dark module, colored by the mask at the module's center.
func (e *Engine) paintModules(modules [][]bool, req Request) image.Image {
	count := len(modules)
	quiet := req.Border * moduleBox
	dim := count*moduleBox + 2*quiet

	dc := gg.NewContext(dim, dim)
	dc.SetColor(ParseHex(req.BackColor))
	dc.Clear()

	mask := newColorMask(req.ColorMask, req.FillColor, float64(dim), float64(dim))

	for row := 0; row < count; row++ {
		for col := 0; col < count; col++ {
			if !modules[row][col] {
				continue
			}
			x := float64(quiet + col*moduleBox)
			y := float64(quiet + row*moduleBox)
			dc.SetColor(mask(x+moduleBox/2, y+moduleBox/2))
			traceModule(dc, req.ModuleDrawer, x, y, moduleBox, req.CornerRadius)
			dc.Fill()
		}
	}

	return dc.Image()
}

func recoveryLevel(ec ErrorCorrection) qrc.RecoveryLevel {
	switch ec {
	case ECLow:
		return qrc.Low
	case ECQuartile:
		return qrc.High
	case ECHigh:
		return qrc.Highest
	default:
		return qrc.Medium
	}
}

// AvailableStyles enumerates the styling option space for clients.
func AvailableStyles() map[string]interface{} {
	return map[string]interface{}{
		"module_drawers": []ModuleDrawer{DrawerSquare, DrawerRounded, DrawerCircle, DrawerGappedSquare},
		"color_masks": []ColorMask{
			MaskSolid, MaskRadialGradient, MaskSquareGradient, MaskHorizontalGradient, MaskVerticalGradient,
		},
		"error_corrections": []ErrorCorrection{ECLow, ECMedium, ECQuartile, ECHigh},
		"logo_positions": []LogoPosition{
			LogoCenter, LogoTopLeft, LogoTopRight, LogoBottomLeft, LogoBottomRight,
		},
		"text_positions": []TextPosition{TextTop, TextCenter, TextBottom},
		"default_colors": map[string][]string{
			"fill_colors": {"#000000", "#1A1A1A", "#333333", "#666666", "#999999"},
			"back_colors": {"#FFFFFF", "#F8F9FA", "#E9ECEF", "#DEE2E6", "#CED4DA"},
		},
	}
}
