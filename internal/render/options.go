package render

import (
	"fmt"
	"image"
	"strings"

	apperrors "go-qr-platform/internal/errors"
)

// ModuleDrawer selects the shape painted for each dark module.
type ModuleDrawer string

const (
	DrawerSquare       ModuleDrawer = "square"
	DrawerRounded      ModuleDrawer = "rounded"
	DrawerCircle       ModuleDrawer = "circle"
	DrawerGappedSquare ModuleDrawer = "gapped_square"
)

// ColorMask selects the paint strategy mapping module position to color.
type ColorMask string

const (
	MaskSolid              ColorMask = "solid"
	MaskRadialGradient     ColorMask = "radial_gradient"
	MaskSquareGradient     ColorMask = "square_gradient"
	MaskHorizontalGradient ColorMask = "horizontal_gradient"
	MaskVerticalGradient   ColorMask = "vertical_gradient"
)

// ErrorCorrection is the QR redundancy tier.
type ErrorCorrection string

const (
	ECLow      ErrorCorrection = "L"
	ECMedium   ErrorCorrection = "M"
	ECQuartile ErrorCorrection = "Q"
	ECHigh     ErrorCorrection = "H"
)

// LogoPosition anchors a logo on the canvas.
type LogoPosition string

const (
	LogoCenter      LogoPosition = "center"
	LogoTopLeft     LogoPosition = "top-left"
	LogoTopRight    LogoPosition = "top-right"
	LogoBottomLeft  LogoPosition = "bottom-left"
	LogoBottomRight LogoPosition = "bottom-right"
)

// TextPosition anchors a caption vertically; captions always center
// horizontally.
type TextPosition string

const (
	TextTop    TextPosition = "top"
	TextCenter TextPosition = "center"
	TextBottom TextPosition = "bottom"
)

// Parameter bounds. Every numeric option is clamped into its range before
// the renderer sees it.
const (
	MaxDataLength = 2953

	MinSize     = 100
	MaxSize     = 2000
	DefaultSize = 300

	MinBorder     = 0
	MaxBorder     = 20
	DefaultBorder = 4

	MinCornerRadius = 0
	MaxCornerRadius = 10

	MinLogoSize = 20
	MaxLogoSize = 200

	MaxCaptionLength = 100
)

// RawStyling carries decoration options as received from the caller.
type RawStyling struct {
	BorderWidth   int
	BorderColor   string
	Shadow        bool
	ShadowOffset  int
	ShadowColor   string
	ShadowOpacity float64
	Text          string
	TextColor     string
	TextSize      int
	TextPosition  string
}

// RawOptions is the untrusted option bundle from the caller. Enum fields are
// plain strings; the validator is the only boundary between this and the
// trusted Request the renderer consumes.
type RawOptions struct {
	Data            string
	Size            int
	Border          int
	ErrorCorrection string
	FillColor       string
	BackColor       string
	ModuleDrawer    string
	ColorMask       string
	CornerRadius    int
	Logo            image.Image
	LogoSize        int
	LogoPosition    string
	Background      image.Image
	Styling         *RawStyling
}

// DefaultRawOptions returns the option bundle with every field at its
// documented default; callers overlay user input onto this.
func DefaultRawOptions() RawOptions {
	return RawOptions{
		Size:            DefaultSize,
		Border:          DefaultBorder,
		ErrorCorrection: string(ECMedium),
		FillColor:       "#000000",
		BackColor:       "#FFFFFF",
		ModuleDrawer:    string(DrawerSquare),
		ColorMask:       string(MaskSolid),
		LogoPosition:    string(LogoCenter),
	}
}

// Styling is the validated decoration set.
type Styling struct {
	BorderWidth   int
	BorderColor   string
	Shadow        bool
	ShadowOffset  int
	ShadowColor   string
	ShadowOpacity float64
	Text          string
	TextColor     string
	TextSize      int
	TextPosition  TextPosition
}

// Request is the validated parameter bundle. The renderer never receives
// out-of-range values; construct it only through ValidateOptions.
type Request struct {
	Data            string
	Size            int
	Border          int
	ErrorCorrection ErrorCorrection
	FillColor       string
	BackColor       string
	ModuleDrawer    ModuleDrawer
	ColorMask       ColorMask
	CornerRadius    int
	Logo            image.Image
	LogoSize        int // 0 means auto (20% of Size)
	LogoPosition    LogoPosition
	Background      image.Image

	Styling *Styling

	// EnumFallbacks counts unknown enum inputs that were silently defaulted,
	// surfaced as a telemetry warning rather than an error.
	EnumFallbacks int
}

// ValidateOptions normalizes and clamps raw options into a safe Request.
// Only empty or over-length data is an error; every other malformed field
// falls back to a safe default.
func ValidateOptions(raw RawOptions) (Request, error) {
	if raw.Data == "" {
		return Request{}, apperrors.NewValidationError("QR data must not be empty", nil)
	}
	if len(raw.Data) > MaxDataLength {
		return Request{}, apperrors.NewValidationError(
			fmt.Sprintf("QR data exceeds maximum length of %d characters", MaxDataLength), nil)
	}

	req := Request{
		Data:         raw.Data,
		Size:         clampInt(raw.Size, MinSize, MaxSize),
		Border:       clampInt(raw.Border, MinBorder, MaxBorder),
		CornerRadius: clampInt(raw.CornerRadius, MinCornerRadius, MaxCornerRadius),
		FillColor:    NormalizeColor(raw.FillColor),
		BackColor:    NormalizeColor(raw.BackColor),
		Logo:         raw.Logo,
		Background:   raw.Background,
	}

	req.ErrorCorrection = validateEnum(strings.ToUpper(raw.ErrorCorrection), ECMedium, &req.EnumFallbacks,
		ECLow, ECMedium, ECQuartile, ECHigh)
	req.ModuleDrawer = validateEnum(raw.ModuleDrawer, DrawerSquare, &req.EnumFallbacks,
		DrawerSquare, DrawerRounded, DrawerCircle, DrawerGappedSquare)
	req.ColorMask = validateEnum(raw.ColorMask, MaskSolid, &req.EnumFallbacks,
		MaskSolid, MaskRadialGradient, MaskSquareGradient, MaskHorizontalGradient, MaskVerticalGradient)

	if raw.Logo != nil {
		if raw.LogoSize != 0 {
			req.LogoSize = clampInt(raw.LogoSize, MinLogoSize, MaxLogoSize)
		}
		req.LogoPosition = validateEnum(raw.LogoPosition, LogoCenter, &req.EnumFallbacks,
			LogoCenter, LogoTopLeft, LogoTopRight, LogoBottomLeft, LogoBottomRight)
	}

	if raw.Styling != nil {
		req.Styling = validateStyling(raw.Styling, &req.EnumFallbacks)
	}

	return req, nil
}

func validateStyling(raw *RawStyling, fallbacks *int) *Styling {
	s := &Styling{}
	if raw.BorderWidth > 0 {
		s.BorderWidth = clampInt(raw.BorderWidth, 0, 50)
		s.BorderColor = NormalizeColor(raw.BorderColor)
	}
	if raw.Shadow {
		s.Shadow = true
		s.ShadowOffset = clampInt(raw.ShadowOffset, 1, 20)
		s.ShadowColor = NormalizeColor(raw.ShadowColor)
		s.ShadowOpacity = clampFloat(raw.ShadowOpacity, 0.1, 1.0)
	}
	if raw.Text != "" {
		text := raw.Text
		if len(text) > MaxCaptionLength {
			text = text[:MaxCaptionLength]
		}
		s.Text = text
		s.TextColor = NormalizeColor(raw.TextColor)
		s.TextSize = clampInt(raw.TextSize, 10, 50)
		if s.TextSize == 10 && raw.TextSize == 0 {
			s.TextSize = 20
		}
		s.TextPosition = validateEnum(raw.TextPosition, TextBottom, fallbacks,
			TextTop, TextCenter, TextBottom)
	}
	if !s.Shadow && s.BorderWidth == 0 && s.Text == "" {
		return nil
	}
	return s
}

func validateEnum[T ~string](value string, fallback T, fallbacks *int, valid ...T) T {
	for _, v := range valid {
		if T(value) == v {
			return v
		}
	}
	if value != "" {
		*fallbacks++
	}
	return fallback
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
