package decode

import (
	"image"

	"github.com/sirupsen/logrus"

	"go-qr-platform/internal/logger"
	"go-qr-platform/internal/preprocess"
)

// ErrNoSymbolMessage is the caller-facing message when every attempt in the
// cascade comes up empty. Wording is part of the API contract.
const ErrNoSymbolMessage = "No QR code found in the image. Try using a clearer image with better contrast."

// Pipeline runs decoder attempts and preprocessing fallbacks in a fixed
// priority order. Attempts are strictly sequential; the order decides which
// engine "wins" and is part of the observable contract.
type Pipeline struct {
	engines []BarcodeEngine
	log     *logrus.Entry
}

// NewPipeline creates a decode pipeline over the given engines. The first
// engine is the primary; the rest are tried in order as fallbacks.
func NewPipeline(engines ...BarcodeEngine) *Pipeline {
	return &Pipeline{
		engines: engines,
		log:     logger.WithComponent("decode_pipeline"),
	}
}

// Decode runs the full cascade and always returns a Result; decode failures
// are reported in Result.ErrorMessage, never as an error.
func (p *Pipeline) Decode(img image.Image) Result {
	gray := preprocess.Grayscale(img)

	// Pass 1: each engine on the grayscale frame, in priority order.
	for _, engine := range p.engines {
		if symbols := p.attempt(engine, gray, "grayscale"); len(symbols) > 0 {
			return Result{Symbols: symbols}
		}
	}

	// Pass 2: preprocessing cascade. Variants are built lazily since most
	// images decode on the first pass.
	for _, variant := range p.variants(img, gray) {
		processed := variant.build()
		for _, engine := range p.engines {
			if symbols := p.attempt(engine, processed, variant.name); len(symbols) > 0 {
				return Result{Symbols: symbols}
			}
		}
	}

	return Result{Symbols: []Symbol{}, ErrorMessage: ErrNoSymbolMessage}
}

type variant struct {
	name  string
	build func() image.Image
}

func (p *Pipeline) variants(img image.Image, gray *image.Gray) []variant {
	return []variant{
		{"direct", func() image.Image { return img }},
		{"resized_otsu", func() image.Image {
			return preprocess.OtsuThreshold(preprocess.ResizeIfSmall(gray, preprocess.MinDecodeDimension))
		}},
		{"adaptive_threshold", func() image.Image {
			return preprocess.AdaptiveThreshold(gray, 11, 2)
		}},
		{"otsu_closed", func() image.Image {
			return preprocess.Close(preprocess.OtsuThreshold(gray))
		}},
	}
}

func (p *Pipeline) attempt(engine BarcodeEngine, img image.Image, pass string) []Symbol {
	symbols, err := engine.Decode(img)
	if err != nil {
		p.log.WithError(err).WithFields(logrus.Fields{
			"engine": engine.Name(),
			"pass":   pass,
		}).Debug("Decode attempt errored")
		return nil
	}
	if len(symbols) == 0 {
		return nil
	}

	p.log.WithFields(logrus.Fields{
		"engine":  engine.Name(),
		"pass":    pass,
		"symbols": len(symbols),
	}).Debug("Decode attempt succeeded")
	return symbols
}
