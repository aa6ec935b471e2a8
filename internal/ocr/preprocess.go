package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/disintegration/imaging"

	"quotegen/internal/port"
)

// maxEdge bounds the longest image side handed to a recognition engine.
const maxEdge = 2400

// Preprocess converts a screenshot into a high-contrast grayscale PNG, which recognizes more
// reliably than the colored original.
func Preprocess(image []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(image), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.5)
	img = imaging.AdjustBrightness(img, 10)
	img = imaging.AdjustGamma(img, 1.2)

	b := img.Bounds()
	if b.Dx() > maxEdge || b.Dy() > maxEdge {
		img = imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), nil
}

// PreprocessingExtractor enhances images before delegating to another extractor. Images it
// cannot decode are passed through unchanged.
type PreprocessingExtractor struct {
	next port.TextExtractor
}

// WithPreprocessing wraps next with image enhancement.
func WithPreprocessing(next port.TextExtractor) *PreprocessingExtractor {
	return &PreprocessingExtractor{next: next}
}

func (p *PreprocessingExtractor) Name() string { return p.next.Name() }

func (p *PreprocessingExtractor) Extract(ctx context.Context, image []byte, progress port.ProgressFunc) (string, error) {
	enhanced, err := Preprocess(image)
	if err != nil {
		log.Printf("ocr.PreprocessingExtractor: using original image: %v", err)
		enhanced = image
	}
	return p.next.Extract(ctx, enhanced, progress)
}
