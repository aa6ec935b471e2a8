package ocr

import (
	"context"

	"quotegen/internal/port"
)

const providerStatic = "static"

// StaticExtractor returns fixed text for every image. It serves demos and local development
// without a recognition engine.
type StaticExtractor struct {
	text string
}

// NewStaticExtractor creates an extractor that always recognizes text.
func NewStaticExtractor(text string) *StaticExtractor {
	return &StaticExtractor{text: text}
}

func (s *StaticExtractor) Name() string { return providerStatic }

func (s *StaticExtractor) Extract(ctx context.Context, _ []byte, progress port.ProgressFunc) (string, error) {
	for _, p := range []float64{0, 0.5, 1} {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		report(progress, p)
	}
	return s.text, nil
}

func report(progress port.ProgressFunc, fraction float64) {
	if progress != nil {
		progress(fraction)
	}
}
