// Package ocr provides the text extraction adapters that turn screenshots into raw text.
package ocr

import (
	"fmt"

	"quotegen/internal/config"
	"quotegen/internal/port"
)

// ProviderFactory creates a TextExtractor from the OCR config.
type ProviderFactory func(cfg *config.OCRConfig) (port.TextExtractor, error)

var providers = map[string]ProviderFactory{
	providerAzure: func(cfg *config.OCRConfig) (port.TextExtractor, error) {
		return NewAzureExtractor(cfg)
	},
	providerTesseract: func(cfg *config.OCRConfig) (port.TextExtractor, error) {
		return NewTesseractExtractor(cfg)
	},
	providerStatic: func(cfg *config.OCRConfig) (port.TextExtractor, error) {
		return NewStaticExtractor(cfg.StaticText), nil
	},
}

// RegisterProvider registers an extractor factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates a single named extractor.
func NewExtractor(name string, cfg *config.OCRConfig) (port.TextExtractor, error) {
	factory, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown OCR provider: %s", name)
	}
	return factory(cfg)
}

// New builds the configured extraction chain: the primary provider, then any fallback providers,
// optionally behind image preprocessing.
func New(cfg *config.OCRConfig) (port.TextExtractor, error) {
	names := append([]string{cfg.Provider}, cfg.Fallback...)

	extractors := make([]port.TextExtractor, 0, len(names))
	for _, name := range names {
		e, err := NewExtractor(name, cfg)
		if err != nil {
			return nil, fmt.Errorf("creating %s extractor: %w", name, err)
		}
		extractors = append(extractors, e)
	}

	var out port.TextExtractor = extractors[0]
	if len(extractors) > 1 {
		out = NewFallbackExtractor(extractors)
	}
	if cfg.Preprocess {
		out = WithPreprocessing(out)
	}
	return out, nil
}
