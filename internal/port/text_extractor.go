package port

import "context"

// ProgressFunc receives recognition progress as a fraction between 0 and 1.
type ProgressFunc func(fraction float64)

// TextExtractor turns a screenshot into raw recognized text. An empty result is valid and means
// nothing was recognized.
type TextExtractor interface {
	Extract(ctx context.Context, image []byte, progress ProgressFunc) (string, error)
	Name() string
}
