package ocr

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"quotegen/internal/port"
)

// circuitState tracks rate-limit backoff for a single extractor.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackExtractor tries extractors in order, skipping those with open circuits.
type FallbackExtractor struct {
	extractors []port.TextExtractor
	circuits   []*circuitState
	now        func() time.Time
}

// NewFallbackExtractor creates a FallbackExtractor from an ordered list of extractors.
func NewFallbackExtractor(extractors []port.TextExtractor) *FallbackExtractor {
	circuits := make([]*circuitState, len(extractors))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackExtractor{extractors: extractors, circuits: circuits, now: time.Now}
}

func (f *FallbackExtractor) Name() string {
	names := make([]string, len(f.extractors))
	for i, e := range f.extractors {
		names[i] = e.Name()
	}
	return strings.Join(names, ",")
}

func (f *FallbackExtractor) Extract(ctx context.Context, image []byte, progress port.ProgressFunc) (string, error) {
	now := f.now()
	var lastErr error

	for i, e := range f.extractors {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			log.Printf("ocr.FallbackExtractor: skipping %s (circuit open until %s)", e.Name(), resetAt.Format(time.RFC3339))
			continue
		}

		text, err := e.Extract(ctx, image, progress)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		log.Printf("ocr.FallbackExtractor: %s failed: %v", e.Name(), err)
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			f.circuits[i].open(now.Add(rlErr.RetryAfter))
		}
	}

	if lastErr == nil {
		return "", fmt.Errorf("all OCR providers are rate limited")
	}
	return "", fmt.Errorf("all OCR providers failed, last error: %w", lastErr)
}
