package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"quotegen/internal/config"
	"quotegen/internal/port"
)

const providerTesseract = "tesseract"

// TesseractExtractor runs the tesseract CLI, feeding the image on stdin.
type TesseractExtractor struct {
	path     string
	language string
}

// NewTesseractExtractor creates an extractor using the configured binary and language.
func NewTesseractExtractor(cfg *config.OCRConfig) (*TesseractExtractor, error) {
	path := cfg.TesseractPath
	if path == "" {
		path = "tesseract"
	}
	lang := cfg.Language
	if lang == "" {
		lang = "eng"
	}
	return &TesseractExtractor{path: path, language: lang}, nil
}

func (t *TesseractExtractor) Name() string { return providerTesseract }

func (t *TesseractExtractor) Extract(ctx context.Context, image []byte, progress port.ProgressFunc) (string, error) {
	report(progress, 0)

	cmd := exec.CommandContext(ctx, t.path, "stdin", "stdout", "-l", t.language, "--psm", "6")
	cmd.Stdin = bytes.NewReader(image)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	report(progress, 0.1)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	report(progress, 1)
	return stdout.String(), nil
}
