package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"
	"golang.org/x/time/rate"

	"quotegen/internal/config"
	"quotegen/internal/port"
)

const providerAzure = "azure"

// AzureExtractor recognizes printed text with Azure Computer Vision.
type AzureExtractor struct {
	client   *computervision.BaseClient
	limiter  *rate.Limiter
	language computervision.OcrLanguages
}

// NewAzureExtractor creates an extractor for the configured Computer Vision endpoint. Calls are
// throttled to cfg.RequestsPerSecond.
func NewAzureExtractor(cfg *config.OCRConfig) (*AzureExtractor, error) {
	if cfg.AzureEndpoint == "" || cfg.AzureKey == "" {
		return nil, fmt.Errorf("azure OCR requires endpoint and key")
	}
	client := computervision.New(cfg.AzureEndpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(cfg.AzureKey)

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &AzureExtractor{
		client:   &client,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		language: azureLanguage(cfg.Language),
	}, nil
}

func azureLanguage(lang string) computervision.OcrLanguages {
	switch strings.ToLower(lang) {
	case "spa", "es":
		return computervision.OcrLanguagesEs
	case "por", "pt":
		return computervision.OcrLanguagesPt
	case "deu", "de":
		return computervision.OcrLanguagesDe
	case "fra", "fr":
		return computervision.OcrLanguagesFr
	default:
		return computervision.OcrLanguagesEn
	}
}

func (a *AzureExtractor) Name() string { return providerAzure }

func (a *AzureExtractor) Extract(ctx context.Context, image []byte, progress port.ProgressFunc) (string, error) {
	report(progress, 0)
	if err := a.limiter.Wait(ctx); err != nil {
		return "", err
	}
	report(progress, 0.2)

	result, err := a.client.RecognizePrintedTextInStream(ctx, true, io.NopCloser(bytes.NewReader(image)), a.language)
	if err != nil {
		var detailed autorest.DetailedError
		if errors.As(err, &detailed) && detailed.StatusCode == http.StatusTooManyRequests {
			return "", NewRateLimitError(providerAzure, err, 0)
		}
		return "", fmt.Errorf("azure recognize: %w", err)
	}
	report(progress, 0.9)

	text := joinLines(result)
	report(progress, 1)
	return text, nil
}

func joinLines(result computervision.OcrResult) string {
	if result.Regions == nil {
		return ""
	}
	var lines []string
	for _, region := range *result.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			if line.Words == nil {
				continue
			}
			words := make([]string, 0, len(*line.Words))
			for _, w := range *line.Words {
				if w.Text != nil {
					words = append(words, *w.Text)
				}
			}
			if len(words) > 0 {
				lines = append(lines, strings.Join(words, " "))
			}
		}
	}
	return strings.Join(lines, "\n")
}
