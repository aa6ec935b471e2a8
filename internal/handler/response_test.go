package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"quotegen/internal/domain"
	"quotegen/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"session not found", domain.ErrSessionNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
		{"too many sessions", domain.ErrTooManySessions, http.StatusServiceUnavailable, "TOO_MANY_SESSIONS"},
		{"invalid form", fmt.Errorf("%w: country is required", domain.ErrInvalidForm), http.StatusBadRequest, "INVALID_FORM"},
		{"invalid transition", domain.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{"slot not ready", domain.ErrSlotNotReady, http.StatusConflict, "SLOT_NOT_READY"},
		{"quote not ready", domain.ErrQuoteNotReady, http.StatusConflict, "QUOTE_NOT_READY"},
		{"unsupported image", fmt.Errorf("%w: text/plain", domain.ErrUnsupportedImage), http.StatusUnsupportedMediaType, "UNSUPPORTED_IMAGE"},
		{"image too large", domain.ErrImageTooLarge, http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE"},
		{"missing field", domain.ErrMissingGrossSalary(), http.StatusUnprocessableEntity, "MISSING_REQUIRED_FIELD"},
		{"inconsistent", domain.ErrInconsistentQuote, http.StatusUnprocessableEntity, "INCONSISTENT_QUOTE"},
		{"recognition", domain.ErrRecognitionFailed, http.StatusBadGateway, "RECOGNITION_FAILED"},
		{"render", domain.ErrRenderFailed, http.StatusInternalServerError, "RENDER_FAILED"},
		{"delivery", domain.ErrDeliveryFailed, http.StatusBadGateway, "DELIVERY_FAILED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestMapDomainError_MissingFieldUsesRemediation(t *testing.T) {
	_, _, msg := handler.MapDomainError(fmt.Errorf("analyze: %w", domain.ErrMissingGrossSalary()))
	assert.Equal(t,
		"Could not find Gross Monthly Salary in the Amount You Pay screenshot. Please ensure the screenshot contains a clear 'Gross Monthly Salary' field.",
		msg)
}

func TestMapDomainError_InvalidFormKeepsDetail(t *testing.T) {
	_, _, msg := handler.MapDomainError(fmt.Errorf("%w: eor fee must not be negative", domain.ErrInvalidForm))
	assert.Contains(t, msg, "eor fee must not be negative")
}
