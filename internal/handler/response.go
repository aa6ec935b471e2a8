package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quotegen/internal/domain"
	"quotegen/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var missing *domain.MissingRequiredFieldError
	switch {
	case errors.As(err, &missing):
		return http.StatusUnprocessableEntity, "MISSING_REQUIRED_FIELD", missing.UserMessage()
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND", "session not found or expired"
	case errors.Is(err, domain.ErrTooManySessions):
		return http.StatusServiceUnavailable, "TOO_MANY_SESSIONS", "too many active sessions; try again later"
	case errors.Is(err, domain.ErrInvalidForm):
		return http.StatusBadRequest, "INVALID_FORM", err.Error()
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION", "action not allowed in the current wizard step"
	case errors.Is(err, domain.ErrSlotNotReady):
		return http.StatusConflict, "SLOT_NOT_READY", "wait for both screenshots to finish processing"
	case errors.Is(err, domain.ErrQuoteNotReady):
		return http.StatusConflict, "QUOTE_NOT_READY", "quote has not been calculated yet"
	case errors.Is(err, domain.ErrUnsupportedImage):
		return http.StatusUnsupportedMediaType, "UNSUPPORTED_IMAGE", "unsupported image type; allowed: png, jpg, gif, webp, bmp"
	case errors.Is(err, domain.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE", "image exceeds maximum allowed size"
	case errors.Is(err, domain.ErrInconsistentQuote):
		return http.StatusUnprocessableEntity, "INCONSISTENT_QUOTE", "calculated totals do not add up; please re-check the screenshots"
	case errors.Is(err, domain.ErrRecognitionFailed):
		return http.StatusBadGateway, "RECOGNITION_FAILED", "could not read the screenshot"
	case errors.Is(err, domain.ErrRenderFailed):
		return http.StatusInternalServerError, "RENDER_FAILED", "there was an error generating the document"
	case errors.Is(err, domain.ErrDeliveryFailed):
		return http.StatusBadGateway, "DELIVERY_FAILED", "quote could not be delivered"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		log.Printf("[%s] internal error: %v", middleware.GetRequestID(c), err)
	}
	RespondError(c, status, code, msg)
}

// parseSessionID reads the :id path parameter. Returns false if it is malformed (error response already written).
func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}

// parseSlot reads the :slot path parameter.
func parseSlot(c *gin.Context) (domain.SlotKind, bool) {
	kind, ok := domain.ParseSlotKind(c.Param("slot"))
	if !ok {
		RespondError(c, http.StatusBadRequest, "INVALID_SLOT", "slot must be one of: pay, employee")
		return "", false
	}
	return kind, true
}
