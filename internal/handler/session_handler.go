package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quotegen/internal/port"
	"quotegen/internal/service"
)

// multipartOverhead is the allowance for multipart framing on top of the image itself.
const multipartOverhead = 1 << 20

// SessionHandler handles the quote wizard endpoints.
type SessionHandler struct {
	sessions      service.SessionService
	delivery      service.DeliveryService
	maxImageBytes int64
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions service.SessionService, delivery service.DeliveryService, maxImageBytes int64) *SessionHandler {
	return &SessionHandler{sessions: sessions, delivery: delivery, maxImageBytes: maxImageBytes}
}

// Create handles POST /api/v1/sessions
// @Summary Start a quote wizard session
// @Tags sessions
// @Produce json
// @Success 201 {object} Response{data=domain.Session} "Session created"
// @Failure 503 {object} ErrorResponseBody "Too many active sessions"
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	sess, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, sess)
}

// Get handles GET /api/v1/sessions/:id
// @Summary Get a wizard session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=domain.Session}
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	sess, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

// SubmitForm handles PUT /api/v1/sessions/:id/form
// @Summary Submit the quote form
// @Description Validates the form and moves the wizard to the screenshot step
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body FormRequest true "Quote form"
// @Success 200 {object} Response{data=domain.Session}
// @Failure 400 {object} ErrorResponseBody "Invalid form"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Failure 409 {object} ErrorResponseBody "Form already submitted"
// @Router /sessions/{id}/form [put]
func (h *SessionHandler) SubmitForm(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	var req FormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	sess, err := h.sessions.SubmitForm(c.Request.Context(), id, req.toDomain())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

// Upload handles POST /api/v1/sessions/:id/screenshots/:slot
// @Summary Upload a screenshot
// @Description Stores the image in the slot and starts text recognition in the background
// @Tags sessions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param slot path string true "Slot" Enums(pay, employee)
// @Param file formData file true "Screenshot (PNG, JPG, GIF, WEBP or BMP)"
// @Success 202 {object} Response{data=domain.Session} "Recognition started"
// @Failure 400 {object} ErrorResponseBody "Missing file"
// @Failure 409 {object} ErrorResponseBody "Form not submitted"
// @Failure 413 {object} ErrorResponseBody "Image too large"
// @Failure 415 {object} ErrorResponseBody "Unsupported image type"
// @Router /sessions/{id}/screenshots/{slot} [post]
func (h *SessionHandler) Upload(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	kind, ok := parseSlot(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImageBytes+multipartOverhead)
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(c, http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE", "image exceeds maximum allowed size")
			return
		}
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	// One byte past the limit is enough for the service to reject the image.
	image, err := io.ReadAll(io.LimitReader(file, h.maxImageBytes+1))
	if err != nil {
		log.Printf("sessionHandler.Upload: reading file for session %s: %v", id, err)
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "could not read uploaded file")
		return
	}

	sess, err := h.sessions.Upload(c.Request.Context(), id, kind, image)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: sess})
}

// Progress handles GET /api/v1/sessions/:id/screenshots/:slot/progress
// @Summary Stream recognition progress
// @Description Server-sent events named "progress"; the stream ends once the slot settles
// @Tags sessions
// @Produce text/event-stream
// @Param id path string true "Session ID"
// @Param slot path string true "Slot" Enums(pay, employee)
// @Success 200 {object} service.ProgressEvent
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Router /sessions/{id}/screenshots/{slot}/progress [get]
func (h *SessionHandler) Progress(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	kind, ok := parseSlot(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	events, cancel, err := h.sessions.Subscribe(ctx, id, kind)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(_ io.Writer) bool {
		select {
		case ev, open := <-events:
			if !open {
				return false
			}
			c.SSEvent("progress", ev)
			return !ev.Done()
		case <-ctx.Done():
			return false
		}
	})
}

// Analyze handles POST /api/v1/sessions/:id/analyze
// @Summary Calculate the quote
// @Description Parses both recognized screenshots and calculates the quote
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=domain.Session}
// @Failure 409 {object} ErrorResponseBody "Screenshots still processing"
// @Failure 422 {object} ErrorResponseBody "Required field missing"
// @Router /sessions/{id}/analyze [post]
func (h *SessionHandler) Analyze(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	sess, err := h.sessions.Analyze(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

// SubmitManual handles POST /api/v1/sessions/:id/manual
// @Summary Calculate the quote from typed line items
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body ManualRequest true "Line items"
// @Success 200 {object} Response{data=domain.Session}
// @Failure 409 {object} ErrorResponseBody "Form not submitted"
// @Failure 422 {object} ErrorResponseBody "Required field missing"
// @Router /sessions/{id}/manual [post]
func (h *SessionHandler) SubmitManual(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	var req ManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	sess, err := h.sessions.SubmitManual(c.Request.Context(), id, toParsedFields(req.PayFields), toParsedFields(req.EmployeeFields))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

// DismissError handles DELETE /api/v1/sessions/:id/error
// @Summary Dismiss the current error
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=domain.Session}
// @Router /sessions/{id}/error [delete]
func (h *SessionHandler) DismissError(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	sess, err := h.sessions.DismissError(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

// Reset handles POST /api/v1/sessions/:id/reset
// @Summary Start over
// @Description Clears the form, screenshots and quote, keeping the session ID
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=domain.Session}
// @Router /sessions/{id}/reset [post]
func (h *SessionHandler) Reset(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	sess, err := h.sessions.Reset(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

// Notifications handles GET /api/v1/sessions/:id/notifications
// @Summary Drain pending notifications
// @Description Returns the toasts raised since the last call and clears them
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=[]domain.Notification}
// @Router /sessions/{id}/notifications [get]
func (h *SessionHandler) Notifications(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	notes, err := h.sessions.DrainNotifications(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, notes)
}

// DownloadPDF handles GET /api/v1/sessions/:id/quote.pdf
// @Summary Download the quote as PDF
// @Tags documents
// @Produce application/pdf
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Failure 409 {object} ErrorResponseBody "Quote not calculated"
// @Failure 500 {object} ErrorResponseBody "Generation failed"
// @Router /sessions/{id}/quote.pdf [get]
func (h *SessionHandler) DownloadPDF(c *gin.Context) {
	h.download(c, h.delivery.RenderPDF)
}

// DownloadCSV handles GET /api/v1/sessions/:id/quote.csv
// @Summary Download the quote as CSV
// @Tags documents
// @Produce text/csv
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Failure 409 {object} ErrorResponseBody "Quote not calculated"
// @Router /sessions/{id}/quote.csv [get]
func (h *SessionHandler) DownloadCSV(c *gin.Context) {
	h.download(c, h.delivery.ExportCSV)
}

// DownloadXLSX handles GET /api/v1/sessions/:id/quote.xlsx
// @Summary Download the quote as an Excel workbook
// @Tags documents
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Failure 409 {object} ErrorResponseBody "Quote not calculated"
// @Router /sessions/{id}/quote.xlsx [get]
func (h *SessionHandler) DownloadXLSX(c *gin.Context) {
	h.download(c, h.delivery.ExportXLSX)
}

func (h *SessionHandler) download(c *gin.Context, produce func(ctx context.Context, id uuid.UUID) (*port.Document, error)) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	doc, err := produce(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, doc.ContentType, doc.Bytes)
}

// Publish handles POST /api/v1/sessions/:id/quote/publish
// @Summary Publish the quote PDF
// @Description Uploads the PDF to object storage and returns a time-limited link
// @Tags documents
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=PublishResponse}
// @Failure 409 {object} ErrorResponseBody "Quote not calculated"
// @Failure 502 {object} ErrorResponseBody "Storage unavailable"
// @Router /sessions/{id}/quote/publish [post]
func (h *SessionHandler) Publish(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	result, err := h.delivery.Publish(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Email handles POST /api/v1/sessions/:id/quote/email
// @Summary E-mail the quote link
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body EmailQuoteRequest true "Recipient"
// @Success 200 {object} Response{data=PublishResponse}
// @Failure 400 {object} ErrorResponseBody "Invalid recipient"
// @Failure 502 {object} ErrorResponseBody "Delivery failed"
// @Router /sessions/{id}/quote/email [post]
func (h *SessionHandler) Email(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	var req EmailQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	result, err := h.delivery.Email(c.Request.Context(), id, service.EmailInput{ToEmail: req.ToEmail, ToName: req.ToName})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}
