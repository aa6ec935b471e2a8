package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"quotegen/internal/domain"
	"quotegen/internal/service"
)

// QuoteHandler handles stateless quote and reference-data endpoints.
type QuoteHandler struct {
	quotes service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quotes service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

// collector gathers the notifications raised during one request.
type collector struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (c *collector) Notify(n domain.Notification) {
	c.mu.Lock()
	c.notes = append(c.notes, n)
	c.mu.Unlock()
}

func (c *collector) list() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(make([]domain.Notification, 0, len(c.notes)), c.notes...)
}

// Calculate handles POST /api/v1/quotes
// @Summary Calculate a quote in one call
// @Description Takes already recognized screenshot texts, or typed line items, plus the form
// @Tags quotes
// @Accept json
// @Produce json
// @Param body body QuoteRequest true "Quote input"
// @Success 200 {object} Response{data=QuoteResponse}
// @Failure 400 {object} ErrorResponseBody "Invalid form"
// @Failure 422 {object} ErrorResponseBody "Required field missing"
// @Router /quotes [post]
func (h *QuoteHandler) Calculate(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	notes := &collector{}
	var (
		q   *domain.QuoteData
		err error
	)
	if len(req.PayFields) > 0 {
		q, err = h.quotes.Manual(c.Request.Context(), service.ManualInput{
			PayFields:      toParsedFields(req.PayFields),
			EmployeeFields: toParsedFields(req.EmployeeFields),
			Form:           req.Form.toDomain(),
		}, notes)
	} else {
		q, err = h.quotes.Analyze(c.Request.Context(), service.AnalyzeInput{
			PayText:      req.PayText,
			EmployeeText: req.EmployeeText,
			Form:         req.Form.toDomain(),
		}, notes)
	}
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, QuoteResponse{Quote: q, Notifications: notes.list()})
}

// Rates handles GET /api/v1/rates
// @Summary Current exchange rates
// @Description USD-based rates; falls back to a built-in table when the live source is unavailable
// @Tags quotes
// @Produce json
// @Success 200 {object} Response{data=RatesResponse}
// @Router /rates [get]
func (h *QuoteHandler) Rates(c *gin.Context) {
	notes := &collector{}
	rates := h.quotes.Rates(c.Request.Context(), notes)
	RespondOK(c, RatesResponse{Rates: rates, Notifications: notes.list()})
}

// Countries handles GET /api/v1/countries
// @Summary Supported countries
// @Tags quotes
// @Produce json
// @Success 200 {object} Response{data=[]quote.Country}
// @Router /countries [get]
func (h *QuoteHandler) Countries(c *gin.Context) {
	RespondOK(c, h.quotes.Countries())
}
