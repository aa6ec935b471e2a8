package handler

import (
	"quotegen/internal/domain"
	"quotegen/internal/service"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// FormRequest represents the quote form body.
type FormRequest struct {
	Country       string               `json:"country" example:"Chile"`
	QuoteCurrency domain.QuoteCurrency `json:"quoteCurrency" example:"USD"`
	AEName        string               `json:"aeName" example:"Jane Doe"`
	ClientName    string               `json:"clientName" example:"Acme Corp"`
	EORFeeUSD     float64              `json:"eorFeeUSD" example:"499"`
}

func (r FormRequest) toDomain() domain.FormData {
	return domain.FormData{
		Country:       r.Country,
		QuoteCurrency: r.QuoteCurrency,
		AEName:        r.AEName,
		ClientName:    r.ClientName,
		EORFeeUSD:     r.EORFeeUSD,
	}
}

// FieldRequest represents one manually entered line item.
type FieldRequest struct {
	Label    string  `json:"label" example:"Gross Monthly Salary"`
	Amount   float64 `json:"amount" example:"2000000"`
	Currency string  `json:"currency" example:"CLP"`
}

func toParsedFields(in []FieldRequest) []domain.ParsedField {
	out := make([]domain.ParsedField, 0, len(in))
	for _, f := range in {
		out = append(out, domain.ParsedField{Label: f.Label, Amount: f.Amount, Currency: f.Currency})
	}
	return out
}

// ManualRequest represents line items typed in when recognition is unusable.
type ManualRequest struct {
	PayFields      []FieldRequest `json:"payFields"`
	EmployeeFields []FieldRequest `json:"employeeFields"`
}

// EmailQuoteRequest represents the body for e-mailing a quote link.
type EmailQuoteRequest struct {
	ToEmail string `json:"toEmail" binding:"required" example:"cfo@acme.com"`
	ToName  string `json:"toName" example:"Maria Lopez"`
}

// QuoteRequest represents a stateless quote calculation. When payFields is set the texts are ignored.
type QuoteRequest struct {
	Form           FormRequest    `json:"form"`
	PayText        string         `json:"payText" example:"Gross Monthly Salary CLP 2,000,000"`
	EmployeeText   string         `json:"employeeText" example:"Net Salary CLP 1,650,000"`
	PayFields      []FieldRequest `json:"payFields"`
	EmployeeFields []FieldRequest `json:"employeeFields"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"server is shutting down"`
}

// QuoteResponse carries a calculated quote and the notifications raised while building it.
type QuoteResponse struct {
	Quote         *domain.QuoteData     `json:"quote"`
	Notifications []domain.Notification `json:"notifications"`
}

// RatesResponse carries the current rate table and any fallback notice.
type RatesResponse struct {
	Rates         domain.CurrencyRates  `json:"rates"`
	Notifications []domain.Notification `json:"notifications"`
}

// PublishResponse represents a shared quote link.
type PublishResponse = service.PublishResult

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
