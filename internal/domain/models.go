package domain

import (
	"time"

	"github.com/google/uuid"
)

// ParsedField is one monetary line item extracted from recognized screenshot text.
// Amount is always positive and expressed in Currency as printed.
type ParsedField struct {
	Label    string  `json:"label"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// ConvertedField is a ParsedField projected into the quote's local currency and USD.
type ConvertedField struct {
	ParsedField
	LocalAmount float64 `json:"localAmount"`
	USDAmount   float64 `json:"usdAmount"`
}

// PayScreenshot is the parsed "amount you pay" screenshot.
type PayScreenshot struct {
	Fields          []ParsedField `json:"fields"`
	GrossSalary     float64       `json:"grossSalary"`
	Currency        string        `json:"currency"`
	HasSeverancePay bool          `json:"hasSeverancePay"`
}

// EmployeeScreenshot is the parsed "amount employee gets" screenshot.
type EmployeeScreenshot struct {
	Fields []ParsedField `json:"fields"`
}

// FormData is the operator-entered context of a quote.
type FormData struct {
	Country       string        `json:"country"`
	QuoteCurrency QuoteCurrency `json:"quoteCurrency"`
	AEName        string        `json:"aeName"`
	ClientName    string        `json:"clientName"`
	EORFeeUSD     float64       `json:"eorFeeUSD"`
}

// QuoteData is a fully computed quote. It is built once per analyze action and never patched.
type QuoteData struct {
	PayFields        []ConvertedField `json:"payFields"`
	EmployeeFields   []ConvertedField `json:"employeeFields"`
	SetupSummary     []ConvertedField `json:"setupSummary"`
	LocalCurrency    string           `json:"localCurrency"`
	QuoteCurrency    QuoteCurrency    `json:"quoteCurrency"`
	ExchangeRate     float64          `json:"exchangeRate"`
	DismissalDeposit float64          `json:"dismissalDeposit"`
	EORFeeLocal      float64          `json:"eorFeeLocal"`
	TotalYouPay      float64          `json:"totalYouPay"`
	TotalYouPayUSD   float64          `json:"totalYouPayUSD"`
	RatesDate        string           `json:"ratesDate"`
	RatesSource      RateSource       `json:"ratesSource"`
}

// CurrencyRates holds exchange rates relative to Base (always USD).
type CurrencyRates struct {
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
	Source RateSource         `json:"source"`
}

// Notification is a user-visible toast message.
type Notification struct {
	Variant     NotificationVariant `json:"variant"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// Slot tracks recognition of one uploaded screenshot.
type Slot struct {
	Kind       SlotKind   `json:"kind"`
	Status     SlotStatus `json:"status"`
	Progress   int        `json:"progress"`
	Text       string     `json:"text"`
	Error      string     `json:"error,omitempty"`
	Generation uint64     `json:"generation"`
}

// Session is the wizard context of one operator. Every transition produces a new Session value
// that replaces the stored one.
type Session struct {
	ID            uuid.UUID      `json:"id"`
	Step          Step           `json:"step"`
	Form          *FormData      `json:"form,omitempty"`
	Pay           Slot           `json:"pay"`
	Employee      Slot           `json:"employee"`
	Quote         *QuoteData     `json:"quote,omitempty"`
	LastError     string         `json:"lastError,omitempty"`
	Notifications []Notification `json:"notifications,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// NewSession returns a session in the CollectingForm step with both slots empty.
func NewSession(id uuid.UUID, now time.Time) Session {
	return Session{
		ID:        id,
		Step:      StepCollectingForm,
		Pay:       Slot{Kind: SlotPay, Status: SlotEmpty},
		Employee:  Slot{Kind: SlotEmployee, Status: SlotEmpty},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Slot returns the slot of the given kind.
func (s Session) Slot(kind SlotKind) Slot {
	if kind == SlotPay {
		return s.Pay
	}
	return s.Employee
}

// WithSlot returns a copy of s with the slot of the matching kind replaced.
func (s Session) WithSlot(slot Slot) Session {
	if slot.Kind == SlotPay {
		s.Pay = slot
	} else {
		s.Employee = slot
	}
	return s
}

// Clone returns a deep copy so callers can never mutate stored state through shared slices.
func (s Session) Clone() Session {
	out := s
	if s.Form != nil {
		f := *s.Form
		out.Form = &f
	}
	if s.Quote != nil {
		q := s.Quote.Clone()
		out.Quote = &q
	}
	if s.Notifications != nil {
		out.Notifications = append([]Notification(nil), s.Notifications...)
	}
	return out
}

// Clone returns a deep copy of the quote.
func (q QuoteData) Clone() QuoteData {
	out := q
	out.PayFields = cloneFields(q.PayFields)
	out.EmployeeFields = cloneFields(q.EmployeeFields)
	out.SetupSummary = cloneFields(q.SetupSummary)
	return out
}

// cloneFields copies f, keeping an empty slice empty rather than nil.
func cloneFields(f []ConvertedField) []ConvertedField {
	if f == nil {
		return nil
	}
	return append(make([]ConvertedField, 0, len(f)), f...)
}
