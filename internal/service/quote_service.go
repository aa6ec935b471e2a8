package service

import (
	"context"
	"log"
	"strings"

	"quotegen/internal/domain"
	"quotegen/internal/metrics"
	"quotegen/internal/parser"
	"quotegen/internal/port"
	"quotegen/internal/quote"
	"quotegen/internal/validator"
)

// AnalyzeInput is the DTO for computing a quote from recognized screenshot text.
type AnalyzeInput struct {
	PayText      string
	EmployeeText string
	Form         domain.FormData
}

// ManualInput is the DTO for computing a quote from operator-entered rows.
type ManualInput struct {
	PayFields      []domain.ParsedField
	EmployeeFields []domain.ParsedField
	Form           domain.FormData
}

// QuoteService defines the quote computation contract.
type QuoteService interface {
	// PrepareForm applies configured defaults and validates the form.
	PrepareForm(form domain.FormData) (domain.FormData, error)
	Analyze(ctx context.Context, input AnalyzeInput, notifier port.Notifier) (*domain.QuoteData, error)
	Manual(ctx context.Context, input ManualInput, notifier port.Notifier) (*domain.QuoteData, error)
	Rates(ctx context.Context, notifier port.Notifier) domain.CurrencyRates
	Countries() []quote.Country
}

type quoteService struct {
	calc       *quote.Calculator
	rates      port.RateProvider
	engine     *validator.Engine
	metrics    *metrics.Metrics
	defaultFee float64
}

// NewQuoteService creates a new QuoteService implementation.
func NewQuoteService(
	calc *quote.Calculator,
	rates port.RateProvider,
	engine *validator.Engine,
	m *metrics.Metrics,
	defaultEORFeeUSD float64,
) QuoteService {
	if calc == nil {
		calc = quote.NewCalculator(nil)
	}
	if engine == nil {
		engine = validator.NewEngine(nil)
	}
	return &quoteService{
		calc:       calc,
		rates:      rates,
		engine:     engine,
		metrics:    m,
		defaultFee: defaultEORFeeUSD,
	}
}

func (s *quoteService) PrepareForm(form domain.FormData) (domain.FormData, error) {
	form.Country = strings.TrimSpace(form.Country)
	form.AEName = strings.TrimSpace(form.AEName)
	form.ClientName = strings.TrimSpace(form.ClientName)
	if form.QuoteCurrency == "" {
		form.QuoteCurrency = domain.QuoteCurrencyUSD
	}
	if form.EORFeeUSD == 0 {
		form.EORFeeUSD = s.defaultFee
	}
	if err := form.Validate(); err != nil {
		return domain.FormData{}, err
	}
	return form, nil
}

func (s *quoteService) prepare(form domain.FormData) (domain.FormData, error) {
	form, err := s.PrepareForm(form)
	if err != nil {
		s.metrics.RecordQuote("invalid_form")
	}
	return form, err
}

func (s *quoteService) Analyze(ctx context.Context, input AnalyzeInput, notifier port.Notifier) (*domain.QuoteData, error) {
	form, err := s.prepare(input.Form)
	if err != nil {
		return nil, err
	}
	pay, err := parser.ParsePayScreenshot(input.PayText)
	if err != nil {
		log.Printf("quoteService.Analyze: %v", err)
		s.metrics.RecordQuote("missing_field")
		return nil, err
	}
	employee := parser.ParseEmployeeScreenshot(input.EmployeeText)
	return s.compute(ctx, pay, employee, form, notifier)
}

func (s *quoteService) Manual(ctx context.Context, input ManualInput, notifier port.Notifier) (*domain.QuoteData, error) {
	form, err := s.prepare(input.Form)
	if err != nil {
		return nil, err
	}
	pay, err := parser.PayScreenshotFromFields(input.PayFields)
	if err != nil {
		log.Printf("quoteService.Manual: %v", err)
		s.metrics.RecordQuote("missing_field")
		return nil, err
	}
	employee := parser.EmployeeScreenshotFromFields(input.EmployeeFields)
	return s.compute(ctx, pay, employee, form, notifier)
}

func (s *quoteService) compute(
	ctx context.Context,
	pay domain.PayScreenshot,
	employee domain.EmployeeScreenshot,
	form domain.FormData,
	notifier port.Notifier,
) (*domain.QuoteData, error) {
	rates := s.rates.Latest(ctx, notifier)
	q, err := s.calc.Calculate(quote.Input{Pay: pay, Employee: employee, Form: form, Rates: rates})
	if err != nil {
		s.metrics.RecordQuote("missing_field")
		return nil, err
	}

	if _, err := s.engine.Validate(ctx, q); err != nil {
		log.Printf("quoteService.compute: %v", err)
		s.metrics.RecordQuote("inconsistent")
		return nil, err
	}

	log.Printf("quoteService.compute: quote for %s in %s, total %.2f USD (rates %s, %s)",
		form.ClientName, q.LocalCurrency, q.TotalYouPayUSD, q.RatesSource, q.RatesDate)
	s.metrics.RecordQuote("ok")
	notify(notifier, successNotification())
	return q, nil
}

func (s *quoteService) Rates(ctx context.Context, notifier port.Notifier) domain.CurrencyRates {
	return s.rates.Latest(ctx, notifier)
}

func (s *quoteService) Countries() []quote.Country {
	return s.calc.Countries().Countries()
}
