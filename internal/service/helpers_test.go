package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quotegen/internal/domain"
	"quotegen/internal/metrics"
	"quotegen/internal/parser"
	"quotegen/internal/port"
	"quotegen/internal/quote"
	"quotegen/internal/repository/memory"
	"quotegen/internal/service"
	"quotegen/mocks"
)

const (
	payText      = "Amount you pay\nGross Monthly Salary USD 3000\nTotal Monthly Cost USD 3600"
	employeeText = "Amount employee gets\nNet Monthly Salary USD 2500"
)

var (
	payImage      = []byte("\x89PNG\r\n\x1a\npay-screenshot")
	employeeImage = []byte("\x89PNG\r\n\x1a\nemployee-screenshot")
	otherImage    = []byte("\x89PNG\r\n\x1a\nanother-screenshot")
)

func liveRates() domain.CurrencyRates {
	return domain.CurrencyRates{
		Base:   "USD",
		Date:   "2024-06-03",
		Rates:  map[string]float64{"USD": 1, "CLP": 800},
		Source: domain.RateSourceLive,
	}
}

func chileForm() domain.FormData {
	return domain.FormData{
		Country:       "Chile",
		QuoteCurrency: domain.QuoteCurrencyUSD,
		AEName:        "Jane Doe",
		ClientName:    "Acme Corp",
	}
}

func newRates() *mocks.MockRateProvider {
	r := new(mocks.MockRateProvider)
	r.On("Latest", mock.Anything, mock.Anything).Return(liveRates())
	return r
}

// script is the canned outcome of one image in scriptedExtractor.
type script struct {
	text string
	err  error
	gate chan struct{}
}

// scriptedExtractor returns per-image results and can hold a recognition until its gate closes.
type scriptedExtractor struct {
	mu      sync.Mutex
	scripts map[string]script
}

func newScriptedExtractor() *scriptedExtractor {
	return &scriptedExtractor{scripts: make(map[string]script)}
}

func (e *scriptedExtractor) set(image []byte, s script) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scripts[string(image)] = s
}

func (e *scriptedExtractor) Name() string { return "scripted" }

func (e *scriptedExtractor) Extract(ctx context.Context, image []byte, progress port.ProgressFunc) (string, error) {
	e.mu.Lock()
	s, ok := e.scripts[string(image)]
	e.mu.Unlock()
	if !ok {
		return "", errors.New("no script for image")
	}
	progress(0)
	progress(0.5)
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	progress(1)
	return s.text, s.err
}

type wizard struct {
	sessions  service.SessionService
	repo      *memory.SessionRepo
	rates     *mocks.MockRateProvider
	extractor *scriptedExtractor
}

func newWizard(t *testing.T) *wizard {
	t.Helper()
	repo := memory.NewSessionRepo(time.Hour, 0)
	rates := newRates()
	extractor := newScriptedExtractor()
	extractor.set(payImage, script{text: payText})
	extractor.set(employeeImage, script{text: employeeText})

	m := metrics.New()
	quotes := service.NewQuoteService(nil, rates, nil, m, 499)
	sessions := service.NewSessionService(repo, quotes, extractor, m, service.SessionConfig{
		MaxImageBytes:      1024,
		RecognitionTimeout: 5 * time.Second,
		Concurrency:        2,
	})
	t.Cleanup(sessions.Wait)
	return &wizard{sessions: sessions, repo: repo, rates: rates, extractor: extractor}
}

// withForm creates a session and submits the standard form.
func (w *wizard) withForm(t *testing.T) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	sess, err := w.sessions.Create(ctx)
	require.NoError(t, err)
	_, err = w.sessions.SubmitForm(ctx, sess.ID, chileForm())
	require.NoError(t, err)
	return sess.ID
}

// recognized uploads both screenshots and waits for recognition.
func (w *wizard) recognized(t *testing.T) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	id := w.withForm(t)
	_, err := w.sessions.Upload(ctx, id, domain.SlotPay, payImage)
	require.NoError(t, err)
	_, err = w.sessions.Upload(ctx, id, domain.SlotEmployee, employeeImage)
	require.NoError(t, err)
	w.sessions.Wait()
	return id
}

func readyQuote(t *testing.T) (domain.QuoteData, domain.FormData) {
	t.Helper()
	form := chileForm()
	form.EORFeeUSD = 499
	pay, err := parser.ParsePayScreenshot(payText)
	require.NoError(t, err)
	q, err := quote.NewCalculator(nil).Calculate(quote.Input{
		Pay:      pay,
		Employee: parser.ParseEmployeeScreenshot(employeeText),
		Form:     form,
		Rates:    liveRates(),
	})
	require.NoError(t, err)
	return *q, form
}

func titles(notes []domain.Notification) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Title)
	}
	return out
}
