package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	pdfreader "github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotegen/internal/domain"
	"quotegen/internal/parser"
	"quotegen/internal/port"
	"quotegen/internal/quote"
)

func renderInput(t *testing.T, payText string) port.RenderInput {
	t.Helper()
	pay, err := parser.ParsePayScreenshot(payText)
	require.NoError(t, err)
	form := domain.FormData{
		Country: "Chile", QuoteCurrency: domain.QuoteCurrencyUSD,
		AEName: "José Pérez", ClientName: "Acme Corp", EORFeeUSD: 499,
	}
	q, err := quote.NewCalculator(nil).Calculate(quote.Input{
		Pay:      pay,
		Employee: parser.ParseEmployeeScreenshot("Net Monthly Salary USD 2500"),
		Form:     form,
		Rates:    domain.CurrencyRates{Base: "USD", Date: "2024-06-01", Rates: map[string]float64{"CLP": 800}},
	})
	require.NoError(t, err)
	return port.RenderInput{Quote: *q, Form: form, GeneratedAt: time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)}
}

func TestRender(t *testing.T) {
	in := renderInput(t, "Gross Monthly Salary USD 3000\nTotal Monthly Cost USD 3600")
	before := in.Quote.Clone()

	doc, err := NewRenderer(30).Render(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "Ontop-Quote-Acme-Corp-2024-06-03.pdf", doc.FileName)
	assert.Equal(t, ContentType, doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Bytes, []byte("%PDF-")))
	assert.NoError(t, Verify(doc.Bytes))
	assert.Equal(t, before, in.Quote)
}

func TestRender_BreaksLongQuotesAcrossPages(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Gross Monthly Salary USD 3000\n")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&sb, "Contribution %d USD %d\n", i, 10+i)
	}
	in := renderInput(t, sb.String())
	require.Greater(t, len(in.Quote.PayFields), 40)

	doc, err := NewRenderer(30).Render(context.Background(), in)
	require.NoError(t, err)

	r, err := pdfreader.NewReader(bytes.NewReader(doc.Bytes), int64(len(doc.Bytes)))
	require.NoError(t, err)
	assert.Greater(t, r.NumPage(), 1)
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRenderer(30).Render(ctx, renderInput(t, "Gross Monthly Salary USD 3000"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	assert.Error(t, Verify(nil))
	assert.Error(t, Verify([]byte("definitely not a pdf")))
}
