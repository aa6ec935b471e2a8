// Package pdf renders a computed quote into the branded A4 quote document.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-pdf/fpdf"

	"quotegen/internal/domain"
	"quotegen/internal/export"
	"quotegen/internal/format"
	"quotegen/internal/port"
	"quotegen/internal/quote"
)

// ContentType of every rendered document.
const ContentType = "application/pdf"

// Page geometry in points.
const (
	pageWidth     = 595.28
	pageHeight    = 841.89
	margin        = 40.0
	headerHeight  = 80.0
	headingHeight = 35.0
	rowHeight     = 28.0
	footerHeight  = 200.0
	contentWidth  = pageWidth - 2*margin
)

type rgb struct{ r, g, b int }

var (
	ontopPink = rgb{255, 90, 113}
	lightPink = rgb{255, 241, 243}
	blueBG    = rgb{235, 245, 255}
	textDark  = rgb{26, 26, 26}
	textLight = rgb{74, 85, 104}
	noteBlue  = rgb{43, 75, 128}
	slate     = rgb{100, 116, 139}
	rowShade  = rgb{249, 250, 251}
	totalFill = rgb{243, 244, 246}
	white     = rgb{255, 255, 255}
)

var sectionColors = map[quote.Section]rgb{
	quote.SectionPay:      ontopPink,
	quote.SectionEmployee: {22, 163, 74},
	quote.SectionSetup:    {37, 99, 235},
}

// Renderer produces quote PDFs.
type Renderer struct {
	validDays int
}

// NewRenderer creates a renderer whose quotes stay valid for validDays.
func NewRenderer(validDays int) *Renderer {
	if validDays <= 0 {
		validDays = 30
	}
	return &Renderer{validDays: validDays}
}

// Render lays out the quote and verifies the produced file. Any failure wraps
// domain.ErrRenderFailed; the input is never modified.
func (r *Renderer) Render(ctx context.Context, in port.RenderInput) (*port.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	at := in.GeneratedAt
	if at.IsZero() {
		at = time.Now()
	}

	doc := fpdf.NewCustom(&fpdf.InitType{OrientationStr: "P", UnitStr: "pt", SizeStr: "A4"})
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(false, margin)
	doc.SetTitle(fmt.Sprintf("Ontop Quote - %s", in.Form.ClientName), true)
	doc.SetAuthor(in.Form.AEName, true)
	doc.SetCreator("Ontop Quote Generator", true)

	l := &layout{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
	doc.AddPage()
	l.header(in.Form, at.AddDate(0, 0, r.validDays))
	l.y = headerHeight + margin

	for _, t := range quote.Tables(in.Quote) {
		l.table(t, in.Quote.LocalCurrency)
	}
	if note := format.ExchangeNote(in.Quote.LocalCurrency, in.Quote.ExchangeRate); note != "" {
		l.exchangeNote(note)
	}
	l.footer(in.Quote, at)

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	if err := Verify(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}

	name := export.FileName(in.Form.ClientName, at, "pdf")
	log.Printf("pdf.Renderer.Render: %s (%d bytes, %d pages)", name, buf.Len(), doc.PageNo())
	return &port.Document{FileName: name, ContentType: ContentType, Bytes: buf.Bytes()}, nil
}

type layout struct {
	doc *fpdf.Fpdf
	tr  func(string) string
	y   float64
}

func (l *layout) fill(c rgb)  { l.doc.SetFillColor(c.r, c.g, c.b) }
func (l *layout) color(c rgb) { l.doc.SetTextColor(c.r, c.g, c.b) }

func (l *layout) ensure(h float64) {
	if l.y+h > pageHeight-margin {
		l.doc.AddPage()
		l.y = margin
	}
}

func (l *layout) header(form domain.FormData, validUntil time.Time) {
	d := l.doc
	l.fill(ontopPink)
	d.Rect(0, 0, pageWidth, headerHeight, "F")

	l.fill(white)
	d.RoundedRect(margin, (headerHeight-32)/2, 32, 32, 4, "1234", "F")

	l.color(white)
	d.SetFont("Helvetica", "B", 18)
	d.Text(margin+48, headerHeight/2-2, "Ontop")
	d.SetFont("Helvetica", "", 10)
	d.Text(margin+48, headerHeight/2+12, "Global Employment Solutions")

	lines := []string{
		"Quote Sender: " + form.AEName,
		"Client Name: " + form.ClientName,
		"Valid Until: " + validUntil.Format("01/02/2006"),
	}
	for i, s := range lines {
		d.SetXY(pageWidth/2, 22+float64(i)*14)
		d.CellFormat(pageWidth/2-margin, 12, l.tr(s), "", 0, "R", false, 0, "")
	}
}

func (l *layout) table(t quote.Table, localCurrency string) {
	d := l.doc
	cols := []float64{contentWidth * 0.5, contentWidth * 0.25, contentWidth * 0.25}

	l.ensure(headingHeight + 2*rowHeight)

	l.fill(sectionColors[t.Section])
	l.color(white)
	d.SetFont("Helvetica", "B", 12)
	d.SetXY(margin, l.y)
	d.CellFormat(contentWidth, headingHeight, "  "+l.tr(t.Title), "", 0, "L", true, 0, "")
	l.y += headingHeight

	if len(t.Rows) == 0 {
		l.color(textLight)
		d.SetFont("Helvetica", "I", 8)
		d.SetXY(margin, l.y)
		d.CellFormat(contentWidth, rowHeight, "No data available for this section", "1", 0, "C", false, 0, "")
		l.y += rowHeight + 16
		return
	}

	l.fill(rowShade)
	l.color(textDark)
	d.SetFont("Helvetica", "B", 8)
	d.SetXY(margin, l.y)
	d.CellFormat(cols[0], rowHeight, "  Description", "B", 0, "L", true, 0, "")
	d.CellFormat(cols[1], rowHeight, fmt.Sprintf("Local (%s)  ", localCurrency), "B", 0, "R", true, 0, "")
	d.CellFormat(cols[2], rowHeight, "USD  ", "B", 0, "R", true, 0, "")
	l.y += rowHeight

	for _, row := range t.Rows {
		l.ensure(rowHeight)
		style := ""
		if row.Emphasized {
			style = "B"
			l.fill(lightPink)
		}
		l.row(cols, row.Label, row.Local, row.USD, localCurrency, style, row.Emphasized)
	}
	if t.Total != nil {
		l.ensure(rowHeight)
		l.fill(totalFill)
		l.row(cols, "Total", t.Total.Local, t.Total.USD, localCurrency, "B", true)
	}
	l.y += 16
}

func (l *layout) row(cols []float64, label string, local, usd float64, currency, style string, filled bool) {
	d := l.doc
	l.color(textDark)
	d.SetFont("Helvetica", style, 8)
	d.SetXY(margin, l.y)
	d.CellFormat(cols[0], rowHeight, "  "+l.tr(label), "B", 0, "L", filled, 0, "")
	d.CellFormat(cols[1], rowHeight, fmt.Sprintf("%s %s  ", format.Amount(local), currency), "B", 0, "R", filled, 0, "")
	d.CellFormat(cols[2], rowHeight, fmt.Sprintf("%s USD  ", format.Amount(usd)), "B", 0, "R", filled, 0, "")
	l.y += rowHeight
}

func (l *layout) exchangeNote(note string) {
	d := l.doc
	l.ensure(2 * rowHeight)
	l.fill(blueBG)
	l.color(noteBlue)
	d.SetXY(margin, l.y)
	d.SetFont("Helvetica", "B", 8)
	d.CellFormat(contentWidth, 18, "  Exchange Rate: "+note, "", 2, "L", true, 0, "")
	d.SetX(margin)
	d.SetFont("Helvetica", "I", 8)
	d.CellFormat(contentWidth, 18, "  Rates are indicative and may vary. Contracts are always processed in local currency.", "", 0, "L", true, 0, "")
	l.y += 36 + 16
}

func (l *layout) footer(q domain.QuoteData, at time.Time) {
	d := l.doc
	l.ensure(footerHeight)

	ratesOn := at.Format("01/02/2006")
	if q.RatesDate != "" {
		ratesOn = q.RatesDate
	}
	notes := []string{
		fmt.Sprintf("Currency conversions based on rates on %s, may vary; contracts always in local currency.", ratesOn),
		"Setup Cost = one month's salary (Security Deposit) + Ontop fee; secures Ontop against potential defaults.",
		"Dismissal Deposit = one-twelfth of salary, provisioned for future termination costs.",
	}

	l.fill(blueBG)
	d.Rect(margin, l.y, contentWidth, 130, "F")

	l.color(noteBlue)
	d.SetFont("Helvetica", "B", 10)
	d.SetXY(margin+24, l.y+16)
	d.CellFormat(contentWidth-48, 14, "Important Notes:", "", 2, "L", false, 0, "")
	d.SetFont("Helvetica", "", 8)
	for _, n := range notes {
		d.SetX(margin + 24)
		d.MultiCell(contentWidth-48, 12, l.tr("• "+n), "", "L", false)
		d.Ln(4)
	}

	l.color(slate)
	d.SetFont("Helvetica", "", 7)
	d.SetX(margin + 24)
	d.CellFormat(contentWidth-48, 12, l.tr("Generated by Ontop Quote Generator • "+at.Format("01/02/2006")), "", 0, "L", false, 0, "")
	l.y += 130 + 16
}
