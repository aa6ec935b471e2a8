package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"quotegen/internal/classifier"
	"quotegen/internal/domain"
	"quotegen/internal/format"
	"quotegen/internal/quote"
)

const summarySheet = "Summary"

// WriteXLSX writes a workbook with a summary sheet and one sheet per quote table.
func WriteXLSX(out io.Writer, q domain.QuoteData, form domain.FormData) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("renaming summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating bold style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("creating number style: %w", err)
	}
	boldMoney, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 4})
	if err != nil {
		return fmt.Errorf("creating bold number style: %w", err)
	}

	summary := [][]any{
		{"Client Name", form.ClientName},
		{"Quote Sender", form.AEName},
		{"Country", form.Country},
		{"Local Currency", q.LocalCurrency},
		{"Quote Currency", string(q.QuoteCurrency)},
		{"Exchange Rate (USD to local)", format.ExchangeRate(q.ExchangeRate)},
		{"Rates Date", q.RatesDate},
		{"Rates Source", string(q.RatesSource)},
		{"Total You Pay (" + q.LocalCurrency + ")", q.TotalYouPay},
		{"Total You Pay (USD)", q.TotalYouPayUSD},
		{"Classifier Catalog", classifier.CatalogVersion},
	}
	for i, row := range summary {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, cell(1, i+1), cell(1, i+1), bold); err != nil {
			return err
		}
	}
	if note := format.ExchangeNote(q.LocalCurrency, q.ExchangeRate); note != "" {
		if err := setRow(f, summarySheet, len(summary)+2, []any{"Exchange Rate", note}); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 32); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 28); err != nil {
		return err
	}

	for _, t := range quote.Tables(q) {
		if _, err := f.NewSheet(t.Title); err != nil {
			return fmt.Errorf("creating sheet %q: %w", t.Title, err)
		}
		header := []any{"Description", "Local (" + q.LocalCurrency + ")", "USD"}
		if err := setRow(f, t.Title, 1, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(t.Title, cell(1, 1), cell(3, 1), bold); err != nil {
			return err
		}

		row := 2
		for _, r := range t.Rows {
			if err := setRow(f, t.Title, row, []any{r.Label, r.Local, r.USD}); err != nil {
				return err
			}
			style := money
			if r.Emphasized {
				style = boldMoney
			}
			if err := f.SetCellStyle(t.Title, cell(2, row), cell(3, row), style); err != nil {
				return err
			}
			row++
		}
		if t.Total != nil {
			if err := setRow(f, t.Title, row, []any{"Total", t.Total.Local, t.Total.USD}); err != nil {
				return err
			}
			if err := f.SetCellStyle(t.Title, cell(1, row), cell(3, row), boldMoney); err != nil {
				return err
			}
		}
		if err := f.SetColWidth(t.Title, "A", "A", 40); err != nil {
			return err
		}
		if err := f.SetColWidth(t.Title, "B", "C", 18); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		if err := f.SetCellValue(sheet, cell(i+1, row), v); err != nil {
			return fmt.Errorf("setting %s!%s: %w", sheet, cell(i+1, row), err)
		}
	}
	return nil
}
