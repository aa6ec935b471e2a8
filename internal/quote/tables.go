package quote

import (
	"quotegen/internal/classifier"
	"quotegen/internal/domain"
)

// Section identifies one of the three quote tables.
type Section string

const (
	SectionPay      Section = "pay"
	SectionEmployee Section = "employee"
	SectionSetup    Section = "setup"
)

// Row is one displayed table row.
type Row struct {
	Label      string  `json:"label"`
	Local      float64 `json:"local"`
	USD        float64 `json:"usd"`
	Emphasized bool    `json:"emphasized"`
}

// Table is a quote table ready for display or export. Total is nil for tables shown without a
// total row.
type Table struct {
	Section Section `json:"section"`
	Title   string  `json:"title"`
	Rows    []Row   `json:"rows"`
	Total   *Total  `json:"total,omitempty"`
}

// Tables lays out the quote as the three tables every document shows. Row tags are derived from
// the labels on each call.
func Tables(q domain.QuoteData) []Table {
	pay := Table{Section: SectionPay, Title: "Amount You Pay", Rows: rows(q.PayFields, domain.TablePay)}
	if len(q.PayFields) > 0 {
		t := PayTableTotal(q.PayFields)
		pay.Total = &t
	}

	employee := Table{Section: SectionEmployee, Title: "Amount Employee Gets", Rows: rows(q.EmployeeFields, domain.TableEmployee)}

	setup := Table{Section: SectionSetup, Title: "Setup Summary", Rows: make([]Row, 0, len(q.SetupSummary))}
	for _, f := range q.SetupSummary {
		setup.Rows = append(setup.Rows, Row{Label: f.Label, Local: f.LocalAmount, USD: f.USDAmount})
	}
	if len(q.SetupSummary) > 0 {
		t := SummaryTotal(q.SetupSummary)
		setup.Total = &t
	}

	return []Table{pay, employee, setup}
}

func rows(fields []domain.ConvertedField, table domain.TableType) []Row {
	out := make([]Row, 0, len(fields))
	for _, f := range fields {
		out = append(out, Row{
			Label:      f.Label,
			Local:      f.LocalAmount,
			USD:        f.USDAmount,
			Emphasized: classifier.Classify(f.Label, table).Emphasized(table),
		})
	}
	return out
}
