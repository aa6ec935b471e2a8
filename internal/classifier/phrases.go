package classifier

import "quotegen/internal/domain"

// CatalogVersion identifies the phrase lists below. Bump it whenever a list changes; XLSX
// exports record it on their summary sheet.
const CatalogVersion = "2024-06"

var paySubtotals = []string{
	"total employer contribution",
	"total monthly cost",
	"total employment cost",
	"extra mandatory payments",
}

var employeeSubtotals = []string{
	"total employee contribution",
	"extra mandatory payments",
	"income tax",
}

// severanceSpellings covers the label and the OCR misreadings seen in competitor screenshots.
var severanceSpellings = []string{
	"severance",
	"sevarance",
	"severence",
	"sevarence",
}

var grossSalaryPhrases = []string{
	"gross monthly salary",
	"total gross monthly salary",
}

var totalEmploymentCostPhrases = []string{
	"total employment cost",
	"total monthly cost",
}

// Subtotals returns a copy of the subtotal phrases for a table.
func Subtotals(table domain.TableType) []string {
	src := paySubtotals
	if table == domain.TableEmployee {
		src = employeeSubtotals
	}
	return append([]string(nil), src...)
}

// SeveranceSpellings returns a copy of the recognized severance spellings.
func SeveranceSpellings() []string {
	return append([]string(nil), severanceSpellings...)
}
