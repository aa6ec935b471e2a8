// Package validator runs arithmetic consistency rules against a computed quote.
package validator

import (
	"context"

	"quotegen/internal/domain"
)

// Severity decides whether a failing rule rejects the quote.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Result is the outcome of one check on one field path.
type Result struct {
	RuleKey  string   `json:"ruleKey"`
	Severity Severity `json:"severity"`
	Passed   bool     `json:"passed"`
	// FieldPath points into the quote, e.g. "payFields[2].usdAmount".
	FieldPath string `json:"fieldPath"`
	Expected  string `json:"expected"`
	Actual    string `json:"actual"`
	Message   string `json:"message"`
}

// Validator is a single named rule.
type Validator interface {
	Validate(ctx context.Context, q *domain.QuoteData) []Result
	RuleKey() string
	RuleName() string
	Severity() Severity
}
