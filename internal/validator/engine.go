package validator

import (
	"context"
	"fmt"
	"log"

	"quotegen/internal/domain"
)

// Report collects the results of one validation run.
type Report struct {
	Results  []Result `json:"results"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
}

// Failures returns the failed results only.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// Engine runs every registered rule against a quote.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new validation engine. A nil registry selects the built-in rules.
func NewEngine(registry *Registry) *Engine {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Engine{registry: registry}
}

// Validate runs all rules. It returns the report together with an error wrapping
// domain.ErrInconsistentQuote when any error-severity rule failed.
func (e *Engine) Validate(ctx context.Context, q *domain.QuoteData) (*Report, error) {
	report := &Report{}
	var firstFailure string

	for _, v := range e.registry.All() {
		for _, res := range v.Validate(ctx, q) {
			report.Results = append(report.Results, res)
			if res.Passed {
				continue
			}
			if res.Severity == SeverityError {
				report.Errors++
				if firstFailure == "" {
					firstFailure = res.Message
				}
			} else {
				report.Warnings++
			}
		}
	}

	log.Printf("validator.Engine: %d results, %d errors, %d warnings",
		len(report.Results), report.Errors, report.Warnings)

	if report.Errors > 0 {
		return report, fmt.Errorf("%w: %s", domain.ErrInconsistentQuote, firstFailure)
	}
	return report, nil
}
