package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrTooManySessions      = errors.New("too many active sessions")
	ErrInvalidForm          = errors.New("invalid quote form")
	ErrInvalidTransition    = errors.New("action not allowed in current wizard step")
	ErrSlotNotReady         = errors.New("screenshot recognition has not finished")
	ErrQuoteNotReady        = errors.New("quote has not been calculated yet")
	ErrUnsupportedImage     = errors.New("unsupported image type")
	ErrImageTooLarge        = errors.New("image exceeds maximum allowed size")
	ErrRecognitionFailed    = errors.New("text recognition failed")
	ErrRenderFailed         = errors.New("quote document generation failed")
	ErrDeliveryFailed       = errors.New("quote delivery failed")
	ErrInconsistentQuote    = errors.New("computed quote failed consistency checks")
	ErrRateFetchFailed      = errors.New("exchange rate fetch failed")
	ErrMissingRequiredField = errors.New("required field missing")
)

// MissingRequiredFieldError reports a mandatory field that could not be located in a screenshot.
type MissingRequiredFieldError struct {
	Field       string
	Screenshot  TableType
	Remediation string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("could not find %s in the %s screenshot: %s", e.Field, e.Screenshot, e.Remediation)
}

// Is lets errors.Is match ErrMissingRequiredField.
func (e *MissingRequiredFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// UserMessage is the remediation text shown to the operator.
func (e *MissingRequiredFieldError) UserMessage() string {
	return fmt.Sprintf("Could not find %s in the Amount You Pay screenshot. %s", e.Field, e.Remediation)
}

// GrossSalaryLabel is the canonical label of the pay screenshot's anchor field.
const GrossSalaryLabel = "Gross Monthly Salary"

// ErrMissingGrossSalary returns the error raised when a pay screenshot has no gross monthly salary.
func ErrMissingGrossSalary() error {
	return &MissingRequiredFieldError{
		Field:       GrossSalaryLabel,
		Screenshot:  TablePay,
		Remediation: "Please ensure the screenshot contains a clear 'Gross Monthly Salary' field.",
	}
}
