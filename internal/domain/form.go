package domain

import (
	"fmt"
	"math"
	"strings"
)

// Validate checks the fields the operator must provide before uploading screenshots.
func (f FormData) Validate() error {
	switch {
	case strings.TrimSpace(f.Country) == "":
		return fmt.Errorf("%w: country is required", ErrInvalidForm)
	case strings.TrimSpace(f.AEName) == "":
		return fmt.Errorf("%w: AE name is required", ErrInvalidForm)
	case strings.TrimSpace(f.ClientName) == "":
		return fmt.Errorf("%w: client name is required", ErrInvalidForm)
	case !f.QuoteCurrency.Valid():
		return fmt.Errorf("%w: quote currency must be USD or Local", ErrInvalidForm)
	case f.EORFeeUSD < 0 || math.IsNaN(f.EORFeeUSD) || math.IsInf(f.EORFeeUSD, 0):
		return fmt.Errorf("%w: EOR fee must be a non-negative amount", ErrInvalidForm)
	}
	return nil
}
