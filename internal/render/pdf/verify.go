package pdf

import (
	"bytes"
	"errors"
	"fmt"

	pdfreader "github.com/ledongthuc/pdf"
)

// Verify opens a rendered document and checks that it has at least one page.
func Verify(b []byte) error {
	if len(b) == 0 {
		return errors.New("empty document")
	}
	r, err := pdfreader.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return fmt.Errorf("reading rendered document: %w", err)
	}
	if r.NumPage() < 1 {
		return errors.New("rendered document has no pages")
	}
	return nil
}
