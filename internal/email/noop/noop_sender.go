package noop

import (
	"context"
	"log"

	"quotegen/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a QuoteMailer that only logs the quote link.
func NewNoopSender() port.QuoteMailer {
	return &noopSender{}
}

func (s *noopSender) SendQuoteLink(_ context.Context, msg port.QuoteEmail) error {
	log.Printf("[NOOP EMAIL] Quote %s for %s (%s): %s", msg.FileName, msg.ToName, msg.ToEmail, msg.Link)
	return nil
}
