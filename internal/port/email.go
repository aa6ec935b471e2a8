package port

import "context"

// QuoteEmail is the content of a quote delivery e-mail.
type QuoteEmail struct {
	ToEmail    string
	ToName     string
	SenderName string
	ClientName string
	FileName   string
	Link       string
}

// QuoteMailer defines the contract for e-mailing a published quote.
type QuoteMailer interface {
	SendQuoteLink(ctx context.Context, msg QuoteEmail) error
}
