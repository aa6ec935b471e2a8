package port

import (
	"context"
	"time"

	"quotegen/internal/domain"
)

// RenderInput is everything a quote document shows.
type RenderInput struct {
	Quote       domain.QuoteData
	Form        domain.FormData
	GeneratedAt time.Time
}

// Document is a rendered, downloadable file.
type Document struct {
	FileName    string
	ContentType string
	Bytes       []byte
}

// DocumentRenderer renders a quote into a document.
type DocumentRenderer interface {
	Render(ctx context.Context, input RenderInput) (*Document, error)
}
