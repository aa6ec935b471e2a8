package port

import (
	"context"
	"time"
)

// StoredDocument is a rendered document placed in object storage for sharing.
type StoredDocument struct {
	Bucket   string
	Key      string
	Document Document
}

// ObjectStorage keeps published quote documents and signs time-limited links to them.
type ObjectStorage interface {
	// Put stores the document and returns its storage location.
	Put(ctx context.Context, obj StoredDocument) (string, error)
	PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
