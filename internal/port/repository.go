package port

import (
	"context"

	"github.com/google/uuid"

	"quotegen/internal/domain"
)

// SessionMutation derives the next session value from the current one.
type SessionMutation func(current domain.Session) (domain.Session, error)

// SessionRepository stores wizard sessions. Stored values are replaced wholesale, never patched.
type SessionRepository interface {
	Create(ctx context.Context, s domain.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Session, error)
	// Update applies fn atomically; when fn fails the stored session is left untouched.
	Update(ctx context.Context, id uuid.UUID, fn SessionMutation) (domain.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

// SessionEvictions is implemented by stores that drop sessions on their own, such as on expiry.
type SessionEvictions interface {
	OnEvict(fn func(id uuid.UUID))
}
