package repository

import (
	"context"
	"time"

	"github.com/storefront-kit/cart-service/internal/session"
)

type SessionRepository interface {
	// Load returns ErrNotFound for an unknown id; the caller starts a fresh
	// session in that case.
	Load(ctx context.Context, id string) (*session.Session, error)
	Save(ctx context.Context, sess *session.Session, ttl time.Duration) error
}
