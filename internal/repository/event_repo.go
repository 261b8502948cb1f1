package repository

import (
	"context"

	"github.com/storefront-kit/cart-service/internal/domain/entity"
)

type EventRepository interface {
	// SaveOnce persists the event keyed by its id. Saving an id a second
	// time returns ErrAlreadyExists, which makes redelivered events
	// idempotent across process restarts.
	SaveOnce(ctx context.Context, event *entity.LinesAddEvent) error
}
