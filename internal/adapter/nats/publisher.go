package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/storefront-kit/cart-service/internal/domain/entity"
)

const (
	SubjectLinesAdd = "cart.lines_add"
)

type EventPublisher interface {
	PublishLinesAdd(ctx context.Context, event *entity.LinesAddEvent) error
}

type natsPublisher struct {
	conn *nats.Conn
}

func NewEventPublisher(conn *nats.Conn) (EventPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("NATS connection cannot be nil")
	}
	return &natsPublisher{
		conn: conn,
	}, nil
}

func (p *natsPublisher) PublishLinesAdd(ctx context.Context, event *entity.LinesAddEvent) error {
	if p.conn == nil {
		return fmt.Errorf("NATS connection is not initialized")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s for subject %s: %w", event.ID, SubjectLinesAdd, err)
	}

	if err := p.conn.Publish(SubjectLinesAdd, data); err != nil {
		return fmt.Errorf("failed to publish event %s to NATS subject %s: %w", event.ID, SubjectLinesAdd, err)
	}

	return nil
}
