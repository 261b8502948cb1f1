package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	natsadapter "github.com/storefront-kit/cart-service/internal/adapter/nats"
	"github.com/storefront-kit/cart-service/internal/domain/entity"
	"github.com/storefront-kit/cart-service/internal/platform/logger"
	"github.com/storefront-kit/cart-service/internal/repository"
)

type AnalyticsService interface {
	// Deliver forwards the event to the analytics pipeline at most once per
	// event id, no matter how often the same event is handed in.
	Deliver(ctx context.Context, event *entity.LinesAddEvent) error
}

type analyticsService struct {
	events    repository.EventRepository
	publisher natsadapter.EventPublisher
	log       logger.Logger

	mu              sync.Mutex
	lastDeliveredID string
}

func NewAnalyticsService(events repository.EventRepository, publisher natsadapter.EventPublisher, log logger.Logger) AnalyticsService {
	return &analyticsService{
		events:    events,
		publisher: publisher,
		log:       log,
	}
}

func (s *analyticsService) Deliver(ctx context.Context, event *entity.LinesAddEvent) error {
	if event == nil {
		return nil
	}

	// Edge-triggered: only an id different from the last delivered one
	// passes. Re-renders handing in the same event become no-ops.
	s.mu.Lock()
	if s.lastDeliveredID == event.ID {
		s.mu.Unlock()
		s.log.Debugf("Event %s already delivered, suppressing", event.ID)
		return nil
	}
	s.lastDeliveredID = event.ID
	s.mu.Unlock()

	if err := s.events.SaveOnce(ctx, event); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			// Already archived by an earlier delivery, possibly before a
			// restart. Keep at-most-once and stop here.
			s.log.Debugf("Event %s already archived, suppressing", event.ID)
			return nil
		}
		return fmt.Errorf("could not archive event %s: %w", event.ID, err)
	}

	if err := s.publisher.PublishLinesAdd(ctx, event); err != nil {
		return fmt.Errorf("could not publish event %s: %w", event.ID, err)
	}

	s.log.Infof("Delivered analytics event %s with %d lines added", event.ID, len(event.Payload.LinesAdded))
	return nil
}
