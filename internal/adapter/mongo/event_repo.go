package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront-kit/cart-service/internal/app/config"
	"github.com/storefront-kit/cart-service/internal/domain/entity"
	"github.com/storefront-kit/cart-service/internal/repository"
)

const (
	eventCollectionName = "cart_events"
)

type eventDocument struct {
	EventID   string                 `bson:"event_id"`
	Type      string                 `bson:"type"`
	Payload   entity.LinesAddPayload `bson:"payload"`
	CreatedAt time.Time              `bson:"created_at"`
}

type eventRepository struct {
	collection *mongo.Collection
}

// NewEventRepository archives analytics events. The unique index on event_id
// turns repeated saves of the same event into repository.ErrAlreadyExists.
func NewEventRepository(ctx context.Context, client *mongo.Client, cfg config.MongoDBConfig) (repository.EventRepository, error) {
	collection := client.Database(cfg.Database).Collection(eventCollectionName)

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "event_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create unique index on %s: %w", eventCollectionName, err)
	}

	return &eventRepository{
		collection: collection,
	}, nil
}

func (r *eventRepository) SaveOnce(ctx context.Context, event *entity.LinesAddEvent) error {
	doc := eventDocument{
		EventID:   event.ID,
		Type:      event.Type,
		Payload:   event.Payload,
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("failed to save event %s: %w", event.ID, err)
	}
	return nil
}
