package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storefront-kit/cart-service/internal/repository"
	"github.com/storefront-kit/cart-service/internal/session"
)

const (
	sessionKeyPrefix = "session:"
)

type sessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) repository.SessionRepository {
	return &sessionRepository{
		client: client,
	}
}

func (r *sessionRepository) getSessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (r *sessionRepository) Load(ctx context.Context, id string) (*session.Session, error) {
	key := r.getSessionKey(id)
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session %s from redis: %w", id, err)
	}

	var sess session.Session
	err = json.Unmarshal([]byte(val), &sess)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data for %s: %w", id, err)
	}
	return &sess, nil
}

func (r *sessionRepository) Save(ctx context.Context, sess *session.Session, ttl time.Duration) error {
	if sess == nil || sess.ID == "" {
		return errors.New("cannot save nil session or session with empty id")
	}

	key := r.getSessionKey(sess.ID)

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", sess.ID, err)
	}

	err = r.client.Set(ctx, key, data, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to save session %s to redis: %w", sess.ID, err)
	}
	return nil
}
