package storage

import (
	"encoding/json"
	"errors"
	"time"

	"projectpulse/backend/internal/config"
	"projectpulse/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// PublishPushEvent publishes a committed notification to Redis Pub/Sub for
// the websocket hub. Called after the transaction commits, never inside it.
func (s *Service) PublishPushEvent(ev models.PushEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, config.PushChannel, payload).Err()
}

// SubscribePushEvents subscribes to the push channel. Consumed by the hub.
func (s *Service) SubscribePushEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, config.PushChannel)
}

// CacheGet returns the cached value, or "" on a miss.
func (s *Service) CacheGet(key string) (string, error) {
	val, err := s.Redis.Get(s.Ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *Service) CacheSet(key, value string, ttl time.Duration) error {
	return s.Redis.Set(s.Ctx, key, value, ttl).Err()
}
