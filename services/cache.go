package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"market-demand-api/config"

	"github.com/redis/go-redis/v9"
)

// PredictionChannel carries every served prediction for live dashboard
// subscribers.
const PredictionChannel = "market:predictions"

// CacheService caches computed dashboard views in redis and fans served
// predictions out over pub/sub. A nil client means redis is down; the
// service degrades to pass-through rather than failing requests.
type CacheService struct {
	client *redis.Client
}

func NewCacheService(cfg config.RedisConfig) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	var lastErr error
	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		lastErr = client.Ping(ctx).Err()
		cancel()
		if lastErr == nil {
			return &CacheService{client: client}, nil
		}
		log.Printf("redis ping attempt %d/5 failed: %v", i+1, lastErr)
		time.Sleep(2 * time.Second)
	}

	return &CacheService{client: nil}, fmt.Errorf("redis ping failed after 5 attempts: %w", lastErr)
}

// NewDisabledCache returns a cache that never hits redis. Used when redis
// is unreachable at startup and by tests.
func NewDisabledCache() *CacheService {
	return &CacheService{}
}

func (s *CacheService) Available() bool {
	return s.client != nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	if s.client == nil {
		return redis.Nil
	}
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Delete(ctx context.Context, key string) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, key).Err()
}

// PublishPrediction pushes a served prediction onto the live channel.
func (s *CacheService) PublishPrediction(ctx context.Context, prediction interface{}) error {
	if s.client == nil {
		return nil
	}
	data, err := json.Marshal(prediction)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, PredictionChannel, data).Err()
}

// SubscribePredictions subscribes to the live prediction channel.
func (s *CacheService) SubscribePredictions(ctx context.Context) *redis.PubSub {
	if s.client == nil {
		return nil
	}
	return s.client.Subscribe(ctx, PredictionChannel)
}

func (s *CacheService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
