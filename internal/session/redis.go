package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tindahan/pos-backend/internal/entity"
)

// cartTTL bounds how long an abandoned cart survives a terminal crash.
const cartTTL = 12 * time.Hour

// RedisStore keeps carts in Redis so a terminal can resume its session
// after a reconnect and multiple backend instances see the same cart.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func cartKey(terminalID string) string {
	return "pos:cart:" + terminalID
}

func (s *RedisStore) Load(ctx context.Context, terminalID string) (*entity.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(terminalID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for terminal %s: %w", terminalID, err)
	}

	var cart entity.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart for terminal %s: %w", terminalID, err)
	}
	return &cart, nil
}

func (s *RedisStore) Save(ctx context.Context, terminalID string, cart *entity.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(terminalID), data, cartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart for terminal %s: %w", terminalID, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, terminalID string) error {
	if err := s.client.Del(ctx, cartKey(terminalID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart for terminal %s: %w", terminalID, err)
	}
	return nil
}
